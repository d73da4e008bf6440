package workouts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

const entryColumns = `id, user_id, exercise_id, reps, weights, logged_at`

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
	}
}

func (r *Repo) Add(ctx context.Context, entry Entry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = db.ConnFromContext(ctx, r.pool).Exec(
		ctx,
		`INSERT INTO workout (`+entryColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6);`,
		entry.ID, entry.UserID, entry.ExerciseID, entry.Reps, entry.Weights, entry.LoggedAt,
	)
	return apperr.FromDB(err, "workout")
}

// ListSince returns the user's entries logged at or after since, oldest first.
func (r *Repo) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listSince")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.query(
		ctx,
		`SELECT `+entryColumns+` FROM workout
				WHERE user_id = $1 AND logged_at >= $2
				ORDER BY logged_at, id;`,
		userID, since,
	)
}

// ListForExercise returns the user's history of one exercise, newest first.
func (r *Repo) ListForExercise(ctx context.Context, userID, exerciseID uuid.UUID) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listForExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_id", exerciseID.String()))

	return r.query(
		ctx,
		`SELECT `+entryColumns+` FROM workout
				WHERE user_id = $1 AND exercise_id = $2
				ORDER BY logged_at DESC, id;`,
		userID, exerciseID,
	)
}

// CountByPrimaryMuscleSince counts the user's entries logged at or after
// since, grouped by the primary muscle of the logged exercise. Muscles
// without entries are absent from the result.
func (r *Repo) CountByPrimaryMuscleSince(ctx context.Context, userID uuid.UUID, since time.Time) (_ map[uuid.UUID]int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.countByPrimaryMuscleSince")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT e.muscle_id, COUNT(*) FROM workout w
				JOIN exercise e ON e.id = w.exercise_id
				WHERE w.user_id = $1 AND w.logged_at >= $2
				GROUP BY e.muscle_id;`,
		userID, since.UTC(),
	)
	if err != nil {
		return nil, apperr.FromDB(err, "workout counts")
	}
	defer rows.Close()

	counts := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			muscleID uuid.UUID
			count    int
		)
		if err := rows.Scan(&muscleID, &count); err != nil {
			return nil, fmt.Errorf("%w: scan workout count: %w", apperr.ErrStorage, err)
		}
		counts[muscleID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromDB(err, "workout counts")
	}

	return counts, nil
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]Entry, error) {
	rows, err := db.ConnFromContext(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.FromDB(err, "workouts")
	}

	entries, err := pgx.CollectRows(rows, scanEntry)
	if err != nil {
		return nil, apperr.FromDB(err, "workouts")
	}

	return entries, nil
}

func scanEntry(row pgx.CollectableRow) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.UserID, &e.ExerciseID, &e.Reps, &e.Weights, &e.LoggedAt)
	e.LoggedAt = e.LoggedAt.UTC()
	return e, err
}
