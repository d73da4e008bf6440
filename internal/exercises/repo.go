package exercises

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

const exerciseColumns = `id, name, image, tips, equipment, default_favorite, muscle_id, created_at`

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
	}
}

// Add inserts the exercise and its secondary muscles. Callers run it in a
// transaction, otherwise a failed secondary insert leaves the exercise behind.
func (r *Repo) Add(ctx context.Context, exercise Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	conn := db.ConnFromContext(ctx, r.pool)
	if _, err := conn.Exec(
		ctx,
		`INSERT INTO exercise (`+exerciseColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		exercise.ID, exercise.Name, exercise.Image, exercise.Tips, exercise.Equipment,
		exercise.DefaultFavorite, exercise.PrimaryMuscleID, exercise.CreatedAt,
	); err != nil {
		return apperr.FromDB(err, "exercise")
	}

	if len(exercise.SecondaryMuscleIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, muscleID := range exercise.SecondaryMuscleIDs {
		batch.Queue(
			`INSERT INTO exercise_secondary_muscle (exercise_id, muscle_id, position) VALUES ($1, $2, $3);`,
			exercise.ID, muscleID, i,
		)
	}

	br := conn.SendBatch(ctx, batch)
	for range exercise.SecondaryMuscleIDs {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return apperr.FromDB(err, "exercise secondary muscle")
		}
	}
	if err := br.Close(); err != nil {
		return apperr.FromDB(err, "exercise secondary muscle")
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercise WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, apperr.FromDB(err, "exercise")
	}

	exercise, err := pgx.CollectExactlyOneRow(rows, scanExercise)
	if err != nil {
		return nil, apperr.FromDB(err, "exercise")
	}

	withSecondaries, err := r.loadSecondaries(ctx, []Exercise{exercise})
	if err != nil {
		return nil, err
	}

	return &withSecondaries[0], nil
}

// List returns all exercises ordered by name.
func (r *Repo) List(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.query(ctx, `SELECT `+exerciseColumns+` FROM exercise ORDER BY name, id;`)
}

// ListByPrimaryMuscle returns the exercises whose primary muscle is muscleID,
// ordered by name. This is the listing order the ranker partitions.
func (r *Repo) ListByPrimaryMuscle(ctx context.Context, muscleID uuid.UUID) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.listByPrimaryMuscle")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("muscle_id", muscleID.String()))

	return r.query(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercise WHERE muscle_id = $1 ORDER BY name, id;`,
		muscleID,
	)
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]Exercise, error) {
	rows, err := db.ConnFromContext(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.FromDB(err, "exercises")
	}

	exercises, err := pgx.CollectRows(rows, scanExercise)
	if err != nil {
		return nil, apperr.FromDB(err, "exercises")
	}

	return r.loadSecondaries(ctx, exercises)
}

// loadSecondaries fills SecondaryMuscleIDs, in stored order, with one query
// for all given exercises.
func (r *Repo) loadSecondaries(ctx context.Context, exercises []Exercise) ([]Exercise, error) {
	if len(exercises) == 0 {
		return exercises, nil
	}

	ids := make([]uuid.UUID, 0, len(exercises))
	for _, e := range exercises {
		ids = append(ids, e.ID)
	}

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT exercise_id, muscle_id FROM exercise_secondary_muscle
				WHERE exercise_id = ANY($1)
				ORDER BY exercise_id, position;`,
		ids,
	)
	if err != nil {
		return nil, apperr.FromDB(err, "exercise secondary muscles")
	}
	defer rows.Close()

	secondaries := make(map[uuid.UUID][]uuid.UUID, len(exercises))
	for rows.Next() {
		var exerciseID, muscleID uuid.UUID
		if err := rows.Scan(&exerciseID, &muscleID); err != nil {
			return nil, fmt.Errorf("%w: scan secondary muscle: %w", apperr.ErrStorage, err)
		}
		secondaries[exerciseID] = append(secondaries[exerciseID], muscleID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromDB(err, "exercise secondary muscles")
	}

	for i := range exercises {
		exercises[i].SecondaryMuscleIDs = secondaries[exercises[i].ID]
	}

	return exercises, nil
}

func scanExercise(row pgx.CollectableRow) (Exercise, error) {
	var e Exercise
	err := row.Scan(
		&e.ID, &e.Name, &e.Image, &e.Tips, &e.Equipment,
		&e.DefaultFavorite, &e.PrimaryMuscleID, &e.CreatedAt,
	)
	e.CreatedAt = e.CreatedAt.UTC()
	return e, err
}
