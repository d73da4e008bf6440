package splits

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

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
	}
}

// ListByOwner returns the owner's splits, oldest first, without targets.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) (_ []Split, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.splits.listByOwner")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT id, owner_id, name, image, created_at FROM split
				WHERE owner_id = $1
				ORDER BY created_at, id;`,
		ownerID,
	)
	if err != nil {
		return nil, apperr.FromDB(err, "splits")
	}

	splits, err := pgx.CollectRows(rows, scanSplit)
	if err != nil {
		return nil, apperr.FromDB(err, "splits")
	}

	return splits, nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (_ *Split, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.splits.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT id, owner_id, name, image, created_at FROM split WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, apperr.FromDB(err, "split")
	}

	split, err := pgx.CollectExactlyOneRow(rows, scanSplit)
	if err != nil {
		return nil, apperr.FromDB(err, "split")
	}

	return &split, nil
}

// Add inserts the split and all its targets. Run it in a transaction so a
// failing target leaves nothing behind.
func (r *Repo) Add(ctx context.Context, split Split) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.splits.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	conn := db.ConnFromContext(ctx, r.pool)
	if _, err := conn.Exec(
		ctx,
		`INSERT INTO split (id, owner_id, name, image, created_at) VALUES ($1, $2, $3, $4, $5);`,
		split.ID, split.OwnerID, split.Name, split.Image, split.CreatedAt,
	); err != nil {
		return apperr.FromDB(err, "split")
	}

	batch := &pgx.Batch{}
	for i, target := range split.Targets {
		batch.Queue(
			`INSERT INTO split_muscle (split_id, muscle_id, exercise_count, position) VALUES ($1, $2, $3, $4);`,
			split.ID, target.MuscleID, target.ExerciseCount, i,
		)
	}

	br := conn.SendBatch(ctx, batch)
	for range split.Targets {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return apperr.FromDB(err, "split target")
		}
	}
	if err := br.Close(); err != nil {
		return apperr.FromDB(err, "split target")
	}

	return nil
}

// ListTargets fetches the targets of all given splits in one query, keyed by
// split id, each list in row order.
func (r *Repo) ListTargets(ctx context.Context, splitIDs []uuid.UUID) (_ map[uuid.UUID][]Target, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.splits.listTargets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("splits", len(splitIDs)))

	targets := make(map[uuid.UUID][]Target, len(splitIDs))
	if len(splitIDs) == 0 {
		return targets, nil
	}

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT split_id, muscle_id, exercise_count FROM split_muscle
				WHERE split_id = ANY($1)
				ORDER BY split_id, position;`,
		splitIDs,
	)
	if err != nil {
		return nil, apperr.FromDB(err, "split targets")
	}
	defer rows.Close()

	for rows.Next() {
		var splitID uuid.UUID
		var t Target
		if err := rows.Scan(&splitID, &t.MuscleID, &t.ExerciseCount); err != nil {
			return nil, fmt.Errorf("%w: scan split target: %w", apperr.ErrStorage, err)
		}
		targets[splitID] = append(targets[splitID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromDB(err, "split targets")
	}

	return targets, nil
}

// DeleteSessions removes the workout sessions started from the split.
func (r *Repo) DeleteSessions(ctx context.Context, splitID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.splits.deleteSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	conn := db.ConnFromContext(ctx, r.pool)
	if _, err := conn.Exec(
		ctx,
		`DELETE FROM workout_session_muscle
				WHERE session_id IN (SELECT id FROM workout_session WHERE split_id = $1);`,
		splitID,
	); err != nil {
		return apperr.FromDB(err, "workout session muscles")
	}

	_, err = conn.Exec(ctx, `DELETE FROM workout_session WHERE split_id = $1;`, splitID)
	return apperr.FromDB(err, "workout sessions")
}

func (r *Repo) DeleteTargets(ctx context.Context, splitID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.splits.deleteTargets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = db.ConnFromContext(ctx, r.pool).Exec(
		ctx,
		`DELETE FROM split_muscle WHERE split_id = $1;`,
		splitID,
	)
	return apperr.FromDB(err, "split targets")
}

func (r *Repo) Delete(ctx context.Context, splitID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.splits.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := db.ConnFromContext(ctx, r.pool).Exec(
		ctx,
		`DELETE FROM split WHERE id = $1;`,
		splitID,
	)
	if err != nil {
		return apperr.FromDB(err, "split")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: split", apperr.ErrNotFound)
	}
	return nil
}

func scanSplit(row pgx.CollectableRow) (Split, error) {
	var s Split
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Image, &s.CreatedAt)
	s.CreatedAt = s.CreatedAt.UTC()
	return s, err
}
