package sessions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/splits"
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

// Add inserts the session and its muscles. Run it in a transaction so a
// failing muscle row leaves no half-stored session.
func (r *Repo) Add(ctx context.Context, session Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("split_id", session.SplitID.String()))

	conn := db.ConnFromContext(ctx, r.pool)
	if _, err := conn.Exec(
		ctx,
		`INSERT INTO workout_session (id, owner_id, split_id, started_at) VALUES ($1, $2, $3, $4);`,
		session.ID, session.OwnerID, session.SplitID, session.StartedAt,
	); err != nil {
		return apperr.FromDB(err, "workout session")
	}

	batch := &pgx.Batch{}
	for i, m := range session.Muscles {
		batch.Queue(
			`INSERT INTO workout_session_muscle (session_id, muscle_id, exercise_count, position) VALUES ($1, $2, $3, $4);`,
			session.ID, m.MuscleID, m.ExerciseCount, i,
		)
	}

	br := conn.SendBatch(ctx, batch)
	for range session.Muscles {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return apperr.FromDB(err, "workout session muscle")
		}
	}
	if err := br.Close(); err != nil {
		return apperr.FromDB(err, "workout session muscle")
	}

	return nil
}

// ListByOwner returns the owner's sessions, newest first, without muscles.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.listByOwner")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT id, owner_id, split_id, started_at FROM workout_session
				WHERE owner_id = $1
				ORDER BY started_at DESC, id;`,
		ownerID,
	)
	if err != nil {
		return nil, apperr.FromDB(err, "workout sessions")
	}

	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Session, error) {
		var s Session
		err := row.Scan(&s.ID, &s.OwnerID, &s.SplitID, &s.StartedAt)
		s.StartedAt = s.StartedAt.UTC()
		return s, err
	})
	if err != nil {
		return nil, apperr.FromDB(err, "workout sessions")
	}

	return sessions, nil
}

// ListMuscles fetches the muscles of all given sessions, keyed by session id.
func (r *Repo) ListMuscles(ctx context.Context, sessionIDs []uuid.UUID) (_ map[uuid.UUID][]splits.Target, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.listMuscles")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("sessions", len(sessionIDs)))

	muscles := make(map[uuid.UUID][]splits.Target, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return muscles, nil
	}

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT session_id, muscle_id, exercise_count FROM workout_session_muscle
				WHERE session_id = ANY($1)
				ORDER BY session_id, position;`,
		sessionIDs,
	)
	if err != nil {
		return nil, apperr.FromDB(err, "workout session muscles")
	}
	defer rows.Close()

	for rows.Next() {
		var sessionID uuid.UUID
		var m splits.Target
		if err := rows.Scan(&sessionID, &m.MuscleID, &m.ExerciseCount); err != nil {
			return nil, fmt.Errorf("%w: scan workout session muscle: %w", apperr.ErrStorage, err)
		}
		muscles[sessionID] = append(muscles[sessionID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromDB(err, "workout session muscles")
	}

	return muscles, nil
}
