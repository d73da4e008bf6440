package muscles

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

func (r *Repo) Add(ctx context.Context, muscle Muscle) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.muscles.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = db.ConnFromContext(ctx, r.pool).Exec(
		ctx,
		`INSERT INTO muscle (id, name, image) VALUES ($1, $2, $3);`,
		muscle.ID, muscle.Name, muscle.Image,
	)
	return apperr.FromDB(err, "muscle")
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (_ *Muscle, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.muscles.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	var m Muscle
	if err := db.ConnFromContext(ctx, r.pool).QueryRow(
		ctx,
		`SELECT id, name, image FROM muscle WHERE id = $1;`,
		id,
	).Scan(&m.ID, &m.Name, &m.Image); err != nil {
		return nil, apperr.FromDB(err, "muscle")
	}

	return &m, nil
}

func (r *Repo) List(ctx context.Context) (_ []Muscle, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.muscles.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT id, name, image FROM muscle ORDER BY name, id;`,
	)
	if err != nil {
		return nil, apperr.FromDB(err, "muscles")
	}

	muscles, err := pgx.CollectRows(rows, scanMuscle)
	if err != nil {
		return nil, apperr.FromDB(err, "muscles")
	}

	return muscles, nil
}

// GetByIDs resolves all given ids in one query. Ids that do not resolve are
// simply missing from the result.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) (_ map[uuid.UUID]Muscle, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.muscles.getByIDs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("ids", len(ids)))

	result := make(map[uuid.UUID]Muscle, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT id, name, image FROM muscle WHERE id = ANY($1);`,
		ids,
	)
	if err != nil {
		return nil, apperr.FromDB(err, "muscles")
	}

	muscles, err := pgx.CollectRows(rows, scanMuscle)
	if err != nil {
		return nil, fmt.Errorf("%w: collect muscles: %w", apperr.ErrStorage, err)
	}
	for _, m := range muscles {
		result[m.ID] = m
	}

	return result, nil
}

func scanMuscle(row pgx.CollectableRow) (Muscle, error) {
	var m Muscle
	err := row.Scan(&m.ID, &m.Name, &m.Image)
	return m, err
}
