package exercises

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

type FavoritesRepo struct {
	pool *pgxpool.Pool
}

func NewFavoritesRepo(pool *pgxpool.Pool) *FavoritesRepo {
	return &FavoritesRepo{
		pool: pool,
	}
}

// FavoriteIDs returns the ids of the exercises the user marked, oldest mark first.
func (r *FavoritesRepo) FavoriteIDs(ctx context.Context, userID uuid.UUID) (_ []uuid.UUID, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.ids")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := db.ConnFromContext(ctx, r.pool).Query(
		ctx,
		`SELECT exercise_id FROM favorite_exercise WHERE user_id = $1 ORDER BY created_at, exercise_id;`,
		userID,
	)
	if err != nil {
		return nil, apperr.FromDB(err, "favorites")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, apperr.FromDB(err, "favorites")
	}

	return ids, nil
}

func (r *FavoritesRepo) IsFavorite(ctx context.Context, userID, exerciseID uuid.UUID) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.isFavorite")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exists bool
	if err := db.ConnFromContext(ctx, r.pool).QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM favorite_exercise WHERE user_id = $1 AND exercise_id = $2);`,
		userID, exerciseID,
	).Scan(&exists); err != nil {
		return false, apperr.FromDB(err, "favorite")
	}
	return exists, nil
}

func (r *FavoritesRepo) AddFavorite(ctx context.Context, userID, exerciseID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = db.ConnFromContext(ctx, r.pool).Exec(
		ctx,
		`INSERT INTO favorite_exercise (user_id, exercise_id) VALUES ($1, $2);`,
		userID, exerciseID,
	)
	return apperr.FromDB(err, "favorite")
}

func (r *FavoritesRepo) RemoveFavorite(ctx context.Context, userID, exerciseID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.favorites.remove")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := db.ConnFromContext(ctx, r.pool).Exec(
		ctx,
		`DELETE FROM favorite_exercise WHERE user_id = $1 AND exercise_id = $2;`,
		userID, exerciseID,
	)
	if err != nil {
		return apperr.FromDB(err, "favorite")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: favorite", apperr.ErrNotFound)
	}
	return nil
}
