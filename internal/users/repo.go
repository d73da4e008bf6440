package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
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

func (r *Repo) Add(ctx context.Context, user User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = db.ConnFromContext(ctx, r.pool).Exec(
		ctx,
		`INSERT INTO users (id, auth_id, email, name, password_hash, created_at)
				VALUES ($1, $2, $3, $4, $5, $6);`,
		user.ID, user.AuthID, user.Email, user.Name, user.PasswordHash, user.CreatedAt,
	)
	return apperr.FromDB(err, "user")
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id.String()))

	return r.getBy(ctx, "id", id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getBy(ctx, "email", email)
}

// column is never user input
func (r *Repo) getBy(ctx context.Context, column string, value any) (*User, error) {
	var u User
	if err := db.ConnFromContext(ctx, r.pool).QueryRow(
		ctx,
		fmt.Sprintf(
			`SELECT id, auth_id, email, name, password_hash, created_at FROM users WHERE %s = $1;`,
			column,
		),
		value,
	).Scan(&u.ID, &u.AuthID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (r *Repo) Exists(ctx context.Context, id uuid.UUID) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.exists")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exists bool
	if err := db.ConnFromContext(ctx, r.pool).QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1);`,
		id,
	).Scan(&exists); err != nil {
		return false, apperr.FromDB(err, "user")
	}
	return exists, nil
}

// DeleteCascade removes the user and everything the user owns, children
// first. Must run inside a transaction.
func (r *Repo) DeleteCascade(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.deleteCascade")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	conn := db.ConnFromContext(ctx, r.pool)
	steps := []struct {
		what string
		sql  string
	}{
		{"favorites", `DELETE FROM favorite_exercise WHERE user_id = $1;`},
		{"workouts", `DELETE FROM workout WHERE user_id = $1;`},
		{"workout session muscles", `DELETE FROM workout_session_muscle WHERE session_id IN (SELECT id FROM workout_session WHERE owner_id = $1);`},
		{"workout sessions", `DELETE FROM workout_session WHERE owner_id = $1;`},
		{"split targets", `DELETE FROM split_muscle WHERE split_id IN (SELECT id FROM split WHERE owner_id = $1);`},
		{"splits", `DELETE FROM split WHERE owner_id = $1;`},
	}
	for _, step := range steps {
		tag, err := conn.Exec(ctx, step.sql, id)
		if err != nil {
			return apperr.FromDB(err, step.what)
		}
		log.Debugf("delete user %s: removed %d %s", id, tag.RowsAffected(), step.what)
	}

	tag, err := conn.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return apperr.FromDB(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user", apperr.ErrNotFound)
	}

	return nil
}
