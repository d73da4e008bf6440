package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates all gymsplits tables. Statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	auth_id       TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS muscle (
	id    UUID PRIMARY KEY,
	name  TEXT NOT NULL UNIQUE,
	image TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS exercise (
	id               UUID PRIMARY KEY,
	name             TEXT NOT NULL UNIQUE,
	image            TEXT NOT NULL DEFAULT '',
	tips             TEXT NOT NULL DEFAULT '',
	equipment        TEXT NOT NULL DEFAULT '',
	default_favorite BOOLEAN NOT NULL DEFAULT FALSE,
	muscle_id        UUID NOT NULL REFERENCES muscle (id),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS exercise_muscle_id_idx ON exercise (muscle_id);

CREATE TABLE IF NOT EXISTS exercise_secondary_muscle (
	exercise_id UUID NOT NULL REFERENCES exercise (id),
	muscle_id   UUID NOT NULL REFERENCES muscle (id),
	position    INTEGER NOT NULL,
	PRIMARY KEY (exercise_id, muscle_id)
);

CREATE TABLE IF NOT EXISTS split (
	id         UUID PRIMARY KEY,
	owner_id   UUID NOT NULL REFERENCES users (id),
	name       TEXT NOT NULL,
	image      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (owner_id, name)
);

CREATE TABLE IF NOT EXISTS split_muscle (
	split_id       UUID NOT NULL REFERENCES split (id),
	muscle_id      UUID NOT NULL REFERENCES muscle (id),
	exercise_count INTEGER NOT NULL CHECK (exercise_count >= 0),
	position       INTEGER NOT NULL,
	PRIMARY KEY (split_id, muscle_id)
);

CREATE TABLE IF NOT EXISTS workout_session (
	id         UUID PRIMARY KEY,
	owner_id   UUID NOT NULL REFERENCES users (id),
	split_id   UUID NOT NULL REFERENCES split (id),
	started_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS workout_session_owner_idx ON workout_session (owner_id, started_at);

CREATE TABLE IF NOT EXISTS workout_session_muscle (
	session_id     UUID NOT NULL REFERENCES workout_session (id),
	muscle_id      UUID NOT NULL REFERENCES muscle (id),
	exercise_count INTEGER NOT NULL CHECK (exercise_count >= 0),
	position       INTEGER NOT NULL,
	PRIMARY KEY (session_id, muscle_id)
);

CREATE TABLE IF NOT EXISTS workout (
	id          UUID PRIMARY KEY,
	user_id     UUID NOT NULL REFERENCES users (id),
	exercise_id UUID NOT NULL REFERENCES exercise (id),
	reps        INTEGER[] NOT NULL,
	weights     INTEGER[] NOT NULL,
	logged_at   TIMESTAMPTZ NOT NULL,
	CHECK (cardinality(reps) = cardinality(weights))
);
CREATE INDEX IF NOT EXISTS workout_user_logged_at_idx ON workout (user_id, logged_at);

CREATE TABLE IF NOT EXISTS favorite_exercise (
	user_id     UUID NOT NULL REFERENCES users (id),
	exercise_id UUID NOT NULL REFERENCES exercise (id),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, exercise_id)
);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
