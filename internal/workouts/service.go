package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/exercises"
	"github.com/2beens/gymsplits/internal/splits"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

type entryStore interface {
	Add(ctx context.Context, entry Entry) error
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]Entry, error)
	ListForExercise(ctx context.Context, userID, exerciseID uuid.UUID) ([]Entry, error)
}

type userChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type exerciseLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*exercises.Exercise, error)
}

type Service struct {
	entries   entryStore
	users     userChecker
	exercises exerciseLookup
	tx        db.Transactor
	now       func() time.Time
}

func NewService(entries entryStore, users userChecker, exercises exerciseLookup, tx db.Transactor) *Service {
	return &Service{
		entries:   entries,
		users:     users,
		exercises: exercises,
		tx:        tx,
		now:       time.Now,
	}
}

// Log stores a workout entry for the user. The exercise must exist.
func (s *Service) Log(ctx context.Context, userID uuid.UUID, newEntry NewEntry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.log")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := newEntry.Validate(); err != nil {
		return nil, err
	}

	loggedAt := newEntry.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = s.now()
	}
	entry := Entry{
		ID:         uuid.New(),
		UserID:     userID,
		ExerciseID: newEntry.ExerciseID,
		Reps:       newEntry.Reps,
		Weights:    newEntry.Weights,
		LoggedAt:   loggedAt.UTC(),
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, userID); err != nil {
			return err
		}
		if _, err := s.exercises.Get(ctx, entry.ExerciseID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return fmt.Errorf("%w: exercise %s does not exist", apperr.ErrInvalidReference, entry.ExerciseID)
			}
			return err
		}
		return s.entries.Add(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("user %s logged exercise %s, %d sets", userID, entry.ExerciseID, len(entry.Reps))
	return &entry, nil
}

// Today returns the user's entries since midnight UTC, oldest first.
func (s *Service) Today(ctx context.Context, userID uuid.UUID) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.today")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var entries []Entry
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, userID); err != nil {
			return err
		}
		entries, err = s.entries.ListSince(ctx, userID, splits.TodayStart(s.now()))
		return err
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// History returns the user's entries of one exercise, newest first.
func (s *Service) History(ctx context.Context, userID, exerciseID uuid.UUID) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var entries []Entry
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, userID); err != nil {
			return err
		}
		if _, err := s.exercises.Get(ctx, exerciseID); err != nil {
			return err
		}
		entries, err = s.entries.ListForExercise(ctx, userID, exerciseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func (s *Service) ensureUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %s", apperr.ErrNotFound, userID)
	}
	return nil
}
