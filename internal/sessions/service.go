package sessions

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/muscles"
	"github.com/2beens/gymsplits/internal/splits"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

type sessionStore interface {
	Add(ctx context.Context, session Session) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Session, error)
	ListMuscles(ctx context.Context, sessionIDs []uuid.UUID) (map[uuid.UUID][]splits.Target, error)
}

type splitLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*splits.Split, error)
	ListTargets(ctx context.Context, splitIDs []uuid.UUID) (map[uuid.UUID][]splits.Target, error)
}

type userChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type muscleLookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]muscles.Muscle, error)
}

type Service struct {
	sessions sessionStore
	splits   splitLookup
	users    userChecker
	muscles  muscleLookup
	tx       db.Transactor
	now      func() time.Time
}

func NewService(
	sessions sessionStore,
	splits splitLookup,
	users userChecker,
	muscles muscleLookup,
	tx db.Transactor,
) *Service {
	return &Service{
		sessions: sessions,
		splits:   splits,
		users:    users,
		muscles:  muscles,
		tx:       tx,
		now:      time.Now,
	}
}

// Start stores a new session on one of the user's splits. The split and every
// muscle must exist, otherwise nothing is stored.
func (s *Service) Start(ctx context.Context, userID uuid.UUID, newSession NewSession) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("split_id", newSession.SplitID.String()))

	if err := newSession.Validate(); err != nil {
		return nil, err
	}

	startedAt := newSession.StartedAt
	if startedAt.IsZero() {
		startedAt = s.now()
	}
	session := Session{
		ID:        uuid.New(),
		OwnerID:   userID,
		SplitID:   newSession.SplitID,
		StartedAt: startedAt.UTC(),
		Muscles:   slices.Clone(newSession.Muscles),
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, userID); err != nil {
			return err
		}

		split, err := s.splits.Get(ctx, session.SplitID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			return fmt.Errorf("%w: split %s does not exist", apperr.ErrInvalidReference, session.SplitID)
		case err != nil:
			return err
		case split.OwnerID != userID:
			// not telling whether someone else's split exists
			return fmt.Errorf("%w: split %s does not exist", apperr.ErrInvalidReference, session.SplitID)
		}

		if len(session.Muscles) == 0 {
			targets, err := s.splits.ListTargets(ctx, []uuid.UUID{split.ID})
			if err != nil {
				return err
			}
			session.Muscles = targets[split.ID]
		}

		muscleIDs := make([]uuid.UUID, 0, len(session.Muscles))
		for _, m := range session.Muscles {
			muscleIDs = append(muscleIDs, m.MuscleID)
		}
		resolved, err := s.muscles.GetByIDs(ctx, muscleIDs)
		if err != nil {
			return err
		}
		for _, id := range muscleIDs {
			if _, ok := resolved[id]; !ok {
				return fmt.Errorf("%w: muscle %s does not exist", apperr.ErrInvalidReference, id)
			}
		}

		return s.sessions.Add(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	if session.Muscles == nil {
		session.Muscles = []splits.Target{}
	}
	log.Debugf("user %s started session %s on split %s", userID, session.ID, session.SplitID)
	return &session, nil
}

// List returns the user's sessions with their muscles, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var sessions []Session
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, userID); err != nil {
			return err
		}

		sessions, err = s.sessions.ListByOwner(ctx, userID)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(sessions))
		for _, session := range sessions {
			ids = append(ids, session.ID)
		}
		bySession, err := s.sessions.ListMuscles(ctx, ids)
		if err != nil {
			return err
		}
		for i := range sessions {
			sessions[i].Muscles = bySession[sessions[i].ID]
			if sessions[i].Muscles == nil {
				sessions[i].Muscles = []splits.Target{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if sessions == nil {
		sessions = []Session{}
	}
	return sessions, nil
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
