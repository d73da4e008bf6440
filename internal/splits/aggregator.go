package splits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/muscles"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

type splitStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Split, error)
	Get(ctx context.Context, id uuid.UUID) (*Split, error)
	Add(ctx context.Context, split Split) error
	ListTargets(ctx context.Context, splitIDs []uuid.UUID) (map[uuid.UUID][]Target, error)
	DeleteSessions(ctx context.Context, splitID uuid.UUID) error
	DeleteTargets(ctx context.Context, splitID uuid.UUID) error
	Delete(ctx context.Context, splitID uuid.UUID) error
}

type userChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type muscleLookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]muscles.Muscle, error)
}

// progressCounter counts the user's workouts logged since a point in time,
// grouped by the primary muscle of the logged exercise.
type progressCounter interface {
	CountByPrimaryMuscleSince(ctx context.Context, userID uuid.UUID, since time.Time) (map[uuid.UUID]int, error)
}

// Aggregator renders a user's splits together with today's progress.
type Aggregator struct {
	splits   splitStore
	users    userChecker
	muscles  muscleLookup
	progress progressCounter
	tx       db.Transactor
	now      func() time.Time
}

func NewAggregator(
	splits splitStore,
	users userChecker,
	muscles muscleLookup,
	progress progressCounter,
	tx db.Transactor,
) *Aggregator {
	return &Aggregator{
		splits:   splits,
		users:    users,
		muscles:  muscles,
		progress: progress,
		tx:       tx,
		now:      time.Now,
	}
}

// ComputeSplitViews returns one view per split owned by the user, oldest split first.
func (a *Aggregator) ComputeSplitViews(ctx context.Context, userID uuid.UUID) (_ []SplitView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.splits.computeViews")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var views []SplitView
	err = a.tx.InTx(ctx, func(ctx context.Context) error {
		if err := a.ensureUser(ctx, userID); err != nil {
			return err
		}
		views, err = a.computeViews(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (a *Aggregator) computeViews(ctx context.Context, userID uuid.UUID) ([]SplitView, error) {
	owned, err := a.splits.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]SplitView, 0, len(owned))
	if len(owned) == 0 {
		return views, nil
	}

	doneToday, err := a.progress.CountByPrimaryMuscleSince(ctx, userID, TodayStart(a.now()))
	if err != nil {
		return nil, err
	}

	splitIDs := make([]uuid.UUID, 0, len(owned))
	for _, s := range owned {
		splitIDs = append(splitIDs, s.ID)
	}
	targets, err := a.splits.ListTargets(ctx, splitIDs)
	if err != nil {
		return nil, err
	}

	var muscleIDs []uuid.UUID
	for _, splitTargets := range targets {
		for _, t := range splitTargets {
			muscleIDs = append(muscleIDs, t.MuscleID)
		}
	}
	resolved, err := a.muscles.GetByIDs(ctx, muscleIDs)
	if err != nil {
		return nil, err
	}

	for _, s := range owned {
		s.Targets = targets[s.ID]
		progress := progressRows(s, resolved, doneToday)
		views = append(views, SplitView{
			ID:          s.ID,
			Name:        s.Name,
			Image:       s.Image,
			Description: rankedDescription(progress),
			Muscles:     progress,
		})
	}

	return views, nil
}

// progressRows emits one row per target in row order. Targets whose muscle
// no longer resolves are dropped.
func progressRows(s Split, resolved map[uuid.UUID]muscles.Muscle, doneToday map[uuid.UUID]int) []MuscleProgress {
	rows := make([]MuscleProgress, 0, len(s.Targets))
	for _, t := range s.Targets {
		m, ok := resolved[t.MuscleID]
		if !ok {
			log.Warnf("split %s: muscle %s not found, dropping it from the view", s.ID, t.MuscleID)
			continue
		}
		rows = append(rows, MuscleProgress{
			ID:            m.ID,
			Name:          m.Name,
			Image:         m.Image,
			ExerciseCount: t.ExerciseCount,
			DoneToday:     doneToday[m.ID],
		})
	}
	return rows
}

// CreateSplit stores the split with all its targets, or nothing when any
// target muscle does not exist.
func (a *Aggregator) CreateSplit(ctx context.Context, userID uuid.UUID, newSplit NewSplit) (_ *SplitView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.splits.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	newSplit.Name = strings.TrimSpace(newSplit.Name)
	if err := newSplit.Validate(); err != nil {
		return nil, err
	}

	var view SplitView
	err = a.tx.InTx(ctx, func(ctx context.Context) error {
		if err := a.ensureUser(ctx, userID); err != nil {
			return err
		}

		muscleIDs := make([]uuid.UUID, 0, len(newSplit.Targets))
		for _, t := range newSplit.Targets {
			muscleIDs = append(muscleIDs, t.MuscleID)
		}
		resolved, err := a.muscles.GetByIDs(ctx, muscleIDs)
		if err != nil {
			return err
		}
		for _, id := range muscleIDs {
			if _, ok := resolved[id]; !ok {
				return fmt.Errorf("%w: muscle %s does not exist", apperr.ErrInvalidReference, id)
			}
		}

		split := Split{
			ID:        uuid.New(),
			OwnerID:   userID,
			Name:      newSplit.Name,
			Image:     newSplit.Image,
			CreatedAt: a.now().UTC(),
			Targets:   newSplit.Targets,
		}
		if err := a.splits.Add(ctx, split); err != nil {
			return err
		}

		doneToday, err := a.progress.CountByPrimaryMuscleSince(ctx, userID, TodayStart(a.now()))
		if err != nil {
			return err
		}

		progress := progressRows(split, resolved, doneToday)
		view = SplitView{
			ID:          split.ID,
			Name:        split.Name,
			Image:       split.Image,
			Description: insertionDescription(progress),
			Muscles:     progress,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("user %s created split [%s]: %s", userID, view.Name, view.ID)
	return &view, nil
}

// DeleteSplit removes one of the user's splits, together with the workout
// sessions started from it, and returns the remaining splits.
func (a *Aggregator) DeleteSplit(ctx context.Context, userID, splitID uuid.UUID) (_ []SplitView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.splits.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("split_id", splitID.String()))

	var views []SplitView
	err = a.tx.InTx(ctx, func(ctx context.Context) error {
		if err := a.ensureUser(ctx, userID); err != nil {
			return err
		}

		split, err := a.splits.Get(ctx, splitID)
		if err != nil {
			return err
		}
		if split.OwnerID != userID {
			return fmt.Errorf("%w: split %s", apperr.ErrForbidden, splitID)
		}

		if err := a.splits.DeleteSessions(ctx, splitID); err != nil {
			return err
		}
		if err := a.splits.DeleteTargets(ctx, splitID); err != nil {
			return err
		}
		if err := a.splits.Delete(ctx, splitID); err != nil {
			return err
		}

		views, err = a.computeViews(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (a *Aggregator) ensureUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := a.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %s", apperr.ErrNotFound, userID)
	}
	return nil
}
