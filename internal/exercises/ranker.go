package exercises

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/muscles"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

// ListForMuscle lists the exercises whose primary muscle is muscleID, the
// user's favorites first. Both groups keep the listing order.
func (s *Service) ListForMuscle(ctx context.Context, userID, muscleID uuid.UUID) (_ []ExerciseView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.listForMuscle")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("muscle_id", muscleID.String()))

	var views []ExerciseView
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, userID); err != nil {
			return err
		}
		views, err = s.listForMuscle(ctx, userID, muscleID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (s *Service) listForMuscle(ctx context.Context, userID, muscleID uuid.UUID) ([]ExerciseView, error) {
	if _, err := s.muscles.Get(ctx, muscleID); err != nil {
		return nil, err
	}

	listed, err := s.exercises.ListByPrimaryMuscle(ctx, muscleID)
	if err != nil {
		return nil, err
	}

	favorites, err := s.favoriteSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(listed, func(a, b Exercise) int {
		return favoritesFirst(favorites[a.ID], favorites[b.ID])
	})

	return s.buildViews(ctx, listed, favorites)
}

func favoritesFirst(aFavorited, bFavorited bool) int {
	switch {
	case aFavorited == bFavorited:
		return 0
	case aFavorited:
		return -1
	default:
		return 1
	}
}

// AddFavorite marks the exercise for the user and returns the re-ranked
// listing of the exercise's primary muscle.
func (s *Service) AddFavorite(ctx context.Context, userID, exerciseID uuid.UUID) (_ []ExerciseView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.addFavorite")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var views []ExerciseView
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		exercise, err := s.favoriteTarget(ctx, userID, exerciseID)
		if err != nil {
			return err
		}

		already, err := s.favorites.IsFavorite(ctx, userID, exerciseID)
		if err != nil {
			return err
		}
		if already {
			return fmt.Errorf("%w: exercise %s already favorited", apperr.ErrConflict, exerciseID)
		}

		// unique index catches concurrent adds
		if err := s.favorites.AddFavorite(ctx, userID, exerciseID); err != nil {
			return err
		}

		views, err = s.listForMuscle(ctx, userID, exercise.PrimaryMuscleID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

// RemoveFavorite drops the user's mark and returns the re-ranked listing of
// the exercise's primary muscle.
func (s *Service) RemoveFavorite(ctx context.Context, userID, exerciseID uuid.UUID) (_ []ExerciseView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.removeFavorite")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var views []ExerciseView
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		exercise, err := s.favoriteTarget(ctx, userID, exerciseID)
		if err != nil {
			return err
		}

		if err := s.favorites.RemoveFavorite(ctx, userID, exerciseID); err != nil {
			return err
		}

		views, err = s.listForMuscle(ctx, userID, exercise.PrimaryMuscleID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

func (s *Service) favoriteTarget(ctx context.Context, userID, exerciseID uuid.UUID) (*Exercise, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.exercises.Get(ctx, exerciseID)
}

func (s *Service) FavoriteIDs(ctx context.Context, userID uuid.UUID) (_ []uuid.UUID, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.favoriteIDs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var ids []uuid.UUID
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, userID); err != nil {
			return err
		}
		ids, err = s.favorites.FavoriteIDs(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}

	return ids, nil
}

func (s *Service) favoriteSet(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	ids, err := s.favorites.FavoriteIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// buildViews resolves all primary and secondary muscle names with one lookup.
func (s *Service) buildViews(ctx context.Context, list []Exercise, favorites map[uuid.UUID]bool) ([]ExerciseView, error) {
	var muscleIDs []uuid.UUID
	for _, e := range list {
		muscleIDs = append(muscleIDs, e.PrimaryMuscleID)
		muscleIDs = append(muscleIDs, e.SecondaryMuscleIDs...)
	}
	slices.SortFunc(muscleIDs, func(a, b uuid.UUID) int { return slices.Compare(a[:], b[:]) })
	muscleIDs = slices.Compact(muscleIDs)

	resolved, err := s.muscles.GetByIDs(ctx, muscleIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ExerciseView, 0, len(list))
	for _, e := range list {
		views = append(views, toView(e, resolved, favorites[e.ID]))
	}
	return views, nil
}

func toView(e Exercise, resolved map[uuid.UUID]muscles.Muscle, favorited bool) ExerciseView {
	secondaries := make([]MuscleRef, 0, len(e.SecondaryMuscleIDs))
	for _, id := range e.SecondaryMuscleIDs {
		m, ok := resolved[id]
		if !ok {
			log.Warnf("exercise %s: secondary muscle %s not found, skipping", e.ID, id)
			continue
		}
		secondaries = append(secondaries, MuscleRef{ID: m.ID, Name: m.Name})
	}

	primary := MuscleRef{ID: e.PrimaryMuscleID}
	if m, ok := resolved[e.PrimaryMuscleID]; ok {
		primary.Name = m.Name
	} else {
		log.Warnf("exercise %s: primary muscle %s not found", e.ID, e.PrimaryMuscleID)
	}

	return ExerciseView{
		ID:               e.ID,
		Name:             e.Name,
		Image:            e.Image,
		Tips:             e.Tips,
		Equipment:        e.Equipment,
		DefaultFavorite:  e.DefaultFavorite,
		PrimaryMuscle:    primary,
		SecondaryMuscles: secondaries,
		Favorited:        favorited,
	}
}
