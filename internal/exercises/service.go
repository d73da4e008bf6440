package exercises

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/muscles"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

type exerciseStore interface {
	Add(ctx context.Context, exercise Exercise) error
	Get(ctx context.Context, id uuid.UUID) (*Exercise, error)
	List(ctx context.Context) ([]Exercise, error)
	ListByPrimaryMuscle(ctx context.Context, muscleID uuid.UUID) ([]Exercise, error)
}

type favoriteStore interface {
	FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	IsFavorite(ctx context.Context, userID, exerciseID uuid.UUID) (bool, error)
	AddFavorite(ctx context.Context, userID, exerciseID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, exerciseID uuid.UUID) error
}

type muscleLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*muscles.Muscle, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]muscles.Muscle, error)
}

type userChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	exercises exerciseStore
	favorites favoriteStore
	muscles   muscleLookup
	users     userChecker
	tx        db.Transactor
	now       func() time.Time
}

func NewService(
	exercises exerciseStore,
	favorites favoriteStore,
	muscles muscleLookup,
	users userChecker,
	tx db.Transactor,
) *Service {
	return &Service{
		exercises: exercises,
		favorites: favorites,
		muscles:   muscles,
		users:     users,
		tx:        tx,
		now:       time.Now,
	}
}

// Create adds a single exercise. All referenced muscles must exist.
func (s *Service) Create(ctx context.Context, newExercise NewExercise) (_ *ExerciseView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var view ExerciseView
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		created, err := s.create(ctx, newExercise)
		if err != nil {
			return err
		}
		view = *created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &view, nil
}

func (s *Service) create(ctx context.Context, newExercise NewExercise) (*ExerciseView, error) {
	newExercise.Name = strings.TrimSpace(newExercise.Name)
	if err := newExercise.Validate(); err != nil {
		return nil, err
	}

	referenced, err := s.muscles.GetByIDs(ctx, newExercise.muscleIDs())
	if err != nil {
		return nil, err
	}
	for _, id := range newExercise.muscleIDs() {
		if _, ok := referenced[id]; !ok {
			return nil, fmt.Errorf("%w: exercise [%s]: muscle %s does not exist", apperr.ErrInvalidReference, newExercise.Name, id)
		}
	}

	exercise := Exercise{
		ID:                 uuid.New(),
		Name:               newExercise.Name,
		Image:              newExercise.Image,
		Tips:               newExercise.Tips,
		Equipment:          newExercise.Equipment,
		DefaultFavorite:    newExercise.DefaultFavorite,
		PrimaryMuscleID:    newExercise.PrimaryMuscleID,
		SecondaryMuscleIDs: newExercise.SecondaryMuscleIDs,
		CreatedAt:          s.now().UTC(),
	}
	if err := s.exercises.Add(ctx, exercise); err != nil {
		return nil, err
	}

	view := toView(exercise, referenced, false)
	return &view, nil
}

// CreateBulk is best-effort: every exercise is created in its own
// transaction, and the ones rejected as conflicting, invalid or referencing
// unknown muscles are skipped. Any other failure aborts the remaining items.
func (s *Service) CreateBulk(ctx context.Context, newExercises []NewExercise) (_ *BulkResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.createBulk")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	result := &BulkResult{
		Created: []ExerciseView{},
		Skipped: []SkippedExercise{},
	}
	for _, newExercise := range newExercises {
		created, err := s.Create(ctx, newExercise)
		switch {
		case err == nil:
			result.Created = append(result.Created, *created)
		case errors.Is(err, apperr.ErrConflict),
			errors.Is(err, apperr.ErrValidation),
			errors.Is(err, apperr.ErrInvalidReference):
			log.Warnf("bulk create, skipping exercise [%s]: %s", newExercise.Name, err)
			result.Skipped = append(result.Skipped, SkippedExercise{
				Name:   newExercise.Name,
				Reason: err.Error(),
			})
		default:
			return result, fmt.Errorf("bulk create aborted at [%s] after %d created: %w", newExercise.Name, len(result.Created), err)
		}
	}

	log.Infof("bulk create: %d exercises created, %d skipped", len(result.Created), len(result.Skipped))
	return result, nil
}

// ListAll returns every exercise, in listing order, as seen by the user.
func (s *Service) ListAll(ctx context.Context, userID uuid.UUID) (_ []ExerciseView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.listAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var views []ExerciseView
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, userID); err != nil {
			return err
		}

		all, err := s.exercises.List(ctx)
		if err != nil {
			return err
		}
		favorites, err := s.favoriteSet(ctx, userID)
		if err != nil {
			return err
		}

		views, err = s.buildViews(ctx, all, favorites)
		return err
	})
	if err != nil {
		return nil, err
	}

	return views, nil
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
