package exercises

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/muscles"
)

type noTx struct{}

func (noTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUsers map[uuid.UUID]bool

func (f fakeUsers) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return f[id], nil
}

type fakeMuscles map[uuid.UUID]muscles.Muscle

func (f fakeMuscles) add(name string) muscles.Muscle {
	m := muscles.Muscle{ID: uuid.New(), Name: name}
	f[m.ID] = m
	return m
}

func (f fakeMuscles) Get(_ context.Context, id uuid.UUID) (*muscles.Muscle, error) {
	m, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("%w: muscle", apperr.ErrNotFound)
	}
	return &m, nil
}

func (f fakeMuscles) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]muscles.Muscle, error) {
	result := map[uuid.UUID]muscles.Muscle{}
	for _, id := range ids {
		if m, ok := f[id]; ok {
			result[id] = m
		}
	}
	return result, nil
}

type fakeExercises struct {
	exercises []Exercise
	addErr    error
}

func (f *fakeExercises) Add(_ context.Context, exercise Exercise) error {
	if f.addErr != nil {
		return f.addErr
	}
	for _, e := range f.exercises {
		if e.Name == exercise.Name {
			return fmt.Errorf("%w: exercise already exists", apperr.ErrConflict)
		}
	}
	f.exercises = append(f.exercises, exercise)
	return nil
}

func (f *fakeExercises) Get(_ context.Context, id uuid.UUID) (*Exercise, error) {
	for _, e := range f.exercises {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: exercise", apperr.ErrNotFound)
}

func (f *fakeExercises) List(_ context.Context) ([]Exercise, error) {
	return sortedByName(slices.Clone(f.exercises)), nil
}

func (f *fakeExercises) ListByPrimaryMuscle(_ context.Context, muscleID uuid.UUID) ([]Exercise, error) {
	var list []Exercise
	for _, e := range f.exercises {
		if e.PrimaryMuscleID == muscleID {
			list = append(list, e)
		}
	}
	return sortedByName(list), nil
}

func sortedByName(list []Exercise) []Exercise {
	slices.SortFunc(list, func(a, b Exercise) int {
		return strings.Compare(a.Name, b.Name)
	})
	return list
}

type favoriteMark struct {
	userID, exerciseID uuid.UUID
}

type fakeFavorites struct {
	marks []favoriteMark
}

func (f *fakeFavorites) FavoriteIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, m := range f.marks {
		if m.userID == userID {
			ids = append(ids, m.exerciseID)
		}
	}
	return ids, nil
}

func (f *fakeFavorites) IsFavorite(_ context.Context, userID, exerciseID uuid.UUID) (bool, error) {
	return slices.Contains(f.marks, favoriteMark{userID, exerciseID}), nil
}

func (f *fakeFavorites) AddFavorite(ctx context.Context, userID, exerciseID uuid.UUID) error {
	if is, _ := f.IsFavorite(ctx, userID, exerciseID); is {
		return fmt.Errorf("%w: favorite already exists", apperr.ErrConflict)
	}
	f.marks = append(f.marks, favoriteMark{userID, exerciseID})
	return nil
}

func (f *fakeFavorites) RemoveFavorite(_ context.Context, userID, exerciseID uuid.UUID) error {
	i := slices.Index(f.marks, favoriteMark{userID, exerciseID})
	if i < 0 {
		return fmt.Errorf("%w: favorite", apperr.ErrNotFound)
	}
	f.marks = slices.Delete(f.marks, i, i+1)
	return nil
}
