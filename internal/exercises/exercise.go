package exercises

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/gymsplits/internal/apperr"
)

type Exercise struct {
	ID                 uuid.UUID
	Name               string
	Image              string
	Tips               string
	Equipment          string
	DefaultFavorite    bool
	PrimaryMuscleID    uuid.UUID
	SecondaryMuscleIDs []uuid.UUID
	CreatedAt          time.Time
}

type NewExercise struct {
	Name               string      `json:"name"`
	Image              string      `json:"image"`
	Tips               string      `json:"tips"`
	Equipment          string      `json:"equipment"`
	DefaultFavorite    bool        `json:"defaultFavorite"`
	PrimaryMuscleID    uuid.UUID   `json:"primaryMuscleId"`
	SecondaryMuscleIDs []uuid.UUID `json:"secondaryMuscleIds"`
}

// Validate checks the exercise on its own. Whether the referenced muscles
// exist is checked against the store.
func (e NewExercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: exercise name empty", apperr.ErrValidation)
	}
	if e.PrimaryMuscleID == uuid.Nil {
		return fmt.Errorf("%w: exercise [%s]: primary muscle missing", apperr.ErrValidation, e.Name)
	}

	seen := make(map[uuid.UUID]bool, len(e.SecondaryMuscleIDs))
	for _, id := range e.SecondaryMuscleIDs {
		switch {
		case id == uuid.Nil:
			return fmt.Errorf("%w: exercise [%s]: empty secondary muscle id", apperr.ErrValidation, e.Name)
		case id == e.PrimaryMuscleID:
			return fmt.Errorf("%w: exercise [%s]: primary muscle listed as secondary", apperr.ErrValidation, e.Name)
		case seen[id]:
			return fmt.Errorf("%w: exercise [%s]: duplicate secondary muscle %s", apperr.ErrValidation, e.Name, id)
		}
		seen[id] = true
	}

	return nil
}

func (e NewExercise) muscleIDs() []uuid.UUID {
	return append([]uuid.UUID{e.PrimaryMuscleID}, e.SecondaryMuscleIDs...)
}

type MuscleRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ExerciseView is an exercise as seen by one user.
type ExerciseView struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Image            string      `json:"image,omitempty"`
	Tips             string      `json:"tips,omitempty"`
	Equipment        string      `json:"equipment,omitempty"`
	DefaultFavorite  bool        `json:"defaultFavorite"`
	PrimaryMuscle    MuscleRef   `json:"primaryMuscle"`
	SecondaryMuscles []MuscleRef `json:"secondaryMuscles"`
	Favorited        bool        `json:"favorited"`
}

type SkippedExercise struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type BulkResult struct {
	Created []ExerciseView    `json:"created"`
	Skipped []SkippedExercise `json:"skipped"`
}
