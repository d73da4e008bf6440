package workouts

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/gymsplits/internal/apperr"
)

// Entry is one logged exercise: a set per index of Reps and Weights.
// Entries are never updated.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	ExerciseID uuid.UUID `json:"exerciseId"`
	Reps       []int     `json:"reps"`
	Weights    []int     `json:"weights"`
	LoggedAt   time.Time `json:"loggedAt"`
}

type NewEntry struct {
	ExerciseID uuid.UUID `json:"exerciseId"`
	Reps       []int     `json:"reps"`
	Weights    []int     `json:"weights"`
	// LoggedAt is optional, zero means now
	LoggedAt time.Time `json:"loggedAt"`
}

func (e NewEntry) Validate() error {
	if e.ExerciseID == uuid.Nil {
		return fmt.Errorf("%w: exercise id missing", apperr.ErrValidation)
	}
	if len(e.Reps) == 0 {
		return fmt.Errorf("%w: at least one set required", apperr.ErrValidation)
	}
	if len(e.Reps) != len(e.Weights) {
		return fmt.Errorf("%w: %d reps for %d weights", apperr.ErrValidation, len(e.Reps), len(e.Weights))
	}
	for i := range e.Reps {
		if e.Reps[i] < 0 || e.Weights[i] < 0 {
			return fmt.Errorf("%w: set %d: negative value", apperr.ErrValidation, i+1)
		}
	}
	return nil
}
