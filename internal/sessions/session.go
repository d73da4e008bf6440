package sessions

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/splits"
)

// Session is one visit to the gym following a split. Muscles holds what the
// user planned for this visit, which may differ from the split's targets.
type Session struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"-"`
	SplitID   uuid.UUID       `json:"splitId"`
	StartedAt time.Time       `json:"startedAt"`
	Muscles   []splits.Target `json:"muscles"`
}

// NewSession starts a session. Without muscles the split's targets are used.
type NewSession struct {
	SplitID   uuid.UUID       `json:"splitId"`
	StartedAt time.Time       `json:"startedAt"`
	Muscles   []splits.Target `json:"muscles"`
}

func (s NewSession) Validate() error {
	if s.SplitID == uuid.Nil {
		return fmt.Errorf("%w: split id empty", apperr.ErrValidation)
	}

	seen := make(map[uuid.UUID]bool, len(s.Muscles))
	for _, m := range s.Muscles {
		switch {
		case m.MuscleID == uuid.Nil:
			return fmt.Errorf("%w: empty muscle id", apperr.ErrValidation)
		case m.ExerciseCount < 0:
			return fmt.Errorf("%w: negative exercise count for muscle %s", apperr.ErrValidation, m.MuscleID)
		case seen[m.MuscleID]:
			return fmt.Errorf("%w: duplicate muscle %s", apperr.ErrValidation, m.MuscleID)
		}
		seen[m.MuscleID] = true
	}

	return nil
}
