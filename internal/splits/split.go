package splits

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/gymsplits/internal/apperr"
)

type Split struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Image     string
	CreatedAt time.Time
	// Targets in row order
	Targets []Target
}

type Target struct {
	MuscleID      uuid.UUID `json:"muscleId"`
	ExerciseCount int       `json:"exerciseCount"`
}

type NewSplit struct {
	Name    string   `json:"name"`
	Image   string   `json:"image"`
	Targets []Target `json:"targets"`
}

func (s NewSplit) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: split name empty", apperr.ErrValidation)
	}
	if len(s.Targets) == 0 {
		return fmt.Errorf("%w: split [%s] has no muscles", apperr.ErrValidation, s.Name)
	}

	seen := make(map[uuid.UUID]bool, len(s.Targets))
	for _, t := range s.Targets {
		switch {
		case t.MuscleID == uuid.Nil:
			return fmt.Errorf("%w: split [%s]: empty muscle id", apperr.ErrValidation, s.Name)
		case t.ExerciseCount < 0:
			return fmt.Errorf("%w: split [%s]: negative exercise count for muscle %s", apperr.ErrValidation, s.Name, t.MuscleID)
		case seen[t.MuscleID]:
			return fmt.Errorf("%w: split [%s]: duplicate muscle %s", apperr.ErrValidation, s.Name, t.MuscleID)
		}
		seen[t.MuscleID] = true
	}

	return nil
}

// MuscleProgress is today's progress on one split target.
type MuscleProgress struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Image         string    `json:"image,omitempty"`
	ExerciseCount int       `json:"exerciseCount"`
	DoneToday     int       `json:"doneToday"`
}

type SplitView struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Image       string           `json:"image,omitempty"`
	Description string           `json:"description"`
	Muscles     []MuscleProgress `json:"muscles"`
}
