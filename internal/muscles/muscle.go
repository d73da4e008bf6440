package muscles

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/2beens/gymsplits/internal/apperr"
)

type Muscle struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
}

type NewMuscle struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (m NewMuscle) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: muscle name empty", apperr.ErrValidation)
	}
	return nil
}
