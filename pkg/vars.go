package pkg

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// PathUUID parses the named route variable as a UUID.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok || raw == "" {
		return uuid.Nil, fmt.Errorf("%s missing", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s invalid: %w", name, err)
	}
	return id, nil
}
