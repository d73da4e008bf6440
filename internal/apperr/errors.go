// Package apperr holds the error kinds shared by all gymsplits services and
// their mapping to storage and HTTP semantics.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/pkg"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidReference = errors.New("invalid reference")
	ErrConflict         = errors.New("conflict")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrValidation       = errors.New("validation error")
	ErrStorage          = errors.New("storage error")
)

// FromDB classifies a storage error. what names the entity being read or
// written, e.g. "split" or "favorite".
func FromDB(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case isKind(err):
		return err
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case pkg.IsUniqueViolationError(err):
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	case pkg.IsForeignKeyViolationError(err):
		return fmt.Errorf("%w: %s: %w", ErrInvalidReference, what, err)
	case pkg.IsCheckViolationError(err):
		return fmt.Errorf("%w: %s: %w", ErrValidation, what, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrStorage, what, err)
	}
}

func isKind(err error) bool {
	for _, kind := range []error{
		ErrNotFound, ErrForbidden, ErrInvalidReference, ErrConflict,
		ErrUnauthenticated, ErrValidation, ErrStorage,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError answers the request according to the kind of err.
// Details of storage and unknown errors are logged, not sent to the client.
func WriteError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Errorf("request failed: %s", err)
		pkg.WriteJSONError(w, "internal error", status)
		return
	}
	pkg.WriteJSONError(w, err.Error(), status)
}
