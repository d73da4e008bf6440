package users

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/identity"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=users_test

type service interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionRevoker interface {
	Logout(ctx context.Context, token string) error
}

type Handler struct {
	service  service
	sessions sessionRevoker
}

func NewHandler(service service, sessions sessionRevoker) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
	}
}

func (h *Handler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.deleteMe")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, userID); err != nil {
		log.Errorf("delete user %s: %s", userID, err)
		apperr.WriteError(w, err)
		return
	}

	if token := identity.TokenFromContext(ctx); token != "" {
		if err := h.sessions.Logout(ctx, token); err != nil {
			log.Warnf("deleted user %s, but failed to drop the session: %s", userID, err)
		}
	}

	log.Infof("user %s deleted", userID)
	w.WriteHeader(http.StatusNoContent)
}
