package sessions

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/identity"
	"github.com/2beens/gymsplits/internal/telemetry/metrics"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
	"github.com/2beens/gymsplits/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=sessions_test

type service interface {
	Start(ctx context.Context, userID uuid.UUID, newSession NewSession) (*Session, error)
	List(ctx context.Context, userID uuid.UUID) ([]Session, error)
}

type Handler struct {
	service service
	metrics *metrics.Manager
}

func NewHandler(service service, metrics *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.list")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	sessions, err := h.service.List(ctx, userID)
	if err != nil {
		log.Errorf("list workout sessions for %s: %s", userID, err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, sessions, http.StatusOK)
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.start")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	if !pkg.IsJSON(r) {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var newSession NewSession
	if err := json.NewDecoder(r.Body).Decode(&newSession); err != nil {
		log.Errorf("start workout session, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.Start(ctx, userID, newSession)
	if err != nil {
		log.Errorf("start workout session on split %s for %s: %s", newSession.SplitID, userID, err)
		apperr.WriteError(w, err)
		return
	}

	h.metrics.CounterWorkoutSessions.Inc()
	pkg.WriteJSON(w, session, http.StatusCreated)
}
