package workouts

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

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type service interface {
	Log(ctx context.Context, userID uuid.UUID, newEntry NewEntry) (*Entry, error)
	Today(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	History(ctx context.Context, userID, exerciseID uuid.UUID) ([]Entry, error)
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

func (h *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.log")
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

	var newEntry NewEntry
	if err := json.NewDecoder(r.Body).Decode(&newEntry); err != nil {
		log.Errorf("log workout, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Log(ctx, userID, newEntry)
	if err != nil {
		log.Errorf("log workout for %s: %s", userID, err)
		apperr.WriteError(w, err)
		return
	}

	h.metrics.CounterWorkoutsLogged.Inc()
	pkg.WriteJSON(w, entry, http.StatusCreated)
}

func (h *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.today")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	entries, err := h.service.Today(ctx, userID)
	if err != nil {
		log.Errorf("list today's workouts for %s: %s", userID, err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, entries, http.StatusOK)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.history")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	exerciseID, err := pkg.PathUUID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.service.History(ctx, userID, exerciseID)
	if err != nil {
		log.Errorf("workout history of %s for %s: %s", exerciseID, userID, err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, entries, http.StatusOK)
}
