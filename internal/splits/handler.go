package splits

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

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=splits_test

type aggregator interface {
	ComputeSplitViews(ctx context.Context, userID uuid.UUID) ([]SplitView, error)
	CreateSplit(ctx context.Context, userID uuid.UUID, newSplit NewSplit) (*SplitView, error)
	DeleteSplit(ctx context.Context, userID, splitID uuid.UUID) ([]SplitView, error)
}

type Handler struct {
	aggregator aggregator
	metrics    *metrics.Manager
}

func NewHandler(aggregator aggregator, metrics *metrics.Manager) *Handler {
	return &Handler{
		aggregator: aggregator,
		metrics:    metrics,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.splits.list")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	views, err := h.aggregator.ComputeSplitViews(ctx, userID)
	if err != nil {
		log.Errorf("compute split views for %s: %s", userID, err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, views, http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.splits.create")
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

	var newSplit NewSplit
	if err := json.NewDecoder(r.Body).Decode(&newSplit); err != nil {
		log.Errorf("create split, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.aggregator.CreateSplit(ctx, userID, newSplit)
	if err != nil {
		log.Errorf("create split [%s] for %s: %s", newSplit.Name, userID, err)
		apperr.WriteError(w, err)
		return
	}

	h.metrics.CounterSplitsCreated.Inc()
	pkg.WriteJSON(w, view, http.StatusCreated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.splits.delete")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	splitID, err := pkg.PathUUID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	views, err := h.aggregator.DeleteSplit(ctx, userID, splitID)
	if err != nil {
		log.Errorf("delete split %s for %s: %s", splitID, userID, err)
		apperr.WriteError(w, err)
		return
	}

	h.metrics.CounterSplitsDeleted.Inc()
	pkg.WriteJSON(w, views, http.StatusOK)
}
