package exercises

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/identity"
	"github.com/2beens/gymsplits/internal/telemetry/metrics"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
	"github.com/2beens/gymsplits/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=exercises_test

const maxBulkExercises = 1000

type service interface {
	Create(ctx context.Context, newExercise NewExercise) (*ExerciseView, error)
	CreateBulk(ctx context.Context, newExercises []NewExercise) (*BulkResult, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]ExerciseView, error)
	ListForMuscle(ctx context.Context, userID, muscleID uuid.UUID) ([]ExerciseView, error)
	AddFavorite(ctx context.Context, userID, exerciseID uuid.UUID) ([]ExerciseView, error)
	RemoveFavorite(ctx context.Context, userID, exerciseID uuid.UUID) ([]ExerciseView, error)
	FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
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
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	views, err := h.service.ListAll(ctx, userID)
	if err != nil {
		log.Errorf("list exercises: %s", err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, views, http.StatusOK)
}

func (h *Handler) HandleListForMuscle(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.listForMuscle")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	muscleID, err := pkg.PathUUID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	views, err := h.service.ListForMuscle(ctx, userID, muscleID)
	if err != nil {
		log.Errorf("list exercises for muscle %s: %s", muscleID, err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, views, http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.create")
	defer span.End()

	if !pkg.IsJSON(r) {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var newExercise NewExercise
	if err := json.NewDecoder(r.Body).Decode(&newExercise); err != nil {
		log.Errorf("create exercise, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.Create(ctx, newExercise)
	if err != nil {
		log.Errorf("create exercise [%s]: %s", newExercise.Name, err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, view, http.StatusCreated)
}

func (h *Handler) HandleCreateBulk(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.createBulk")
	defer span.End()

	if !pkg.IsJSON(r) {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var newExercises []NewExercise
	if err := json.NewDecoder(r.Body).Decode(&newExercises); err != nil {
		log.Errorf("bulk create exercises, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(newExercises) > maxBulkExercises {
		pkg.WriteJSONError(w, "too many exercises", http.StatusBadRequest)
		return
	}

	result, err := h.service.CreateBulk(ctx, newExercises)
	if err != nil {
		log.Errorf("bulk create exercises: %s", err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, result, http.StatusCreated)
}

func (h *Handler) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.favorites")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	ids, err := h.service.FavoriteIDs(ctx, userID)
	if err != nil {
		log.Errorf("list favorites of %s: %s", userID, err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, ids, http.StatusOK)
}

func (h *Handler) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggleFavorite(w, r, "add", h.service.AddFavorite)
}

func (h *Handler) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggleFavorite(w, r, "remove", h.service.RemoveFavorite)
}

func (h *Handler) toggleFavorite(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	toggle func(ctx context.Context, userID, exerciseID uuid.UUID) ([]ExerciseView, error),
) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.favorite."+action)
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	exerciseID, err := pkg.PathUUID(r, "exerciseId")
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	views, err := toggle(ctx, userID, exerciseID)
	if err != nil {
		log.Errorf("%s favorite %s for user %s: %s", action, exerciseID, userID, err)
		apperr.WriteError(w, err)
		return
	}

	h.metrics.CounterFavoriteToggles.With(prometheus.Labels{"action": action}).Inc()
	pkg.WriteJSON(w, views, http.StatusOK)
}
