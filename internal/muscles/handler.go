package muscles

import (
	"context"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
	"github.com/2beens/gymsplits/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=muscles_test

type service interface {
	Create(ctx context.Context, newMuscle NewMuscle) (*Muscle, error)
	ListJSON(ctx context.Context) ([]byte, error)
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.muscles.list")
	defer span.End()

	musclesJson, err := h.service.ListJSON(ctx)
	if err != nil {
		log.Errorf("list muscles: %s", err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, musclesJson, http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.muscles.create")
	defer span.End()

	if !pkg.IsJSON(r) {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var newMuscle NewMuscle
	if err := json.NewDecoder(r.Body).Decode(&newMuscle); err != nil {
		log.Errorf("create muscle, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	muscle, err := h.service.Create(ctx, newMuscle)
	if err != nil {
		log.Errorf("create muscle [%s]: %s", newMuscle.Name, err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, muscle, http.StatusCreated)
}
