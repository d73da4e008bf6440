package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/identity"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
	"github.com/2beens/gymsplits/internal/users"
	"github.com/2beens/gymsplits/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type userService interface {
	Signup(ctx context.Context, params users.SignupParams) (*users.User, error)
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
	Get(ctx context.Context, id uuid.UUID) (*users.User, error)
}

type sessionService interface {
	Login(ctx context.Context, userID uuid.UUID, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) error
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	UserID    uuid.UUID `json:"userId"`
}

type Handler struct {
	users    userService
	sessions sessionService
}

func NewHandler(users userService, sessions sessionService) *Handler {
	return &Handler{
		users:    users,
		sessions: sessions,
	}
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.signup")
	defer span.End()

	if !pkg.IsJSON(r) {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params users.SignupParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Errorf("signup, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Signup(ctx, params)
	if err != nil {
		log.Errorf("signup: %s", err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, user, http.StatusCreated)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	if !pkg.IsJSON(r) {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Errorf("login, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		log.Warnf("failed login attempt: %s", err)
		apperr.WriteError(w, err)
		return
	}

	token, err := h.sessions.Login(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("login user %s: %s", user.ID, err)
		apperr.WriteError(w, err)
		return
	}

	log.Debugf("user %s logged in", user.ID)
	pkg.WriteJSON(w, LoginResponse{
		Token:     token,
		TokenType: "bearer",
		UserID:    user.ID,
	}, http.StatusOK)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	if err := h.sessions.Logout(ctx, identity.TokenFromContext(ctx)); err != nil {
		log.Errorf("logout: %s", err)
		apperr.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.me")
	defer span.End()

	userID, err := identity.UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	user, err := h.users.Get(ctx, userID)
	if err != nil {
		log.Errorf("get current user %s: %s", userID, err)
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}
