package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/identity"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
	"github.com/2beens/gymsplits/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type tokenResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

type AuthMiddlewareHandler struct {
	tokenResolver tokenResolver
	allowedPaths  map[string]bool
}

func NewAuthMiddlewareHandler(tokenResolver tokenResolver) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		tokenResolver: tokenResolver,
		allowedPaths: map[string]bool{
			"/": true,

			// signup/login:
			"/auth/signup": true,
			"/auth/login":  true,
		},
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthCheck resolves the bearer token once per request and stores the
// caller's user id and token in the request context.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "missing bearer token", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.tokenResolver.Resolve(ctx, token)
			if err != nil {
				log.Tracef("[invalid token] [auth middleware] => %s: %s", r.URL.Path, err)
				apperr.WriteError(w, err)
				span.SetStatus(codes.Error, "resolve-token-err")
				span.RecordError(err)
				return
			}

			ctx = identity.ContextWithUserID(ctx, userID)
			ctx = identity.ContextWithToken(ctx, token)

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
