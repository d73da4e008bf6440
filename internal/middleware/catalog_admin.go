package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/identity"
	"github.com/2beens/gymsplits/internal/users"
	"github.com/2beens/gymsplits/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=catalog_admin_mocks_test.go -package=middleware_test

type userLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// CatalogAdminOnly guards the shared muscle and exercise catalog. Only users
// whose email is listed in admins get through, everyone else gets 403.
// Must run after AuthCheck.
func CatalogAdminOnly(userLookup userLookup, admins []string) func(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(admins))
	for _, email := range admins {
		allowed[strings.ToLower(strings.TrimSpace(email))] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := identity.UserIDFromContext(r.Context())
			if err != nil {
				apperr.WriteError(w, err)
				return
			}

			user, err := userLookup.Get(r.Context(), userID)
			if err != nil {
				log.Errorf("catalog admin check, get user %s: %s", userID, err)
				apperr.WriteError(w, err)
				return
			}

			if !allowed[strings.ToLower(user.Email)] {
				log.Warnf("user %s tried to modify the catalog: %s %s", userID, r.Method, r.URL.Path)
				pkg.WriteJSONError(w, "catalog changes are reserved to admins", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
