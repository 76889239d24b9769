package httpapi

import (
	"context"
	"net/http"
	"strings"

	"acs-console/internal/infra/httpserver"
	"acs-console/internal/shared_kernel/domain"
	"acs-console/internal/shared_kernel/usecases"
)

type contextKey string

const _principalContextKey contextKey = "principal"

// PrincipalFromContext returns the authenticated principal attached by the
// RequestAuthenticator middleware.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(_principalContextKey).(domain.Principal)
	return principal, ok
}

// RequestAuthenticator resolves bearer tokens into principals and gates
// handlers on permissions.
type RequestAuthenticator struct {
	auth usecases.AuthService
}

func NewRequestAuthenticator(auth usecases.AuthService) *RequestAuthenticator {
	return &RequestAuthenticator{auth: auth}
}

// Principal authenticates the request. The token comes from the
// Authorization header, or from a token query parameter for websocket
// clients that cannot set headers.
func (a *RequestAuthenticator) Principal(r *http.Request) (domain.Principal, error) {
	token := ""
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	} else {
		token = httpserver.GetQueryParam(r, "token")
	}
	if token == "" {
		return domain.Principal{}, usecases.ErrInvalidToken
	}

	return a.auth.ResolvePrincipal(r.Context(), token)
}

// Require wraps a handler so it only runs for principals holding the
// permission. An empty permission only requires authentication.
func (a *RequestAuthenticator) Require(permission string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.Principal(r)
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if permission != "" && !principal.Can(permission) {
			httpserver.ReplyWithError(w, http.StatusForbidden, "permission denied")
			return
		}

		ctx := context.WithValue(r.Context(), _principalContextKey, principal)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin gates handlers on the admin flag regardless of granted
// permissions.
func (a *RequestAuthenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.Principal(r)
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !principal.IsAdmin {
			httpserver.ReplyWithError(w, http.StatusForbidden, "admin access required")
			return
		}

		ctx := context.WithValue(r.Context(), _principalContextKey, principal)
		next(w, r.WithContext(ctx))
	}
}
