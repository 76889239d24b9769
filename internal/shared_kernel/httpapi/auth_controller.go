package httpapi

import (
	"errors"
	"net/http"

	"acs-console/internal/infra/httpserver"
	"acs-console/internal/shared_kernel/httpapi/internal"
	"acs-console/internal/shared_kernel/usecases"
)

func NewAuthController(service usecases.AuthService) *AuthController {
	return &AuthController{
		service,
	}
}

var _ httpserver.Controller = &AuthController{}

type AuthController struct {
	service usecases.AuthService
}

func (c *AuthController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /v1/auth/token", c.issueToken())
}

func (c *AuthController) issueToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.TokenRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		issued, err := c.service.IssueToken(r.Context(), body.Username, body.Password)
		if err != nil {
			if errors.Is(err, usecases.ErrInvalidCredentials) {
				httpserver.ReplyWithError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.TokenResponse{
			AccessToken: issued.Token,
			TokenType:   "bearer",
			ExpiresAt:   issued.ExpiresAt,
		})
	}
}
