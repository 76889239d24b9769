package httpapi

import (
	"errors"
	"net/http"

	"acs-console/internal/infra/httpserver"
	"acs-console/internal/shared_kernel/domain"
	"acs-console/internal/shared_kernel/httpapi/internal"
	"acs-console/internal/shared_kernel/usecases"
)

func NewUserController(service usecases.UserService, authenticator *RequestAuthenticator) *UserController {
	return &UserController{
		service:       service,
		authenticator: authenticator,
	}
}

var _ httpserver.Controller = &UserController{}

// UserController exposes user management. Every route is admin only.
type UserController struct {
	service       usecases.UserService
	authenticator *RequestAuthenticator
}

func (c *UserController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /v1/users", c.authenticator.RequireAdmin(c.createUser()))
	router.Handle("GET /v1/users", c.authenticator.RequireAdmin(c.listUsers()))
	router.Handle("GET /v1/users/{id}", c.authenticator.RequireAdmin(c.getUser()))
	router.Handle("DELETE /v1/users/{id}", c.authenticator.RequireAdmin(c.deleteUser()))
	router.Handle("PUT /v1/users/{id}/password", c.authenticator.RequireAdmin(c.updatePassword()))
	router.Handle("POST /v1/users/{id}/permissions", c.authenticator.RequireAdmin(c.grantPermission()))
	router.Handle("DELETE /v1/users/{id}/permissions/{permission}", c.authenticator.RequireAdmin(c.revokePermission()))
}

func (c *UserController) createUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.UserCreateRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := c.service.CreateUser(r.Context(), usecases.CreateUserInput{
			Username:    body.Username,
			Password:    body.Password,
			IsAdmin:     body.IsAdmin,
			Permissions: body.Permissions,
		})
		switch {
		case errors.Is(err, usecases.ErrUserDuplicated):
			httpserver.ReplyWithError(w, http.StatusConflict, "username already taken")
			return
		case errors.Is(err, usecases.ErrUnknownPermission):
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.FromUser(user))
	}
}

func (c *UserController) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := c.service.ListUsers(r.Context())
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to list users")
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromUsers(users))
	}
}

func (c *UserController) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := c.service.GetUser(r.Context(), domain.ID(r.PathValue("id")))
		if err != nil {
			if errors.Is(err, usecases.ErrUserNotFound) {
				httpserver.ReplyWithError(w, http.StatusNotFound, "user not found")
				return
			}
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to get user")
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromUser(user))
	}
}

func (c *UserController) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := c.service.DeleteUser(r.Context(), domain.ID(r.PathValue("id")))
		switch {
		case errors.Is(err, usecases.ErrUserNotFound):
			httpserver.ReplyWithError(w, http.StatusNotFound, "user not found")
			return
		case errors.Is(err, usecases.ErrProtectedUser):
			httpserver.ReplyWithError(w, http.StatusBadRequest, "user cannot be deleted")
			return
		case err != nil:
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to delete user")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (c *UserController) updatePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.UserPasswordRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err := c.service.UpdatePassword(r.Context(), domain.ID(r.PathValue("id")), body.Password)
		switch {
		case errors.Is(err, usecases.ErrUserNotFound):
			httpserver.ReplyWithError(w, http.StatusNotFound, "user not found")
			return
		case err != nil:
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (c *UserController) grantPermission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.UserPermissionRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := c.service.GrantPermission(r.Context(), domain.ID(r.PathValue("id")), body.Permission)
		switch {
		case errors.Is(err, usecases.ErrUserNotFound):
			httpserver.ReplyWithError(w, http.StatusNotFound, "user not found")
			return
		case errors.Is(err, usecases.ErrUnknownPermission):
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to grant permission")
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromUser(user))
	}
}

func (c *UserController) revokePermission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := c.service.RevokePermission(r.Context(), domain.ID(r.PathValue("id")), r.PathValue("permission"))
		switch {
		case errors.Is(err, usecases.ErrUserNotFound):
			httpserver.ReplyWithError(w, http.StatusNotFound, "user not found")
			return
		case err != nil:
			httpserver.ReplyWithError(w, http.StatusInternalServerError, "failed to revoke permission")
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromUser(user))
	}
}
