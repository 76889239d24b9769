package internal

import (
	"time"

	"acs-console/internal/infra/utils"
	"acs-console/internal/shared_kernel/domain"
)

type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type UserCreateRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	IsAdmin     bool     `json:"is_admin"`
	Permissions []string `json:"permissions"`
}

type UserPasswordRequest struct {
	Password string `json:"password"`
}

type UserPermissionRequest struct {
	Permission string `json:"permission"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	IsAdmin     bool       `json:"is_admin"`
	Permissions []string   `json:"permissions"`
	CreatedAt   utils.Time `json:"created_at"`
}

func FromUser(user domain.User) UserResponse {
	permissions := user.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	return UserResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		IsAdmin:     user.IsAdmin,
		Permissions: permissions,
		CreatedAt:   user.CreatedAt,
	}
}

func FromUsers(users []domain.User) []UserResponse {
	result := make([]UserResponse, len(users))
	for i, user := range users {
		result[i] = FromUser(user)
	}

	return result
}
