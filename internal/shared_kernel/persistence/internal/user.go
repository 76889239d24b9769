package internal

import (
	"errors"

	"acs-console/internal/infra/utils"
	"acs-console/internal/shared_kernel/domain"

	"database/sql/driver"
	"encoding/json"
)

type UserSet []User

func (UserSet) TableName() string {
	return "users"
}

func (s UserSet) ToDomain() []domain.User {
	result := make([]domain.User, len(s))
	for i, v := range s {
		result[i] = v.ToDomain()
	}

	return result
}

type User struct {
	ID           string      `json:"id" gorm:"primaryKey"`
	Username     string      `json:"username" gorm:"uniqueIndex"`
	PasswordHash string      `json:"password_hash"`
	IsAdmin      bool        `json:"is_admin"`
	Permissions  Permissions `json:"permissions" gorm:"type:json"`
	CreatedAt    utils.Time  `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

type Permissions []string

func (v Permissions) Value() (driver.Value, error) {
	if v == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(v)
}

func (v *Permissions) Scan(value any) error {
	if value == nil {
		*v = nil
		return nil
	}

	var data []byte
	switch typed := value.(type) {
	case string:
		data = []byte(typed)
	case []byte:
		data = typed
	default:
		return errors.New("type assertion to string or []byte failed")
	}

	return json.Unmarshal(data, v)
}

func (u User) ToDomain() domain.User {
	return domain.User{
		ID:           domain.ID(u.ID),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		Permissions:  u.Permissions,
		CreatedAt:    u.CreatedAt,
	}
}

func FromUser(user domain.User) User {
	return User{
		ID:           user.ID.String(),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
		Permissions:  Permissions(user.Permissions),
		CreatedAt:    user.CreatedAt,
	}
}
