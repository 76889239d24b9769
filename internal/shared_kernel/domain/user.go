package domain

import (
	"slices"

	"acs-console/internal/infra/utils"
)

type User struct {
	ID           ID
	Username     string
	PasswordHash string
	IsAdmin      bool
	Permissions  []string
	CreatedAt    utils.Time
}

func (u *User) GrantPermission(name string) {
	if slices.Contains(u.Permissions, name) {
		return
	}
	u.Permissions = append(u.Permissions, name)
}

func (u *User) RevokePermission(name string) {
	u.Permissions = slices.DeleteFunc(u.Permissions, func(p string) bool {
		return p == name
	})
}

func (u User) Principal() Principal {
	permissions := make([]string, len(u.Permissions))
	copy(permissions, u.Permissions)
	return Principal{
		ID:          u.ID,
		IsAdmin:     u.IsAdmin,
		Permissions: permissions,
	}
}

// Principal is the authenticated identity attached to a request. It is the
// single place where the capability set {specific permission, admin} is
// evaluated.
type Principal struct {
	ID          ID
	IsAdmin     bool
	Permissions []string
}

func (p Principal) Can(permission string) bool {
	if p.IsAdmin {
		return true
	}
	return slices.Contains(p.Permissions, permission)
}
