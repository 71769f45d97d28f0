package domain

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

// User is an account on the admin surface.
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	Role      UserRole  `json:"role" yaml:"role"`
	Disabled  bool      `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type ListUsersFilter struct {
	Email    string   `mapstructure:"email" validate:"omitempty"`
	Roles    []string `mapstructure:"roles" validate:"omitempty,dive,oneof=admin member"`
	Disabled *bool    `mapstructure:"disabled" validate:"omitempty"`
	Size     int      `mapstructure:"size" validate:"omitempty"`
	Offset   int      `mapstructure:"offset" validate:"omitempty"`
}
