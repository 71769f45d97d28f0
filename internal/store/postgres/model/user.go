package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linkhive/linkhive/domain"
)

// User database model
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email    string    `gorm:"uniqueIndex:idx_users_email,where:deleted_at IS NULL"`
	Role     string
	Disabled bool

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (m *User) FromDomain(u *domain.User) error {
	if u.ID != "" {
		id, err := uuid.Parse(u.ID)
		if err != nil {
			return err
		}
		m.ID = id
	}

	m.Email = u.Email
	m.Role = string(u.Role)
	m.Disabled = u.Disabled
	m.CreatedAt = u.CreatedAt
	m.UpdatedAt = u.UpdatedAt

	return nil
}

func (m *User) ToDomain() *domain.User {
	return &domain.User{
		ID:        m.ID.String(),
		Email:     m.Email,
		Role:      domain.UserRole(m.Role),
		Disabled:  m.Disabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
