package model

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/linkhive/linkhive/domain"
)

// Credential database model
type Credential struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Kind         string
	Description  string
	SiteConfigID sql.NullString `gorm:"type:uuid"`
	Data         datatypes.JSON

	SiteConfig *SiteConfig `gorm:"ForeignKey:SiteConfigID;References:ID"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Credential) TableName() string {
	return "credentials"
}

func (m *Credential) FromDomain(c *domain.Credential) error {
	if c.ID != "" {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return err
		}
		m.ID = id
	}

	m.Kind = string(c.Kind)
	m.Description = c.Description
	m.SiteConfigID = toNullString(c.SiteConfigID)

	if c.Data != nil {
		b, err := json.Marshal(c.Data)
		if err != nil {
			return err
		}
		m.Data = datatypes.JSON(b)
	}

	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt

	return nil
}

func (m *Credential) ToDomain() (*domain.Credential, error) {
	c := &domain.Credential{
		ID:           m.ID.String(),
		Kind:         domain.CredentialKind(m.Kind),
		Description:  m.Description,
		SiteConfigID: m.SiteConfigID.String,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if m.Data != nil {
		if err := json.Unmarshal(m.Data, &c.Data); err != nil {
			return nil, err
		}
	}

	return c, nil
}
