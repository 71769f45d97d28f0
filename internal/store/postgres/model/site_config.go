package model

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/linkhive/linkhive/domain"
)

// SiteConfig database model
type SiteConfig struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name                string    `gorm:"uniqueIndex:idx_site_configs_name,where:deleted_at IS NULL"`
	SiteURL             string
	LoginType           string
	SuccessTextClass    sql.NullString
	ExpectedSuccessText sql.NullString
	RequiredCookies     pq.StringArray `gorm:"type:text[]"`
	SeleniumConfig      datatypes.JSON
	APIConfig           datatypes.JSON

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (SiteConfig) TableName() string {
	return "site_configs"
}

// FromDomain transforms *domain.SiteConfig values into the model
func (m *SiteConfig) FromDomain(sc *domain.SiteConfig) error {
	if sc.ID != "" {
		id, err := uuid.Parse(sc.ID)
		if err != nil {
			return err
		}
		m.ID = id
	}

	m.Name = sc.Name
	m.SiteURL = sc.SiteURL
	m.LoginType = string(sc.LoginType)
	m.SuccessTextClass = toNullString(sc.SuccessTextClass)
	m.ExpectedSuccessText = toNullString(sc.ExpectedSuccessText)
	m.RequiredCookies = pq.StringArray(sc.RequiredCookies)

	if sc.SeleniumConfig != nil {
		b, err := json.Marshal(sc.SeleniumConfig)
		if err != nil {
			return err
		}
		m.SeleniumConfig = datatypes.JSON(b)
	}
	if sc.APIConfig != nil {
		b, err := json.Marshal(sc.APIConfig)
		if err != nil {
			return err
		}
		m.APIConfig = datatypes.JSON(b)
	}

	m.CreatedAt = sc.CreatedAt
	m.UpdatedAt = sc.UpdatedAt

	return nil
}

// ToDomain transforms the model into *domain.SiteConfig
func (m *SiteConfig) ToDomain() (*domain.SiteConfig, error) {
	sc := &domain.SiteConfig{
		ID:                  m.ID.String(),
		Name:                m.Name,
		SiteURL:             m.SiteURL,
		LoginType:           domain.LoginType(m.LoginType),
		SuccessTextClass:    m.SuccessTextClass.String,
		ExpectedSuccessText: m.ExpectedSuccessText.String,
		RequiredCookies:     []string(m.RequiredCookies),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}

	if m.SeleniumConfig != nil {
		sc.SeleniumConfig = &domain.SeleniumConfig{}
		if err := json.Unmarshal(m.SeleniumConfig, sc.SeleniumConfig); err != nil {
			return nil, err
		}
	}
	if m.APIConfig != nil {
		sc.APIConfig = &domain.APIConfig{}
		if err := json.Unmarshal(m.APIConfig, sc.APIConfig); err != nil {
			return nil, err
		}
	}

	return sc, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
