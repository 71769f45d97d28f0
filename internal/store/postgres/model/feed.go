package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linkhive/linkhive/domain"
)

// Feed database model
type Feed struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title           string
	FeedURL         string
	SiteConfigID    sql.NullString `gorm:"type:uuid"`
	RefreshInterval int
	LastFetchedAt   sql.NullTime
	FailureCount    int
	Disabled        bool

	SiteConfig *SiteConfig `gorm:"ForeignKey:SiteConfigID;References:ID"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Feed) TableName() string {
	return "feeds"
}

func (m *Feed) FromDomain(f *domain.Feed) error {
	if f.ID != "" {
		id, err := uuid.Parse(f.ID)
		if err != nil {
			return err
		}
		m.ID = id
	}

	m.Title = f.Title
	m.FeedURL = f.FeedURL
	m.SiteConfigID = toNullString(f.SiteConfigID)
	m.RefreshInterval = f.RefreshInterval
	m.FailureCount = f.FailureCount
	m.Disabled = f.Disabled
	if f.LastFetchedAt != nil {
		m.LastFetchedAt = sql.NullTime{Time: *f.LastFetchedAt, Valid: true}
	}
	m.CreatedAt = f.CreatedAt
	m.UpdatedAt = f.UpdatedAt

	return nil
}

func (m *Feed) ToDomain() *domain.Feed {
	f := &domain.Feed{
		ID:              m.ID.String(),
		Title:           m.Title,
		FeedURL:         m.FeedURL,
		SiteConfigID:    m.SiteConfigID.String,
		RefreshInterval: m.RefreshInterval,
		FailureCount:    m.FailureCount,
		Disabled:        m.Disabled,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.LastFetchedAt.Valid {
		t := m.LastFetchedAt.Time
		f.LastFetchedAt = &t
	}
	return f
}
