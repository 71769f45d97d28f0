package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/linkhive/linkhive/domain"
)

// Bookmark database model
type Bookmark struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	FeedID   sql.NullString `gorm:"type:uuid"`
	URL      string
	Title    string
	Tags     pq.StringArray `gorm:"type:text[]"`
	Archived bool

	Feed *Feed `gorm:"ForeignKey:FeedID;References:ID"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

func (m *Bookmark) FromDomain(b *domain.Bookmark) error {
	if b.ID != "" {
		id, err := uuid.Parse(b.ID)
		if err != nil {
			return err
		}
		m.ID = id
	}

	m.FeedID = toNullString(b.FeedID)
	m.URL = b.URL
	m.Title = b.Title
	m.Tags = pq.StringArray(b.Tags)
	m.Archived = b.Archived
	m.CreatedAt = b.CreatedAt
	m.UpdatedAt = b.UpdatedAt

	return nil
}

func (m *Bookmark) ToDomain() *domain.Bookmark {
	return &domain.Bookmark{
		ID:        m.ID.String(),
		FeedID:    m.FeedID.String,
		URL:       m.URL,
		Title:     m.Title,
		Tags:      []string(m.Tags),
		Archived:  m.Archived,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
