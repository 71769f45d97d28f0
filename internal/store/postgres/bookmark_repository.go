package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/linkhive/linkhive/core/bookmark"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/internal/store/postgres/model"
)

type BookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{db}
}

func (r *BookmarkRepository) Create(ctx context.Context, b *domain.Bookmark) error {
	m := &model.Bookmark{}
	if err := m.FromDomain(b); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		*b = *m.ToDomain()
		return nil
	})
}

func (r *BookmarkRepository) Update(ctx context.Context, b *domain.Bookmark) error {
	if b.ID == "" {
		return bookmark.ErrEmptyID
	}

	m := &model.Bookmark{}
	if err := m.FromDomain(b); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(m).Select("*").Omit("created_at").Updates(m).Error; err != nil {
			return err
		}

		*b = *m.ToDomain()
		return nil
	})
}

func (r *BookmarkRepository) Find(ctx context.Context, filter domain.ListBookmarksFilter) ([]*domain.Bookmark, error) {
	db := r.db.WithContext(ctx)
	if filter.FeedID != "" {
		db = db.Where(`"feed_id" = ?`, filter.FeedID)
	}
	if filter.Tags != nil {
		db = db.Where(`"tags" @> ?`, pq.Array(filter.Tags))
	}
	if filter.Archived != nil {
		db = db.Where(`"archived" = ?`, *filter.Archived)
	}
	if filter.Search != "" {
		db = db.Where(`"title" ILIKE ? OR "url" ILIKE ?`, "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.Size > 0 {
		db = db.Limit(filter.Size)
	}
	if filter.Offset > 0 {
		db = db.Offset(filter.Offset)
	}

	var models []*model.Bookmark
	if err := db.Order(`"created_at" DESC`).Find(&models).Error; err != nil {
		return nil, err
	}

	records := []*domain.Bookmark{}
	for _, m := range models {
		records = append(records, m.ToDomain())
	}
	return records, nil
}

func (r *BookmarkRepository) GetByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	m := &model.Bookmark{}
	if err := r.db.WithContext(ctx).First(m, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookmark.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// BulkUpsert inserts refreshed feed entries, updating title and tags for
// entries that already exist for the same feed and url.
func (r *BookmarkRepository) BulkUpsert(ctx context.Context, bookmarks []*domain.Bookmark) error {
	models := make([]*model.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		m := &model.Bookmark{}
		if err := m.FromDomain(b); err != nil {
			return err
		}
		models = append(models, m)
	}
	if len(models) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "feed_id"}, {Name: "url"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "tags", "updated_at"}),
		}).Create(models).Error; err != nil {
			return err
		}

		for i, m := range models {
			*bookmarks[i] = *m.ToDomain()
		}
		return nil
	})
}

func (r *BookmarkRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where(`"id" = ?`, id).Delete(&model.Bookmark{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return bookmark.ErrNotFound
	}
	return nil
}
