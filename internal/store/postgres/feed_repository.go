package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/linkhive/linkhive/core/feed"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/internal/store/postgres/model"
)

type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db}
}

func (r *FeedRepository) Create(ctx context.Context, f *domain.Feed) error {
	m := &model.Feed{}
	if err := m.FromDomain(f); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		*f = *m.ToDomain()
		return nil
	})
}

func (r *FeedRepository) Update(ctx context.Context, f *domain.Feed) error {
	if f.ID == "" {
		return feed.ErrEmptyID
	}

	m := &model.Feed{}
	if err := m.FromDomain(f); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(m).Select("*").Omit("created_at").Updates(m).Error; err != nil {
			return err
		}

		*f = *m.ToDomain()
		return nil
	})
}

func (r *FeedRepository) Find(ctx context.Context, filter domain.ListFeedsFilter) ([]*domain.Feed, error) {
	db := r.db.WithContext(ctx)
	if filter.IDs != nil {
		db = db.Where(`"id" IN ?`, filter.IDs)
	}
	if filter.SiteConfigID != "" {
		db = db.Where(`"site_config_id" = ?`, filter.SiteConfigID)
	}
	if filter.Disabled != nil {
		db = db.Where(`"disabled" = ?`, *filter.Disabled)
	}
	if filter.Size > 0 {
		db = db.Limit(filter.Size)
	}
	if filter.Offset > 0 {
		db = db.Offset(filter.Offset)
	}

	var models []*model.Feed
	if err := db.Order(`"title"`).Find(&models).Error; err != nil {
		return nil, err
	}

	records := []*domain.Feed{}
	for _, m := range models {
		records = append(records, m.ToDomain())
	}
	return records, nil
}

func (r *FeedRepository) GetByID(ctx context.Context, id string) (*domain.Feed, error) {
	m := &model.Feed{}
	if err := r.db.WithContext(ctx).First(m, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, feed.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *FeedRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where(`"id" = ?`, id).Delete(&model.Feed{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return feed.ErrNotFound
	}
	return nil
}
