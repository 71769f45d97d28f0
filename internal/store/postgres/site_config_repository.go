package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/linkhive/linkhive/core/siteconfig"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/internal/store/postgres/model"
)

type SiteConfigRepository struct {
	db *gorm.DB
}

func NewSiteConfigRepository(db *gorm.DB) *SiteConfigRepository {
	return &SiteConfigRepository{db}
}

func (r *SiteConfigRepository) Create(ctx context.Context, sc *domain.SiteConfig) error {
	m := &model.SiteConfig{}
	if err := m.FromDomain(sc); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		created, err := m.ToDomain()
		if err != nil {
			return err
		}
		*sc = *created

		return nil
	})
}

func (r *SiteConfigRepository) Update(ctx context.Context, sc *domain.SiteConfig) error {
	if sc.ID == "" {
		return siteconfig.ErrEmptyID
	}

	m := &model.SiteConfig{}
	if err := m.FromDomain(sc); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(m).Select("*").Omit("created_at").Updates(m).Error; err != nil {
			return err
		}

		updated, err := m.ToDomain()
		if err != nil {
			return err
		}
		*sc = *updated

		return nil
	})
}

func (r *SiteConfigRepository) Find(ctx context.Context, filter domain.ListSiteConfigsFilter) ([]*domain.SiteConfig, error) {
	db := r.db.WithContext(ctx)
	if filter.IDs != nil {
		db = db.Where(`"id" IN ?`, filter.IDs)
	}
	if filter.Name != "" {
		db = db.Where(`"name" ILIKE ?`, "%"+filter.Name+"%")
	}
	if filter.LoginTypes != nil {
		db = db.Where(`"login_type" IN ?`, filter.LoginTypes)
	}
	if filter.Size > 0 {
		db = db.Limit(filter.Size)
	}
	if filter.Offset > 0 {
		db = db.Offset(filter.Offset)
	}

	var models []*model.SiteConfig
	if err := db.Order(`"name"`).Find(&models).Error; err != nil {
		return nil, err
	}

	records := []*domain.SiteConfig{}
	for _, m := range models {
		sc, err := m.ToDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, sc)
	}
	return records, nil
}

func (r *SiteConfigRepository) GetByID(ctx context.Context, id string) (*domain.SiteConfig, error) {
	m := &model.SiteConfig{}
	if err := r.db.WithContext(ctx).First(m, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, siteconfig.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain()
}

func (r *SiteConfigRepository) GetByName(ctx context.Context, name string) (*domain.SiteConfig, error) {
	m := &model.SiteConfig{}
	if err := r.db.WithContext(ctx).First(m, `"name" = ?`, name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, siteconfig.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain()
}

func (r *SiteConfigRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where(`"id" = ?`, id).Delete(&model.SiteConfig{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return siteconfig.ErrNotFound
	}
	return nil
}
