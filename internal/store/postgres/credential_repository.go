package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/linkhive/linkhive/core/credential"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/internal/store/postgres/model"
)

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db}
}

func (r *CredentialRepository) Create(ctx context.Context, c *domain.Credential) error {
	m := &model.Credential{}
	if err := m.FromDomain(c); err != nil {
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
		*c = *created

		return nil
	})
}

func (r *CredentialRepository) Update(ctx context.Context, c *domain.Credential) error {
	if c.ID == "" {
		return credential.ErrEmptyID
	}

	m := &model.Credential{}
	if err := m.FromDomain(c); err != nil {
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
		*c = *updated

		return nil
	})
}

func (r *CredentialRepository) Find(ctx context.Context, filter domain.ListCredentialsFilter) ([]*domain.Credential, error) {
	db := r.db.WithContext(ctx)
	if filter.Kinds != nil {
		db = db.Where(`"kind" IN ?`, filter.Kinds)
	}
	if filter.SiteConfigID != "" {
		db = db.Where(`"site_config_id" = ?`, filter.SiteConfigID)
	}
	if filter.Size > 0 {
		db = db.Limit(filter.Size)
	}
	if filter.Offset > 0 {
		db = db.Offset(filter.Offset)
	}

	var models []*model.Credential
	if err := db.Order(`"created_at" DESC`).Find(&models).Error; err != nil {
		return nil, err
	}

	records := []*domain.Credential{}
	for _, m := range models {
		c, err := m.ToDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, nil
}

func (r *CredentialRepository) GetByID(ctx context.Context, id string) (*domain.Credential, error) {
	m := &model.Credential{}
	if err := r.db.WithContext(ctx).First(m, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, credential.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain()
}

func (r *CredentialRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where(`"id" = ?`, id).Delete(&model.Credential{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return credential.ErrNotFound
	}
	return nil
}
