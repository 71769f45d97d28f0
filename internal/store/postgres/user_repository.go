package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/linkhive/linkhive/core/user"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/internal/store/postgres/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := &model.User{}
	if err := m.FromDomain(u); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		*u = *m.ToDomain()
		return nil
	})
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		return user.ErrEmptyID
	}

	m := &model.User{}
	if err := m.FromDomain(u); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(m).Select("*").Omit("created_at").Updates(m).Error; err != nil {
			return err
		}

		*u = *m.ToDomain()
		return nil
	})
}

func (r *UserRepository) Find(ctx context.Context, filter domain.ListUsersFilter) ([]*domain.User, error) {
	db := r.db.WithContext(ctx)
	if filter.Email != "" {
		db = db.Where(`"email" = ?`, filter.Email)
	}
	if filter.Roles != nil {
		db = db.Where(`"role" IN ?`, filter.Roles)
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

	var models []*model.User
	if err := db.Order(`"email"`).Find(&models).Error; err != nil {
		return nil, err
	}

	records := []*domain.User{}
	for _, m := range models {
		records = append(records, m.ToDomain())
	}
	return records, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m := &model.User{}
	if err := r.db.WithContext(ctx).First(m, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m := &model.User{}
	if err := r.db.WithContext(ctx).First(m, `"email" = ?`, email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.UserRole) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where(`"role" = ? AND "disabled" = false`, string(role)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where(`"id" = ?`, id).Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
