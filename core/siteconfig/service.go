package siteconfig

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/diff"
	"github.com/linkhive/linkhive/pkg/log"
)

const (
	AuditKeyCreate = "site_config.create"
	AuditKeyUpdate = "site_config.update"
	AuditKeyDelete = "site_config.delete"
)

//go:generate mockery --name=repository --exported --with-expecter
type repository interface {
	Create(ctx context.Context, sc *domain.SiteConfig) error
	Update(ctx context.Context, sc *domain.SiteConfig) error
	Find(ctx context.Context, filter domain.ListSiteConfigsFilter) ([]*domain.SiteConfig, error)
	GetByID(ctx context.Context, id string) (*domain.SiteConfig, error)
	GetByName(ctx context.Context, name string) (*domain.SiteConfig, error)
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name=auditLogger --exported --with-expecter
type auditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

// Service handling the business logics
type Service struct {
	repository repository

	validator   *validator.Validate
	logger      log.Logger
	auditLogger auditLogger
}

type ServiceDeps struct {
	Repository repository

	Validator   *validator.Validate
	Logger      log.Logger
	AuditLogger auditLogger
}

// NewService returns service struct
func NewService(deps ServiceDeps) *Service {
	return &Service{
		deps.Repository,

		deps.Validator,
		deps.Logger,
		deps.AuditLogger,
	}
}

// Create validates and normalizes a form submission, then stores the
// resulting config. Validation failures return a *ValidationError so
// the handler can surface the field-error map.
func (s *Service) Create(ctx context.Context, form *domain.SiteConfigForm) (*domain.SiteConfig, error) {
	sc, fieldErrs := ValidateForm(form)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	if existing, err := s.repository.GetByName(ctx, sc.Name); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateName
	}

	if err := s.repository.Create(ctx, sc); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "site config created", "id", sc.ID, "name", sc.Name, "login_type", sc.LoginType)

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyCreate, sc); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return sc, nil
}

// Update replaces the stored config with a freshly validated one.
func (s *Service) Update(ctx context.Context, id string, form *domain.SiteConfigForm) (*domain.SiteConfig, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	existing, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sc, fieldErrs := ValidateForm(form)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	if sc.Name != existing.Name {
		if other, err := s.repository.GetByName(ctx, sc.Name); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		} else if other != nil && other.ID != id {
			return nil, ErrDuplicateName
		}
	}

	sc.ID = existing.ID
	sc.CreatedAt = existing.CreatedAt
	if err := s.repository.Update(ctx, sc); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "site config updated", "id", sc.ID, "name", sc.Name)

	changes, err := diff.Changelog(existing, sc)
	if err != nil {
		s.logger.Warn(ctx, "failed to build changelog", "id", sc.ID, "error", err)
	}
	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyUpdate, map[string]interface{}{
			"site_config": sc,
			"changes":     changes,
		}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return sc, nil
}

// Find records based on filters
func (s *Service) Find(ctx context.Context, filter domain.ListSiteConfigsFilter) ([]*domain.SiteConfig, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}
	return s.repository.Find(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.SiteConfig, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	return s.repository.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "site config deleted", "id", id)

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyDelete, map[string]interface{}{"id": id}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}
