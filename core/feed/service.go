package feed

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/imdario/mergo"

	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/log"
	"github.com/linkhive/linkhive/pkg/urlutil"
)

const (
	AuditKeyCreate = "feed.create"
	AuditKeyUpdate = "feed.update"
	AuditKeyDelete = "feed.delete"
)

//go:generate mockery --name=repository --exported --with-expecter
type repository interface {
	Create(ctx context.Context, f *domain.Feed) error
	Update(ctx context.Context, f *domain.Feed) error
	Find(ctx context.Context, filter domain.ListFeedsFilter) ([]*domain.Feed, error)
	GetByID(ctx context.Context, id string) (*domain.Feed, error)
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

func (s *Service) Create(ctx context.Context, f *domain.Feed) error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrTitleRequired
	}
	if !urlutil.IsValidURL(f.FeedURL) {
		return ErrInvalidFeedURL
	}
	if f.RefreshInterval <= 0 {
		f.RefreshInterval = domain.DefaultRefreshInterval
	}

	if err := s.repository.Create(ctx, f); err != nil {
		return err
	}
	s.logger.Info(ctx, "feed created", "id", f.ID, "title", f.Title)

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyCreate, f); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

// Update merges the non-zero value(s) only
func (s *Service) Update(ctx context.Context, f *domain.Feed) error {
	if f.ID == "" {
		return ErrEmptyID
	}

	existing, err := s.repository.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	if err := mergo.Merge(f, existing); err != nil {
		return err
	}

	if strings.TrimSpace(f.Title) == "" {
		return ErrTitleRequired
	}
	if !urlutil.IsValidURL(f.FeedURL) {
		return ErrInvalidFeedURL
	}

	if err := s.repository.Update(ctx, f); err != nil {
		return err
	}
	s.logger.Info(ctx, "feed updated", "id", f.ID)

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyUpdate, f); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

// Find records based on filters
func (s *Service) Find(ctx context.Context, filter domain.ListFeedsFilter) ([]*domain.Feed, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}
	return s.repository.Find(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Feed, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	return s.repository.GetByID(ctx, id)
}

// RefreshDue returns the enabled feeds whose refresh interval has
// elapsed at now.
func (s *Service) RefreshDue(ctx context.Context, now time.Time) ([]*domain.Feed, error) {
	disabled := false
	feeds, err := s.repository.Find(ctx, domain.ListFeedsFilter{Disabled: &disabled})
	if err != nil {
		return nil, err
	}

	due := make([]*domain.Feed, 0, len(feeds))
	for _, f := range feeds {
		if f.RefreshDue(now) {
			due = append(due, f)
		}
	}
	return due, nil
}

// MarkFetched records a fetch attempt: success resets the failure
// count, failure increments it.
func (s *Service) MarkFetched(ctx context.Context, id string, fetchedAt time.Time, fetchErr error) error {
	if id == "" {
		return ErrEmptyID
	}

	f, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	f.LastFetchedAt = &fetchedAt
	if fetchErr != nil {
		f.FailureCount++
		s.logger.Warn(ctx, "feed fetch failed", "id", id, "failure_count", f.FailureCount, "error", fetchErr)
	} else {
		f.FailureCount = 0
	}

	return s.repository.Update(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "feed deleted", "id", id)

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyDelete, map[string]interface{}{"id": id}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}
