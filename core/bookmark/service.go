package bookmark

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/imdario/mergo"

	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/log"
	"github.com/linkhive/linkhive/pkg/slices"
	"github.com/linkhive/linkhive/pkg/urlutil"
)

const (
	AuditKeyCreate = "bookmark.create"
	AuditKeyUpdate = "bookmark.update"
	AuditKeyDelete = "bookmark.delete"
)

var (
	ErrNotFound   = errors.New("bookmark not found")
	ErrEmptyID    = errors.New("bookmark id can't be empty")
	ErrInvalidURL = errors.New("bookmark url must be a valid http(s) url")
)

//go:generate mockery --name=repository --exported --with-expecter
type repository interface {
	Create(ctx context.Context, b *domain.Bookmark) error
	Update(ctx context.Context, b *domain.Bookmark) error
	Find(ctx context.Context, filter domain.ListBookmarksFilter) ([]*domain.Bookmark, error)
	GetByID(ctx context.Context, id string) (*domain.Bookmark, error)
	BulkUpsert(ctx context.Context, bookmarks []*domain.Bookmark) error
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name=auditLogger --exported --with-expecter
type auditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

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

func NewService(deps ServiceDeps) *Service {
	return &Service{
		deps.Repository,

		deps.Validator,
		deps.Logger,
		deps.AuditLogger,
	}
}

func (s *Service) Create(ctx context.Context, b *domain.Bookmark) error {
	if !urlutil.IsValidURL(b.URL) {
		return ErrInvalidURL
	}
	if strings.TrimSpace(b.Title) == "" {
		b.Title = b.URL
	}
	b.Tags = normalizeTags(b.Tags)

	if err := s.repository.Create(ctx, b); err != nil {
		return err
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyCreate, b); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

// Update merges the non-zero value(s) only
func (s *Service) Update(ctx context.Context, b *domain.Bookmark) error {
	if b.ID == "" {
		return ErrEmptyID
	}

	existing, err := s.repository.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	if err := mergo.Merge(b, existing); err != nil {
		return err
	}
	if !urlutil.IsValidURL(b.URL) {
		return ErrInvalidURL
	}
	b.Tags = normalizeTags(b.Tags)

	if err := s.repository.Update(ctx, b); err != nil {
		return err
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyUpdate, b); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

func (s *Service) Find(ctx context.Context, filter domain.ListBookmarksFilter) ([]*domain.Bookmark, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}
	return s.repository.Find(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	return s.repository.GetByID(ctx, id)
}

// BulkUpsert stores entries produced by a feed refresh, deduplicating
// on (feed id, url) in the repository.
func (s *Service) BulkUpsert(ctx context.Context, bookmarks []*domain.Bookmark) error {
	for _, b := range bookmarks {
		if !urlutil.IsValidURL(b.URL) {
			return ErrInvalidURL
		}
		b.Tags = normalizeTags(b.Tags)
	}
	return s.repository.BulkUpsert(ctx, bookmarks)
}

func (s *Service) Archive(ctx context.Context, id string, archived bool) error {
	if id == "" {
		return ErrEmptyID
	}

	b, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	b.Archived = archived

	return s.repository.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyDelete, map[string]interface{}{"id": id}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

func normalizeTags(tags []string) []string {
	trimmed := make([]string, 0, len(tags))
	for _, t := range tags {
		trimmed = append(trimmed, strings.ToLower(strings.TrimSpace(t)))
	}
	return slices.Unique(slices.Compact(trimmed))
}
