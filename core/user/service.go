package user

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/log"
)

const (
	AuditKeyCreate     = "user.create"
	AuditKeyUpdateRole = "user.update_role"
	AuditKeyDisable    = "user.disable"
	AuditKeyDelete     = "user.delete"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmptyID        = errors.New("user id can't be empty")
	ErrInvalidEmail   = errors.New("user email is invalid")
	ErrInvalidRole    = errors.New("user role must be admin or member")
	ErrDuplicateEmail = errors.New("a user with that email already exists")
	ErrLastAdmin      = errors.New("cannot remove the last admin")
)

//go:generate mockery --name=repository --exported --with-expecter
type repository interface {
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Find(ctx context.Context, filter domain.ListUsersFilter) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CountByRole(ctx context.Context, role domain.UserRole) (int, error)
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

func (s *Service) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := s.validator.Var(u.Email, "required,email"); err != nil {
		return ErrInvalidEmail
	}
	if u.Role == "" {
		u.Role = domain.UserRoleMember
	}
	if u.Role != domain.UserRoleAdmin && u.Role != domain.UserRoleMember {
		return ErrInvalidRole
	}

	if existing, err := s.repository.GetByEmail(ctx, u.Email); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	} else if existing != nil {
		return ErrDuplicateEmail
	}

	if u.ID == "" {
		u.ID = uuid.New().String()
	}

	if err := s.repository.Create(ctx, u); err != nil {
		return err
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyCreate, u); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

// UpdateRole changes a user's role. Demoting the last remaining admin is
// rejected so the admin surface never locks everyone out.
func (s *Service) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	if id == "" {
		return ErrEmptyID
	}
	if role != domain.UserRoleAdmin && role != domain.UserRoleMember {
		return ErrInvalidRole
	}

	u, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == role {
		return nil
	}

	if u.Role == domain.UserRoleAdmin {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	u.Role = role
	if err := s.repository.Update(ctx, u); err != nil {
		return err
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyUpdateRole, u); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

func (s *Service) SetDisabled(ctx context.Context, id string, disabled bool) error {
	if id == "" {
		return ErrEmptyID
	}

	u, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Disabled == disabled {
		return nil
	}

	if disabled && u.Role == domain.UserRoleAdmin {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	u.Disabled = disabled
	if err := s.repository.Update(ctx, u); err != nil {
		return err
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyDisable, u); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

func (s *Service) Find(ctx context.Context, filter domain.ListUsersFilter) ([]*domain.User, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}
	return s.repository.Find(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	return s.repository.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	u, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == domain.UserRoleAdmin {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
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

func (s *Service) ensureNotLastAdmin(ctx context.Context) error {
	count, err := s.repository.CountByRole(ctx, domain.UserRoleAdmin)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastAdmin
	}
	return nil
}
