package credential

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/crypto"
	"github.com/linkhive/linkhive/pkg/diff"
	"github.com/linkhive/linkhive/pkg/log"
)

const (
	AuditKeyCreate = "credential.create"
	AuditKeyUpdate = "credential.update"
	AuditKeyDelete = "credential.delete"
)

// secretFields lists which data keys are encrypted at rest, per kind.
var secretFields = map[domain.CredentialKind][]string{
	domain.CredentialKindSiteLogin:     {"password"},
	domain.CredentialKindMiniflux:      {"api_key"},
	domain.CredentialKindInstapaper:    {"password"},
	domain.CredentialKindInstapaperApp: {"consumer_secret"},
}

//go:generate mockery --name=repository --exported --with-expecter
type repository interface {
	Create(ctx context.Context, c *domain.Credential) error
	Update(ctx context.Context, c *domain.Credential) error
	Find(ctx context.Context, filter domain.ListCredentialsFilter) ([]*domain.Credential, error)
	GetByID(ctx context.Context, id string) (*domain.Credential, error)
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name=auditLogger --exported --with-expecter
type auditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

// Service handling the business logics
type Service struct {
	repository repository
	crypto     crypto.Crypto

	validator   *validator.Validate
	logger      log.Logger
	auditLogger auditLogger
}

type ServiceDeps struct {
	Repository repository
	Crypto     crypto.Crypto

	Validator   *validator.Validate
	Logger      log.Logger
	AuditLogger auditLogger
}

// NewService returns service struct
func NewService(deps ServiceDeps) *Service {
	return &Service{
		deps.Repository,
		deps.Crypto,

		deps.Validator,
		deps.Logger,
		deps.AuditLogger,
	}
}

// Create validates the credential and stores it with its secret
// fields encrypted.
func (s *Service) Create(ctx context.Context, c *domain.Credential) error {
	if err := Validate(c); err != nil {
		return err
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if err := s.encryptSecrets(c); err != nil {
		return fmt.Errorf("encrypting credential secrets: %w", err)
	}

	if err := s.repository.Create(ctx, c); err != nil {
		return err
	}
	s.logger.Info(ctx, "credential created", "id", c.ID, "kind", c.Kind)

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyCreate, withoutData(c)); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

func (s *Service) Update(ctx context.Context, c *domain.Credential) error {
	if c.ID == "" {
		return ErrEmptyID
	}

	existing, err := s.repository.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	c.CreatedAt = existing.CreatedAt

	if err := s.mergeSecrets(c, existing); err != nil {
		return fmt.Errorf("encrypting credential secrets: %w", err)
	}
	if err := Validate(c); err != nil {
		return err
	}

	if err := s.repository.Update(ctx, c); err != nil {
		return err
	}
	s.logger.Info(ctx, "credential updated", "id", c.ID, "kind", c.Kind)

	// diff the redacted forms so secret values never reach the audit trail
	changes, err := diff.Changelog(withoutData(existing), withoutData(c))
	if err != nil {
		s.logger.Warn(ctx, "failed to build changelog", "id", c.ID, "error", err)
	}
	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyUpdate, map[string]interface{}{
			"credential": withoutData(c),
			"changes":    changes,
		}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

// Find records based on filters. Secret fields stay encrypted.
func (s *Service) Find(ctx context.Context, filter domain.ListCredentialsFilter) ([]*domain.Credential, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}
	return s.repository.Find(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Credential, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	return s.repository.GetByID(ctx, id)
}

// Reveal returns the credential with its secret fields decrypted, for
// use by the login prober and feed fetching. Callers must not persist
// or serialize the result.
func (s *Service) Reveal(ctx context.Context, id string) (*domain.Credential, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, field := range secretFields[c.Kind] {
		encrypted, ok := c.Data[field].(string)
		if !ok || encrypted == "" {
			continue
		}
		plain, err := s.crypto.Decrypt(encrypted)
		if err != nil {
			return nil, fmt.Errorf("decrypting %q: %w", field, err)
		}
		c.Data[field] = plain
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "credential deleted", "id", id)

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.auditLogger.Log(ctx, AuditKeyDelete, map[string]interface{}{"id": id}); err != nil {
			s.logger.Error(ctx, "failed to record audit log", "error", err)
		}
	}()

	return nil
}

// mergeSecrets decides, per secret field, whether the caller supplied a
// new plaintext value. Reads return the stored ciphertext, so a value
// that still matches it, like one that is absent or empty, means the
// secret is unchanged and the stored ciphertext is kept as-is. Only a
// genuinely new value gets encrypted.
func (s *Service) mergeSecrets(c, existing *domain.Credential) error {
	for _, field := range secretFields[c.Kind] {
		incoming, _ := c.Data[field].(string)
		stored, _ := existing.Data[field].(string)

		if incoming == "" || incoming == stored {
			if stored != "" {
				if c.Data == nil {
					c.Data = map[string]interface{}{}
				}
				c.Data[field] = stored
			}
			continue
		}

		encrypted, err := s.crypto.Encrypt(incoming)
		if err != nil {
			return err
		}
		c.Data[field] = encrypted
	}
	return nil
}

func (s *Service) encryptSecrets(c *domain.Credential) error {
	for _, field := range secretFields[c.Kind] {
		plain, ok := c.Data[field].(string)
		if !ok || plain == "" {
			continue
		}
		encrypted, err := s.crypto.Encrypt(plain)
		if err != nil {
			return err
		}
		c.Data[field] = encrypted
	}
	return nil
}

// withoutData strips the data map so secrets never reach the audit log.
func withoutData(c *domain.Credential) *domain.Credential {
	clone := *c
	clone.Data = nil
	return &clone
}
