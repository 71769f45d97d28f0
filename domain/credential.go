package domain

import "time"

// CredentialKind identifies which service a credential belongs to and
// which fields it must carry.
type CredentialKind string

const (
	CredentialKindSiteLogin     CredentialKind = "site_login"
	CredentialKindMiniflux      CredentialKind = "miniflux"
	CredentialKindInstapaper    CredentialKind = "instapaper"
	CredentialKindInstapaperApp CredentialKind = "instapaper_app"
)

// Credential stores secrets for logging into third-party services.
// Secret fields inside Data are encrypted at rest.
type Credential struct {
	ID           string                 `json:"id" yaml:"id"`
	Kind         CredentialKind         `json:"kind" yaml:"kind"`
	Description  string                 `json:"description" yaml:"description"`
	SiteConfigID string                 `json:"siteConfigId,omitempty" yaml:"siteConfigId,omitempty"`
	Data         map[string]interface{} `json:"data" yaml:"data"`
	CreatedAt    time.Time              `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt    time.Time              `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type ListCredentialsFilter struct {
	Kinds        []string `mapstructure:"kinds" validate:"omitempty,min=1"`
	SiteConfigID string   `mapstructure:"site_config_id" validate:"omitempty"`
	Size         int      `mapstructure:"size" validate:"omitempty"`
	Offset       int      `mapstructure:"offset" validate:"omitempty"`
}
