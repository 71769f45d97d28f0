package credential_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkhive/linkhive/core/credential"
	"github.com/linkhive/linkhive/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		credential *domain.Credential
		wantErr    error
	}{
		{
			name: "missing description",
			credential: &domain.Credential{
				Kind: domain.CredentialKindSiteLogin,
				Data: map[string]interface{}{},
			},
			wantErr: credential.ErrDescriptionRequired,
		},
		{
			name: "nil data",
			credential: &domain.Credential{
				Kind:        domain.CredentialKindMiniflux,
				Description: "reader account",
			},
			wantErr: credential.ErrDataRequired,
		},
		{
			name: "site login without site config id",
			credential: &domain.Credential{
				Kind:        domain.CredentialKindSiteLogin,
				Description: "acme login",
				Data:        map[string]interface{}{"username": "alice", "password": "x"},
			},
			wantErr: credential.ErrSiteConfigIDRequired,
		},
		{
			name: "site login without username",
			credential: &domain.Credential{
				Kind:         domain.CredentialKindSiteLogin,
				Description:  "acme login",
				SiteConfigID: "cfg-1",
				Data:         map[string]interface{}{"password": "x"},
			},
			wantErr: credential.ErrUsernameRequired,
		},
		{
			name: "site login without password",
			credential: &domain.Credential{
				Kind:         domain.CredentialKindSiteLogin,
				Description:  "acme login",
				SiteConfigID: "cfg-1",
				Data:         map[string]interface{}{"username": "alice"},
			},
			wantErr: credential.ErrPasswordRequired,
		},
		{
			name: "valid site login",
			credential: &domain.Credential{
				Kind:         domain.CredentialKindSiteLogin,
				Description:  "acme login",
				SiteConfigID: "cfg-1",
				Data:         map[string]interface{}{"username": "alice", "password": "x"},
			},
		},
		{
			name: "miniflux with invalid url",
			credential: &domain.Credential{
				Kind:        domain.CredentialKindMiniflux,
				Description: "reader",
				Data:        map[string]interface{}{"miniflux_url": "not-a-url", "api_key": "k"},
			},
			wantErr: credential.ErrMinifluxURLInvalid,
		},
		{
			name: "miniflux without api key",
			credential: &domain.Credential{
				Kind:        domain.CredentialKindMiniflux,
				Description: "reader",
				Data:        map[string]interface{}{"miniflux_url": "https://reader.example"},
			},
			wantErr: credential.ErrAPIKeyRequired,
		},
		{
			name: "valid miniflux",
			credential: &domain.Credential{
				Kind:        domain.CredentialKindMiniflux,
				Description: "reader",
				Data:        map[string]interface{}{"miniflux_url": "https://reader.example", "api_key": "k"},
			},
		},
		{
			name: "instapaper without password",
			credential: &domain.Credential{
				Kind:        domain.CredentialKindInstapaper,
				Description: "reading list",
				Data:        map[string]interface{}{"username": "alice"},
			},
			wantErr: credential.ErrPasswordRequired,
		},
		{
			name: "instapaper app without consumer secret",
			credential: &domain.Credential{
				Kind:        domain.CredentialKindInstapaperApp,
				Description: "app tokens",
				Data:        map[string]interface{}{"consumer_key": "ck"},
			},
			wantErr: credential.ErrConsumerSecretRequired,
		},
		{
			name: "valid instapaper app",
			credential: &domain.Credential{
				Kind:        domain.CredentialKindInstapaperApp,
				Description: "app tokens",
				Data:        map[string]interface{}{"consumer_key": "ck", "consumer_secret": "cs"},
			},
		},
		{
			// kinds outside the known set pass with no extra checks
			name: "unrecognized kind",
			credential: &domain.Credential{
				Kind:        "pocket",
				Description: "someday",
				Data:        map[string]interface{}{},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := credential.Validate(tc.credential)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
