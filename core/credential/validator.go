package credential

import (
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/urlutil"
)

type siteLoginData struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type minifluxData struct {
	MinifluxURL string `mapstructure:"miniflux_url"`
	APIKey      string `mapstructure:"api_key"`
}

type instapaperData struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type instapaperAppData struct {
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
}

// Validate checks the kind-specific field requirements of a
// credential. Unlike the site config validator this short-circuits on
// the first violated rule and returns a single error. A kind outside
// the known set passes with no additional checks.
func Validate(c *domain.Credential) error {
	if strings.TrimSpace(c.Description) == "" {
		return ErrDescriptionRequired
	}
	if c.Data == nil {
		return ErrDataRequired
	}

	switch c.Kind {
	case domain.CredentialKindSiteLogin:
		if strings.TrimSpace(c.SiteConfigID) == "" {
			return ErrSiteConfigIDRequired
		}
		var data siteLoginData
		if err := mapstructure.Decode(c.Data, &data); err != nil {
			return err
		}
		if strings.TrimSpace(data.Username) == "" {
			return ErrUsernameRequired
		}
		if strings.TrimSpace(data.Password) == "" {
			return ErrPasswordRequired
		}

	case domain.CredentialKindMiniflux:
		var data minifluxData
		if err := mapstructure.Decode(c.Data, &data); err != nil {
			return err
		}
		if !urlutil.IsValidURL(data.MinifluxURL) {
			return ErrMinifluxURLInvalid
		}
		if strings.TrimSpace(data.APIKey) == "" {
			return ErrAPIKeyRequired
		}

	case domain.CredentialKindInstapaper:
		var data instapaperData
		if err := mapstructure.Decode(c.Data, &data); err != nil {
			return err
		}
		if strings.TrimSpace(data.Username) == "" {
			return ErrUsernameRequired
		}
		if strings.TrimSpace(data.Password) == "" {
			return ErrPasswordRequired
		}

	case domain.CredentialKindInstapaperApp:
		var data instapaperAppData
		if err := mapstructure.Decode(c.Data, &data); err != nil {
			return err
		}
		if strings.TrimSpace(data.ConsumerKey) == "" {
			return ErrConsumerKeyRequired
		}
		if strings.TrimSpace(data.ConsumerSecret) == "" {
			return ErrConsumerSecretRequired
		}
	}

	return nil
}
