package server

import (
	"errors"
	"fmt"

	"github.com/goto/salt/config"

	"github.com/linkhive/linkhive/internal/store"
	"github.com/linkhive/linkhive/jobs"
	linkhivehttp "github.com/linkhive/linkhive/pkg/http"
	"github.com/linkhive/linkhive/pkg/opentelemetry"
)

type OIDCAuth struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
	UserInfoURL  string   `mapstructure:"user_info_url"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
}

type Auth struct {
	// HeaderKey carries the authenticated user set by the fronting
	// proxy. OIDC settings are used to resolve the full profile.
	HeaderKey string   `mapstructure:"header_key" default:"X-Auth-Email"`
	OIDC      OIDCAuth `mapstructure:"oidc"`
}

type Config struct {
	Port                int                    `mapstructure:"port" default:"8080"`
	EncryptionSecretKey string                 `mapstructure:"encryption_secret_key"`
	LogLevel            string                 `mapstructure:"log_level" default:"info"`
	DB                  store.Config           `mapstructure:"db"`
	HTTPClient          linkhivehttp.ClientConfig `mapstructure:"http_client"`
	Jobs                map[jobs.Type]jobs.Job `mapstructure:"jobs"`
	Telemetry           opentelemetry.Config   `mapstructure:"telemetry"`
	Auth                Auth                   `mapstructure:"auth"`
}

func LoadConfig(configFile string) (Config, error) {
	var cfg Config
	loader := config.NewLoader(config.WithFile(configFile))

	if err := loader.Load(&cfg); err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			fmt.Println(err)
			return cfg, nil
		}
		return Config{}, err
	}

	return cfg, nil
}
