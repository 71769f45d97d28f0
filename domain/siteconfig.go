package domain

import "time"

const SystemActorName = "system"

// LoginType discriminates how a third-party site is logged into:
// simulated browser interaction or a direct HTTP API call.
type LoginType string

const (
	LoginTypeSelenium LoginType = "selenium"
	LoginTypeAPI      LoginType = "api"
)

// PayloadMode selects the encoding of the API-variant login body.
type PayloadMode string

const (
	PayloadModeJSON PayloadMode = "json"
	PayloadModeForm PayloadMode = "form"
)

// Template placeholders substituted with real credentials when a login
// request is executed.
const (
	UsernamePlaceholder = "{{username}}"
	PasswordPlaceholder = "{{password}}"
)

// Declared types for custom body entries. Anything else falls back to
// the raw string.
const (
	BodyValueString  = "string"
	BodyValueNumber  = "number"
	BodyValueBoolean = "boolean"
	BodyValueNull    = "null"
	BodyValueObject  = "object"
	BodyValueArray   = "array"
)

// SiteConfigForm is the loosely-typed input shape submitted by the
// admin UI. All multi-value fields arrive as comma-separated strings
// and every value is untrimmed user input.
type SiteConfigForm struct {
	Name                string              `json:"name" yaml:"name"`
	SiteURL             string              `json:"site_url" yaml:"site_url"`
	LoginType           LoginType           `json:"login_type" yaml:"login_type"`
	SuccessTextClass    string              `json:"success_text_class" yaml:"success_text_class"`
	ExpectedSuccessText string              `json:"expected_success_text" yaml:"expected_success_text"`
	RequiredCookies     string              `json:"required_cookies" yaml:"required_cookies"`
	SeleniumConfig      *SeleniumConfigForm `json:"selenium_config,omitempty" yaml:"selenium_config,omitempty"`
	APIConfig           *APIConfigForm      `json:"api_config,omitempty" yaml:"api_config,omitempty"`
}

type SeleniumConfigForm struct {
	UsernameSelector    string `json:"username_selector" yaml:"username_selector"`
	PasswordSelector    string `json:"password_selector" yaml:"password_selector"`
	LoginButtonSelector string `json:"login_button_selector" yaml:"login_button_selector"`
	PostLoginSelector   string `json:"post_login_selector" yaml:"post_login_selector"`
	CookiesToStore      string `json:"cookies_to_store" yaml:"cookies_to_store"`
}

type APIConfigForm struct {
	LoginURL          string            `json:"login_url" yaml:"login_url"`
	Method            string            `json:"method" yaml:"method"`
	LoginIDParam      string            `json:"login_id_param" yaml:"login_id_param"`
	PasswordParam     string            `json:"password_param" yaml:"password_param"`
	CookiesToStore    string            `json:"cookies_to_store" yaml:"cookies_to_store"`
	HeadersObject     map[string]string `json:"headers_object,omitempty" yaml:"headers_object,omitempty"`
	AdditionalBody    map[string]any    `json:"additional_body,omitempty" yaml:"additional_body,omitempty"`
	CookieMap         map[string]string `json:"cookie_map,omitempty" yaml:"cookie_map,omitempty"`
	PayloadMode       PayloadMode       `json:"payload_mode" yaml:"payload_mode"`
	CustomBodyEntries []CustomBodyEntry `json:"custom_body_entries,omitempty" yaml:"custom_body_entries,omitempty"`
}

// CustomBodyEntry is a user-added extra key/value pair merged into the
// API login request body, with an explicit type hint for coercion.
type CustomBodyEntry struct {
	ID        string `json:"id" yaml:"id"`
	Key       string `json:"key" yaml:"key"`
	Value     string `json:"value" yaml:"value"`
	ValueType string `json:"value_type,omitempty" yaml:"value_type,omitempty"`
}

// SiteConfig is the validated, backend-ready configuration. Field
// casing follows the admin frontend contract.
type SiteConfig struct {
	ID                  string          `json:"id" yaml:"id"`
	Name                string          `json:"name" yaml:"name"`
	SiteURL             string          `json:"siteUrl" yaml:"siteUrl"`
	LoginType           LoginType       `json:"loginType" yaml:"loginType"`
	SuccessTextClass    string          `json:"successTextClass,omitempty" yaml:"successTextClass,omitempty"`
	ExpectedSuccessText string          `json:"expectedSuccessText,omitempty" yaml:"expectedSuccessText,omitempty"`
	RequiredCookies     []string        `json:"requiredCookies,omitempty" yaml:"requiredCookies,omitempty"`
	SeleniumConfig      *SeleniumConfig `json:"seleniumConfig,omitempty" yaml:"seleniumConfig,omitempty"`
	APIConfig           *APIConfig      `json:"apiConfig,omitempty" yaml:"apiConfig,omitempty"`
	CreatedAt           time.Time       `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt           time.Time       `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type SeleniumConfig struct {
	UsernameSelector    string   `json:"usernameSelector" yaml:"usernameSelector"`
	PasswordSelector    string   `json:"passwordSelector" yaml:"passwordSelector"`
	LoginButtonSelector string   `json:"loginButtonSelector" yaml:"loginButtonSelector"`
	PostLoginSelector   string   `json:"postLoginSelector,omitempty" yaml:"postLoginSelector,omitempty"`
	CookiesToStore      []string `json:"cookiesToStore,omitempty" yaml:"cookiesToStore,omitempty"`
}

type APIConfig struct {
	LoginURL       string            `json:"loginUrl" yaml:"loginUrl"`
	Method         string            `json:"method" yaml:"method"`
	PayloadMode    PayloadMode       `json:"payloadMode" yaml:"payloadMode"`
	Body           map[string]any    `json:"body" yaml:"body"`
	Headers        map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies        map[string]string `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	CookiesToStore []string          `json:"cookiesToStore,omitempty" yaml:"cookiesToStore,omitempty"`
}

type ListSiteConfigsFilter struct {
	IDs        []string `mapstructure:"ids" validate:"omitempty,min=1"`
	Name       string   `mapstructure:"name" validate:"omitempty"`
	LoginTypes []string `mapstructure:"login_types" validate:"omitempty,dive,oneof=selenium api"`
	Size       int      `mapstructure:"size" validate:"omitempty"`
	Offset     int      `mapstructure:"offset" validate:"omitempty"`
}
