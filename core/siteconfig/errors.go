package siteconfig

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound      = errors.New("site config not found")
	ErrDuplicateName = errors.New("a site config with the same name already exists")
	ErrEmptyID       = errors.New("site config id can't be empty")
	ErrNotAPIVariant = errors.New("site config is not an api login config")
)

// Field error codes returned to the UI. These are stable, enumerable
// strings looked up in a translation table client-side; never return
// prose here.
const (
	ErrCodeRequired          = "required"
	ErrCodeInvalidURL        = "invalid_url"
	ErrCodeUnsupportedMethod = "unsupported_method"
	ErrCodeInvalidLoginType  = "invalid_login_type"
)

// Field keys used in the error map. Variant-specific fields are
// prefixed with their config path.
const (
	FieldName                = "name"
	FieldSiteURL             = "site_url"
	FieldLoginType           = "login_type"
	FieldSuccessTextClass    = "success_text_class"
	FieldExpectedSuccessText = "expected_success_text"
	FieldRequiredCookies     = "required_cookies"

	FieldUsernameSelector    = "selenium_config.username_selector"
	FieldPasswordSelector    = "selenium_config.password_selector"
	FieldLoginButtonSelector = "selenium_config.login_button_selector"

	FieldAPILoginURL         = "api_config.login_url"
	FieldAPIMethod           = "api_config.method"
	FieldAPILoginIDParam     = "api_config.login_id_param"
	FieldAPIPasswordParam    = "api_config.password_param"
	FieldAPIRequiredCookies  = "api_config.required_cookies"
)

// FieldErrors maps a form field path to an error code.
type FieldErrors map[string]string

// ValidationError wraps a non-empty FieldErrors map so callers can
// surface per-field errors while treating validation as a single
// failed operation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid site config: " + strings.Join(parts, ", ")
}
