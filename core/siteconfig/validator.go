package siteconfig

import (
	"net/http"
	"strings"

	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/slices"
	"github.com/linkhive/linkhive/pkg/urlutil"
)

// SupportedMethods is the fixed set of HTTP verbs the backend accepts
// for API-variant logins. Changing the backend contract requires
// updating this list in lockstep.
var SupportedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

const canonicalContentType = "Content-Type"

// ValidateForm validates a raw form submission and, when every rule
// passes, returns the normalized backend-ready config. On failure the
// returned FieldErrors is non-empty and the config is nil; the two are
// never both set. Errors are collected across all fields in one pass
// rather than failing fast, so the UI can mark every offending input
// at once.
func ValidateForm(form *domain.SiteConfigForm) (*domain.SiteConfig, FieldErrors) {
	errs := FieldErrors{}

	name := strings.TrimSpace(form.Name)
	if name == "" {
		errs[FieldName] = ErrCodeRequired
	}

	siteURL := strings.TrimSpace(form.SiteURL)
	if siteURL == "" {
		errs[FieldSiteURL] = ErrCodeRequired
	} else if !urlutil.IsValidURL(siteURL) {
		errs[FieldSiteURL] = ErrCodeInvalidURL
	}

	requiredCookies := parseCookieList(form.RequiredCookies)

	// success_text_class and expected_success_text are mutually
	// required: either both empty or both populated.
	successClass := strings.TrimSpace(form.SuccessTextClass)
	expectedText := strings.TrimSpace(form.ExpectedSuccessText)
	if successClass != "" && expectedText == "" {
		errs[FieldExpectedSuccessText] = ErrCodeRequired
	}
	if expectedText != "" && successClass == "" {
		errs[FieldSuccessTextClass] = ErrCodeRequired
	}

	var seleniumConfig *domain.SeleniumConfig
	var apiConfig *domain.APIConfig

	switch form.LoginType {
	case domain.LoginTypeSelenium:
		seleniumConfig = validateSeleniumConfig(form.SeleniumConfig, requiredCookies, errs)
	case domain.LoginTypeAPI:
		apiConfig = validateAPIConfig(form.APIConfig, requiredCookies, errs)
	case "":
		errs[FieldLoginType] = ErrCodeRequired
	default:
		errs[FieldLoginType] = ErrCodeInvalidLoginType
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &domain.SiteConfig{
		Name:                name,
		SiteURL:             siteURL,
		LoginType:           form.LoginType,
		SuccessTextClass:    successClass,
		ExpectedSuccessText: expectedText,
		RequiredCookies:     requiredCookies,
		SeleniumConfig:      seleniumConfig,
		APIConfig:           apiConfig,
	}, nil
}

func validateSeleniumConfig(cfg *domain.SeleniumConfigForm, requiredCookies []string, errs FieldErrors) *domain.SeleniumConfig {
	if cfg == nil {
		cfg = &domain.SeleniumConfigForm{}
	}

	usernameSelector := strings.TrimSpace(cfg.UsernameSelector)
	passwordSelector := strings.TrimSpace(cfg.PasswordSelector)
	loginButtonSelector := strings.TrimSpace(cfg.LoginButtonSelector)
	if usernameSelector == "" {
		errs[FieldUsernameSelector] = ErrCodeRequired
	}
	if passwordSelector == "" {
		errs[FieldPasswordSelector] = ErrCodeRequired
	}
	if loginButtonSelector == "" {
		errs[FieldLoginButtonSelector] = ErrCodeRequired
	}

	cookiesToStore := parseCookieList(cfg.CookiesToStore)

	// every config must name at least one cookie it expects to see or
	// persist
	if len(cookiesToStore) == 0 && len(requiredCookies) == 0 {
		errs[FieldRequiredCookies] = ErrCodeRequired
	}

	if len(errs) > 0 {
		return nil
	}

	return &domain.SeleniumConfig{
		UsernameSelector:    usernameSelector,
		PasswordSelector:    passwordSelector,
		LoginButtonSelector: loginButtonSelector,
		PostLoginSelector:   strings.TrimSpace(cfg.PostLoginSelector),
		CookiesToStore:      cookiesToStore,
	}
}

func validateAPIConfig(cfg *domain.APIConfigForm, requiredCookies []string, errs FieldErrors) *domain.APIConfig {
	if cfg == nil {
		cfg = &domain.APIConfigForm{}
	}

	loginURL := strings.TrimSpace(cfg.LoginURL)
	if loginURL == "" {
		errs[FieldAPILoginURL] = ErrCodeRequired
	} else if !urlutil.IsValidURL(loginURL) {
		errs[FieldAPILoginURL] = ErrCodeInvalidURL
	}

	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	if method == "" {
		errs[FieldAPIMethod] = ErrCodeRequired
	} else if !slices.Contains(SupportedMethods, method) {
		errs[FieldAPIMethod] = ErrCodeUnsupportedMethod
	}

	loginIDParam := strings.TrimSpace(cfg.LoginIDParam)
	passwordParam := strings.TrimSpace(cfg.PasswordParam)
	if loginIDParam == "" {
		errs[FieldAPILoginIDParam] = ErrCodeRequired
	}
	if passwordParam == "" {
		errs[FieldAPIPasswordParam] = ErrCodeRequired
	}

	cookiesToStore := parseCookieList(cfg.CookiesToStore)

	// reported under both the variant key and the shared key so the UI
	// can highlight whichever cookie input the form renders
	if len(cookiesToStore) == 0 && len(requiredCookies) == 0 {
		errs[FieldRequiredCookies] = ErrCodeRequired
		errs[FieldAPIRequiredCookies] = ErrCodeRequired
	}

	if len(errs) > 0 {
		return nil
	}

	return &domain.APIConfig{
		LoginURL:       loginURL,
		Method:         method,
		PayloadMode:    payloadModeOrDefault(cfg.PayloadMode),
		Body:           assembleBody(loginIDParam, passwordParam, cfg),
		Headers:        canonicalizeHeaders(cfg.HeadersObject, cfg.PayloadMode),
		Cookies:        copyNonEmptyMap(cfg.CookieMap),
		CookiesToStore: cookiesToStore,
	}
}

// assembleBody folds additional body fields and typed custom entries
// into the request body, then applies the two template placeholders
// last so they always win on key collision.
func assembleBody(loginIDParam, passwordParam string, cfg *domain.APIConfigForm) map[string]any {
	body := map[string]any{}

	for k, v := range cfg.AdditionalBody {
		body[k] = v
	}
	for _, entry := range cfg.CustomBodyEntries {
		key := strings.TrimSpace(entry.Key)
		if key == "" {
			continue
		}
		body[key] = CoerceBodyEntryValue(entry)
	}

	body[loginIDParam] = domain.UsernamePlaceholder
	body[passwordParam] = domain.PasswordPlaceholder

	return body
}

// canonicalizeHeaders rewrites any case-variant of Content-Type to the
// single canonical key and forces its value to match the payload mode.
func canonicalizeHeaders(headers map[string]string, mode domain.PayloadMode) map[string]string {
	result := map[string]string{}
	for k, v := range headers {
		if strings.EqualFold(k, canonicalContentType) {
			continue
		}
		result[k] = v
	}

	result[canonicalContentType] = contentTypeFor(payloadModeOrDefault(mode))
	return result
}

func contentTypeFor(mode domain.PayloadMode) string {
	if mode == domain.PayloadModeForm {
		return "application/x-www-form-urlencoded"
	}
	return "application/json"
}

func payloadModeOrDefault(mode domain.PayloadMode) domain.PayloadMode {
	if mode == domain.PayloadModeForm {
		return domain.PayloadModeForm
	}
	return domain.PayloadModeJSON
}

// parseCookieList splits a comma-separated cookie-name field into a
// trimmed, deduplicated, order-preserving list.
func parseCookieList(value string) []string {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return slices.Unique(slices.Compact(parts))
}

func copyNonEmptyMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
