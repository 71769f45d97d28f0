package siteconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/log"
)

// upper bound on how much of a login response body the extraction map
// is willing to parse
const maxProbeBodySize = 1 << 20

//go:generate mockery --name=httpClient --exported --with-expecter
type httpClient interface {
	MakeRequest(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error)
}

// ProbeResult reports the outcome of executing an API-variant login
// against the live site.
type ProbeResult struct {
	StatusCode     int               `json:"statusCode"`
	Cookies        map[string]string `json:"cookies,omitempty"`
	MissingCookies []string          `json:"missingCookies,omitempty"`
	Succeeded      bool              `json:"succeeded"`
}

// Prober executes a normalized API login config with real credentials
// to verify the configuration before it is relied on by feed fetching.
type Prober struct {
	client httpClient
	logger log.Logger
}

func NewProber(client httpClient, logger log.Logger) *Prober {
	return &Prober{client: client, logger: logger}
}

// Probe renders the login body with the given credentials, issues the
// request, applies the configured cookie extraction map to the
// response, and checks that every required cookie came back.
func (p *Prober) Probe(ctx context.Context, sc *domain.SiteConfig, username, password string) (*ProbeResult, error) {
	if sc.LoginType != domain.LoginTypeAPI || sc.APIConfig == nil {
		return nil, ErrNotAPIVariant
	}
	api := sc.APIConfig

	body, err := encodeLoginBody(api, username, password)
	if err != nil {
		return nil, fmt.Errorf("encoding login body: %w", err)
	}

	resp, err := p.client.MakeRequest(ctx, api.Method, api.LoginURL, body, api.Headers)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", api.LoginURL, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		resp.Body.Close()
	}()

	raw := map[string]string{}
	for _, c := range resp.Cookies() {
		raw[c.Name] = c.Value
	}

	cookies := raw
	if len(api.Cookies) > 0 {
		cookies = p.extractCookies(ctx, api.Cookies, raw, resp.Body)
	}

	var missing []string
	for _, name := range sc.RequiredCookies {
		if _, ok := cookies[name]; !ok {
			missing = append(missing, name)
		}
	}

	result := &ProbeResult{
		StatusCode:     resp.StatusCode,
		Cookies:        cookies,
		MissingCookies: missing,
		Succeeded:      resp.StatusCode < http.StatusBadRequest && len(missing) == 0,
	}
	p.logger.Debug(ctx, "login probe finished",
		"site_config_id", sc.ID, "status", result.StatusCode, "succeeded", result.Succeeded)

	return result, nil
}

// extractCookies resolves the configured extraction map. Each entry
// names a stored cookie and an expression saying where its value comes
// from: a "json:" prefix reads a dotted path out of the response body,
// anything else names a response cookie (an empty expression means the
// same name). Cookies the response never produced stay absent, so the
// required-cookie check reports them as missing.
func (p *Prober) extractCookies(ctx context.Context, exprs map[string]string, raw map[string]string, body io.Reader) map[string]string {
	cookies := map[string]string{}

	var doc interface{}
	decoded := false

	for name, expr := range exprs {
		if path, ok := strings.CutPrefix(expr, "json:"); ok {
			if !decoded {
				decoded = true
				if err := json.NewDecoder(io.LimitReader(body, maxProbeBodySize)).Decode(&doc); err != nil {
					p.logger.Debug(ctx, "probe response body is not json", "error", err)
				}
			}
			if v, ok := jsonPathValue(doc, path); ok {
				cookies[name] = v
			}
			continue
		}

		source := expr
		if source == "" {
			source = name
		}
		if v, ok := raw[source]; ok {
			cookies[name] = v
		}
	}
	return cookies
}

func jsonPathValue(doc interface{}, path string) (string, bool) {
	current := doc
	for _, part := range strings.Split(path, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return "", false
		}
		if current, ok = node[part]; !ok {
			return "", false
		}
	}

	switch v := current.(type) {
	case string:
		return v, true
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// encodeLoginBody substitutes credential placeholders and encodes the
// body per the configured payload mode.
func encodeLoginBody(api *domain.APIConfig, username, password string) (io.Reader, error) {
	rendered := make(map[string]any, len(api.Body))
	for k, v := range api.Body {
		if s, ok := v.(string); ok {
			s = strings.ReplaceAll(s, domain.UsernamePlaceholder, username)
			s = strings.ReplaceAll(s, domain.PasswordPlaceholder, password)
			rendered[k] = s
			continue
		}
		rendered[k] = v
	}

	if api.PayloadMode == domain.PayloadModeForm {
		values := url.Values{}
		for k, v := range rendered {
			if s, ok := v.(string); ok {
				values.Set(k, s)
				continue
			}
			values.Set(k, fmt.Sprintf("%v", v))
		}
		return strings.NewReader(values.Encode()), nil
	}

	raw, err := json.Marshal(rendered)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(raw), nil
}
