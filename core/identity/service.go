package identity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"

	"github.com/linkhive/linkhive/pkg/log"
)

const (
	// DefaultExpirySkew forces a refresh when the access token is about to
	// expire, so downstream calls never race the expiry.
	DefaultExpirySkew = 30 * time.Second

	userInfoCacheTTL = time.Minute
)

var (
	ErrNoIDToken        = errors.New("token response carries no id_token")
	ErrMalformedIDToken = errors.New("id_token is not a valid jwt")
)

//go:generate mockery --name=httpClient --exported --with-expecter
type httpClient interface {
	MakeRequest(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error)
}

type Service struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	httpClient  httpClient

	expirySkew time.Duration
	cache      *cache.Cache
	logger     log.Logger
}

type ServiceDeps struct {
	OAuthConfig *oauth2.Config
	UserInfoURL string
	HTTPClient  httpClient

	ExpirySkew time.Duration
	Logger     log.Logger
}

func NewService(deps ServiceDeps) *Service {
	skew := deps.ExpirySkew
	if skew <= 0 {
		skew = DefaultExpirySkew
	}
	return &Service{
		oauthConfig: deps.OAuthConfig,
		userInfoURL: deps.UserInfoURL,
		httpClient:  deps.HTTPClient,
		expirySkew:  skew,
		cache:       cache.New(userInfoCacheTTL, 2*userInfoCacheTTL),
		logger:      deps.Logger,
	}
}

// AuthCodeURL builds the provider URL that starts the authorization
// code flow for the given state.
func (s *Service) AuthCodeURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange redeems an authorization code and resolves the resulting
// token into a normalized profile.
func (s *Service) Exchange(ctx context.Context, code string) (*Profile, *oauth2.Token, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	profile, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	return profile, token, nil
}

// Refresh returns a usable token for the given one, going back to the
// provider when it is expired or inside the expiry skew window.
func (s *Service) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	return s.TokenSource(ctx, token).Token()
}

// TokenSource returns a refreshing source for the given token. Tokens
// inside the expiry skew window are treated as already expired so the
// source refreshes them eagerly.
func (s *Service) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	if token != nil && !token.Expiry.IsZero() && time.Until(token.Expiry) < s.expirySkew {
		stale := *token
		stale.Expiry = time.Now().Add(-time.Second)
		token = &stale
	}
	return s.oauthConfig.TokenSource(ctx, token)
}

// Resolve builds the normalized profile for a token by merging its
// ID-token claims with the provider's userinfo response.
func (s *Service) Resolve(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	idClaims, err := idTokenClaims(token)
	if err != nil {
		return nil, err
	}

	userInfo, err := s.fetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		// the ID token alone is enough for a usable profile
		s.logger.Warn(ctx, "userinfo fetch failed, using id_token claims only", "error", err)
		userInfo = nil
	}

	return profileFromClaims(MergeClaims(idClaims, userInfo)), nil
}

// ResolveAccessToken builds a profile from the userinfo endpoint alone,
// for callers that only hold a bare access token.
func (s *Service) ResolveAccessToken(ctx context.Context, accessToken string) (*Profile, error) {
	userInfo, err := s.fetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return profileFromClaims(userInfo), nil
}

func (s *Service) fetchUserInfo(ctx context.Context, accessToken string) (map[string]interface{}, error) {
	if cached, ok := s.cache.Get(accessToken); ok {
		return cached.(map[string]interface{}), nil
	}

	res, err := s.httpClient.MakeRequest(ctx, http.MethodGet, s.userInfoURL, nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d", res.StatusCode)
	}

	var claims map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decoding userinfo response: %w", err)
	}

	s.cache.SetDefault(accessToken, claims)
	return claims, nil
}

// idTokenClaims decodes the payload segment of the id_token. Signature
// verification already happened during the token exchange with the
// provider.
func idTokenClaims(token *oauth2.Token) (map[string]interface{}, error) {
	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, ErrNoIDToken
	}

	segments := strings.Split(raw, ".")
	if len(segments) != 3 {
		return nil, ErrMalformedIDToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		return nil, ErrMalformedIDToken
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrMalformedIDToken
	}
	return claims, nil
}
