package jobs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/linkhive/linkhive/core/siteconfig"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/log"
)

type Type string

const (
	TypeRefreshFeeds       Type = "refresh_feeds"
	TypeRevalidateSessions Type = "revalidate_sessions"
)

// Job is the per-job section of the server config.
type Job struct {
	Enabled  bool   `mapstructure:"enabled"`
	Interval string `mapstructure:"interval"`
	Config   Config `mapstructure:"config"`
}

// Config holds the raw job-specific options.
type Config map[string]interface{}

func (c Config) Decode(v interface{}) error {
	return mapstructure.Decode(map[string]interface{}(c), v)
}

type feedService interface {
	RefreshDue(ctx context.Context, now time.Time) ([]*domain.Feed, error)
	MarkFetched(ctx context.Context, id string, fetchedAt time.Time, fetchErr error) error
}

type bookmarkService interface {
	BulkUpsert(ctx context.Context, bookmarks []*domain.Bookmark) error
}

type siteConfigService interface {
	Find(ctx context.Context, filter domain.ListSiteConfigsFilter) ([]*domain.SiteConfig, error)
}

type credentialService interface {
	Find(ctx context.Context, filter domain.ListCredentialsFilter) ([]*domain.Credential, error)
	Reveal(ctx context.Context, id string) (*domain.Credential, error)
}

type prober interface {
	Probe(ctx context.Context, sc *domain.SiteConfig, username, password string) (*siteconfig.ProbeResult, error)
}

type httpClient interface {
	MakeRequest(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error)
}

// Handler runs the scheduled maintenance jobs.
type Handler struct {
	feedService       feedService
	bookmarkService   bookmarkService
	siteConfigService siteConfigService
	credentialService credentialService
	prober            prober
	httpClient        httpClient

	logger log.Logger
}

type HandlerDeps struct {
	FeedService       feedService
	BookmarkService   bookmarkService
	SiteConfigService siteConfigService
	CredentialService credentialService
	Prober            prober
	HTTPClient        httpClient

	Logger log.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		deps.FeedService,
		deps.BookmarkService,
		deps.SiteConfigService,
		deps.CredentialService,
		deps.Prober,
		deps.HTTPClient,

		deps.Logger,
	}
}

// Run dispatches a job by type with its raw config.
func (h *Handler) Run(ctx context.Context, jobType Type, cfg Config) error {
	switch jobType {
	case TypeRefreshFeeds:
		return h.RefreshFeeds(ctx, cfg)
	case TypeRevalidateSessions:
		return h.RevalidateSessions(ctx, cfg)
	default:
		return fmt.Errorf("unknown job type: %q", jobType)
	}
}
