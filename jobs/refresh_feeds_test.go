package jobs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linkhive/linkhive/core/siteconfig"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/jobs"
	linkhivehttp "github.com/linkhive/linkhive/pkg/http"
	"github.com/linkhive/linkhive/pkg/log"
)

type mockFeedService struct {
	mock.Mock
}

func (m *mockFeedService) RefreshDue(ctx context.Context, now time.Time) ([]*domain.Feed, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Feed), args.Error(1)
}

func (m *mockFeedService) MarkFetched(ctx context.Context, id string, fetchedAt time.Time, fetchErr error) error {
	args := m.Called(ctx, id, fetchedAt, fetchErr)
	return args.Error(0)
}

type mockBookmarkService struct {
	mock.Mock
}

func (m *mockBookmarkService) BulkUpsert(ctx context.Context, bookmarks []*domain.Bookmark) error {
	return m.Called(ctx, bookmarks).Error(0)
}

type mockSiteConfigService struct {
	mock.Mock
}

func (m *mockSiteConfigService) Find(ctx context.Context, filter domain.ListSiteConfigsFilter) ([]*domain.SiteConfig, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SiteConfig), args.Error(1)
}

type mockCredentialService struct {
	mock.Mock
}

func (m *mockCredentialService) Find(ctx context.Context, filter domain.ListCredentialsFilter) ([]*domain.Credential, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Credential), args.Error(1)
}

func (m *mockCredentialService) Reveal(ctx context.Context, id string) (*domain.Credential, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credential), args.Error(1)
}

type mockProber struct {
	mock.Mock
}

func (m *mockProber) Probe(ctx context.Context, sc *domain.SiteConfig, username, password string) (*siteconfig.ProbeResult, error) {
	args := m.Called(ctx, sc, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*siteconfig.ProbeResult), args.Error(1)
}

const rssBody = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example</title>
    <item>
      <title>First post</title>
      <link>https://example.com/first</link>
      <category>go</category>
    </item>
    <item>
      <title>Second post</title>
      <link>https://example.com/second</link>
    </item>
  </channel>
</rss>`

func TestRefreshFeeds(t *testing.T) {
	t.Run("should store parsed entries and record the fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(rssBody))
		}))
		defer server.Close()

		feeds := new(mockFeedService)
		bookmarks := new(mockBookmarkService)
		due := []*domain.Feed{{ID: "f-1", Title: "Example", FeedURL: server.URL}}
		feeds.On("RefreshDue", mock.Anything, mock.Anything).Return(due, nil).Once()
		feeds.On("MarkFetched", mock.Anything, "f-1", mock.Anything, nil).Return(nil).Once()
		bookmarks.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(entries []*domain.Bookmark) bool {
			return len(entries) == 2 &&
				entries[0].URL == "https://example.com/first" &&
				entries[0].FeedID == "f-1" &&
				entries[1].Title == "Second post"
		})).Return(nil).Once()

		h := jobs.NewHandler(jobs.HandlerDeps{
			FeedService:     feeds,
			BookmarkService: bookmarks,
			HTTPClient:      linkhivehttp.NewClient(nil),
			Logger:          log.NewCtxLogger("error", nil),
		})

		err := h.Run(context.Background(), jobs.TypeRefreshFeeds, jobs.Config{"concurrency": 2})

		require.NoError(t, err)
		feeds.AssertExpectations(t)
		bookmarks.AssertExpectations(t)
	})

	t.Run("should record the failure without aborting the run", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		feeds := new(mockFeedService)
		bookmarks := new(mockBookmarkService)
		due := []*domain.Feed{{ID: "f-1", FeedURL: server.URL}}
		feeds.On("RefreshDue", mock.Anything, mock.Anything).Return(due, nil).Once()
		feeds.On("MarkFetched", mock.Anything, "f-1", mock.Anything, mock.MatchedBy(func(err error) bool {
			return err != nil
		})).Return(nil).Once()

		h := jobs.NewHandler(jobs.HandlerDeps{
			FeedService:     feeds,
			BookmarkService: bookmarks,
			HTTPClient:      linkhivehttp.NewClient(nil),
			Logger:          log.NewCtxLogger("error", nil),
		})

		err := h.Run(context.Background(), jobs.TypeRefreshFeeds, jobs.Config{})

		require.NoError(t, err)
		feeds.AssertExpectations(t)
		bookmarks.AssertNotCalled(t, "BulkUpsert", mock.Anything, mock.Anything)
	})

	t.Run("should not store or record anything on dry run", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(rssBody))
		}))
		defer server.Close()

		feeds := new(mockFeedService)
		bookmarks := new(mockBookmarkService)
		feeds.On("RefreshDue", mock.Anything, mock.Anything).
			Return([]*domain.Feed{{ID: "f-1", FeedURL: server.URL}}, nil).Once()

		h := jobs.NewHandler(jobs.HandlerDeps{
			FeedService:     feeds,
			BookmarkService: bookmarks,
			HTTPClient:      linkhivehttp.NewClient(nil),
			Logger:          log.NewCtxLogger("error", nil),
		})

		err := h.Run(context.Background(), jobs.TypeRefreshFeeds, jobs.Config{"dry_run": true})

		require.NoError(t, err)
		feeds.AssertNotCalled(t, "MarkFetched", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		bookmarks.AssertNotCalled(t, "BulkUpsert", mock.Anything, mock.Anything)
	})
}

func TestRevalidateSessions(t *testing.T) {
	apiConfig := &domain.SiteConfig{
		ID:        "sc-1",
		Name:      "example",
		LoginType: domain.LoginTypeAPI,
	}

	t.Run("should probe each api config with revealed credentials", func(t *testing.T) {
		siteConfigs := new(mockSiteConfigService)
		credentials := new(mockCredentialService)
		prober := new(mockProber)

		siteConfigs.On("Find", mock.Anything, mock.Anything).
			Return([]*domain.SiteConfig{apiConfig}, nil).Once()
		credentials.On("Find", mock.Anything, domain.ListCredentialsFilter{
			Kinds:        []string{"site_login"},
			SiteConfigID: "sc-1",
		}).Return([]*domain.Credential{{ID: "c-1"}}, nil).Once()
		credentials.On("Reveal", mock.Anything, "c-1").
			Return(&domain.Credential{ID: "c-1", Data: map[string]interface{}{
				"username": "alice",
				"password": "s3cret",
			}}, nil).Once()
		prober.On("Probe", mock.Anything, apiConfig, "alice", "s3cret").
			Return(&siteconfig.ProbeResult{StatusCode: 200, Succeeded: true}, nil).Once()

		h := jobs.NewHandler(jobs.HandlerDeps{
			SiteConfigService: siteConfigs,
			CredentialService: credentials,
			Prober:            prober,
			Logger:            log.NewCtxLogger("error", nil),
		})

		err := h.Run(context.Background(), jobs.TypeRevalidateSessions, jobs.Config{})

		require.NoError(t, err)
		prober.AssertExpectations(t)
	})

	t.Run("should skip configs without a credential", func(t *testing.T) {
		siteConfigs := new(mockSiteConfigService)
		credentials := new(mockCredentialService)
		prober := new(mockProber)

		siteConfigs.On("Find", mock.Anything, mock.Anything).
			Return([]*domain.SiteConfig{apiConfig}, nil).Once()
		credentials.On("Find", mock.Anything, mock.Anything).
			Return([]*domain.Credential{}, nil).Once()

		h := jobs.NewHandler(jobs.HandlerDeps{
			SiteConfigService: siteConfigs,
			CredentialService: credentials,
			Prober:            prober,
			Logger:            log.NewCtxLogger("error", nil),
		})

		require.NoError(t, h.Run(context.Background(), jobs.TypeRevalidateSessions, jobs.Config{}))
		prober.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should reject unknown job types", func(t *testing.T) {
		h := jobs.NewHandler(jobs.HandlerDeps{Logger: log.NewCtxLogger("error", nil)})
		err := h.Run(context.Background(), jobs.Type("unknown"), jobs.Config{})
		assert.Error(t, err)
	})
}
