package feed_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/linkhive/linkhive/core/feed"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/log"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, f *domain.Feed) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockRepository) Update(ctx context.Context, f *domain.Feed) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockRepository) Find(ctx context.Context, filter domain.ListFeedsFilter) ([]*domain.Feed, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Feed), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*domain.Feed, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feed), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockAuditLogger struct {
	mock.Mock
}

func (m *mockAuditLogger) Log(ctx context.Context, action string, data interface{}) error {
	return m.Called(ctx, action, data).Error(0)
}

type ServiceTestSuite struct {
	suite.Suite
	repo        *mockRepository
	auditLogger *mockAuditLogger
	service     *feed.Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.repo = new(mockRepository)
	s.auditLogger = new(mockAuditLogger)
	s.auditLogger.On("Log", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	s.service = feed.NewService(feed.ServiceDeps{
		Repository:  s.repo,
		Validator:   validator.New(),
		Logger:      log.NewCtxLogger("error", nil),
		AuditLogger: s.auditLogger,
	})
}

func TestService(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestCreate() {
	s.Run("applies the default refresh interval", func() {
		s.SetupTest()
		s.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Feed")).Return(nil).Once()

		f := &domain.Feed{Title: "Acme Blog", FeedURL: "https://acme.example/feed.xml"}
		s.Require().NoError(s.service.Create(context.Background(), f))
		s.Equal(domain.DefaultRefreshInterval, f.RefreshInterval)
	})

	s.Run("rejects a blank title", func() {
		s.SetupTest()
		f := &domain.Feed{FeedURL: "https://acme.example/feed.xml"}
		s.ErrorIs(s.service.Create(context.Background(), f), feed.ErrTitleRequired)
	})

	s.Run("rejects a bad url", func() {
		s.SetupTest()
		f := &domain.Feed{Title: "Acme", FeedURL: "gopher://acme"}
		s.ErrorIs(s.service.Create(context.Background(), f), feed.ErrInvalidFeedURL)
	})
}

func (s *ServiceTestSuite) TestUpdate() {
	s.Run("merges unset fields from the stored feed", func() {
		s.SetupTest()
		existing := &domain.Feed{
			ID:              "feed-1",
			Title:           "Acme Blog",
			FeedURL:         "https://acme.example/feed.xml",
			RefreshInterval: 30,
		}
		s.repo.On("GetByID", mock.Anything, "feed-1").Return(existing, nil).Once()
		s.repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Feed")).Return(nil).Once()

		patch := &domain.Feed{ID: "feed-1", Title: "Acme Engineering Blog"}
		s.Require().NoError(s.service.Update(context.Background(), patch))

		s.Equal("Acme Engineering Blog", patch.Title)
		s.Equal("https://acme.example/feed.xml", patch.FeedURL)
		s.Equal(30, patch.RefreshInterval)
	})

	s.Run("empty id", func() {
		s.SetupTest()
		s.ErrorIs(s.service.Update(context.Background(), &domain.Feed{}), feed.ErrEmptyID)
	})
}

func (s *ServiceTestSuite) TestRefreshDue() {
	s.SetupTest()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-5 * time.Minute)
	stale := now.Add(-2 * time.Hour)

	disabled := false
	s.repo.On("Find", mock.Anything, domain.ListFeedsFilter{Disabled: &disabled}).Return([]*domain.Feed{
		{ID: "never-fetched"},
		{ID: "recent", LastFetchedAt: &recent, RefreshInterval: 60},
		{ID: "stale", LastFetchedAt: &stale, RefreshInterval: 60},
	}, nil).Once()

	due, err := s.service.RefreshDue(context.Background(), now)
	s.Require().NoError(err)

	ids := make([]string, 0, len(due))
	for _, f := range due {
		ids = append(ids, f.ID)
	}
	s.Equal([]string{"never-fetched", "stale"}, ids)
}

func (s *ServiceTestSuite) TestMarkFetched() {
	now := time.Now()

	s.Run("success resets the failure count", func() {
		s.SetupTest()
		f := &domain.Feed{ID: "feed-1", FailureCount: 3}
		s.repo.On("GetByID", mock.Anything, "feed-1").Return(f, nil).Once()
		s.repo.On("Update", mock.Anything, f).Return(nil).Once()

		s.Require().NoError(s.service.MarkFetched(context.Background(), "feed-1", now, nil))
		s.Equal(0, f.FailureCount)
		s.Equal(now, *f.LastFetchedAt)
	})

	s.Run("failure increments the failure count", func() {
		s.SetupTest()
		f := &domain.Feed{ID: "feed-1", FailureCount: 3}
		s.repo.On("GetByID", mock.Anything, "feed-1").Return(f, nil).Once()
		s.repo.On("Update", mock.Anything, f).Return(nil).Once()

		s.Require().NoError(s.service.MarkFetched(context.Background(), "feed-1", now, errors.New("boom")))
		s.Equal(4, f.FailureCount)
	})
}
