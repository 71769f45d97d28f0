package bookmark_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/linkhive/linkhive/core/bookmark"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/pkg/log"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, b *domain.Bookmark) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepository) Update(ctx context.Context, b *domain.Bookmark) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepository) Find(ctx context.Context, filter domain.ListBookmarksFilter) ([]*domain.Bookmark, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Bookmark), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bookmark), args.Error(1)
}

func (m *mockRepository) BulkUpsert(ctx context.Context, bookmarks []*domain.Bookmark) error {
	return m.Called(ctx, bookmarks).Error(0)
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
	service     *bookmark.Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.repo = new(mockRepository)
	s.auditLogger = new(mockAuditLogger)
	s.auditLogger.On("Log", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	s.service = bookmark.NewService(bookmark.ServiceDeps{
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
	s.Run("should default title to url and normalize tags", func() {
		s.SetupTest()
		b := &domain.Bookmark{
			URL:  "https://example.com/post",
			Tags: []string{" Go ", "go", "", "News"},
		}
		s.repo.On("Create", mock.Anything, b).Return(nil).Once()

		err := s.service.Create(context.Background(), b)

		s.NoError(err)
		s.Equal("https://example.com/post", b.Title)
		s.Equal([]string{"go", "news"}, b.Tags)
		s.repo.AssertExpectations(s.T())
	})

	s.Run("should reject invalid url without touching the store", func() {
		s.SetupTest()
		err := s.service.Create(context.Background(), &domain.Bookmark{URL: "ftp://example.com"})

		s.ErrorIs(err, bookmark.ErrInvalidURL)
		s.repo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	})
}

func (s *ServiceTestSuite) TestUpdate() {
	s.Run("should keep unset fields from the stored bookmark", func() {
		s.SetupTest()
		existing := &domain.Bookmark{
			ID:    "b-1",
			URL:   "https://example.com/post",
			Title: "Original title",
			Tags:  []string{"go"},
		}
		s.repo.On("GetByID", mock.Anything, "b-1").Return(existing, nil).Once()
		s.repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		update := &domain.Bookmark{ID: "b-1", Title: "New title"}
		err := s.service.Update(context.Background(), update)

		s.NoError(err)
		s.Equal("New title", update.Title)
		s.Equal("https://example.com/post", update.URL)
		s.Equal([]string{"go"}, update.Tags)
	})

	s.Run("should return error if id is empty", func() {
		s.SetupTest()
		err := s.service.Update(context.Background(), &domain.Bookmark{})
		s.ErrorIs(err, bookmark.ErrEmptyID)
	})

	s.Run("should return error if bookmark does not exist", func() {
		s.SetupTest()
		expectedErr := errors.New("record not found")
		s.repo.On("GetByID", mock.Anything, "missing").Return(nil, expectedErr).Once()

		err := s.service.Update(context.Background(), &domain.Bookmark{ID: "missing"})
		s.ErrorIs(err, expectedErr)
	})
}

func (s *ServiceTestSuite) TestBulkUpsert() {
	s.Run("should normalize every entry before storing", func() {
		s.SetupTest()
		bookmarks := []*domain.Bookmark{
			{FeedID: "f-1", URL: "https://example.com/a", Tags: []string{"Feed"}},
			{FeedID: "f-1", URL: "https://example.com/b", Tags: []string{"feed"}},
		}
		s.repo.On("BulkUpsert", mock.Anything, bookmarks).Return(nil).Once()

		err := s.service.BulkUpsert(context.Background(), bookmarks)

		s.NoError(err)
		s.Equal([]string{"feed"}, bookmarks[0].Tags)
		s.Equal([]string{"feed"}, bookmarks[1].Tags)
	})

	s.Run("should reject batch containing an invalid url", func() {
		s.SetupTest()
		err := s.service.BulkUpsert(context.Background(), []*domain.Bookmark{
			{URL: "https://example.com/a"},
			{URL: "not-a-url"},
		})

		s.ErrorIs(err, bookmark.ErrInvalidURL)
		s.repo.AssertNotCalled(s.T(), "BulkUpsert", mock.Anything, mock.Anything)
	})
}

func (s *ServiceTestSuite) TestArchive() {
	s.Run("should flip the archived flag on the stored bookmark", func() {
		s.SetupTest()
		existing := &domain.Bookmark{ID: "b-1", URL: "https://example.com/post"}
		s.repo.On("GetByID", mock.Anything, "b-1").Return(existing, nil).Once()
		s.repo.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Bookmark) bool {
			return b.Archived
		})).Return(nil).Once()

		err := s.service.Archive(context.Background(), "b-1", true)

		s.NoError(err)
		s.repo.AssertExpectations(s.T())
	})

	s.Run("should return error if id is empty", func() {
		s.SetupTest()
		err := s.service.Archive(context.Background(), "", true)
		s.ErrorIs(err, bookmark.ErrEmptyID)
	})
}

func (s *ServiceTestSuite) TestFind() {
	s.Run("should return error if filter is invalid", func() {
		s.SetupTest()
		_, err := s.service.Find(context.Background(), domain.ListBookmarksFilter{Tags: []string{}})
		s.Error(err)
	})

	s.Run("should pass the filter to the repository", func() {
		s.SetupTest()
		filter := domain.ListBookmarksFilter{FeedID: "f-1"}
		expected := []*domain.Bookmark{{ID: "b-1"}}
		s.repo.On("Find", mock.Anything, filter).Return(expected, nil).Once()

		actual, err := s.service.Find(context.Background(), filter)

		s.NoError(err)
		s.Equal(expected, actual)
	})
}

func (s *ServiceTestSuite) TestDelete() {
	s.Run("should return error if id is empty", func() {
		s.SetupTest()
		s.ErrorIs(s.service.Delete(context.Background(), ""), bookmark.ErrEmptyID)
	})

	s.Run("should delete from repository", func() {
		s.SetupTest()
		s.repo.On("Delete", mock.Anything, "b-1").Return(nil).Once()
		s.NoError(s.service.Delete(context.Background(), "b-1"))
	})
}
