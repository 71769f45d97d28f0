package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/linkhive/linkhive/core/siteconfig"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/internal/store/postgres"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	return db, mock
}

var siteConfigColumns = []string{
	"id", "name", "site_url", "login_type",
	"success_text_class", "expected_success_text", "required_cookies",
	"selenium_config", "api_config",
	"created_at", "updated_at", "deleted_at",
}

type SiteConfigRepositoryTestSuite struct {
	suite.Suite
	mock       sqlmock.Sqlmock
	repository *postgres.SiteConfigRepository

	dummyID string
	now     time.Time
}

func TestSiteConfigRepository(t *testing.T) {
	suite.Run(t, new(SiteConfigRepositoryTestSuite))
}

func (s *SiteConfigRepositoryTestSuite) SetupTest() {
	db, mock := newTestDB(s.T())
	s.mock = mock
	s.repository = postgres.NewSiteConfigRepository(db)
	s.dummyID = uuid.New().String()
	s.now = time.Now()
}

func (s *SiteConfigRepositoryTestSuite) siteConfigRow() *sqlmock.Rows {
	return sqlmock.NewRows(siteConfigColumns).AddRow(
		s.dummyID, "example", "https://example.com", "api",
		nil, nil, `{sid,theme}`,
		nil, []byte(`{"loginUrl":"https://example.com/login","method":"POST","payloadMode":"json","body":{"user":"{{username}}","pass":"{{password}}"}}`),
		s.now, s.now, nil,
	)
}

func (s *SiteConfigRepositoryTestSuite) TestCreate() {
	s.Run("should insert and return the generated id", func() {
		s.SetupTest()
		expectedID := uuid.New()
		s.mock.ExpectBegin()
		s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "site_configs"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(expectedID.String()))
		s.mock.ExpectCommit()

		sc := &domain.SiteConfig{
			Name:      "example",
			SiteURL:   "https://example.com",
			LoginType: domain.LoginTypeAPI,
			APIConfig: &domain.APIConfig{
				LoginURL:    "https://example.com/login",
				Method:      "POST",
				PayloadMode: domain.PayloadModeJSON,
			},
		}
		err := s.repository.Create(context.Background(), sc)

		s.NoError(err)
		s.Equal(expectedID.String(), sc.ID)
		s.NoError(s.mock.ExpectationsWereMet())
	})

	s.Run("should propagate insert errors", func() {
		s.SetupTest()
		s.mock.ExpectBegin()
		s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "site_configs"`)).
			WillReturnError(gorm.ErrInvalidData)
		s.mock.ExpectRollback()

		err := s.repository.Create(context.Background(), &domain.SiteConfig{Name: "example"})

		s.Error(err)
	})
}

func (s *SiteConfigRepositoryTestSuite) TestGetByID() {
	s.Run("should map the stored row back to the domain", func() {
		s.SetupTest()
		s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "site_configs"`)).
			WithArgs(s.dummyID, 1).
			WillReturnRows(s.siteConfigRow())

		sc, err := s.repository.GetByID(context.Background(), s.dummyID)

		s.NoError(err)
		s.Equal("example", sc.Name)
		s.Equal(domain.LoginTypeAPI, sc.LoginType)
		s.Equal([]string{"sid", "theme"}, sc.RequiredCookies)
		s.Require().NotNil(sc.APIConfig)
		s.Equal("https://example.com/login", sc.APIConfig.LoginURL)
		s.Equal(domain.UsernamePlaceholder, sc.APIConfig.Body["user"])
	})

	s.Run("should return not found for missing rows", func() {
		s.SetupTest()
		s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "site_configs"`)).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := s.repository.GetByID(context.Background(), s.dummyID)

		s.ErrorIs(err, siteconfig.ErrNotFound)
	})
}

func (s *SiteConfigRepositoryTestSuite) TestFind() {
	s.Run("should apply login type filter", func() {
		s.SetupTest()
		s.mock.ExpectQuery(regexp.QuoteMeta(`"login_type" IN`)).
			WillReturnRows(s.siteConfigRow())

		records, err := s.repository.Find(context.Background(), domain.ListSiteConfigsFilter{
			LoginTypes: []string{"api"},
		})

		s.NoError(err)
		s.Len(records, 1)
	})
}

func (s *SiteConfigRepositoryTestSuite) TestDelete() {
	s.Run("should soft delete the row", func() {
		s.SetupTest()
		s.mock.ExpectBegin()
		s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "site_configs" SET "deleted_at"`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		s.mock.ExpectCommit()

		s.NoError(s.repository.Delete(context.Background(), s.dummyID))
	})

	s.Run("should return not found when nothing was deleted", func() {
		s.SetupTest()
		s.mock.ExpectBegin()
		s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "site_configs" SET "deleted_at"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		s.mock.ExpectCommit()

		err := s.repository.Delete(context.Background(), s.dummyID)

		s.ErrorIs(err, siteconfig.ErrNotFound)
	})
}
