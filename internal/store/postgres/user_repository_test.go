package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/linkhive/linkhive/core/user"
	"github.com/linkhive/linkhive/domain"
	"github.com/linkhive/linkhive/internal/store/postgres"
)

var userColumns = []string{
	"id", "email", "role", "disabled",
	"created_at", "updated_at", "deleted_at",
}

type UserRepositoryTestSuite struct {
	suite.Suite
	mock       sqlmock.Sqlmock
	repository *postgres.UserRepository

	dummyID string
	now     time.Time
}

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}

func (s *UserRepositoryTestSuite) SetupTest() {
	db, mock := newTestDB(s.T())
	s.mock = mock
	s.repository = postgres.NewUserRepository(db)
	s.dummyID = uuid.New().String()
	s.now = time.Now()
}

func (s *UserRepositoryTestSuite) userRow() *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).AddRow(
		s.dummyID, "alice@example.com", "admin", false,
		s.now, s.now, nil,
	)
}

func (s *UserRepositoryTestSuite) TestGetByEmail() {
	s.Run("should map the stored row back to the domain", func() {
		s.SetupTest()
		s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
			WithArgs("alice@example.com", 1).
			WillReturnRows(s.userRow())

		u, err := s.repository.GetByEmail(context.Background(), "alice@example.com")

		s.NoError(err)
		s.Equal(domain.UserRoleAdmin, u.Role)
		s.Equal(s.dummyID, u.ID)
	})

	s.Run("should return not found for missing rows", func() {
		s.SetupTest()
		s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := s.repository.GetByEmail(context.Background(), "missing@example.com")

		s.ErrorIs(err, user.ErrNotFound)
	})
}

func (s *UserRepositoryTestSuite) TestCountByRole() {
	s.Run("should count only enabled accounts", func() {
		s.SetupTest()
		s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users"`)).
			WithArgs("admin").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := s.repository.CountByRole(context.Background(), domain.UserRoleAdmin)

		s.NoError(err)
		s.Equal(2, count)
	})
}

func (s *UserRepositoryTestSuite) TestCreate() {
	s.Run("should insert and return the generated id", func() {
		s.SetupTest()
		expectedID := uuid.New()
		s.mock.ExpectBegin()
		s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(expectedID.String()))
		s.mock.ExpectCommit()

		u := &domain.User{Email: "alice@example.com", Role: domain.UserRoleMember}
		err := s.repository.Create(context.Background(), u)

		s.NoError(err)
		s.Equal(expectedID.String(), u.ID)
	})
}

func (s *UserRepositoryTestSuite) TestDelete() {
	s.Run("should return not found when nothing was deleted", func() {
		s.SetupTest()
		s.mock.ExpectBegin()
		s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "deleted_at"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		s.mock.ExpectCommit()

		s.ErrorIs(s.repository.Delete(context.Background(), s.dummyID), user.ErrNotFound)
	})
}
