package services

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newUserServiceWithMock(t *testing.T) (UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUserService(zerolog.Nop(), mock), mock
}

func TestUserCreate_Success(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("A", "a@x.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	user, err := svc.Create(context.Background(), CreateUserParams{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, "A", user.Name)
	require.Equal(t, "a@x.com", user.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("A", "a@x.com", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := svc.Create(context.Background(), CreateUserParams{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.ErrorIs(t, err, ErrUserAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmail_Success(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)

	createdAt := time.Now()
	mock.ExpectQuery("SELECT(.|\n)+FROM users").
		WithArgs("a@x.com").
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "name", "password", "created_at"}).
			AddRow(int64(1), "A", "argon2id-hash", createdAt))

	user, err := svc.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, "argon2id-hash", user.Password)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)

	mock.ExpectQuery("SELECT(.|\n)+FROM users").
		WithArgs("ghost@x.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByEmail(context.Background(), "ghost@x.com")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByID_Success(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)

	mock.ExpectQuery("SELECT(.|\n)+FROM users").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.
			NewRows([]string{"name", "email"}).
			AddRow("A", "a@x.com"))

	user, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "A", user.Name)
	require.Equal(t, "a@x.com", user.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByID_NotFound(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)

	mock.ExpectQuery("SELECT(.|\n)+FROM users").
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	svc := NewUserService(zerolog.Nop(), nil)

	hash, err := argon2id.CreateHash("secret1", argon2id.DefaultParams)
	require.NoError(t, err)

	match, err := svc.VerifyPassword("secret1", hash)
	require.NoError(t, err)
	require.True(t, match)

	match, err = svc.VerifyPassword("not-secret", hash)
	require.NoError(t, err)
	require.False(t, match)
}
