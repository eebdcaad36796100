package services

import (
	"context"
	"errors"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/taskhub/api/internal/models"
	"github.com/taskhub/api/internal/storage"
)

type userServiceImpl struct {
	logger zerolog.Logger
	db     storage.Querier
}

func NewUserService(
	logger zerolog.Logger,
	db storage.Querier,
) UserService {
	return &userServiceImpl{
		logger: logger,
		db:     db,
	}
}

func (s *userServiceImpl) Create(ctx context.Context, params CreateUserParams) (*models.PublicUser, error) {
	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	user := models.PublicUser{
		Name:  params.Name,
		Email: params.Email,
	}

	const insertUserQuery = `
INSERT INTO users (name, email, password)
VALUES ($1, $2, $3)
RETURNING id
`
	err = s.db.QueryRow(
		ctx,
		insertUserQuery,
		user.Name,
		user.Email,
		passwordHash,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("inserted user")

	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("created user")
	return &user, nil
}

func (s *userServiceImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{
		Email: email,
	}

	const selectUserByEmailQuery = `
SELECT id,
       name,
       password,
       created_at
FROM users
WHERE email = $1
`
	err := s.db.QueryRow(
		ctx,
		selectUserByEmailQuery,
		user.Email,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Password,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("email", user.Email).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to select user by email")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Msg("selected user by email")

	return &user, nil
}

func (s *userServiceImpl) GetByID(ctx context.Context, id int64) (*models.PublicUser, error) {
	user := models.PublicUser{
		ID: id,
	}

	const selectUserByIDQuery = `
SELECT name,
       email
FROM users
WHERE id = $1
`
	err := s.db.QueryRow(
		ctx,
		selectUserByIDQuery,
		user.ID,
	).Scan(
		&user.Name,
		&user.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("user_id", user.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("user_id", user.ID).
			Msg("failed to select user by id")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Msg("selected user by id")

	return &user, nil
}

func (s *userServiceImpl) VerifyPassword(password, hash string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return false, err
	}
	return match, nil
}
