package services

import (
	"context"
	"errors"
	"time"

	"github.com/taskhub/api/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrTaskNotFound         = errors.New("task not found")
)

type UserService interface {
	// Create hashes the password with argon2id and inserts the user.
	//
	// It returns ErrUserAlreadyExists if the email is taken. The
	// returned projection never carries the password hash.
	Create(ctx context.Context, params CreateUserParams) (*models.PublicUser, error)

	// GetByEmail returns the full user record including the password
	// hash. It exists for authentication only; everything else goes
	// through GetByID.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the public projection of the user or
	// ErrUserNotFound.
	GetByID(ctx context.Context, id int64) (*models.PublicUser, error)

	// VerifyPassword reports whether the plaintext password matches
	// the stored argon2id hash.
	VerifyPassword(password, hash string) (bool, error)
}

type TaskService interface {
	// CreateTask inserts a task owned by params.UserID. Status and
	// priority must already be resolved by the caller.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTasksByUserID returns every task owned by the user, most
	// recently created first. No tasks is an empty slice, not an
	// error.
	GetTasksByUserID(ctx context.Context, userID int64) ([]*models.Task, error)

	// GetTaskByID is the only read-by-id path. A task owned by a
	// different user yields ErrTaskNotFound, same as a missing one.
	GetTaskByID(ctx context.Context, id, userID int64) (*models.Task, error)

	// UpdateTask changes exactly the fields present in params and
	// always refreshes updated_at. An update with no fields returns
	// ErrTaskNotFound without touching the database.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask removes at most one row matching id and owner and
	// returns ErrTaskNotFound if nothing was removed.
	DeleteTask(ctx context.Context, id, userID int64) error
}

type AuthService interface {
	// Register creates the user and issues a token for it.
	//
	// It returns ErrUserAlreadyExists if the email is taken.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Login authenticates by email and password and issues a token.
	//
	// It returns ErrUserNotFound or ErrUserPasswordMismatch; callers
	// are expected to collapse both into one response.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// IssueToken signs a time-bound token carrying the user id.
	IssueToken(userID int64) (string, time.Time, error)

	// ParseToken verifies the token and returns the user id it was
	// issued for. Malformed, forged and expired tokens all fail.
	ParseToken(token string) (int64, error)
}

type CreateUserParams struct {
	Name     string
	Email    string
	Password string
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	User           models.PublicUser
	Token          string
	TokenExpiresAt time.Time
}

type CreateTaskParams struct {
	UserID      int64
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

type UpdateTaskParams struct {
	ID          int64
	UserID      int64
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     models.Optional[time.Time]
}
