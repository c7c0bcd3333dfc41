package repositories

import (
	"context"
	"errors"

	"mcadesk/internal/models"
)

var (
	ErrEmailTaken        = errors.New("email already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// IncrementTokenVersion invalidates every token issued so far
	IncrementTokenVersion(ctx context.Context, userID uint) error

	// TouchLogin records a successful login
	TouchLogin(ctx context.Context, userID uint) error
}
