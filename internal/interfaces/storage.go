package interfaces

import (
	"context"

	"github.com/veldrane/coinfolio/internal/models"
)

// PortfolioStore persists whole portfolio documents keyed by user id.
// Writes replace the entire document atomically.
type PortfolioStore interface {
	GetPortfolio(ctx context.Context, userID string) (*models.Portfolio, error)
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error
	DeletePortfolio(ctx context.Context, userID string) error
	// ListPortfolioUsers returns the user ids with a persisted portfolio.
	ListPortfolioUsers(ctx context.Context) ([]string, error)
}

// UserStore persists user accounts.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)
}

// StorageManager coordinates the storage backends.
type StorageManager interface {
	PortfolioStore() PortfolioStore
	UserStore() UserStore
	Close() error
}
