package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/veldrane/coinfolio/internal/models"
)

// portfolioStore persists one portfolio document per user id.
type portfolioStore struct {
	fs *FileStore
}

func (s *portfolioStore) GetPortfolio(ctx context.Context, userID string) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := s.fs.readJSON("portfolios", userID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *portfolioStore) SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	if portfolio.UserID == "" {
		return fmt.Errorf("portfolio has no user id")
	}
	return s.fs.writeJSON("portfolios", portfolio.UserID, portfolio)
}

func (s *portfolioStore) DeletePortfolio(ctx context.Context, userID string) error {
	return s.fs.deleteJSON("portfolios", userID)
}

func (s *portfolioStore) ListPortfolioUsers(ctx context.Context) ([]string, error) {
	return s.fs.listKeys("portfolios")
}

// userStore persists user account documents keyed by user id. Email lookup
// scans the directory; account counts are small enough that an index isn't
// worth maintaining.
type userStore struct {
	fs *FileStore
}

func (s *userStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var doc models.UserDocument
	if err := s.fs.readJSON("users", userID, &doc); err != nil {
		return nil, err
	}
	return doc.ToUser(), nil
}

func (s *userStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	keys, err := s.fs.listKeys("users")
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		var doc models.UserDocument
		if err := s.fs.readJSON("users", key, &doc); err != nil {
			continue
		}
		if strings.EqualFold(doc.Email, email) {
			return doc.ToUser(), nil
		}
	}
	return nil, fmt.Errorf("user with email '%s': %w", email, ErrNotFound)
}

func (s *userStore) SaveUser(ctx context.Context, user *models.User) error {
	if user.UserID == "" {
		return fmt.Errorf("user has no id")
	}
	return s.fs.writeJSON("users", user.UserID, user.ToDocument())
}

func (s *userStore) DeleteUser(ctx context.Context, userID string) error {
	return s.fs.deleteJSON("users", userID)
}

func (s *userStore) ListUsers(ctx context.Context) ([]string, error) {
	return s.fs.listKeys("users")
}
