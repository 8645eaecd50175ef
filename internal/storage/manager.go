package storage

import (
	"fmt"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
)

// Manager coordinates the storage backends over one FileStore.
type Manager struct {
	fs         *FileStore
	portfolios *portfolioStore
	users      *userStore
	logger     *common.Logger
}

// NewManager opens the file store rooted at the configured path.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	fs, err := NewFileStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file store: %w", err)
	}

	return &Manager{
		fs:         fs,
		portfolios: &portfolioStore{fs: fs},
		users:      &userStore{fs: fs},
		logger:     logger,
	}, nil
}

// PortfolioStore returns the portfolio document store.
func (m *Manager) PortfolioStore() interfaces.PortfolioStore {
	return m.portfolios
}

// UserStore returns the user account store.
func (m *Manager) UserStore() interfaces.UserStore {
	return m.users
}

// Close releases storage resources. File-backed stores hold no open handles
// between operations, so this is a no-op kept for interface symmetry.
func (m *Manager) Close() error {
	return nil
}
