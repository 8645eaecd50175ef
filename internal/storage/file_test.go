package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()

	m, err := NewManager(common.NewSilentLogger(), config)
	require.NoError(t, err)
	return m
}

func TestPortfolioRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	purchase := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	portfolio := &models.Portfolio{
		ID:     "portfolio-1",
		UserID: "user-1",
		Name:   "My Portfolio",
		Holdings: []models.Holding{
			{
				ID:              "h1",
				AssetID:         "bitcoin",
				Symbol:          "BTC",
				Name:            "Bitcoin",
				Quantity:        0.1,
				AverageBuyPrice: 45000,
				TotalInvested:   4500,
				PurchaseDate:    purchase,
			},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	require.NoError(t, m.PortfolioStore().SavePortfolio(ctx, portfolio))

	loaded, err := m.PortfolioStore().GetPortfolio(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, portfolio.ID, loaded.ID)
	require.Len(t, loaded.Holdings, 1)
	assert.Equal(t, 0.1, loaded.Holdings[0].Quantity)
	// Date fields survive the ISO-8601 round trip.
	assert.True(t, purchase.Equal(loaded.Holdings[0].PurchaseDate))
}

func TestPortfolioNotFound(t *testing.T) {
	m := newTestManager(t)

	_, err := m.PortfolioStore().GetPortfolio(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPortfolioCorruptDocument(t *testing.T) {
	m := newTestManager(t)

	path := filepath.Join(m.fs.basePath, "portfolios", "user-1.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := m.PortfolioStore().GetPortfolio(context.Background(), "user-1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound), "corruption must not read as absence")
}

func TestSaveOverwritesWholeDocument(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	p := &models.Portfolio{ID: "p1", UserID: "u1", Name: "first",
		Holdings: []models.Holding{{ID: "h1"}, {ID: "h2"}}}
	require.NoError(t, m.PortfolioStore().SavePortfolio(ctx, p))

	p.Holdings = p.Holdings[:1]
	p.Name = "second"
	require.NoError(t, m.PortfolioStore().SavePortfolio(ctx, p))

	loaded, err := m.PortfolioStore().GetPortfolio(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Name)
	assert.Len(t, loaded.Holdings, 1)
}

func TestUserStore(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	user := &models.User{
		UserID:       "user-1",
		Email:        "Trader@Example.com",
		Name:         "Trader",
		PasswordHash: "$2a$10$fakehash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, m.UserStore().SaveUser(ctx, user))

	byID, err := m.UserStore().GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
	assert.Equal(t, user.PasswordHash, byID.PasswordHash, "hash must survive persistence")

	byEmail, err := m.UserStore().GetUserByEmail(ctx, "trader@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.UserID)

	_, err = m.UserStore().GetUserByEmail(ctx, "missing@example.com")
	assert.True(t, errors.Is(err, ErrNotFound))

	ids, err := m.UserStore().ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, ids)

	require.NoError(t, m.UserStore().DeleteUser(ctx, "user-1"))
	_, err = m.UserStore().GetUser(ctx, "user-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSanitizeKey(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		key      string
		expected string
	}{
		{"user_1", "user_1"},
		{"../../etc/passwd", "____etc_passwd"},
		{"a/b\\c:d", "a_b_c_d"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, m.fs.sanitizeKey(tt.key))
	}
}
