package news

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
	"github.com/veldrane/coinfolio/internal/models"
)

type mockProvider struct {
	name  string
	fn    func(ctx context.Context, limit int) ([]models.NewsArticle, error)
	calls int
}

func (m *mockProvider) LatestNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	m.calls++
	return m.fn(ctx, limit)
}

func (m *mockProvider) Name() string { return m.name }

func sampleArticles(source string) []models.NewsArticle {
	return []models.NewsArticle{
		{Title: "Bitcoin rallies", Source: source, PublishedAt: time.Now().UTC()},
	}
}

func TestRefreshUsesPrimaryProvider(t *testing.T) {
	primary := &mockProvider{name: "primary", fn: func(_ context.Context, _ int) ([]models.NewsArticle, error) {
		return sampleArticles("primary"), nil
	}}
	alt := &mockProvider{name: "alt", fn: func(_ context.Context, _ int) ([]models.NewsArticle, error) {
		return sampleArticles("alt"), nil
	}}

	svc := NewService([]interfaces.NewsClient{primary, alt}, nil, common.NewSilentLogger())

	articles, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if articles[0].Source != "primary" {
		t.Errorf("expected primary provider, got %s", articles[0].Source)
	}
	if alt.calls != 0 {
		t.Error("alternative provider must not be called when primary succeeds")
	}
}

func TestRefreshFailsOverToAlternative(t *testing.T) {
	primary := &mockProvider{name: "primary", fn: func(_ context.Context, _ int) ([]models.NewsArticle, error) {
		return nil, fmt.Errorf("rate limited")
	}}
	alt := &mockProvider{name: "alt", fn: func(_ context.Context, _ int) ([]models.NewsArticle, error) {
		return sampleArticles("alt"), nil
	}}

	svc := NewService([]interfaces.NewsClient{primary, alt}, nil, common.NewSilentLogger())

	articles, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if articles[0].Source != "alt" {
		t.Errorf("expected alt provider, got %s", articles[0].Source)
	}
}

func TestRefreshFallsBackToSynthetic(t *testing.T) {
	broken := &mockProvider{name: "broken", fn: func(_ context.Context, _ int) ([]models.NewsArticle, error) {
		return nil, fmt.Errorf("down")
	}}

	svc := NewService([]interfaces.NewsClient{broken}, nil, common.NewSilentLogger())

	articles, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("synthetic fallback must not error: %v", err)
	}
	if len(articles) == 0 {
		t.Fatal("synthetic fallback must produce at least one article")
	}
	if articles[0].Source != "Market Data" {
		t.Errorf("synthetic articles must carry the Market Data source, got %s", articles[0].Source)
	}
}

func TestArticlesServesCacheWhileFresh(t *testing.T) {
	provider := &mockProvider{name: "primary", fn: func(_ context.Context, _ int) ([]models.NewsArticle, error) {
		return sampleArticles("primary"), nil
	}}

	svc := NewService([]interfaces.NewsClient{provider}, nil, common.NewSilentLogger())

	if _, err := svc.Articles(context.Background()); err != nil {
		t.Fatalf("Articles failed: %v", err)
	}
	if _, err := svc.Articles(context.Background()); err != nil {
		t.Fatalf("Articles failed: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call while cache is fresh, got %d", provider.calls)
	}

	svc.mu.Lock()
	svc.fetchedAt = time.Now().Add(-5 * time.Minute)
	svc.mu.Unlock()

	if _, err := svc.Articles(context.Background()); err != nil {
		t.Fatalf("Articles failed: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("expected refetch after TTL expiry, got %d calls", provider.calls)
	}
}
