// Package app wires configuration, storage, clients, and services into a
// single application core shared by the server binary and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/veldrane/coinfolio/internal/clients/coingecko"
	"github.com/veldrane/coinfolio/internal/clients/cryptocompare"
	"github.com/veldrane/coinfolio/internal/clients/gemini"
	"github.com/veldrane/coinfolio/internal/clients/inference"
	"github.com/veldrane/coinfolio/internal/clients/newsdata"
	"github.com/veldrane/coinfolio/internal/common"
	"github.com/veldrane/coinfolio/internal/interfaces"
	"github.com/veldrane/coinfolio/internal/services/market"
	"github.com/veldrane/coinfolio/internal/services/news"
	"github.com/veldrane/coinfolio/internal/services/portfolio"
	"github.com/veldrane/coinfolio/internal/services/prediction"
	"github.com/veldrane/coinfolio/internal/services/signal"
	"github.com/veldrane/coinfolio/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Storage           interfaces.StorageManager
	MarketService     interfaces.MarketService
	NewsService       interfaces.NewsService
	PredictionService interfaces.PredictionService
	SignalService     interfaces.SignalService
	PortfolioService  interfaces.PortfolioService
	StartupTime       time.Time

	jitter          *market.Simulator
	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients, and storage. configPath may be
// empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("COINFOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "coinfolio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/coinfolio.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	coingeckoClient := coingecko.NewClient(config.Clients.CoinGecko.APIKey,
		coingecko.WithBaseURL(config.Clients.CoinGecko.BaseURL),
		coingecko.WithRateLimit(config.Clients.CoinGecko.RateLimit),
		coingecko.WithTimeout(config.Clients.CoinGecko.GetTimeout()),
		coingecko.WithLogger(logger),
	)

	inferenceClient := inference.NewClient(config.Clients.Inference.BaseURL,
		inference.WithTimeout(config.Clients.Inference.GetTimeout()),
		inference.WithLogger(logger),
	)

	var geminiClient *gemini.Client
	if config.Clients.Gemini.APIKey != "" {
		geminiClient, err = gemini.NewClient(ctx, config.Clients.Gemini.APIKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		}
	}

	marketService := market.NewService(coingeckoClient, logger, config.Clients.CoinGecko.TopN)
	newsService := news.NewService(newsProviders(config, logger), marketService, logger)

	predictionOpts := []prediction.ServiceOption{
		prediction.WithTTL(config.Feed.GetPredictionInterval()),
	}
	if geminiClient != nil {
		predictionOpts = append(predictionOpts, prediction.WithContentClient(geminiClient))
	}
	predictionService := prediction.NewService(marketService, inferenceClient, logger, predictionOpts...)

	signalService := signal.NewService(predictionService, logger)
	portfolioService := portfolio.NewService(storageManager, marketService, logger)

	a := &App{
		Config:            config,
		Logger:            logger,
		Storage:           storageManager,
		MarketService:     marketService,
		NewsService:       newsService,
		PredictionService: predictionService,
		SignalService:     signalService,
		PortfolioService:  portfolioService,
		StartupTime:       startupStart,
	}

	if config.Feed.JitterEnabled {
		a.jitter = market.NewSimulator(marketService, logger, config.Feed.GetJitterInterval())
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// newsProviders builds the provider list in failover order. The configured
// primary goes first; providers without credentials are skipped.
func newsProviders(config *common.Config, logger *common.Logger) []interfaces.NewsClient {
	ccClient := cryptocompare.NewClient(
		cryptocompare.WithTimeout(config.Clients.News.GetTimeout()),
		cryptocompare.WithLogger(logger),
	)

	var ndClient *newsdata.Client
	if config.Clients.News.NewsDataAPIKey != "" {
		ndClient = newsdata.NewClient(config.Clients.News.NewsDataAPIKey,
			newsdata.WithTimeout(config.Clients.News.GetTimeout()),
			newsdata.WithLogger(logger),
		)
	}

	var providers []interfaces.NewsClient
	if config.Clients.News.Provider == "newsdata" && ndClient != nil {
		providers = append(providers, ndClient, ccClient)
	} else {
		providers = append(providers, ccClient)
		if ndClient != nil {
			providers = append(providers, ndClient)
		}
	}
	return providers
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
	if a.jitter != nil {
		a.jitter.Stop()
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
