package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"triquery/internal/auth"
	"triquery/internal/cache"
	"triquery/internal/config"
	"triquery/internal/history"
	"triquery/internal/logger"
	"triquery/internal/orchestrator"
	"triquery/internal/provider"
	"triquery/internal/queue"
)

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config       config.Config
	Log          *slog.Logger
	Store        history.Store
	Queue        queue.Queue
	Cache        cache.Cache
	Auth         auth.Authenticator
	Providers    []provider.Client
	Orchestrator *orchestrator.Orchestrator
}

// Build loads env, config, and the full gateway component set.
func Build() (Deps, error) {
	deps, err := buildBase()
	if err != nil {
		return Deps{}, err
	}

	q, err := buildQueue(deps.Config, deps.Log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	deps.Queue = q

	c, err := buildCache(deps.Config, deps.Log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	deps.Cache = c

	a, err := auth.NewStatic(deps.Config.AuthTokens)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize authenticator: %w", err)
	}
	deps.Auth = a

	providers, err := buildProviders(deps.Config, deps.Log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize providers: %w", err)
	}
	deps.Providers = providers
	deps.Orchestrator = orchestrator.New(deps.Log, providers, deps.Queue)

	return deps, nil
}

// BuildArchiver wires only what the archiver worker needs.
func BuildArchiver() (Deps, error) {
	deps, err := buildBase()
	if err != nil {
		return Deps{}, err
	}
	q, err := buildQueue(deps.Config, deps.Log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	deps.Queue = q

	c, err := buildCache(deps.Config, deps.Log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	deps.Cache = c

	return deps, nil
}

func buildBase() (Deps, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	st, err := buildStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	return Deps{Config: cfg, Log: log, Store: st}, nil
}

func buildStore(cfg config.Config, log *slog.Logger) (history.Store, error) {
	switch cfg.StoreProvider {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := history.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres history store")
		return db, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid option: postgres)", cfg.StoreProvider)
	}
}

func buildQueue(cfg config.Config, log *slog.Logger) (queue.Queue, error) {
	switch cfg.QueueProvider {
	case "nats":
		if cfg.QueueURL == "" {
			return nil, fmt.Errorf("QUEUE_URL is required when QUEUE_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.QueueURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS queue")
		return queue.NewNATS(log, nc), nil
	default:
		return nil, fmt.Errorf("invalid QUEUE_PROVIDER: %s (valid option: nats)", cfg.QueueProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_PROVIDER=redis")
		}
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable; falling back to no-op cache", "err", err)
			return cache.NewNoOpCache(), nil
		}
		log.Info("using Redis history cache")
		return c, nil
	case "noop":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: redis, noop)", cfg.CacheProvider)
	}
}

// buildProviders constructs all three adapters. A provider with no key still
// constructs; it resolves its slot with a credential error per call.
func buildProviders(cfg config.Config, log *slog.Logger) ([]provider.Client, error) {
	gemini, err := provider.NewGemini(context.Background(), cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	providers := []provider.Client{
		provider.NewOpenAI(cfg.OpenAIKey, openai.ChatModel(cfg.OpenAIModel)),
		gemini,
		provider.NewPerplexity(cfg.PerplexityKey, cfg.PerplexityModel),
	}
	for _, p := range providers {
		log.Info("provider configured", "provider", p.Name())
	}
	return providers, nil
}
