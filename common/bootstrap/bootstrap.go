package bootstrap

import (
	"context"
	"fmt"

	"github.com/callready/scriptd/common/cache"
	"github.com/callready/scriptd/common/config"
	"github.com/callready/scriptd/common/db"
	"github.com/callready/scriptd/common/logger"
	"github.com/callready/scriptd/common/store"
)

// Setup initializes all service components
// This is the main entry point for all services
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Components, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	components := &Components{
		cleanupFuncs: make([]func() error, 0),
	}

	// 1. Load configuration
	var err error
	if options.customConfig != nil {
		components.Config = options.customConfig
	} else {
		components.Config, err = config.Load(serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// 2. Initialize logger
	if options.customLogger != nil {
		components.Logger = options.customLogger
	} else {
		components.Logger = logger.New(
			components.Config.Service.LogLevel,
			components.Config.Service.LogFormat,
		)
	}

	components.Logger.Info("initializing service",
		"service", serviceName,
		"environment", components.Config.Service.Environment,
	)

	// 3. Initialize document store (if not skipped)
	if !options.skipStore {
		if err := setupStore(ctx, components, options); err != nil {
			components.Shutdown(ctx)
			return nil, err
		}
	}

	// 4. Initialize cache (if not skipped)
	if !options.skipCache && components.Config.Cache.Enabled {
		if err := setupCache(ctx, components); err != nil {
			components.Shutdown(ctx)
			return nil, err
		}
	}

	components.Logger.Info("service initialized")

	return components, nil
}

func setupStore(ctx context.Context, components *Components, options *options) error {
	if options.customStore != nil {
		components.Store = options.customStore
		return nil
	}

	switch components.Config.Database.Driver {
	case "postgres":
		components.Logger.Info("connecting to database")
		database, err := db.New(ctx, components.Config.Database, components.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		components.DB = database
		components.addCleanup(func() error {
			components.DB.Close()
			return nil
		})

		pg := store.NewPostgresStore(database)
		if err := pg.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize document store: %w", err)
		}
		components.Store = pg

	case "memory":
		components.Logger.Info("using in-memory document store")
		components.Store = store.NewMemoryStore()

	default:
		return fmt.Errorf("unknown store driver: %s", components.Config.Database.Driver)
	}

	return nil
}

func setupCache(ctx context.Context, components *Components) error {
	if components.Config.Redis.Enabled {
		components.Logger.Info("initializing redis cache", "addr", components.Config.Redis.Addr)
		redisCache, err := cache.NewRedisCache(ctx, components.Config.Redis, components.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		components.Cache = redisCache
	} else {
		components.Logger.Info("initializing memory cache")
		components.Cache = cache.NewMemoryCache(components.Logger)
	}

	components.addCleanup(func() error {
		components.Logger.Info("closing cache")
		return components.Cache.Close()
	})

	return nil
}
