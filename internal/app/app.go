// internal/app/app.go
package app

import (
	"fmt"
	"sync"

	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/cart"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/catalog"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/config"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/infrastructure/cache"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/orders"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/pkg/logging"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/session"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// App wires the storefront providers together with an explicit lifecycle:
// config, logger, local store, catalog cache, catalog, sessions and orders
// are created once at startup and passed by reference to whoever needs them.
type App struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Store    *store.Store
	Catalog  *catalog.Service
	Sessions *session.Service
	Orders   *orders.Service

	cacheConn *cache.Client

	mu    sync.Mutex
	carts map[string]*cart.Manager
}

// New builds the application container. Startup order: config is assumed
// loaded, then logger, local store, catalog cache tier, services, and the
// one-time legacy order cleanup.
func New(cfg *config.Config) (*App, error) {
	logger := logging.New(cfg)

	localStore, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Store:  localStore,
		carts:  make(map[string]*cart.Manager),
	}

	// The cache tier prefers Redis when configured; otherwise the most
	// recent remote responses are remembered in the local store.
	var catalogCache catalog.Cache
	if cfg.Cache.Enabled {
		conn, err := cache.NewConnection(cfg)
		if err != nil {
			logger.WithField("error", err.Error()).Warn("Redis cache unavailable, using local store cache tier")
			catalogCache = catalog.NewStoreCache(localStore)
		} else {
			a.cacheConn = conn
			catalogCache = catalog.NewRedisCache(conn.GetClient(), cfg.Cache.TTL)
		}
	} else {
		catalogCache = catalog.NewStoreCache(localStore)
	}

	a.Catalog, err = catalog.NewService(cfg, catalogCache, logger)
	if err != nil {
		localStore.Close()
		return nil, fmt.Errorf("failed to build catalog service: %w", err)
	}

	a.Sessions = session.NewService(cfg, localStore, logger)
	a.Orders = orders.NewService(cfg, localStore, a.Sessions, logger)

	// One-time migration: per-owner partitions replaced the global record
	a.Orders.CleanupLegacyGlobal()

	return a, nil
}

// CartFor returns the cart manager for a tenant, building it on first use.
// One manager exists per tenant for the process lifetime, so tenant
// partitions stay isolated from each other.
func (a *App) CartFor(tenantID string) *cart.Manager {
	a.mu.Lock()
	defer a.mu.Unlock()

	if manager, ok := a.carts[tenantID]; ok {
		return manager
	}

	manager := cart.NewManager(tenantID, a.Store, a.Catalog, a.Sessions, a.Orders, a.Logger)
	a.carts[tenantID] = manager
	return manager
}

// CacheClient returns the Redis client, or nil when Redis is not in use
func (a *App) CacheClient() *redis.Client {
	if a.cacheConn == nil {
		return nil
	}
	return a.cacheConn.GetClient()
}

// Close releases the store and cache connections
func (a *App) Close() error {
	if a.cacheConn != nil {
		if err := a.cacheConn.Close(); err != nil {
			a.Logger.WithField("error", err.Error()).Warn("Failed to close cache connection")
		}
	}
	return a.Store.Close()
}
