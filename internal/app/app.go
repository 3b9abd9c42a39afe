// Package app wires configuration, infrastructure and services into a runnable process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rappelscan/backend/config"
	httpDelivery "github.com/rappelscan/backend/internal/delivery/http"
	mcpDelivery "github.com/rappelscan/backend/internal/delivery/mcp"
	"github.com/rappelscan/backend/internal/domain"
	"github.com/rappelscan/backend/internal/infrastructure/cache"
	"github.com/rappelscan/backend/internal/infrastructure/favorites"
	"github.com/rappelscan/backend/internal/infrastructure/httputil"
	"github.com/rappelscan/backend/internal/infrastructure/openfoodfacts"
	"github.com/rappelscan/backend/internal/infrastructure/rappelconso"
	"github.com/rappelscan/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App holds the long-lived dependencies shared by the server, CLI and MCP entry points
type App struct {
	Config    *config.Config
	Log       *logrus.Logger
	Recalls   *usecase.RecallService
	Favorites *usecase.FavoritesService
	Watch     *usecase.WatchService

	cache *cache.MemoryCache
	store domain.FavoriteStore
}

// New builds the application. Close must be called to release the favorites store.
func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	store, err := favorites.Open(cfg.Favorites.Driver, cfg.Favorites.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open favorites store: %w", err)
	}

	feed := rappelconso.NewClient(cfg.Recalls.BaseURL, httputil.Config{
		Timeout:       cfg.Recalls.Timeout,
		RatePerSecond: cfg.Recalls.RatePerSecond,
		Burst:         cfg.Recalls.Burst,
		MaxRetries:    cfg.Recalls.MaxRetries,
	}, logger)

	catalog := openfoodfacts.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Country, cfg.Catalog.PageSize, httputil.Config{
		Timeout:       cfg.Catalog.Timeout,
		RatePerSecond: cfg.Catalog.RatePerSecond,
		Burst:         cfg.Catalog.Burst,
		MaxRetries:    cfg.Catalog.MaxRetries,
		UserAgent:     cfg.Catalog.UserAgent,
	}, logger)

	memoryCache := cache.NewMemoryCache()

	recalls := usecase.NewRecallService(feed, catalog, memoryCache, logger, usecase.RecallServiceConfig{
		FeedLimit:   cfg.Recalls.Limit,
		LatestLimit: cfg.Recalls.LatestLimit,
		CacheTTL:    cfg.Cache.TTL,
	})
	favoritesService := usecase.NewFavoritesService(store, logger)
	watch := usecase.NewWatchService(feed, store, logger, usecase.WatchConfig{
		Concurrency: cfg.Watch.Concurrency,
		FeedLimit:   cfg.Recalls.Limit,
	})

	logger.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"favorites":   cfg.Favorites.Driver,
		"cache_ttl":   cfg.Cache.TTL.String(),
		"feed":        cfg.Recalls.BaseURL,
		"catalog":     cfg.Catalog.BaseURL,
	}).Debug("Application initialized")

	return &App{
		Config:    cfg,
		Log:       logger,
		Recalls:   recalls,
		Favorites: favoritesService,
		Watch:     watch,
		cache:     memoryCache,
		store:     store,
	}, nil
}

// Close releases the cache janitor and the favorites store
func (a *App) Close() error {
	a.cache.Close()
	return a.store.Close()
}

// MCP returns an MCP server over the application's services
func (a *App) MCP() *mcpDelivery.Server {
	return mcpDelivery.NewServer(a.Recalls, a.Watch)
}

// Router builds the HTTP router, with the MCP streamable transport mounted at /mcp
func (a *App) Router() *gin.Engine {
	handler := httpDelivery.NewHandler(a.Recalls, a.Favorites, a.Watch, a.Log)
	router := httpDelivery.SetupRouter(a.Config, handler, a.Log)
	router.Any("/mcp", gin.WrapH(a.MCP().HTTPHandler()))
	return router
}

// Serve runs the HTTP server and the watch scheduler until ctx is cancelled,
// then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", a.Config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.WithField("addr", addr).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if a.Config.Watch.Interval <= 0 {
			a.Log.Info("Watch scheduler disabled")
			return nil
		}
		a.Log.WithField("interval", a.Config.Watch.Interval.String()).Info("Watch scheduler started")
		a.Watch.Run(gctx, a.Config.Watch.Interval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
