package main

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/amsfield/pricebook/internal/cache"
	"github.com/amsfield/pricebook/internal/catalog"
	"github.com/amsfield/pricebook/internal/config"
	"github.com/amsfield/pricebook/internal/estimate"
	"github.com/amsfield/pricebook/internal/logging"
	"github.com/amsfield/pricebook/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"catalog_path", cfg.Catalog.Path,
		"upstream", cfg.Catalog.UpstreamURL,
		"cache_dir", cfg.Cache.Dir,
	)

	var catalogCache *cache.Cache
	if cfg.Catalog.UpstreamURL != "" {
		fileStore, err := cache.NewFileStore(cfg.Cache.Dir)
		if err != nil {
			slog.Error("failed to open cache directory", "dir", cfg.Cache.Dir, "error", err)
			os.Exit(1)
		}
		catalogCache = cache.New(fileStore, cache.NewHTTPFetcher(cfg.Catalog.UpstreamURL))
	}

	initial, err := loadInitialCatalog(context.Background(), cfg, catalogCache)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded",
		"version", initial.Version,
		"packages", len(initial.Packages),
	)

	store := catalog.NewStore(initial)
	estimates := estimate.NewRegistry(cfg.Session.TTL)
	server := web.NewServer(store, estimates, catalogCache, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// loadInitialCatalog picks the startup snapshot. With an upstream
// configured the cache decides between the network and its local copy,
// so a device that booted offline still serves the last synced
// catalog. Without one, the local file is the only source; a server
// that has never imported anything starts with an empty catalog.
func loadInitialCatalog(ctx context.Context, cfg *config.Config, c *cache.Cache) (*catalog.Catalog, error) {
	if c != nil {
		res, err := c.Get(ctx, cfg.Catalog.Key)
		if err != nil {
			return nil, err
		}
		if res.FromCache {
			slog.Info("upstream unreachable, serving cached catalog", "version", res.Entry.Version)
		}
		return catalog.Load(bytes.NewReader(res.Entry.Value))
	}

	loaded, err := catalog.LoadFile(cfg.Catalog.Path)
	if err == nil {
		return loaded, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("no catalog file yet, starting empty", "path", cfg.Catalog.Path)
		return &catalog.Catalog{}, nil
	}
	return nil, err
}
