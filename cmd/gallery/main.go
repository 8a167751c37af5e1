package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/gallery-booking/internal/adapter"
	"github.com/example/gallery-booking/internal/application"
	"github.com/example/gallery-booking/internal/config"
	httptransport "github.com/example/gallery-booking/internal/http"
	"github.com/example/gallery-booking/internal/id"
	"github.com/example/gallery-booking/internal/logging"
	"github.com/example/gallery-booking/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("gallery service stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := logging.New(logging.Config{
		Format: cfg.LogFormat,
		Level:  logging.ParseLevel(cfg.LogLevel),
	})
	slog.SetDefault(logger)

	storage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           newHandler(storage, time.Now, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("gallery API listening", "addr", server.Addr, "database", cfg.SQLitePath)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	logger.Info("gallery API stopped")
	return nil
}

// openStorage opens the database named by cfg and applies pending migrations.
func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sqlite.Storage, error) {
	dbConfig := sqlite.DefaultConfig(cfg.SQLitePath)
	dbConfig.BusyTimeout = cfg.SQLiteBusyTimeout

	storage, err := sqlite.Open(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := storage.Migrate(ctx, logger); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	version, pending, err := storage.SchemaVersion(ctx)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	if logger != nil {
		logger.InfoContext(ctx, "storage ready", "path", cfg.SQLitePath, "schema_version", version, "pending_migrations", pending)
	}
	return storage, nil
}

// newHandler wires the services over storage and returns the HTTP router.
func newHandler(storage *sqlite.Storage, now func() time.Time, logger *slog.Logger) http.Handler {
	catalog := adapter.NewPaintingCatalog(storage.Paintings)
	exhibitions := adapter.NewExhibitionRepository(storage.Exhibitions)
	bookings := adapter.NewBookingStore(storage.Bookings)

	catalogService := application.NewCatalogService(catalog, id.Generator(id.PrefixPainting), now, logger)
	exhibitionService := application.NewExhibitionService(exhibitions, bookings, catalog, logger)
	availability := application.NewAvailabilityCalculator(catalog, bookings, logger)
	coordinator := application.NewBookingCoordinator(catalog, exhibitions, bookings, id.Generator(id.PrefixExhibition), now, logger)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Paintings:    httptransport.NewPaintingHandler(catalogService, logger),
		Availability: httptransport.NewAvailabilityHandler(availability, logger),
		Exhibitions:  httptransport.NewExhibitionHandler(exhibitionService, coordinator, logger),
		Health:       storage.Ping,
		Logger:       logger,
	})
}
