// Package sqlite implements the gallery repositories on SQLite through
// modernc.org/sqlite.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/gallery-booking/internal/persistence"
	"github.com/example/gallery-booking/internal/persistence/sqlite/migration"
	"github.com/example/gallery-booking/internal/persistence/sqlite/migrations"
)

// Storage bundles the connection pool and the repositories built on it.
type Storage struct {
	pool *ConnectionPool

	Paintings   *PaintingRepository
	Exhibitions *ExhibitionRepository
	Bookings    *BookingRepository
}

var (
	_ persistence.PaintingRepository   = (*PaintingRepository)(nil)
	_ persistence.ExhibitionRepository = (*ExhibitionRepository)(nil)
	_ persistence.BookingRepository    = (*BookingRepository)(nil)
)

// Open connects to the database described by config. Call Migrate before
// serving requests.
func Open(ctx context.Context, config Config) (*Storage, error) {
	pool, err := NewConnectionPool(ctx, config)
	if err != nil {
		return nil, err
	}
	return &Storage{
		pool:        pool,
		Paintings:   NewPaintingRepository(pool),
		Exhibitions: NewExhibitionRepository(pool),
		Bookings:    NewBookingRepository(pool),
	}, nil
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context, logger *slog.Logger) error {
	if err := s.migrator(logger).Run(ctx); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// SchemaVersion returns the latest applied migration version and the number
// of embedded migrations still pending.
func (s *Storage) SchemaVersion(ctx context.Context) (string, int, error) {
	status, err := s.migrator(nil).Status(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("sqlite: migration status: %w", err)
	}
	return status.CurrentVersion, len(status.Pending), nil
}

func (s *Storage) migrator(logger *slog.Logger) *migration.Manager {
	return migration.NewManager(
		migration.NewScanner(migrations.FS, "."),
		migration.NewExecutor(s.pool.DB()),
		logger,
	)
}

// Ping checks that the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Pool exposes the connection pool for tests and tooling.
func (s *Storage) Pool() *ConnectionPool {
	return s.pool
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}
