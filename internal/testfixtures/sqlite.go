package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/gallery-booking/internal/adapter"
	"github.com/example/gallery-booking/internal/persistence/sqlite"
)

// SQLiteHarness provides a migrated temporary SQLite storage together with
// the application ports wrapped around it.
type SQLiteHarness struct {
	Storage *sqlite.Storage

	Catalog     *adapter.PaintingCatalog
	Exhibitions *adapter.ExhibitionRepository
	Bookings    *adapter.BookingStore

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a database in a temporary directory and migrates it.
// Close is registered with tb.Cleanup.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "gallery.db")
	ctx := context.Background()

	storage, err := sqlite.Open(ctx, sqlite.TestConfig(path))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(ctx, nil); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:     storage,
		Catalog:     adapter.NewPaintingCatalog(storage.Paintings),
		Exhibitions: adapter.NewExhibitionRepository(storage.Exhibitions),
		Bookings:    adapter.NewBookingStore(storage.Bookings),
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedPaintings inserts the fixtures into the catalog.
func (h *SQLiteHarness) SeedPaintings(tb testing.TB, paintings ...PaintingFixture) {
	tb.Helper()
	for _, p := range paintings {
		if err := h.Storage.Paintings.CreatePainting(context.Background(), p.Persistence()); err != nil {
			tb.Fatalf("failed to seed painting %s: %v", p.ID, err)
		}
	}
}

// SeedExhibitions saves each exhibition together with its bookings.
func (h *SQLiteHarness) SeedExhibitions(tb testing.TB, exhibitions ...ExhibitionFixture) {
	tb.Helper()
	for _, e := range exhibitions {
		exhibition, bookings := e.Persistence()
		if _, _, err := h.Storage.Bookings.SaveExhibitionWithBookings(context.Background(), exhibition, bookings); err != nil {
			tb.Fatalf("failed to seed exhibition %s: %v", e.ID, err)
		}
	}
}
