package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/gallery-booking/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("exh")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLogger routes service logs to logger instead of discarding them.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// Ports groups the store dependencies shared by the gallery services.
type Ports struct {
	Catalog     application.PaintingCatalog
	Exhibitions application.ExhibitionRepository
	Bookings    application.BookingStore
}

// PortsFromMemory exposes a MemoryStore through every port.
func PortsFromMemory(store *MemoryStore) Ports {
	return Ports{Catalog: store, Exhibitions: store, Bookings: store}
}

// PortsFromSQLite exposes the harness adapters as service ports.
func PortsFromSQLite(h *SQLiteHarness) Ports {
	return Ports{Catalog: h.Catalog, Exhibitions: h.Exhibitions, Bookings: h.Bookings}
}

// NewBookingCoordinator builds a coordinator wired to ports.
func (f *ServiceFactory) NewBookingCoordinator(ports Ports) *application.BookingCoordinator {
	return application.NewBookingCoordinator(
		ports.Catalog,
		ports.Exhibitions,
		ports.Bookings,
		f.IDGenerator.NextFunc(),
		f.Clock.NowFunc(),
		f.Logger,
	)
}

// NewAvailabilityCalculator builds a standalone availability calculator.
func (f *ServiceFactory) NewAvailabilityCalculator(ports Ports) *application.AvailabilityCalculator {
	return application.NewAvailabilityCalculator(ports.Catalog, ports.Bookings, f.Logger)
}

// NewExhibitionService builds the read and delete service.
func (f *ServiceFactory) NewExhibitionService(ports Ports) *application.ExhibitionService {
	return application.NewExhibitionService(ports.Exhibitions, ports.Bookings, ports.Catalog, f.Logger)
}

// NewCatalogService builds the painting catalog service. Painting IDs come
// from a separate "pnt" sequence.
func (f *ServiceFactory) NewCatalogService(ports Ports) *application.CatalogService {
	return application.NewCatalogService(
		ports.Catalog,
		NewIDGenerator("pnt").NextFunc(),
		f.Clock.NowFunc(),
		f.Logger,
	)
}
