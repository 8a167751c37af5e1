package application

import (
	"context"
	"fmt"
	"log/slog"
)

// ExhibitionService reads and deletes saved exhibitions. Creating and editing
// go through a BookingSession.
type ExhibitionService struct {
	exhibitions ExhibitionRepository
	bookings    BookingStore
	catalog     PaintingCatalog
	logger      *slog.Logger
}

// NewExhibitionService constructs an exhibition service.
func NewExhibitionService(exhibitions ExhibitionRepository, bookings BookingStore, catalog PaintingCatalog, logger *slog.Logger) *ExhibitionService {
	return &ExhibitionService{
		exhibitions: exhibitions,
		bookings:    bookings,
		catalog:     catalog,
		logger:      defaultLogger(logger),
	}
}

func (s *ExhibitionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ExhibitionService", operation, attrs...)
}

// Get returns one exhibition with its booked paintings.
func (s *ExhibitionService) Get(ctx context.Context, exhibitionID string) (details ExhibitionDetails, err error) {
	if s == nil {
		err = fmt.Errorf("ExhibitionService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Get", "exhibition_id", exhibitionID)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to get exhibition", err)
		}
	}()

	exhibition, err := s.exhibitions.GetExhibition(ctx, exhibitionID)
	if err != nil {
		err = mapStoreError("get exhibition", err)
		return
	}

	paintings, err := s.paintingIndex(ctx)
	if err != nil {
		return
	}
	return s.hydrate(ctx, exhibition, paintings)
}

// List returns every exhibition ordered by start date, each with its booked
// paintings.
func (s *ExhibitionService) List(ctx context.Context) (list []ExhibitionDetails, err error) {
	if s == nil {
		err = fmt.Errorf("ExhibitionService is nil")
		return
	}

	logger := s.loggerWith(ctx, "List")
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to list exhibitions", err)
			return
		}
		logger.With("result_count", len(list)).DebugContext(ctx, "exhibitions listed")
	}()

	exhibitions, err := s.exhibitions.ListExhibitions(ctx)
	if err != nil {
		err = storageError("list exhibitions", err)
		return
	}

	paintings, err := s.paintingIndex(ctx)
	if err != nil {
		return
	}

	list = make([]ExhibitionDetails, 0, len(exhibitions))
	for _, exhibition := range exhibitions {
		var details ExhibitionDetails
		if details, err = s.hydrate(ctx, exhibition, paintings); err != nil {
			return nil, err
		}
		list = append(list, details)
	}
	return list, nil
}

// Delete removes an exhibition together with its bookings.
func (s *ExhibitionService) Delete(ctx context.Context, exhibitionID string) error {
	if s == nil {
		return fmt.Errorf("ExhibitionService is nil")
	}

	logger := s.loggerWith(ctx, "Delete", "exhibition_id", exhibitionID)

	if err := s.exhibitions.DeleteExhibition(ctx, exhibitionID); err != nil {
		err = mapStoreError("delete exhibition", err)
		logOutcome(ctx, logger, "failed to delete exhibition", err)
		return err
	}

	logger.InfoContext(ctx, "exhibition deleted")
	return nil
}

func (s *ExhibitionService) paintingIndex(ctx context.Context) (map[string]Painting, error) {
	catalog, err := s.catalog.ListPaintings(ctx)
	if err != nil {
		return nil, storageError("list paintings", err)
	}
	index := make(map[string]Painting, len(catalog))
	for _, p := range catalog {
		index[p.ID] = p
	}
	return index, nil
}

func (s *ExhibitionService) hydrate(ctx context.Context, exhibition Exhibition, paintings map[string]Painting) (ExhibitionDetails, error) {
	bookings, err := s.bookings.BookingsForExhibition(ctx, exhibition.ID)
	if err != nil {
		return ExhibitionDetails{}, storageError("load bookings", err)
	}
	details := ExhibitionDetails{Exhibition: exhibition, Paintings: make([]Painting, 0, len(bookings))}
	for _, b := range bookings {
		if p, ok := paintings[b.PaintingID]; ok {
			details.Paintings = append(details.Paintings, p)
		}
	}
	return details, nil
}
