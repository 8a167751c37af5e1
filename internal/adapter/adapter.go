// Package adapter bridges the persistence repositories to the ports declared
// by the application layer.
package adapter

import (
	"context"

	"github.com/example/gallery-booking/internal/application"
	"github.com/example/gallery-booking/internal/booking"
	"github.com/example/gallery-booking/internal/persistence"
)

var (
	_ application.PaintingCatalog      = (*PaintingCatalog)(nil)
	_ application.ExhibitionRepository = (*ExhibitionRepository)(nil)
	_ application.BookingStore         = (*BookingStore)(nil)
)

// PaintingCatalog exposes a persistence.PaintingRepository as an
// application.PaintingCatalog.
type PaintingCatalog struct {
	repo persistence.PaintingRepository
}

// NewPaintingCatalog wraps repo.
func NewPaintingCatalog(repo persistence.PaintingRepository) *PaintingCatalog {
	return &PaintingCatalog{repo: repo}
}

func (a *PaintingCatalog) ListPaintings(ctx context.Context) ([]application.Painting, error) {
	models, err := a.repo.ListPaintings(ctx)
	if err != nil {
		return nil, err
	}
	paintings := make([]application.Painting, 0, len(models))
	for _, model := range models {
		paintings = append(paintings, toApplicationPainting(model))
	}
	return paintings, nil
}

func (a *PaintingCatalog) GetPainting(ctx context.Context, id string) (application.Painting, error) {
	stored, err := a.repo.GetPainting(ctx, id)
	if err != nil {
		return application.Painting{}, err
	}
	return toApplicationPainting(stored), nil
}

func (a *PaintingCatalog) CreatePainting(ctx context.Context, painting application.Painting) (application.Painting, error) {
	if err := a.repo.CreatePainting(ctx, toPersistencePainting(painting)); err != nil {
		return application.Painting{}, err
	}
	return a.GetPainting(ctx, painting.ID)
}

// ExhibitionRepository exposes a persistence.ExhibitionRepository as an
// application.ExhibitionRepository.
type ExhibitionRepository struct {
	repo persistence.ExhibitionRepository
}

// NewExhibitionRepository wraps repo.
func NewExhibitionRepository(repo persistence.ExhibitionRepository) *ExhibitionRepository {
	return &ExhibitionRepository{repo: repo}
}

func (a *ExhibitionRepository) GetExhibition(ctx context.Context, id string) (application.Exhibition, error) {
	stored, err := a.repo.GetExhibition(ctx, id)
	if err != nil {
		return application.Exhibition{}, err
	}
	return toApplicationExhibition(stored), nil
}

func (a *ExhibitionRepository) ListExhibitions(ctx context.Context) ([]application.Exhibition, error) {
	models, err := a.repo.ListExhibitions(ctx)
	if err != nil {
		return nil, err
	}
	exhibitions := make([]application.Exhibition, 0, len(models))
	for _, model := range models {
		exhibitions = append(exhibitions, toApplicationExhibition(model))
	}
	return exhibitions, nil
}

func (a *ExhibitionRepository) DeleteExhibition(ctx context.Context, id string) error {
	return a.repo.DeleteExhibition(ctx, id)
}

// BookingStore exposes a persistence.BookingRepository as an
// application.BookingStore.
type BookingStore struct {
	repo persistence.BookingRepository
}

// NewBookingStore wraps repo.
func NewBookingStore(repo persistence.BookingRepository) *BookingStore {
	return &BookingStore{repo: repo}
}

func (a *BookingStore) BookingsOverlapping(ctx context.Context, paintingID string, period booking.Period, excludeExhibitionID string) (bool, error) {
	return a.repo.BookingsOverlapping(ctx, paintingID, period, excludeExhibitionID)
}

func (a *BookingStore) BusyPaintingIDs(ctx context.Context, period booking.Period, excludeExhibitionID string) (map[string]struct{}, error) {
	return a.repo.BusyPaintingIDs(ctx, period, excludeExhibitionID)
}

func (a *BookingStore) BookingsForExhibition(ctx context.Context, exhibitionID string) ([]application.Booking, error) {
	models, err := a.repo.BookingsForExhibition(ctx, exhibitionID)
	if err != nil {
		return nil, err
	}
	return toApplicationBookings(models), nil
}

func (a *BookingStore) SaveExhibitionWithBookings(ctx context.Context, exhibition application.Exhibition, bookings []application.Booking) (application.Exhibition, []application.Booking, error) {
	models := make([]persistence.Booking, 0, len(bookings))
	for _, b := range bookings {
		models = append(models, toPersistenceBooking(b))
	}
	savedExhibition, savedBookings, err := a.repo.SaveExhibitionWithBookings(ctx, toPersistenceExhibition(exhibition), models)
	if err != nil {
		return application.Exhibition{}, nil, err
	}
	return toApplicationExhibition(savedExhibition), toApplicationBookings(savedBookings), nil
}

func toApplicationPainting(p persistence.Painting) application.Painting {
	return application.Painting{
		ID:         p.ID,
		Title:      p.Title,
		ArtistName: p.ArtistName,
		Year:       p.Year,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toPersistencePainting(p application.Painting) persistence.Painting {
	return persistence.Painting{
		ID:         p.ID,
		Title:      p.Title,
		ArtistName: p.ArtistName,
		Year:       p.Year,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toApplicationExhibition(e persistence.Exhibition) application.Exhibition {
	return application.Exhibition{
		ID:          e.ID,
		Name:        e.Name,
		Location:    e.Location,
		Description: e.Description,
		Period:      booking.Period{Start: e.Start, End: e.End},
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toPersistenceExhibition(e application.Exhibition) persistence.Exhibition {
	return persistence.Exhibition{
		ID:          e.ID,
		Name:        e.Name,
		Location:    e.Location,
		Description: e.Description,
		Start:       e.Period.Start,
		End:         e.Period.End,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toApplicationBookings(models []persistence.Booking) []application.Booking {
	bookings := make([]application.Booking, 0, len(models))
	for _, b := range models {
		bookings = append(bookings, application.Booking{
			ID:           b.ID,
			PaintingID:   b.PaintingID,
			ExhibitionID: b.ExhibitionID,
			Period:       booking.Period{Start: b.Start, End: b.End},
			CreatedAt:    b.CreatedAt,
		})
	}
	return bookings
}

func toPersistenceBooking(b application.Booking) persistence.Booking {
	return persistence.Booking{
		ID:           b.ID,
		PaintingID:   b.PaintingID,
		ExhibitionID: b.ExhibitionID,
		Start:        b.Period.Start,
		End:          b.Period.End,
		CreatedAt:    b.CreatedAt,
	}
}
