package persistence

import (
	"context"

	"github.com/example/gallery-booking/internal/booking"
)

// PaintingRepository exposes the painting catalog.
type PaintingRepository interface {
	CreatePainting(ctx context.Context, painting Painting) error
	GetPainting(ctx context.Context, id string) (Painting, error)
	ListPaintings(ctx context.Context) ([]Painting, error)
}

// ExhibitionRepository stores exhibitions. SaveExhibition inserts when the ID
// is unknown and updates otherwise.
type ExhibitionRepository interface {
	SaveExhibition(ctx context.Context, exhibition Exhibition) (Exhibition, error)
	GetExhibition(ctx context.Context, id string) (Exhibition, error)
	ListExhibitions(ctx context.Context) ([]Exhibition, error)
	DeleteExhibition(ctx context.Context, id string) error
}

// BookingRepository owns painting assignments and answers overlap queries.
// An empty excludeExhibitionID counts every booking.
type BookingRepository interface {
	BookingsOverlapping(ctx context.Context, paintingID string, period booking.Period, excludeExhibitionID string) (bool, error)
	BusyPaintingIDs(ctx context.Context, period booking.Period, excludeExhibitionID string) (map[string]struct{}, error)
	ReplaceBookingsForExhibition(ctx context.Context, exhibitionID string, bookings []Booking) ([]Booking, error)
	BookingsForExhibition(ctx context.Context, exhibitionID string) ([]Booking, error)
	SaveExhibitionWithBookings(ctx context.Context, exhibition Exhibition, bookings []Booking) (Exhibition, []Booking, error)
}
