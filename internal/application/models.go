package application

import (
	"context"
	"time"

	"github.com/example/gallery-booking/internal/booking"
)

// Painting is a catalog entry that can be booked for exhibitions.
type Painting struct {
	ID         string
	Title      string
	ArtistName string
	Year       *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Exhibition is a dated show. ID is empty until the exhibition is first saved.
type Exhibition struct {
	ID          string
	Name        string
	Location    string
	Description string
	Period      booking.Period
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Booking commits one painting to one exhibition for a period.
type Booking struct {
	ID           string
	PaintingID   string
	ExhibitionID string
	Period       booking.Period
	CreatedAt    time.Time
}

// ExhibitionDetails is an exhibition together with the paintings booked for it,
// in booking order.
type ExhibitionDetails struct {
	Exhibition Exhibition
	Paintings  []Painting
}

// ExhibitionInput captures caller provided exhibition fields.
type ExhibitionInput struct {
	Name        string
	Location    string
	Description string
}

// PaintingInput captures caller provided painting fields.
type PaintingInput struct {
	Title      string `json:"title" validate:"required,max=200"`
	ArtistName string `json:"artist_name" validate:"required,max=200"`
	Year       *int   `json:"year" validate:"omitempty,gte=0,lte=9999"`
}

// PaintingCatalog captures the painting persistence needed by the services.
type PaintingCatalog interface {
	ListPaintings(ctx context.Context) ([]Painting, error)
	GetPainting(ctx context.Context, id string) (Painting, error)
	CreatePainting(ctx context.Context, painting Painting) (Painting, error)
}

// ExhibitionRepository captures exhibition reads and deletion.
type ExhibitionRepository interface {
	GetExhibition(ctx context.Context, id string) (Exhibition, error)
	ListExhibitions(ctx context.Context) ([]Exhibition, error)
	DeleteExhibition(ctx context.Context, id string) error
}

// BookingStore answers overlap queries and persists an exhibition together
// with its bookings. An empty excludeExhibitionID counts every booking.
type BookingStore interface {
	BookingsOverlapping(ctx context.Context, paintingID string, period booking.Period, excludeExhibitionID string) (bool, error)
	BusyPaintingIDs(ctx context.Context, period booking.Period, excludeExhibitionID string) (map[string]struct{}, error)
	BookingsForExhibition(ctx context.Context, exhibitionID string) ([]Booking, error)
	SaveExhibitionWithBookings(ctx context.Context, exhibition Exhibition, bookings []Booking) (Exhibition, []Booking, error)
}
