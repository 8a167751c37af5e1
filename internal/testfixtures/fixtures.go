package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/gallery-booking/internal/application"
	"github.com/example/gallery-booking/internal/booking"
	"github.com/example/gallery-booking/internal/persistence"
)

var (
	paintingCounter   uint64
	exhibitionCounter uint64
)

var referenceTime = time.Date(2025, time.March, 3, 10, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Date parses a YYYY-MM-DD literal and panics on malformed input.
func Date(value string) time.Time {
	d, err := booking.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

// DatePtr is Date returning a pointer, for optional date fields.
func DatePtr(value string) *time.Time {
	d := Date(value)
	return &d
}

// Period builds a booking.Period from two YYYY-MM-DD literals and panics when
// they are malformed or inverted.
func Period(start, end string) booking.Period {
	return booking.MustPeriod(Date(start), Date(end))
}

// ---------------------------- Painting fixtures ----------------------------

// PaintingFixture represents a deterministic catalog painting.
type PaintingFixture struct {
	ID         string
	Title      string
	ArtistName string
	Year       *int
	CreatedAt  time.Time
}

// PaintingOption configures the generated painting fixture.
type PaintingOption func(*PaintingFixture)

// NewPaintingFixture returns a deterministic painting fixture with optional overrides.
func NewPaintingFixture(opts ...PaintingOption) PaintingFixture {
	idx := atomic.AddUint64(&paintingCounter, 1)
	fixture := PaintingFixture{
		ID:         fmt.Sprintf("pnt-%03d", idx),
		Title:      fmt.Sprintf("Painting %03d", idx),
		ArtistName: "Unknown Artist",
		CreatedAt:  referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithPaintingID overrides the generated painting ID.
func WithPaintingID(id string) PaintingOption {
	return func(f *PaintingFixture) {
		f.ID = id
	}
}

// WithPaintingTitle overrides the generated title.
func WithPaintingTitle(title string) PaintingOption {
	return func(f *PaintingFixture) {
		f.Title = title
	}
}

// WithArtist overrides the artist display name.
func WithArtist(name string) PaintingOption {
	return func(f *PaintingFixture) {
		f.ArtistName = name
	}
}

// WithYear sets the year the painting was made.
func WithYear(year int) PaintingOption {
	return func(f *PaintingFixture) {
		f.Year = &year
	}
}

// Application returns the fixture as an application.Painting value.
func (f PaintingFixture) Application() application.Painting {
	return application.Painting{
		ID:         f.ID,
		Title:      f.Title,
		ArtistName: f.ArtistName,
		Year:       f.Year,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Painting value.
func (f PaintingFixture) Persistence() persistence.Painting {
	return persistence.Painting{
		ID:         f.ID,
		Title:      f.Title,
		ArtistName: f.ArtistName,
		Year:       f.Year,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.CreatedAt,
	}
}

// --------------------------- Exhibition fixtures ---------------------------

// ExhibitionFixture represents a deterministic saved exhibition together with
// the paintings booked for it.
type ExhibitionFixture struct {
	ID          string
	Name        string
	Location    string
	Description string
	Period      booking.Period
	PaintingIDs []string
	CreatedAt   time.Time
}

// ExhibitionOption configures the generated exhibition fixture.
type ExhibitionOption func(*ExhibitionFixture)

// NewExhibitionFixture returns a deterministic exhibition fixture running for
// the first ten days of May 2025 unless overridden.
func NewExhibitionFixture(opts ...ExhibitionOption) ExhibitionFixture {
	idx := atomic.AddUint64(&exhibitionCounter, 1)
	fixture := ExhibitionFixture{
		ID:        fmt.Sprintf("exh-%03d", idx),
		Name:      fmt.Sprintf("Exhibition %03d", idx),
		Location:  "Main Hall",
		Period:    Period("2025-05-01", "2025-05-10"),
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithExhibitionID overrides the generated exhibition ID.
func WithExhibitionID(id string) ExhibitionOption {
	return func(f *ExhibitionFixture) {
		f.ID = id
	}
}

// WithExhibitionName overrides the generated name.
func WithExhibitionName(name string) ExhibitionOption {
	return func(f *ExhibitionFixture) {
		f.Name = name
	}
}

// WithDates sets the exhibition period from two YYYY-MM-DD literals.
func WithDates(start, end string) ExhibitionOption {
	return func(f *ExhibitionFixture) {
		f.Period = Period(start, end)
	}
}

// WithPaintings books the given paintings for the exhibition.
func WithPaintings(ids ...string) ExhibitionOption {
	return func(f *ExhibitionFixture) {
		f.PaintingIDs = append([]string(nil), ids...)
	}
}

// Application returns the exhibition record as an application.Exhibition.
func (f ExhibitionFixture) Application() application.Exhibition {
	return application.Exhibition{
		ID:          f.ID,
		Name:        f.Name,
		Location:    f.Location,
		Description: f.Description,
		Period:      f.Period,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.CreatedAt,
	}
}

// Bookings returns one application booking per painting, spanning the
// exhibition period.
func (f ExhibitionFixture) Bookings() []application.Booking {
	bookings := make([]application.Booking, 0, len(f.PaintingIDs))
	for _, pid := range f.PaintingIDs {
		bookings = append(bookings, application.Booking{
			PaintingID:   pid,
			ExhibitionID: f.ID,
			Period:       f.Period,
			CreatedAt:    f.CreatedAt,
		})
	}
	return bookings
}

// Persistence returns the exhibition and its bookings as persistence values.
func (f ExhibitionFixture) Persistence() (persistence.Exhibition, []persistence.Booking) {
	exhibition := persistence.Exhibition{
		ID:          f.ID,
		Name:        f.Name,
		Location:    f.Location,
		Description: f.Description,
		Start:       f.Period.Start,
		End:         f.Period.End,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.CreatedAt,
	}
	bookings := make([]persistence.Booking, 0, len(f.PaintingIDs))
	for _, pid := range f.PaintingIDs {
		bookings = append(bookings, persistence.Booking{
			PaintingID:   pid,
			ExhibitionID: f.ID,
			Start:        f.Period.Start,
			End:          f.Period.End,
			CreatedAt:    f.CreatedAt,
		})
	}
	return exhibition, bookings
}
