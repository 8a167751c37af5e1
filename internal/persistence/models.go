package persistence

import "time"

// Painting is a catalog entry referenced by bookings.
type Painting struct {
	ID         string
	Title      string
	ArtistName string
	Year       *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Exhibition is a dated show of paintings. Start and End are calendar days.
type Exhibition struct {
	ID          string
	Name        string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Booking commits one painting to one exhibition for an inclusive day range.
type Booking struct {
	ID           string
	PaintingID   string
	ExhibitionID string
	Start        time.Time
	End          time.Time
	CreatedAt    time.Time
}
