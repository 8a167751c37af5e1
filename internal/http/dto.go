package http

import (
	"strings"
	"time"

	"github.com/example/gallery-booking/internal/application"
	"github.com/example/gallery-booking/internal/booking"
)

type paintingDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ArtistName string `json:"artist_name"`
	Year       *int   `json:"year,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func toPaintingDTO(p application.Painting) paintingDTO {
	return paintingDTO{
		ID:         p.ID,
		Title:      p.Title,
		ArtistName: p.ArtistName,
		Year:       p.Year,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toPaintingDTOs(paintings []application.Painting) []paintingDTO {
	out := make([]paintingDTO, 0, len(paintings))
	for _, p := range paintings {
		out = append(out, toPaintingDTO(p))
	}
	return out
}

type exhibitionDTO struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Location    string        `json:"location"`
	Description string        `json:"description,omitempty"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Paintings   []paintingDTO `json:"paintings"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

func toExhibitionDTO(details application.ExhibitionDetails) exhibitionDTO {
	e := details.Exhibition
	return exhibitionDTO{
		ID:          e.ID,
		Name:        e.Name,
		Location:    e.Location,
		Description: e.Description,
		StartDate:   e.Period.Start.Format(booking.DateLayout),
		EndDate:     e.Period.End.Format(booking.DateLayout),
		Paintings:   toPaintingDTOs(details.Paintings),
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// parseOptionalDate parses a YYYY-MM-DD value. Blank input yields nil. A
// malformed value is reported against field.
func parseOptionalDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := booking.ParseDate(value)
	if err != nil {
		return nil, &application.ValidationError{FieldErrors: map[string]string{field: "must be a date in YYYY-MM-DD format"}}
	}
	return &d, nil
}
