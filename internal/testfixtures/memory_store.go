package testfixtures

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/example/gallery-booking/internal/application"
	"github.com/example/gallery-booking/internal/booking"
	"github.com/example/gallery-booking/internal/persistence"
)

// Store operation names accepted by MemoryStore.FailOn.
const (
	OpListPaintings              = "ListPaintings"
	OpGetPainting                = "GetPainting"
	OpCreatePainting             = "CreatePainting"
	OpGetExhibition              = "GetExhibition"
	OpListExhibitions            = "ListExhibitions"
	OpDeleteExhibition           = "DeleteExhibition"
	OpBookingsOverlapping        = "BookingsOverlapping"
	OpBusyPaintingIDs            = "BusyPaintingIDs"
	OpBookingsForExhibition      = "BookingsForExhibition"
	OpSaveExhibitionWithBookings = "SaveExhibitionWithBookings"
)

var (
	_ application.PaintingCatalog      = (*MemoryStore)(nil)
	_ application.ExhibitionRepository = (*MemoryStore)(nil)
	_ application.BookingStore         = (*MemoryStore)(nil)
)

// MemoryStore is an in-memory implementation of the application store ports.
// It reports the same persistence errors as the SQLite repositories, counts
// calls per operation and can be told to fail a given operation.
type MemoryStore struct {
	mu sync.Mutex

	paintings   map[string]application.Painting
	exhibitions map[string]application.Exhibition
	bookings    []application.Booking

	calls    map[string]int
	failures map[string]error
	nextID   int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		paintings:   make(map[string]application.Painting),
		exhibitions: make(map[string]application.Exhibition),
		calls:       make(map[string]int),
		failures:    make(map[string]error),
	}
}

// SeedPaintings adds paintings to the catalog without counting calls.
func (s *MemoryStore) SeedPaintings(paintings ...PaintingFixture) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paintings {
		s.paintings[p.ID] = p.Application()
	}
	return s
}

// SeedExhibitions stores exhibitions and their bookings without checking for
// overlaps, so tests can arrange states the coordinator would refuse.
func (s *MemoryStore) SeedExhibitions(exhibitions ...ExhibitionFixture) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range exhibitions {
		s.exhibitions[e.ID] = e.Application()
		for _, b := range e.Bookings() {
			s.nextID++
			b.ID = fmt.Sprintf("bkg-%d", s.nextID)
			s.bookings = append(s.bookings, b)
		}
	}
	return s
}

// FailOn makes every later call to op return err. A nil err clears it.
func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls reports how many times op was invoked.
func (s *MemoryStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Writes reports how many mutating calls reached the store.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[OpCreatePainting] + s.calls[OpDeleteExhibition] + s.calls[OpSaveExhibitionWithBookings]
}

// AllBookings returns a copy of every stored booking in insertion order.
func (s *MemoryStore) AllBookings() []application.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.bookings)
}

func (s *MemoryStore) enter(op string) error {
	s.calls[op]++
	return s.failures[op]
}

func (s *MemoryStore) assignments() []booking.Assignment {
	out := make([]booking.Assignment, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, booking.Assignment{
			ID:           b.ID,
			PaintingID:   b.PaintingID,
			ExhibitionID: b.ExhibitionID,
			Period:       b.Period,
		})
	}
	return out
}

func (s *MemoryStore) ListPaintings(ctx context.Context) ([]application.Painting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListPaintings); err != nil {
		return nil, err
	}
	out := make([]application.Painting, 0, len(s.paintings))
	for _, p := range s.paintings {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)
		if ti != tj {
			return ti < tj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetPainting(ctx context.Context, id string) (application.Painting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetPainting); err != nil {
		return application.Painting{}, err
	}
	p, ok := s.paintings[id]
	if !ok {
		return application.Painting{}, persistence.ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) CreatePainting(ctx context.Context, painting application.Painting) (application.Painting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpCreatePainting); err != nil {
		return application.Painting{}, err
	}
	if _, exists := s.paintings[painting.ID]; exists {
		return application.Painting{}, persistence.ErrDuplicate
	}
	s.paintings[painting.ID] = painting
	return painting, nil
}

func (s *MemoryStore) GetExhibition(ctx context.Context, id string) (application.Exhibition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetExhibition); err != nil {
		return application.Exhibition{}, err
	}
	e, ok := s.exhibitions[id]
	if !ok {
		return application.Exhibition{}, persistence.ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) ListExhibitions(ctx context.Context) ([]application.Exhibition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListExhibitions); err != nil {
		return nil, err
	}
	out := make([]application.Exhibition, 0, len(s.exhibitions))
	for _, e := range s.exhibitions {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Period.Start.Equal(b.Period.Start) {
			return a.Period.Start.Before(b.Period.Start)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (s *MemoryStore) DeleteExhibition(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpDeleteExhibition); err != nil {
		return err
	}
	if _, ok := s.exhibitions[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.exhibitions, id)
	s.bookings = slices.DeleteFunc(s.bookings, func(b application.Booking) bool {
		return b.ExhibitionID == id
	})
	return nil
}

func (s *MemoryStore) BookingsOverlapping(ctx context.Context, paintingID string, period booking.Period, excludeExhibitionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpBookingsOverlapping); err != nil {
		return false, err
	}
	_, busy := booking.BusyPaintings(s.assignments(), period, excludeExhibitionID)[paintingID]
	return busy, nil
}

func (s *MemoryStore) BusyPaintingIDs(ctx context.Context, period booking.Period, excludeExhibitionID string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpBusyPaintingIDs); err != nil {
		return nil, err
	}
	return booking.BusyPaintings(s.assignments(), period, excludeExhibitionID), nil
}

func (s *MemoryStore) BookingsForExhibition(ctx context.Context, exhibitionID string) ([]application.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpBookingsForExhibition); err != nil {
		return nil, err
	}
	var out []application.Booking
	for _, b := range s.bookings {
		if b.ExhibitionID == exhibitionID {
			out = append(out, b)
		}
	}
	return out, nil
}

// SaveExhibitionWithBookings upserts the exhibition and replaces its bookings.
// Any conflict leaves the store untouched and returns *persistence.OverlapError.
func (s *MemoryStore) SaveExhibitionWithBookings(ctx context.Context, exhibition application.Exhibition, bookings []application.Booking) (application.Exhibition, []application.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpSaveExhibitionWithBookings); err != nil {
		return application.Exhibition{}, nil, err
	}
	if exhibition.ID == "" {
		return application.Exhibition{}, nil, fmt.Errorf("%w: exhibition id is required", persistence.ErrConstraintViolation)
	}

	existing := s.assignments()
	saved := make([]application.Booking, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := s.paintings[b.PaintingID]; !ok {
			return application.Exhibition{}, nil, persistence.ErrForeignKeyViolation
		}
		candidate := booking.Assignment{PaintingID: b.PaintingID, ExhibitionID: exhibition.ID, Period: b.Period}
		if conflicts := booking.DetectConflicts(existing, candidate); len(conflicts) > 0 {
			return application.Exhibition{}, nil, &persistence.OverlapError{
				PaintingID:   b.PaintingID,
				ExhibitionID: conflicts[0].WithExhibitionID,
			}
		}
		for _, prior := range saved {
			if prior.PaintingID == b.PaintingID {
				return application.Exhibition{}, nil, persistence.ErrDuplicate
			}
		}
		s.nextID++
		b.ID = fmt.Sprintf("bkg-%d", s.nextID)
		b.ExhibitionID = exhibition.ID
		saved = append(saved, b)
	}

	if prior, ok := s.exhibitions[exhibition.ID]; ok {
		exhibition.CreatedAt = prior.CreatedAt
	}
	s.exhibitions[exhibition.ID] = exhibition
	s.bookings = slices.DeleteFunc(s.bookings, func(b application.Booking) bool {
		return b.ExhibitionID == exhibition.ID
	})
	s.bookings = append(s.bookings, saved...)
	return exhibition, slices.Clone(saved), nil
}
