package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/example/gallery-booking/internal/booking"
	"github.com/example/gallery-booking/internal/persistence"
)

// SessionState is the lifecycle stage of a BookingSession.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateEditingNew
	StateEditingExisting
	StateSaved
	StateCancelled
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateEditingNew:
		return "editing_new"
	case StateEditingExisting:
		return "editing_existing"
	case StateSaved:
		return "saved"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// ErrSessionNotStarted is returned by a zero BookingSession.
var ErrSessionNotStarted = errors.New("application: booking session not started")

// BookingCoordinator starts edit sessions for exhibitions.
type BookingCoordinator struct {
	catalog      PaintingCatalog
	exhibitions  ExhibitionRepository
	bookings     BookingStore
	availability *AvailabilityCalculator
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewBookingCoordinator constructs a coordinator with the provided dependencies.
func NewBookingCoordinator(catalog PaintingCatalog, exhibitions ExhibitionRepository, bookings BookingStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingCoordinator {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	logger = defaultLogger(logger)
	return &BookingCoordinator{
		catalog:      catalog,
		exhibitions:  exhibitions,
		bookings:     bookings,
		availability: NewAvailabilityCalculator(catalog, bookings, logger),
		idGenerator:  idGenerator,
		now:          now,
		logger:       logger,
	}
}

func (c *BookingCoordinator) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, c.logger, "BookingCoordinator", operation, attrs...)
}

// BeginNew opens a session for an exhibition that has not been saved yet.
// The working set starts empty and no dates are proposed.
func (c *BookingCoordinator) BeginNew(ctx context.Context) (session *BookingSession, err error) {
	logger := c.loggerWith(ctx, "BeginNew")
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to begin booking session", err)
			return
		}
		logger.DebugContext(ctx, "booking session started", "state", session.state.String())
	}()

	var catalog []Painting
	if catalog, err = c.loadCatalog(ctx); err != nil {
		return nil, err
	}

	session = &BookingSession{coord: c, state: StateEditingNew}
	session.setCatalog(catalog)
	session.availability = Availability{DatesRequired: true, BusyIDs: map[string]struct{}{}}
	return session, nil
}

// BeginExisting opens a session for a saved exhibition. The working set is
// hydrated from its bookings and every availability query excludes it.
func (c *BookingCoordinator) BeginExisting(ctx context.Context, exhibitionID string) (session *BookingSession, err error) {
	logger := c.loggerWith(ctx, "BeginExisting", "exhibition_id", exhibitionID)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to begin booking session", err)
			return
		}
		logger.DebugContext(ctx, "booking session started",
			"state", session.state.String(),
			"selected_count", len(session.selected),
		)
	}()

	exhibition, err := c.exhibitions.GetExhibition(ctx, exhibitionID)
	if err != nil {
		return nil, mapStoreError("load exhibition", err)
	}

	existing, err := c.bookings.BookingsForExhibition(ctx, exhibitionID)
	if err != nil {
		return nil, storageError("load bookings", err)
	}

	catalog, err := c.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	session = &BookingSession{coord: c, state: StateEditingExisting, exhibition: exhibition}
	session.setCatalog(catalog)
	for _, b := range existing {
		if !slices.Contains(session.selected, b.PaintingID) {
			session.selected = append(session.selected, b.PaintingID)
		}
	}

	start, end := exhibition.Period.Start, exhibition.Period.End
	session.start, session.end = &start, &end
	if err = session.recompute(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

func (c *BookingCoordinator) loadCatalog(ctx context.Context) ([]Painting, error) {
	catalog, err := c.catalog.ListPaintings(ctx)
	if err != nil {
		return nil, storageError("list paintings", err)
	}
	return catalog, nil
}

// BookingSession is one editor's in-progress exhibition. It owns the working
// set of selected paintings and is not safe for concurrent use.
type BookingSession struct {
	coord *BookingCoordinator
	state SessionState

	exhibition Exhibition
	details    ExhibitionInput
	start, end *time.Time

	catalog      []Painting
	byID         map[string]Painting
	selected     []string
	availability Availability
}

func (s *BookingSession) setCatalog(catalog []Painting) {
	s.catalog = catalog
	s.byID = make(map[string]Painting, len(catalog))
	for _, p := range catalog {
		s.byID[p.ID] = p
	}
	if s.exhibition.ID != "" {
		s.details = ExhibitionInput{
			Name:        s.exhibition.Name,
			Location:    s.exhibition.Location,
			Description: s.exhibition.Description,
		}
	}
}

// State returns the session's lifecycle stage.
func (s *BookingSession) State() SessionState {
	if s == nil {
		return StateUninitialized
	}
	return s.state
}

// ExhibitionID returns the identifier used as the exclusion for availability
// queries. It is empty until a new exhibition is saved.
func (s *BookingSession) ExhibitionID() string {
	return s.exhibition.ID
}

// Exhibition returns the last persisted state of the exhibition.
func (s *BookingSession) Exhibition() Exhibition {
	return s.exhibition
}

// Selected returns the working set in selection order.
func (s *BookingSession) Selected() []Painting {
	out := make([]Painting, 0, len(s.selected))
	for _, pid := range s.selected {
		out = append(out, s.byID[pid])
	}
	return out
}

// SelectedIDs returns the identifiers of the working set in selection order.
func (s *BookingSession) SelectedIDs() []string {
	return slices.Clone(s.selected)
}

// IsSelected reports whether paintingID is in the working set.
func (s *BookingSession) IsSelected(paintingID string) bool {
	return slices.Contains(s.selected, paintingID)
}

// Availability returns the most recent availability computation.
func (s *BookingSession) Availability() Availability {
	return s.availability
}

func (s *BookingSession) editable() error {
	switch s.State() {
	case StateEditingNew, StateEditingExisting:
		return nil
	case StateUninitialized:
		return ErrSessionNotStarted
	default:
		return ErrSessionClosed
	}
}

// SetDetails records the descriptive fields. They are validated on Save.
func (s *BookingSession) SetDetails(input ExhibitionInput) error {
	if err := s.editable(); err != nil {
		return err
	}
	s.details = ExhibitionInput{
		Name:        strings.TrimSpace(input.Name),
		Location:    strings.TrimSpace(input.Location),
		Description: strings.TrimSpace(input.Description),
	}
	return nil
}

// SetPeriod proposes new dates and recomputes availability in full. A nil
// bound clears it. An inverted range is rejected and the previous dates stay.
func (s *BookingSession) SetPeriod(ctx context.Context, start, end *time.Time) error {
	if err := s.editable(); err != nil {
		return err
	}
	if start != nil && end != nil {
		if _, err := booking.NewPeriod(*start, *end); err != nil {
			return newValidationError("end_date", "must not be before start_date")
		}
	}
	s.start, s.end = dayPtr(start), dayPtr(end)
	return s.recompute(ctx)
}

func (s *BookingSession) recompute(ctx context.Context) error {
	if s.start == nil || s.end == nil {
		s.availability = Availability{DatesRequired: true, BusyIDs: map[string]struct{}{}}
		return nil
	}
	period, err := booking.NewPeriod(*s.start, *s.end)
	if err != nil {
		return newValidationError("end_date", "must not be before start_date")
	}
	availability, err := s.coord.availability.compute(ctx, period, s.catalog, s.exhibition.ID, s.selected)
	if err != nil {
		return err
	}
	s.availability = availability
	return nil
}

// AddPainting moves a painting into the working set after re-checking the
// store for an overlapping booking by another exhibition. On conflict the
// working set is unchanged and a *ConflictError names the painting.
func (s *BookingSession) AddPainting(ctx context.Context, paintingID string) (err error) {
	if err = s.editable(); err != nil {
		return err
	}

	logger := s.coord.loggerWith(ctx, "AddPainting",
		"exhibition_id", s.exhibition.ID,
		"painting_id", paintingID,
	)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "painting not added", err)
			return
		}
		logger.DebugContext(ctx, "painting added", "selected_count", len(s.selected))
	}()

	painting, ok := s.byID[paintingID]
	if !ok {
		return ErrNotFound
	}
	if s.start == nil || s.end == nil {
		return newValidationError("start_date", "dates are required before choosing paintings")
	}
	if s.IsSelected(paintingID) {
		return newValidationError("paintings", "painting is already selected")
	}

	period, err := booking.NewPeriod(*s.start, *s.end)
	if err != nil {
		return newValidationError("end_date", "must not be before start_date")
	}

	busy, err := s.coord.bookings.BookingsOverlapping(ctx, paintingID, period, s.exhibition.ID)
	if err != nil {
		return storageError("check painting availability", err)
	}
	if busy {
		if s.availability.BusyIDs != nil {
			s.availability.BusyIDs[paintingID] = struct{}{}
		}
		return &ConflictError{PaintingID: paintingID, Title: painting.Title}
	}

	delete(s.availability.BusyIDs, paintingID)
	s.selected = append(s.selected, paintingID)
	s.availability.Available = slices.DeleteFunc(s.availability.Available, func(p Painting) bool {
		return p.ID == paintingID
	})
	return nil
}

// RemovePainting drops a painting from the working set and returns it to the
// available pool without consulting the store. Unknown IDs are ignored.
func (s *BookingSession) RemovePainting(paintingID string) error {
	if err := s.editable(); err != nil {
		return err
	}

	idx := slices.Index(s.selected, paintingID)
	if idx < 0 {
		return nil
	}
	s.selected = slices.Delete(s.selected, idx, idx+1)

	if s.availability.DatesRequired {
		return nil
	}
	if painting, ok := s.byID[paintingID]; ok {
		s.availability.Available = append(s.availability.Available, painting)
		s.sortAvailable()
	}
	return nil
}

// sortAvailable restores catalog order in the available list.
func (s *BookingSession) sortAvailable() {
	order := make(map[string]int, len(s.catalog))
	for i, p := range s.catalog {
		order[p.ID] = i
	}
	slices.SortStableFunc(s.availability.Available, func(a, b Painting) int {
		return order[a.ID] - order[b.ID]
	})
}

// Save validates the form and persists the exhibition together with one
// booking per selected painting, each spanning the exhibition's dates. The
// write is atomic. On any error the session stays editable and nothing is
// assumed committed.
func (s *BookingSession) Save(ctx context.Context) (details ExhibitionDetails, err error) {
	if err = s.editable(); err != nil {
		return ExhibitionDetails{}, err
	}

	logger := s.coord.loggerWith(ctx, "Save",
		"exhibition_id", s.exhibition.ID,
		"state", s.state.String(),
		"selected_count", len(s.selected),
	)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to save exhibition", err)
			return
		}
		logger.With("exhibition_id", details.Exhibition.ID).InfoContext(ctx, "exhibition saved")
	}()

	form := exhibitionForm{
		Name:        s.details.Name,
		Location:    s.details.Location,
		Description: s.details.Description,
		StartDate:   s.start,
		EndDate:     s.end,
		Paintings:   s.selected,
	}
	if vErr := validateExhibitionForm(form); vErr.HasErrors() {
		return ExhibitionDetails{}, vErr
	}

	period, err := booking.NewPeriod(*s.start, *s.end)
	if err != nil {
		return ExhibitionDetails{}, newValidationError("end_date", "must not be before start_date")
	}

	now := s.coord.now()
	exhibition := s.exhibition
	if exhibition.ID == "" {
		exhibition.ID = s.coord.idGenerator()
		exhibition.CreatedAt = now
	}
	exhibition.Name = s.details.Name
	exhibition.Location = s.details.Location
	exhibition.Description = s.details.Description
	exhibition.Period = period
	exhibition.UpdatedAt = now

	bookings := make([]Booking, 0, len(s.selected))
	for _, pid := range s.selected {
		bookings = append(bookings, Booking{
			PaintingID:   pid,
			ExhibitionID: exhibition.ID,
			Period:       period,
			CreatedAt:    now,
		})
	}

	saved, _, err := s.coord.bookings.SaveExhibitionWithBookings(ctx, exhibition, bookings)
	if err != nil {
		return ExhibitionDetails{}, s.mapSaveError(err)
	}

	s.exhibition = saved
	s.state = StateSaved
	return ExhibitionDetails{Exhibition: saved, Paintings: s.Selected()}, nil
}

func (s *BookingSession) mapSaveError(err error) error {
	var overlap *persistence.OverlapError
	if errors.As(err, &overlap) {
		return &ConflictError{
			PaintingID:   overlap.PaintingID,
			Title:        s.byID[overlap.PaintingID].Title,
			ExhibitionID: overlap.ExhibitionID,
		}
	}
	if errors.Is(err, persistence.ErrBookingOverlap) {
		return &ConflictError{}
	}
	return storageError("save exhibition", err)
}

// Cancel discards the working set. Nothing is persisted.
func (s *BookingSession) Cancel() error {
	if err := s.editable(); err != nil {
		return err
	}
	s.selected = nil
	s.availability = Availability{}
	s.state = StateCancelled
	return nil
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := booking.Day(*t)
	return &d
}

// mapStoreError converts repository errors for reads into application errors.
func mapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return storageError(op, err)
}
