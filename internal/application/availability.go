package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/gallery-booking/internal/booking"
)

// AvailabilityRequest describes one availability computation. Start and End
// are optional; Selected is the caller's current working set.
type AvailabilityRequest struct {
	Start               *time.Time
	End                 *time.Time
	ExcludeExhibitionID string
	Selected            []string
}

// Availability lists the catalog paintings a user may still pick.
//
// Available holds every catalog painting outside the working set, busy or
// not; BusyIDs marks the ones held by another exhibition so they can be shown
// but not chosen. DatesRequired is set when either date is missing, in which
// case Available is empty.
type Availability struct {
	DatesRequired bool
	Period        booking.Period
	Available     []Painting
	BusyIDs       map[string]struct{}
}

// IsBusy reports whether paintingID is held by another exhibition.
func (a Availability) IsBusy(paintingID string) bool {
	_, ok := a.BusyIDs[paintingID]
	return ok
}

// AvailabilityCalculator recomputes availability from the store on every call.
type AvailabilityCalculator struct {
	catalog  PaintingCatalog
	bookings BookingStore
	logger   *slog.Logger
}

// NewAvailabilityCalculator constructs a calculator.
func NewAvailabilityCalculator(catalog PaintingCatalog, bookings BookingStore, logger *slog.Logger) *AvailabilityCalculator {
	return &AvailabilityCalculator{catalog: catalog, bookings: bookings, logger: defaultLogger(logger)}
}

// Compute returns the availability for req. An inverted date range is a
// validation error.
func (c *AvailabilityCalculator) Compute(ctx context.Context, req AvailabilityRequest) (result Availability, err error) {
	if c == nil {
		err = fmt.Errorf("AvailabilityCalculator is nil")
		return
	}

	logger := serviceLogger(ctx, c.logger, "AvailabilityCalculator", "Compute",
		"exclude_exhibition_id", req.ExcludeExhibitionID,
		"selected_count", len(req.Selected),
	)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to compute availability", err)
			return
		}
		logger.DebugContext(ctx, "availability computed",
			"dates_required", result.DatesRequired,
			"available_count", len(result.Available),
			"busy_count", len(result.BusyIDs),
		)
	}()

	if req.Start == nil || req.End == nil {
		result = Availability{DatesRequired: true, BusyIDs: map[string]struct{}{}}
		return
	}

	period, perr := booking.NewPeriod(*req.Start, *req.End)
	if perr != nil {
		err = newValidationError("end_date", "must not be before start_date")
		return
	}

	paintings, cerr := c.catalog.ListPaintings(ctx)
	if cerr != nil {
		err = storageError("list paintings", cerr)
		return
	}
	return c.compute(ctx, period, paintings, req.ExcludeExhibitionID, req.Selected)
}

// compute is the dated half of Compute, shared with booking sessions that
// already hold the catalog.
func (c *AvailabilityCalculator) compute(ctx context.Context, period booking.Period, catalog []Painting, excludeExhibitionID string, selected []string) (Availability, error) {
	busy, err := c.bookings.BusyPaintingIDs(ctx, period, excludeExhibitionID)
	if err != nil {
		return Availability{}, storageError("query busy paintings", err)
	}
	if busy == nil {
		busy = map[string]struct{}{}
	}

	chosen := make(map[string]struct{}, len(selected))
	for _, pid := range selected {
		chosen[pid] = struct{}{}
	}

	available := make([]Painting, 0, len(catalog))
	for _, p := range catalog {
		if _, ok := chosen[p.ID]; ok {
			continue
		}
		available = append(available, p)
	}

	return Availability{Period: period, Available: available, BusyIDs: busy}, nil
}
