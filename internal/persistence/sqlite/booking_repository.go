package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/gallery-booking/internal/booking"
	"github.com/example/gallery-booking/internal/id"
	"github.com/example/gallery-booking/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
//
// Every write runs in one IMMEDIATE transaction that re-checks overlaps before
// inserting, and the bookings_no_overlap trigger rejects any row that slips
// past that check.
type BookingRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	newID  func() string
}

// NewBookingRepository creates a new SQLite booking repository
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
		newID:  id.Generator(id.PrefixBooking),
	}
}

// overlapFilter matches bookings sharing a day with [?, ?] outside the
// excluded exhibition. An empty exclusion ID excludes nothing.
const overlapFilter = `
	NOT (end_date < ? OR start_date > ?)
	AND (? = '' OR exhibition_id <> ?)
`

func overlapArgs(period booking.Period, excludeExhibitionID string) []any {
	return []any{
		formatDate(period.Start),
		formatDate(period.End),
		excludeExhibitionID,
		excludeExhibitionID,
	}
}

// BookingsOverlapping reports whether paintingID is booked over any day of
// period by an exhibition other than excludeExhibitionID.
func (r *BookingRepository) BookingsOverlapping(ctx context.Context, paintingID string, period booking.Period, excludeExhibitionID string) (bool, error) {
	args := append([]any{paintingID}, overlapArgs(period, excludeExhibitionID)...)

	var exists bool
	err := r.pool.DB().QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE painting_id = ? AND `+overlapFilter+`
		)
	`, args...).Scan(&exists)
	if err != nil {
		return false, r.mapper.MapError(err)
	}
	return exists, nil
}

// BusyPaintingIDs returns the paintings booked over any day of period by an
// exhibition other than excludeExhibitionID.
func (r *BookingRepository) BusyPaintingIDs(ctx context.Context, period booking.Period, excludeExhibitionID string) (map[string]struct{}, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT DISTINCT painting_id FROM bookings
		WHERE `+overlapFilter,
		overlapArgs(period, excludeExhibitionID)...,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	busy := make(map[string]struct{})
	for rows.Next() {
		var paintingID string
		if err := rows.Scan(&paintingID); err != nil {
			return nil, r.mapper.MapError(err)
		}
		busy[paintingID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return busy, nil
}

// ReplaceBookingsForExhibition swaps the exhibition's bookings for the given
// set. Either the whole set is stored or the previous set stays untouched.
func (r *BookingRepository) ReplaceBookingsForExhibition(ctx context.Context, exhibitionID string, bookings []persistence.Booking) ([]persistence.Booking, error) {
	if exhibitionID == "" {
		return nil, persistence.ErrConstraintViolation
	}

	var stored []persistence.Booking
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		stored, err = r.replace(ctx, tx, exhibitionID, bookings)
		return err
	})
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return stored, nil
}

// BookingsForExhibition returns the exhibition's bookings in insertion order.
func (r *BookingRepository) BookingsForExhibition(ctx context.Context, exhibitionID string) ([]persistence.Booking, error) {
	bookings, err := bookingsForExhibition(ctx, r.pool.DB(), exhibitionID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return bookings, nil
}

// SaveExhibitionWithBookings upserts the exhibition and replaces its bookings
// in a single transaction.
func (r *BookingRepository) SaveExhibitionWithBookings(ctx context.Context, exhibition persistence.Exhibition, bookings []persistence.Booking) (persistence.Exhibition, []persistence.Booking, error) {
	var (
		savedExhibition persistence.Exhibition
		savedBookings   []persistence.Booking
	)
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		if savedExhibition, err = upsertExhibition(ctx, tx, exhibition); err != nil {
			return err
		}
		savedBookings, err = r.replace(ctx, tx, savedExhibition.ID, bookings)
		return err
	})
	if err != nil {
		return persistence.Exhibition{}, nil, r.mapper.MapError(err)
	}
	return savedExhibition, savedBookings, nil
}

func (r *BookingRepository) replace(ctx context.Context, tx *sql.Tx, exhibitionID string, bookings []persistence.Booking) ([]persistence.Booking, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE exhibition_id = ?`, exhibitionID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := make([]persistence.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.ExhibitionID == "" {
			b.ExhibitionID = exhibitionID
		}
		if b.ExhibitionID != exhibitionID || b.PaintingID == "" {
			return nil, persistence.ErrConstraintViolation
		}
		period, err := booking.NewPeriod(b.Start, b.End)
		if err != nil {
			return nil, errors.Join(persistence.ErrConstraintViolation, err)
		}
		b.Start, b.End = period.Start, period.End
		if b.ID == "" {
			b.ID = r.newID()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}

		holder, err := overlappingHolder(ctx, tx, b.PaintingID, period, exhibitionID)
		if err != nil {
			return nil, err
		}
		if holder != "" {
			return nil, &persistence.OverlapError{PaintingID: b.PaintingID, ExhibitionID: holder}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO bookings (id, painting_id, exhibition_id, start_date, end_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			b.ID,
			b.PaintingID,
			b.ExhibitionID,
			formatDate(b.Start),
			formatDate(b.End),
			formatTimestamp(b.CreatedAt),
		)
		if err != nil {
			if mapped := r.mapper.MapError(err); errors.Is(mapped, persistence.ErrBookingOverlap) {
				return nil, &persistence.OverlapError{PaintingID: b.PaintingID}
			}
			return nil, err
		}
		stored = append(stored, b)
	}
	return stored, nil
}

// overlappingHolder returns the exhibition already holding paintingID over
// period, or "" when the painting is free.
func overlappingHolder(ctx context.Context, q querier, paintingID string, period booking.Period, excludeExhibitionID string) (string, error) {
	args := append([]any{paintingID}, overlapArgs(period, excludeExhibitionID)...)

	var holder string
	err := q.QueryRowContext(ctx, `
		SELECT exhibition_id FROM bookings
		WHERE painting_id = ? AND `+overlapFilter+`
		ORDER BY seq
		LIMIT 1
	`, args...).Scan(&holder)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return holder, nil
}

func bookingsForExhibition(ctx context.Context, q querier, exhibitionID string) ([]persistence.Booking, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, painting_id, exhibition_id, start_date, end_date, created_at
		FROM bookings
		WHERE exhibition_id = ?
		ORDER BY seq
	`, exhibitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		var (
			b                     persistence.Booking
			start, end, createdAt string
		)
		if err := rows.Scan(&b.ID, &b.PaintingID, &b.ExhibitionID, &start, &end, &createdAt); err != nil {
			return nil, err
		}
		if b.Start, err = parseDate(start); err != nil {
			return nil, err
		}
		if b.End, err = parseDate(end); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
