package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when a CHECK constraint rejects a row.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a referenced record is missing.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrBookingOverlap is returned when a write would double-book a painting.
	ErrBookingOverlap = errors.New("persistence: booking overlaps an existing booking")
)

// OverlapError identifies the painting and the exhibition already holding it.
// ExhibitionID is empty when the store trigger rejected the row and the
// holder could not be resolved.
type OverlapError struct {
	PaintingID   string
	ExhibitionID string
}

func (e *OverlapError) Error() string {
	if e.ExhibitionID == "" {
		return fmt.Sprintf("persistence: painting %s is already booked for an overlapping period", e.PaintingID)
	}
	return fmt.Sprintf("persistence: painting %s is already booked by exhibition %s for an overlapping period", e.PaintingID, e.ExhibitionID)
}

// Is matches ErrBookingOverlap.
func (e *OverlapError) Is(target error) bool {
	return target == ErrBookingOverlap
}
