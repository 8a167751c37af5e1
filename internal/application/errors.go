package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a record with the same identity exists.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrConflict is matched by every *ConflictError.
	ErrConflict = errors.New("application: booking conflict")
	// ErrStorage is matched by every *StorageError.
	ErrStorage = errors.New("application: storage failure")
	// ErrSessionClosed is returned by a booking session that was saved or cancelled.
	ErrSessionClosed = errors.New("application: booking session closed")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

func newValidationError(field, message string) *ValidationError {
	vErr := &ValidationError{}
	vErr.add(field, message)
	return vErr
}

// ConflictError reports a painting that another exhibition already holds for
// an overlapping period. The working selection is left unchanged.
type ConflictError struct {
	PaintingID   string
	Title        string
	ExhibitionID string
}

func (e *ConflictError) Error() string {
	name := e.Title
	if name == "" {
		name = e.PaintingID
	}
	if name == "" {
		return "a selected painting is already booked by another exhibition for an overlapping period"
	}
	return fmt.Sprintf("painting %q is already booked by another exhibition for an overlapping period", name)
}

// Is matches ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// StorageError wraps a failure of the underlying store. Err is kept verbatim
// so the operator sees the driver message.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is matches ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var sErr *StorageError
	if errors.As(err, &sErr) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// UserMessage renders err as a single message suitable for an operator.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		fields := make([]string, 0, len(vErr.FieldErrors))
		for field := range vErr.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, field+" "+vErr.FieldErrors[field])
		}
		if len(parts) == 0 {
			return "Please check the form."
		}
		return "Please check the form: " + strings.Join(parts, "; ") + "."
	}

	var cErr *ConflictError
	if errors.As(err, &cErr) {
		return cErr.Error() + "."
	}

	var sErr *StorageError
	if errors.As(err, &sErr) {
		return "Could not save changes: " + sErr.Err.Error()
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return "The requested record no longer exists."
	case errors.Is(err, ErrAlreadyExists):
		return "A record with the same identity already exists."
	case errors.Is(err, ErrSessionClosed):
		return "This editing session has already finished."
	}
	return err.Error()
}
