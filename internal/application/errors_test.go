package application

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/example/gallery-booking/internal/persistence"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	empty := &ValidationError{}
	if got := empty.Error(); got != "validation failed" {
		t.Fatalf("expected generic message for empty error, got %q", got)
	}

	withFields := &ValidationError{FieldErrors: map[string]string{"name": "is required", "end_date": "invalid"}}
	if got := withFields.Error(); got != "validation failed: end_date, name" {
		t.Fatalf("expected sorted field names in message, got %q", got)
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	if err := (&ValidationError{}).HasErrors(); err {
		t.Fatalf("expected HasErrors to report false for empty error")
	}

	if err := (&ValidationError{FieldErrors: map[string]string{"field": "bad"}}).HasErrors(); !err {
		t.Fatalf("expected HasErrors to report true when fields are present")
	}
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	base := &ValidationError{}
	base.add("first", "value")
	if got := base.FieldErrors["first"]; got != "value" {
		t.Fatalf("expected add to populate map, got %q", got)
	}

	other := &ValidationError{FieldErrors: map[string]string{"second": "another"}}
	base.merge(other)
	if got := base.FieldErrors["second"]; got != "another" {
		t.Fatalf("expected merge to copy field, got %q", got)
	}

	base.merge(nil)
	if len(base.FieldErrors) != 2 {
		t.Fatalf("expected merge with nil to leave fields unchanged")
	}
}

func TestConflictError(t *testing.T) {
	t.Parallel()

	err := error(&ConflictError{PaintingID: "pnt-1", Title: "Water Lilies"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ConflictError to match ErrConflict")
	}
	if !strings.Contains(err.Error(), `"Water Lilies"`) {
		t.Fatalf("expected title in message, got %q", err.Error())
	}

	untitled := &ConflictError{PaintingID: "pnt-2"}
	if !strings.Contains(untitled.Error(), `"pnt-2"`) {
		t.Fatalf("expected painting id fallback, got %q", untitled.Error())
	}

	wrapped := fmt.Errorf("save: %w", &ConflictError{})
	var cErr *ConflictError
	if !errors.As(wrapped, &cErr) {
		t.Fatalf("expected errors.As to find the ConflictError")
	}
}

func TestStorageError(t *testing.T) {
	t.Parallel()

	cause := errors.New("database is locked")
	err := storageError("save exhibition", cause)
	if !errors.Is(err, ErrStorage) || !errors.Is(err, cause) {
		t.Fatalf("expected storage error to match ErrStorage and its cause, got %v", err)
	}
	if got := err.Error(); got != "storage failure during save exhibition: database is locked" {
		t.Fatalf("unexpected message %q", got)
	}

	if again := storageError("outer", err); again != err {
		t.Fatalf("expected storage errors not to be wrapped twice")
	}
	if storageError("noop", nil) != nil {
		t.Fatalf("expected nil for nil cause")
	}
}

func TestMapStoreError(t *testing.T) {
	t.Parallel()

	if got := mapStoreError("get", persistence.ErrNotFound); got != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", got)
	}
	if got := mapStoreError("create", fmt.Errorf("insert: %w", persistence.ErrDuplicate)); got != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", got)
	}
	if got := mapStoreError("get", errors.New("io")); !errors.Is(got, ErrStorage) {
		t.Fatalf("expected storage error, got %v", got)
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{
			name: "validation",
			err:  &ValidationError{FieldErrors: map[string]string{"name": "is required", "location": "is required"}},
			want: "Please check the form: location is required; name is required.",
		},
		{
			name: "conflict",
			err:  &ConflictError{Title: "Sunflowers"},
			want: `painting "Sunflowers" is already booked by another exhibition for an overlapping period.`,
		},
		{
			name: "storage",
			err:  &StorageError{Op: "save", Err: errors.New("disk I/O error")},
			want: "Could not save changes: disk I/O error",
		},
		{name: "not found", err: ErrNotFound, want: "The requested record no longer exists."},
		{name: "closed", err: ErrSessionClosed, want: "This editing session has already finished."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UserMessage(tc.err); got != tc.want {
				t.Fatalf("UserMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}
