// Package id generates identifiers for gallery records.
package id

import "github.com/google/uuid"

// Prefixes applied to generated identifiers.
const (
	PrefixPainting   = "pnt"
	PrefixExhibition = "exh"
	PrefixBooking    = "bkg"
)

// Generate returns a prefixed random identifier, e.g. "exh-2f1c...".
func Generate(prefix string) string {
	value := uuid.NewString()
	if prefix == "" {
		return value
	}
	return prefix + "-" + value
}

// Generator returns a function producing identifiers with the given prefix,
// suitable for injection into services.
func Generator(prefix string) func() string {
	return func() string { return Generate(prefix) }
}
