package common

import "strings"

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// It clears the caller's password buffer only; strings built from it for the
// wire request are immutable and stay until collected.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address so
// lookups and the UNIQUE constraint see one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
