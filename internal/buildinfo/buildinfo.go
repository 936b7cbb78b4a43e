// Package buildinfo stamps each compiled translation unit with a
// unique build identifier, emitted as a NASM comment so two builds of
// the same source are distinguishable in a bug report.
package buildinfo

import "github.com/google/uuid"

// NewBuildID returns a fresh random build identifier.
func NewBuildID() string {
	return uuid.New().String()
}

// Comment renders id as a NASM line comment for the top of an
// emitted assembly file.
func Comment(id string) string {
	return "; build " + id + "\n"
}
