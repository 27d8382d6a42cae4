package core

import (
	"strings"

	"github.com/google/uuid"
)

// ID is a time-ordered unique identifier, e.g. for stored uploads
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Compact drops the hyphens, for use inside file names
func (id ID) Compact() string {
	return strings.ReplaceAll(string(id), "-", "")
}
