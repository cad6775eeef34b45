package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
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

// SnapshotID tags one fetch of the spreadsheet. It only correlates log lines;
// records carry no identity from one snapshot to the next.
type SnapshotID ID

func (id SnapshotID) String() string { return ID(id).String() }
