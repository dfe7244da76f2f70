// Package catalog defines the read-only reference catalog the index scans
// and the partition-level contract every catalog backend implements.
package catalog

//go:generate mockgen -destination=mock/mock_source.go -package=catalogmock github.com/KirkDiggler/creature-import/internal/catalog Source

import (
	"context"

	"github.com/KirkDiggler/creature-import/internal/entities"
)

// Partition is a handle on one independently scanned part of the catalog
type Partition struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// Projection selects the optional fields a scan has to fill in.
// ID, name and kind are always returned.
type Projection struct {
	Skill       bool
	Level       bool
	AvailableIn bool
}

// IndexProjection is what the index needs for filtering
var IndexProjection = Projection{Skill: true, Level: true, AvailableIn: true}

// Source is the reference catalog collaborator. Implementations must
// report a failure of one partition without affecting the others.
type Source interface {
	// ListPartitions returns the partitions currently available
	ListPartitions(ctx context.Context) ([]Partition, error)

	// ScanPartition returns the entries of one partition with the projected
	// fields filled in. Entries carry the partition ID.
	ScanPartition(ctx context.Context, partition Partition, projection Projection) ([]entities.IndexEntry, error)

	// FetchFullEntry returns a single entry with its description.
	// Returns errors.NotFound when the partition has no such entry.
	FetchFullEntry(ctx context.Context, partition Partition, id string) (*entities.ReferenceLibraryEntry, error)
}

// Writer stores partitions, used by catalog loaders
type Writer interface {
	Upsert(ctx context.Context, partition Partition, entries []entities.ReferenceLibraryEntry) error
}

// Project clears the fields a projection did not ask for
func Project(entry entities.IndexEntry, projection Projection) entities.IndexEntry {
	if !projection.Skill {
		entry.Skill = ""
	}
	if !projection.Level {
		entry.Level = 0
	}
	if !projection.AvailableIn {
		entry.AvailableIn = ""
	}
	return entry
}
