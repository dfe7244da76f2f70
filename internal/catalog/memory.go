package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
)

// MemorySource is a Source and Writer holding every partition in memory
type MemorySource struct {
	mu         sync.RWMutex
	partitions map[string]Partition
	entries    map[string][]entities.ReferenceLibraryEntry
}

// NewMemorySource creates an empty in-memory catalog
func NewMemorySource() *MemorySource {
	return &MemorySource{
		partitions: make(map[string]Partition),
		entries:    make(map[string][]entities.ReferenceLibraryEntry),
	}
}

var (
	_ Source = (*MemorySource)(nil)
	_ Writer = (*MemorySource)(nil)
)

// Upsert replaces the contents of a partition
func (m *MemorySource) Upsert(_ context.Context, partition Partition, entries []entities.ReferenceLibraryEntry) error {
	if partition.ID == "" {
		return errors.InvalidArgument("partition ID is required")
	}

	stored := make([]entities.ReferenceLibraryEntry, len(entries))
	for i, e := range entries {
		e.Partition = partition.ID
		stored[i] = e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.partitions[partition.ID] = partition
	m.entries[partition.ID] = stored
	return nil
}

// ListPartitions returns partitions ordered by ID
func (m *MemorySource) ListPartitions(_ context.Context) ([]Partition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Partition, 0, len(m.partitions))
	for _, p := range m.partitions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ScanPartition returns the projected entries of a partition
func (m *MemorySource) ScanPartition(_ context.Context, partition Partition, projection Projection) ([]entities.IndexEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.entries[partition.ID]
	if !ok {
		return nil, errors.NotFoundf("partition %s not found", partition.ID)
	}

	out := make([]entities.IndexEntry, 0, len(stored))
	for _, e := range stored {
		out = append(out, Project(e.IndexEntry, projection))
	}
	return out, nil
}

// FetchFullEntry returns one entry of a partition
func (m *MemorySource) FetchFullEntry(_ context.Context, partition Partition, id string) (*entities.ReferenceLibraryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.entries[partition.ID] {
		if e.ID == id {
			entry := e
			return &entry, nil
		}
	}
	return nil, errors.NotFoundf("entry %s not found in partition %s", id, partition.ID)
}
