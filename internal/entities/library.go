package entities

import "strings"

const uniqueIDSeparator = ":"

// IndexEntry is the projection of a catalog entry the index works with
type IndexEntry struct {
	Partition string      `json:"partition" yaml:"-"`
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Kind      AbilityKind `json:"kind" yaml:"kind"`
	Skill     SkillKey    `json:"skill,omitempty" yaml:"skill,omitempty"`
	Level     int         `json:"level" yaml:"level"`
	// AvailableIn lists further skills the entry can be used with, as
	// comma-separated "skill grade" tokens
	AvailableIn string `json:"available_in,omitempty" yaml:"availableIn,omitempty"`
}

// UniqueID identifies the entry across all partitions
func (e IndexEntry) UniqueID() string {
	return UniqueID(e.Partition, e.ID)
}

// ReferenceLibraryEntry is a full, read-only catalog entry
type ReferenceLibraryEntry struct {
	IndexEntry  `yaml:",inline"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// MatchCandidate is one scored option produced while resolving a name
type MatchCandidate struct {
	Entry   IndexEntry `json:"entry"`
	Score   float64    `json:"score"`
	IsExact bool       `json:"is_exact"`
}

// UniqueID joins a partition and an entry id
func UniqueID(partition, id string) string {
	return partition + uniqueIDSeparator + id
}

// SplitUniqueID is the inverse of UniqueID
func SplitUniqueID(uniqueID string) (partition, id string, ok bool) {
	i := strings.LastIndex(uniqueID, uniqueIDSeparator)
	if i <= 0 || i == len(uniqueID)-1 {
		return "", "", false
	}
	return uniqueID[:i], uniqueID[i+1:], true
}
