// Package index builds a searchable in-memory view over the reference
// catalog. Partitions are scanned lazily on first use and kept until
// invalidated or until the refresh interval passes. A partition that fails
// to scan contributes no entries and is retried on the next query.
package index

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/matching"
	"github.com/KirkDiggler/creature-import/internal/pkg/clock"
)

// NoCeiling disables the level ceiling of a query
const NoCeiling = -1

// Constraints restrict which catalog entries a query considers
type Constraints struct {
	// Kind limits results to masteries or spells, empty for both
	Kind entities.AbilityKind
	// Skill limits results to entries usable with the skill, either as
	// primary skill or through the available-in field. Empty means any
	// skill, entities.SkillNone means general entries only.
	Skill entities.SkillKey
	// LevelCeiling is the highest level or grade accepted, NoCeiling for all
	LevelCeiling int
}

// Config holds the dependencies of the index
type Config struct {
	Source catalog.Source
	// Mapping resolves skill groups for Browse
	Mapping *config.Mapping
	// ParseAvailability overrides the default parser, catalog.ParseAvailableIn
	// with the mapping's spell school names as extra aliases
	ParseAvailability catalog.AvailabilityParser
	// RefreshInterval drops every cached scan once it is this old. Zero
	// keeps scans until Invalidate.
	RefreshInterval time.Duration
	Clock           clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Source == nil {
		vb.RequiredField("Source")
	}
	if c.Mapping == nil {
		vb.RequiredField("Mapping")
	}
	if c.RefreshInterval < 0 {
		vb.InvalidField("RefreshInterval", "must not be negative")
	}
	return vb.Build()
}

// Index caches partition scans and answers filtered lookups
type Index struct {
	source  catalog.Source
	mapping *config.Mapping
	parse   catalog.AvailabilityParser
	refresh time.Duration
	clock   clock.Clock

	// mu is held across scans so one index never scans concurrently
	mu         sync.Mutex
	partitions []catalog.Partition
	scanned    map[string][]entities.IndexEntry
	listedAt   time.Time
}

// New creates an index over a catalog source
func New(cfg *Config) (*Index, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	parse := cfg.ParseAvailability
	if parse == nil {
		parse = catalog.AvailabilityWithAliases(cfg.Mapping.SchoolSkill)
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &Index{
		source:  cfg.Source,
		mapping: cfg.Mapping,
		parse:   parse,
		refresh: cfg.RefreshInterval,
		clock:   clk,
		scanned: make(map[string][]entities.IndexEntry),
	}, nil
}

// Query returns the entries matching the constraints ordered by name
func (x *Index) Query(ctx context.Context, c Constraints) ([]entities.IndexEntry, error) {
	all, err := x.entries(ctx)
	if err != nil {
		return nil, err
	}

	var out []entities.IndexEntry
	for _, e := range all {
		if _, ok := x.accept(e, c); ok {
			out = append(out, e)
		}
	}
	sortByName(out)
	return out, nil
}

// LookupExactOrPrefix returns the entries whose name equals or starts
// with name, scored, best first
func (x *Index) LookupExactOrPrefix(ctx context.Context, name string, c Constraints) ([]entities.MatchCandidate, error) {
	pool, err := x.Query(ctx, c)
	if err != nil {
		return nil, err
	}

	var out []entities.MatchCandidate
	for _, e := range pool {
		switch {
		case matching.IsExact(name, e.Name):
			out = append(out, entities.MatchCandidate{Entry: e, Score: 1.0, IsExact: true})
		case matching.IsPrefix(name, e.Name):
			out = append(out, entities.MatchCandidate{Entry: e, Score: matching.Score(name, e.Name)})
		}
	}
	SortCandidates(out)
	return out, nil
}

// BrowseInput selects a browse list
type BrowseInput struct {
	Kind entities.AbilityKind
	// Group is one of the mapping's skill groups, config.GroupNone for
	// general entries. Ignored when Skill is set.
	Group string
	Skill entities.SkillKey
	// LevelCeiling is the highest grade listed, NoCeiling for all
	LevelCeiling int
}

// BrowseItem is one row of a browse list
type BrowseItem struct {
	Entry entities.IndexEntry
	// Skill is the skill the entry is listed under
	Skill entities.SkillKey
	// Grade is the entry's level for Skill
	Grade int
}

// Browse lists what an operator can pick from manually. Spells are
// ordered by grade then name, masteries by name.
func (x *Index) Browse(ctx context.Context, input BrowseInput) ([]BrowseItem, error) {
	var skills []entities.SkillKey
	switch {
	case input.Skill != "":
		skills = []entities.SkillKey{input.Skill}
	case input.Group == "" || input.Group == config.GroupNone:
		skills = []entities.SkillKey{entities.SkillNone}
	default:
		skills = x.mapping.SkillsIn(input.Group)
		if len(skills) == 0 {
			return nil, errors.InvalidArgumentf("unknown skill group %s", input.Group)
		}
	}

	all, err := x.entries(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []BrowseItem
	for _, skill := range skills {
		c := Constraints{Kind: input.Kind, Skill: skill, LevelCeiling: input.LevelCeiling}
		for _, e := range all {
			grade, ok := x.accept(e, c)
			if !ok || seen[e.UniqueID()] {
				continue
			}
			seen[e.UniqueID()] = true
			out = append(out, BrowseItem{Entry: e, Skill: skill, Grade: grade})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if input.Kind == entities.AbilityKindSpell && a.Grade != b.Grade {
			return a.Grade < b.Grade
		}
		if a.Entry.Name != b.Entry.Name {
			return a.Entry.Name < b.Entry.Name
		}
		return a.Entry.UniqueID() < b.Entry.UniqueID()
	})
	return out, nil
}

// Fetch loads the full catalog entry behind a unique ID
func (x *Index) Fetch(ctx context.Context, uniqueID string) (*entities.ReferenceLibraryEntry, error) {
	partitionID, id, ok := entities.SplitUniqueID(uniqueID)
	if !ok {
		return nil, errors.InvalidArgumentf("malformed entry id %q", uniqueID)
	}

	partition := catalog.Partition{ID: partitionID}
	x.mu.Lock()
	for _, p := range x.partitions {
		if p.ID == partitionID {
			partition = p
			break
		}
	}
	x.mu.Unlock()

	entry, err := x.source.FetchFullEntry(ctx, partition, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.PartitionRead(partitionID, err)
	}
	entry.Partition = partitionID
	return entry, nil
}

// Invalidate drops cached scans of the given partitions, or all of them
// when called without arguments. The partition list is always reread so
// newly loaded partitions show up.
func (x *Index) Invalidate(partitionIDs ...string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.partitions = nil
	if len(partitionIDs) == 0 {
		x.scanned = make(map[string][]entities.IndexEntry)
		return
	}
	for _, id := range partitionIDs {
		delete(x.scanned, id)
	}
}

// entries returns every scanned entry, scanning missing partitions first
func (x *Index) entries(ctx context.Context) ([]entities.IndexEntry, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.partitions != nil && x.refresh > 0 && x.clock.Now().Sub(x.listedAt) >= x.refresh {
		slog.DebugContext(ctx, "refreshing catalog index", "age", x.clock.Now().Sub(x.listedAt))
		x.partitions = nil
		x.scanned = make(map[string][]entities.IndexEntry)
	}

	if x.partitions == nil {
		partitions, err := x.source.ListPartitions(ctx)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list catalog partitions")
		}
		x.partitions = partitions
		x.listedAt = x.clock.Now()
	}

	var out []entities.IndexEntry
	for _, p := range x.partitions {
		entries, ok := x.scanned[p.ID]
		if !ok {
			scanned, err := x.source.ScanPartition(ctx, p, catalog.IndexProjection)
			if err != nil {
				slog.WarnContext(ctx, "skipping catalog partition",
					"partition", p.ID,
					"error", errors.PartitionRead(p.ID, err))
				continue
			}
			for i := range scanned {
				scanned[i].Partition = p.ID
			}
			x.scanned[p.ID] = scanned
			entries = scanned
			slog.DebugContext(ctx, "scanned catalog partition", "partition", p.ID, "entries", len(scanned))
		}
		out = append(out, entries...)
	}
	return out, nil
}

// accept applies the constraints and returns the entry's grade for them
func (x *Index) accept(e entities.IndexEntry, c Constraints) (int, bool) {
	if c.Kind != "" && e.Kind != c.Kind {
		return 0, false
	}

	grade := e.Level
	switch c.Skill {
	case "":
	case entities.SkillNone:
		if e.Skill != "" && e.Skill != entities.SkillNone {
			return 0, false
		}
	default:
		g, ok := catalog.GradeFor(e, c.Skill, x.parse)
		if !ok {
			return 0, false
		}
		grade = g
	}

	if c.LevelCeiling >= 0 && grade > c.LevelCeiling {
		return 0, false
	}
	return grade, true
}

// SortCandidates orders candidates by score descending then name
func SortCandidates(candidates []entities.MatchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		na, nb := matching.Normalize(a.Entry.Name), matching.Normalize(b.Entry.Name)
		if na != nb {
			return na < nb
		}
		return a.Entry.UniqueID() < b.Entry.UniqueID()
	})
}

func sortByName(entries []entities.IndexEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].UniqueID() < entries[j].UniqueID()
	})
}
