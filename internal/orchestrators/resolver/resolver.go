// Package resolver binds free-text ability names to reference catalog
// entries. Automatic assignment only happens when exactly one catalog
// entry is named exactly or by prefix; everything else goes to the
// operator as a ranked candidate list.
package resolver

//go:generate mockgen -destination=mock/mock_service.go -package=resolvermock github.com/KirkDiggler/creature-import/internal/orchestrators/resolver Service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/index"
	"github.com/KirkDiggler/creature-import/internal/matching"
)

// Service resolves ability names
type Service interface {
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)
	BestGuess(ctx context.Context, input *BestGuessInput) (*BestGuessOutput, error)
}

// Index is the part of the reference library index the resolver reads
type Index interface {
	Query(ctx context.Context, c index.Constraints) ([]entities.IndexEntry, error)
	LookupExactOrPrefix(ctx context.Context, name string, c index.Constraints) ([]entities.MatchCandidate, error)
}

// Config holds the dependencies for the resolver
type Config struct {
	Index   Index
	Mapping *config.Mapping
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Index == nil {
		vb.RequiredField("Index")
	}
	if c.Mapping == nil {
		vb.RequiredField("Mapping")
	}

	return vb.Build()
}

type orchestrator struct {
	index   Index
	mapping *config.Mapping
}

// NewOrchestrator creates a resolver with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		index:   cfg.Index,
		mapping: cfg.Mapping,
	}, nil
}

// Resolve applies exact, then unique prefix, then fuzzy matching
func (o *orchestrator) Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	if err := validateName(input.GetName(), input.GetKind()); err != nil {
		return nil, err
	}

	constraints := index.Constraints{
		Kind:         input.Kind,
		Skill:        input.SkillHint,
		LevelCeiling: ceiling(input.LevelCeiling),
	}
	if constraints.Skill == entities.SkillNone {
		constraints.Skill = ""
	}

	hits, err := o.index.LookupExactOrPrefix(ctx, input.Name, constraints)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up %q", input.Name)
	}

	switch {
	case len(hits) == 1:
		entry := hits[0].Entry
		slog.DebugContext(ctx, "auto matched ability",
			"name", input.Name,
			"entry", entry.UniqueID(),
			"exact", hits[0].IsExact)
		return &ResolveOutput{Outcome: OutcomeAutoMatched, Entry: &entry, Candidates: hits}, nil

	case len(hits) > 1:
		slog.DebugContext(ctx, "ambiguous exact or prefix matches", "name", input.Name, "candidates", len(hits))
		return &ResolveOutput{Outcome: OutcomeAmbiguous, Candidates: hits}, nil
	}

	pool, err := o.index.Query(ctx, constraints)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query candidates for %q", input.Name)
	}

	ranked := matching.Rank(input.Name, pool, entryName, o.mapping.Thresholds.List)
	if len(ranked) == 0 {
		slog.DebugContext(ctx, "no match", "name", input.Name, "pool", len(pool))
		return &ResolveOutput{Outcome: OutcomeNoMatch}, nil
	}

	candidates := make([]entities.MatchCandidate, len(ranked))
	for i, r := range ranked {
		candidates[i] = entities.MatchCandidate{Entry: r.Item, Score: r.Score}
	}
	index.SortCandidates(candidates)

	return &ResolveOutput{Outcome: OutcomeAmbiguous, Candidates: candidates}, nil
}

// BestGuess finds the single most likely entry across all skills, used
// to suggest a skill for abilities that came without one
func (o *orchestrator) BestGuess(ctx context.Context, input *BestGuessInput) (*BestGuessOutput, error) {
	if err := validateName(input.GetName(), input.GetKind()); err != nil {
		return nil, err
	}

	pool, err := o.index.Query(ctx, index.Constraints{
		Kind:         input.Kind,
		LevelCeiling: ceiling(input.LevelCeiling),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query candidates for %q", input.Name)
	}

	ranked := matching.Rank(input.Name, pool, entryName, o.mapping.Thresholds.BestGuess)
	if len(ranked) == 0 {
		return &BestGuessOutput{}, nil
	}

	// among equally scored entries prefer the skill whose label sorts first
	top := ranked[0].Score
	best := ranked[:1]
	for _, r := range ranked[1:] {
		if r.Score == top {
			best = append(best, r)
		}
	}
	sort.SliceStable(best, func(i, j int) bool {
		return o.mapping.Label(best[i].Item.Skill) < o.mapping.Label(best[j].Item.Skill)
	})

	return &BestGuessOutput{
		Found: true,
		Entry: best[0].Item,
		Skill: best[0].Item.Skill,
		Score: best[0].Score,
	}, nil
}

// GetName returns the name or "" for a nil input
func (i *ResolveInput) GetName() string {
	if i == nil {
		return ""
	}
	return i.Name
}

// GetKind returns the kind or "" for a nil input
func (i *ResolveInput) GetKind() entities.AbilityKind {
	if i == nil {
		return ""
	}
	return i.Kind
}

// GetName returns the name or "" for a nil input
func (i *BestGuessInput) GetName() string {
	if i == nil {
		return ""
	}
	return i.Name
}

// GetKind returns the kind or "" for a nil input
func (i *BestGuessInput) GetKind() entities.AbilityKind {
	if i == nil {
		return ""
	}
	return i.Kind
}

func validateName(name string, kind entities.AbilityKind) error {
	vb := errors.NewValidationBuilder()
	if strings.TrimSpace(name) == "" {
		vb.RequiredField("name")
	}
	if !kind.Valid() {
		vb.Fieldf("kind", "must be %s or %s", entities.AbilityKindMastery, entities.AbilityKindSpell)
	}
	return vb.Build()
}

func ceiling(level int) int {
	if level < 0 {
		return index.NoCeiling
	}
	return level
}

func entryName(e entities.IndexEntry) string {
	return e.Name
}
