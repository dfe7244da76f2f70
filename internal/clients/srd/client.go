// Package srd exposes the D&D 5e SRD API as a read-only catalog source.
// Spells become spell entries whose magic skill follows the spell
// school, class features become general masteries.
package srd

//go:generate mockgen -destination=mock/mock_api.go -package=srdmock github.com/KirkDiggler/creature-import/internal/clients/srd API

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	apientities "github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
)

const (
	// SpellsPartition holds SRD spells
	SpellsPartition = "srd-spells"
	// FeaturesPartition holds SRD class features
	FeaturesPartition = "srd-features"

	maxSpellLevel = 9
	fetchWorkers  = 8
)

// API is the subset of the dnd5e-api client the catalog needs
type API interface {
	ListSpells(input *dnd5e.ListSpellsInput) ([]*apientities.ReferenceItem, error)
	GetSpell(key string) (*apientities.Spell, error)
	ListFeatures() ([]*apientities.ReferenceItem, error)
	GetFeature(key string) (*apientities.Feature, error)
}

// DefaultSchoolSkills maps SRD spell schools to magic skills
var DefaultSchoolSkills = map[string]entities.SkillKey{
	"abjuration":    "protectionmagic",
	"conjuration":   "motionmagic",
	"divination":    "insightmagic",
	"enchantment":   "controlmagic",
	"evocation":     "combatmagic",
	"illusion":      "illusionmagic",
	"necromancy":    "deathmagic",
	"transmutation": "transformationmagic",
}

// Config contains configuration options for the SRD source
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to https://www.dnd5eapi.co/api/2014/)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
	// SchoolSkills overrides DefaultSchoolSkills
	SchoolSkills map[string]entities.SkillKey
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.SchoolSkills == nil {
		cfg.SchoolSkills = DefaultSchoolSkills
	}

	vb := errors.NewValidationBuilder()
	for school, skill := range cfg.SchoolSkills {
		if !skill.IsMagic() {
			vb.Fieldf("SchoolSkills", "%s maps to %s which is not a magic skill", school, skill)
		}
	}
	return vb.Build()
}

// Source implements catalog.Source on top of the SRD API
type Source struct {
	api          API
	schoolSkills map[string]entities.SkillKey
}

var _ catalog.Source = (*Source)(nil)

// New creates an SRD source talking to the configured API
func New(cfg *Config) (*Source, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  httpClient,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create D&D 5e API client")
	}

	return NewWithAPI(dnd5e.NewCachedClient(baseClient, cfg.CacheTTL), cfg.SchoolSkills), nil
}

// NewWithAPI wraps an existing API client
func NewWithAPI(api API, schoolSkills map[string]entities.SkillKey) *Source {
	if schoolSkills == nil {
		schoolSkills = DefaultSchoolSkills
	}
	return &Source{api: api, schoolSkills: schoolSkills}
}

// ListPartitions returns the two SRD partitions
func (s *Source) ListPartitions(_ context.Context) ([]catalog.Partition, error) {
	return []catalog.Partition{
		{ID: FeaturesPartition, Label: "SRD Features"},
		{ID: SpellsPartition, Label: "SRD Spells"},
	}, nil
}

// ScanPartition lists one partition. Details are only fetched when the
// projection needs fields the list endpoints do not return.
func (s *Source) ScanPartition(ctx context.Context, partition catalog.Partition, projection catalog.Projection) ([]entities.IndexEntry, error) {
	switch partition.ID {
	case SpellsPartition:
		return s.scanSpells(ctx, projection)
	case FeaturesPartition:
		return s.scanFeatures(ctx, projection)
	default:
		return nil, errors.NotFoundf("partition %s not found", partition.ID)
	}
}

// FetchFullEntry loads a single spell or feature with a description
func (s *Source) FetchFullEntry(_ context.Context, partition catalog.Partition, id string) (*entities.ReferenceLibraryEntry, error) {
	switch partition.ID {
	case SpellsPartition:
		spell, err := s.api.GetSpell(id)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("failed to get spell %s", id))
		}
		if spell == nil {
			return nil, errors.NotFoundf("spell %s not found", id)
		}
		entry := &entities.ReferenceLibraryEntry{
			IndexEntry:  s.spellEntry(spell),
			Description: buildSpellDescription(spell),
		}
		return entry, nil

	case FeaturesPartition:
		feature, err := s.api.GetFeature(id)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("failed to get feature %s", id))
		}
		if feature == nil {
			return nil, errors.NotFoundf("feature %s not found", id)
		}
		return &entities.ReferenceLibraryEntry{
			IndexEntry:  featureEntry(feature),
			Description: buildFeatureDescription(feature),
		}, nil

	default:
		return nil, errors.NotFoundf("partition %s not found", partition.ID)
	}
}

type spellRef struct {
	key   string
	name  string
	level int
}

func (s *Source) scanSpells(ctx context.Context, projection catalog.Projection) ([]entities.IndexEntry, error) {
	// The list endpoint has no level field, so list once per level
	slog.DebugContext(ctx, "Calling D&D 5e API to list spells")
	var refs []spellRef
	for level := 0; level <= maxSpellLevel; level++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "spell scan canceled")
		}

		l := level
		items, err := s.api.ListSpells(&dnd5e.ListSpellsInput{Level: &l})
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("failed to list level %d spells", level))
		}
		for _, item := range items {
			if item == nil {
				continue
			}
			refs = append(refs, spellRef{key: item.Key, name: item.Name, level: level})
		}
	}
	slog.DebugContext(ctx, "Got spell references", "count", len(refs))

	out := make([]entities.IndexEntry, len(refs))
	for i, ref := range refs {
		out[i] = entities.IndexEntry{
			Partition: SpellsPartition,
			ID:        ref.key,
			Name:      ref.name,
			Kind:      entities.AbilityKindSpell,
			Level:     ref.level,
		}
	}

	if projection.Skill {
		err := fetchConcurrently(ctx, len(out), func(i int) error {
			spell, err := s.api.GetSpell(out[i].ID)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to get spell details", "spell", out[i].ID, "error", err)
				return errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("failed to get spell %s", out[i].ID))
			}
			if spell != nil {
				out[i].Skill = s.schoolSkill(spell)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	for i := range out {
		out[i] = catalog.Project(out[i], projection)
	}
	sortEntries(out)
	return out, nil
}

func (s *Source) scanFeatures(ctx context.Context, projection catalog.Projection) ([]entities.IndexEntry, error) {
	slog.DebugContext(ctx, "Calling D&D 5e API to list features")
	items, err := s.api.ListFeatures()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list features")
	}

	out := make([]entities.IndexEntry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, entities.IndexEntry{
			Partition: FeaturesPartition,
			ID:        item.Key,
			Name:      item.Name,
			Kind:      entities.AbilityKindMastery,
		})
	}

	if projection.Level {
		err := fetchConcurrently(ctx, len(out), func(i int) error {
			feature, err := s.api.GetFeature(out[i].ID)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to get feature details", "feature", out[i].ID, "error", err)
				return errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("failed to get feature %s", out[i].ID))
			}
			if feature != nil {
				out[i].Level = featureGrade(feature.Level)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sortEntries(out)
	return out, nil
}

func (s *Source) spellEntry(spell *apientities.Spell) entities.IndexEntry {
	return entities.IndexEntry{
		Partition: SpellsPartition,
		ID:        spell.Key,
		Name:      spell.Name,
		Kind:      entities.AbilityKindSpell,
		Skill:     s.schoolSkill(spell),
		Level:     spell.SpellLevel,
	}
}

func (s *Source) schoolSkill(spell *apientities.Spell) entities.SkillKey {
	if spell.SpellSchool == nil {
		return ""
	}
	school := spell.SpellSchool.Key
	if school == "" {
		school = spell.SpellSchool.Name
	}
	return s.schoolSkills[strings.ToLower(school)]
}

func featureEntry(feature *apientities.Feature) entities.IndexEntry {
	return entities.IndexEntry{
		Partition: FeaturesPartition,
		ID:        feature.Key,
		Name:      feature.Name,
		Kind:      entities.AbilityKindMastery,
		Level:     featureGrade(feature.Level),
	}
}

// featureGrade folds character levels 1-20 onto mastery grades 1-4
func featureGrade(level int) int {
	if level <= 0 {
		return 0
	}
	grade := (level + 4) / 5
	return min(grade, 4)
}

func buildSpellDescription(spell *apientities.Spell) string {
	var parts []string
	if spell.SpellSchool != nil && spell.SpellSchool.Name != "" {
		parts = append(parts, fmt.Sprintf("School: %s", spell.SpellSchool.Name))
	}
	if spell.CastingTime != "" {
		parts = append(parts, fmt.Sprintf("Casting Time: %s", spell.CastingTime))
	}
	if spell.Range != "" {
		parts = append(parts, fmt.Sprintf("Range: %s", spell.Range))
	}
	if spell.Duration != "" {
		parts = append(parts, fmt.Sprintf("Duration: %s", spell.Duration))
	}
	if spell.Ritual {
		parts = append(parts, "Ritual")
	}
	if spell.Concentration {
		parts = append(parts, "Concentration")
	}
	return strings.Join(parts, "\n")
}

func buildFeatureDescription(feature *apientities.Feature) string {
	if feature.Class == nil || feature.Class.Name == "" {
		return fmt.Sprintf("Level %d feature", feature.Level)
	}
	return fmt.Sprintf("%s level %d feature", feature.Class.Name, feature.Level)
}

func sortEntries(entries []entities.IndexEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
}

// fetchConcurrently runs fn for 0..n-1 on a bounded set of goroutines
// and returns the first error
func fetchConcurrently(ctx context.Context, n int, fn func(i int) error) error {
	errChan := make(chan error, n)
	sem := make(chan struct{}, fetchWorkers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(idx); err != nil {
				errChan <- err
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "fetch canceled")
	}
	return nil
}
