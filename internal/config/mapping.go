package config

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
)

// Skill group names used by browse lists
const (
	GroupNone     = "none"
	GroupGeneral  = "general"
	GroupFighting = "fighting"
	GroupMagic    = "magic"
)

//go:embed mapping.yaml
var defaultMappingYAML []byte

// Mapping holds the lookup tables that the normalizer, resolver and
// workflow are constructed with.
type Mapping struct {
	SkillGroups          map[string][]string `yaml:"skillGroups"`
	SkillLabels          map[string]string   `yaml:"skillLabels"`
	MagicSchools         map[string]string   `yaml:"magicSchools"`
	DefaultCategory      string              `yaml:"defaultCategory"`
	RefinementCategories map[string]string   `yaml:"refinementCategories"`
	TrainingCategories   map[string]string   `yaml:"trainingCategories"`
	Ceilings             Ceilings            `yaml:"ceilings"`
	Thresholds           Thresholds          `yaml:"thresholds"`
}

// Ceilings are the level ceilings used when a source gives none
type Ceilings struct {
	Mastery int `yaml:"mastery"`
	Spell   int `yaml:"spell"`
}

// Thresholds are the fuzzy acceptance thresholds
type Thresholds struct {
	List      float64 `yaml:"list"`
	BestGuess float64 `yaml:"bestGuess"`
}

// DefaultMapping returns the embedded mapping
func DefaultMapping() (*Mapping, error) {
	return ParseMapping(defaultMappingYAML)
}

// LoadMapping reads a mapping file, falling back to the embedded default
// when path is empty.
func LoadMapping(path string) (*Mapping, error) {
	if path == "" {
		return DefaultMapping()
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read mapping file %s", path)
	}
	return ParseMapping(data)
}

// ParseMapping decodes and validates a YAML mapping document
func ParseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode mapping")
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid mapping")
	}
	return &m, nil
}

// Validate checks that every table refers to canonical skills
func (m *Mapping) Validate() error {
	vb := errors.NewValidationBuilder()

	for _, group := range []string{GroupGeneral, GroupFighting, GroupMagic} {
		if len(m.SkillGroups[group]) == 0 {
			vb.RequiredField("skillGroups." + group)
		}
	}
	for group, skills := range m.SkillGroups {
		for _, skill := range skills {
			if !entities.SkillKey(skill).Valid() {
				vb.InvalidField("skillGroups."+group, "unknown skill "+skill)
			}
		}
	}
	for school, skill := range m.MagicSchools {
		if !entities.SkillKey(skill).IsMagic() {
			vb.InvalidField("magicSchools."+school, skill+" is not a magic skill")
		}
	}
	if m.DefaultCategory == "" {
		vb.RequiredField("defaultCategory")
	}
	if m.Ceilings.Mastery < 0 {
		vb.InvalidField("ceilings.mastery", "must not be negative")
	}
	if m.Ceilings.Spell < 0 {
		vb.InvalidField("ceilings.spell", "must not be negative")
	}
	errors.ValidateRange("thresholds.list", m.Thresholds.List, 0, 1, vb)
	errors.ValidateRange("thresholds.bestGuess", m.Thresholds.BestGuess, 0, 1, vb)

	return vb.Build()
}

// Group returns the group a skill belongs to, GroupNone for general abilities
func (m *Mapping) Group(skill entities.SkillKey) string {
	if skill == "" || skill == entities.SkillNone {
		return GroupNone
	}
	for group, skills := range m.SkillGroups {
		for _, s := range skills {
			if entities.SkillKey(s) == skill {
				return group
			}
		}
	}
	return GroupNone
}

// SkillsIn lists the skills of a group
func (m *Mapping) SkillsIn(group string) []entities.SkillKey {
	out := make([]entities.SkillKey, 0, len(m.SkillGroups[group]))
	for _, s := range m.SkillGroups[group] {
		out = append(out, entities.SkillKey(s))
	}
	return out
}

// Label returns the display label of a skill, the key itself when unlabeled
func (m *Mapping) Label(skill entities.SkillKey) string {
	if label, ok := m.SkillLabels[string(skill)]; ok {
		return label
	}
	return string(skill)
}

// SchoolSkill maps a spell school as written in an export to a magic skill.
// Canonical magic skill keys map to themselves.
func (m *Mapping) SchoolSkill(school string) (entities.SkillKey, bool) {
	key := strings.ToLower(strings.TrimSpace(school))
	if skill, ok := m.MagicSchools[key]; ok {
		return entities.SkillKey(skill), true
	}
	if entities.SkillKey(key).IsMagic() {
		return entities.SkillKey(key), true
	}
	return "", false
}

// Category normalizes a feature category, falling back to DefaultCategory
func (m *Mapping) Category(kind entities.FeatureKind, category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	table := m.RefinementCategories
	if kind == entities.FeatureKindTraining {
		table = m.TrainingCategories
	}
	if _, ok := table[key]; ok {
		return key
	}
	return m.DefaultCategory
}

// CategoryLabel returns the display label of a normalized category
func (m *Mapping) CategoryLabel(kind entities.FeatureKind, category string) string {
	table := m.RefinementCategories
	if kind == entities.FeatureKindTraining {
		table = m.TrainingCategories
	}
	if label, ok := table[category]; ok {
		return label
	}
	return category
}

// Ceiling returns the default level ceiling for an ability kind
func (m *Mapping) Ceiling(kind entities.AbilityKind) int {
	if kind == entities.AbilityKindSpell {
		return m.Ceilings.Spell
	}
	return m.Ceilings.Mastery
}

// Groups lists the configured group names, GroupNone first
func (m *Mapping) Groups() []string {
	groups := make([]string, 0, len(m.SkillGroups)+1)
	for group := range m.SkillGroups {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return append([]string{GroupNone}, groups...)
}
