package entities

// AbilityKind distinguishes the two kinds of resolvable abilities
type AbilityKind string

// Ability kinds
const (
	AbilityKindMastery AbilityKind = "mastery"
	AbilityKindSpell   AbilityKind = "spell"
)

// Valid reports whether k is a known ability kind
func (k AbilityKind) Valid() bool {
	return k == AbilityKindMastery || k == AbilityKindSpell
}

// UnresolvedAbilityRef is an ability named by the source payload that still
// has to be bound to a reference library entry.
type UnresolvedAbilityRef struct {
	// ID is local to the creature and stable across a resolution session
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Kind         AbilityKind `json:"kind"`
	SkillHint    SkillKey    `json:"skill_hint,omitempty"`
	LevelCeiling int         `json:"level_ceiling"`
	// Category is the source's own grouping, e.g. the spell school as written
	Category string `json:"category,omitempty"`
	// Tagged marks a placeholder the operator skipped or left behind on abort
	Tagged bool `json:"tagged,omitempty"`
}

// GetID returns the placeholder ID
func (u *UnresolvedAbilityRef) GetID() string {
	return u.ID
}

// GetType returns the entity type for rpg-toolkit
func (u *UnresolvedAbilityRef) GetType() string {
	return "unresolved_" + string(u.Kind)
}

// ResolvedAbility is a copy of a reference library entry bound to a creature
type ResolvedAbility struct {
	Entry ReferenceLibraryEntry `json:"entry"`
	// Skill is the skill the creature uses the ability with. It is the
	// source's skill hint when one was given, the entry's skill otherwise.
	Skill SkillKey `json:"skill,omitempty"`
	// SourceName is the name as written in the imported payload
	SourceName string `json:"source_name,omitempty"`
}

// NewResolvedAbility binds entry to a creature, preferring the hint's skill
func NewResolvedAbility(entry ReferenceLibraryEntry, sourceName string, skillHint SkillKey) ResolvedAbility {
	skill := entry.Skill
	if skillHint != "" && skillHint != SkillNone {
		skill = skillHint
	}
	return ResolvedAbility{
		Entry:      entry,
		Skill:      skill,
		SourceName: sourceName,
	}
}
