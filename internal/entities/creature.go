package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format is the discriminator value of an input payload
type Format string

// Supported input formats
const (
	FormatEditorV1  Format = "EDITOR_V1"
	FormatEditorV2  Format = "EDITOR_V2"
	FormatVTTImport Format = "VTT_IMPORT"
)

// Formats lists every supported format tag
var Formats = []Format{FormatEditorV1, FormatEditorV2, FormatVTTImport}

// AttributeSet maps attribute keys to values
type AttributeSet map[AttributeKey]int

// SkillValue is a skill's total value and the points invested in it
type SkillValue struct {
	Value  int `json:"value"`
	Points int `json:"points"`
}

// SkillSet maps skill keys to values
type SkillSet map[SkillKey]SkillValue

// DerivedValueSet maps derived keys to values
type DerivedValueSet map[DerivedKey]int

// DamageExpr is a parsed damage notation such as 2W6+3
type DamageExpr struct {
	Count    int `json:"count"`
	Sides    int `json:"sides"`
	Modifier int `json:"modifier,omitempty"`
}

// String renders the expression in W notation
func (d DamageExpr) String() string {
	switch {
	case d.Modifier > 0:
		return fmt.Sprintf("%dW%d+%d", d.Count, d.Sides, d.Modifier)
	case d.Modifier < 0:
		return fmt.Sprintf("%dW%d%d", d.Count, d.Sides, d.Modifier)
	default:
		return fmt.Sprintf("%dW%d", d.Count, d.Sides)
	}
}

// WeaponRef is a weapon or natural attack taken directly from the source
type WeaponRef struct {
	Name  string   `json:"name"`
	Skill SkillKey `json:"skill,omitempty"`
	Value int      `json:"value"`
	// Damage is the notation as written; Expr is set when it parsed
	Damage     string      `json:"damage"`
	Expr       *DamageExpr `json:"expr,omitempty"`
	Speed      int         `json:"speed"`
	Initiative int         `json:"initiative,omitempty"`
	Range      int         `json:"range,omitempty"`
	Features   []string    `json:"features,omitempty"`
}

// FeatureKind groups creature features
type FeatureKind string

// Feature kinds
const (
	FeatureKindRefinement FeatureKind = "refinement"
	FeatureKindTraining   FeatureKind = "training"
	FeatureKindTrait      FeatureKind = "trait"
)

// FeatureRef is a structured creature feature
type FeatureRef struct {
	Name        string      `json:"name"`
	Kind        FeatureKind `json:"kind"`
	Category    string      `json:"category,omitempty"`
	Cost        int         `json:"cost,omitempty"`
	Description string      `json:"description,omitempty"`
	// TrickSlots lists the levels of great tricks a training grants
	TrickSlots []int `json:"trick_slots,omitempty"`
}

// ResourcePools tracks spent health and focus
type ResourcePools struct {
	HealthConsumed  int `json:"health_consumed,omitempty"`
	HealthExhausted int `json:"health_exhausted,omitempty"`
	FocusConsumed   int `json:"focus_consumed,omitempty"`
	FocusExhausted  int `json:"focus_exhausted,omitempty"`
}

// CreatureRecord is the canonical form of an imported creature
type CreatureRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Format      Format          `json:"format"`
	Description string          `json:"description,omitempty"`
	Role        string          `json:"role,omitempty"`
	Types       []string        `json:"types,omitempty"`
	Attributes  AttributeSet    `json:"attributes"`
	Skills      SkillSet        `json:"skills"`
	Derived     DerivedValueSet `json:"derived"`
	Pools       ResourcePools   `json:"pools"`
	Weapons     []WeaponRef     `json:"weapons,omitempty"`
	Features    []FeatureRef    `json:"features,omitempty"`

	Unresolved []UnresolvedAbilityRef `json:"unresolved,omitempty"`
	Abilities  []ResolvedAbility      `json:"abilities,omitempty"`
	// RefSeq is the highest placeholder number issued for this record
	RefSeq int `json:"ref_seq,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCreatureRecord returns a record with empty value maps
func NewCreatureRecord(name string, format Format) *CreatureRecord {
	return &CreatureRecord{
		Name:       name,
		Format:     format,
		Attributes: AttributeSet{},
		Skills:     SkillSet{},
		Derived:    DerivedValueSet{},
	}
}

// GetID returns the creature ID
func (c *CreatureRecord) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *CreatureRecord) GetType() string {
	return "creature"
}

// CurrentHealth is the health maximum minus consumed and exhausted points
func (c *CreatureRecord) CurrentHealth() int {
	return max(0, c.Derived[DerivedHealthPoints]-c.Pools.HealthConsumed-c.Pools.HealthExhausted)
}

// CurrentFocus is the focus maximum minus consumed and exhausted points
func (c *CreatureRecord) CurrentFocus() int {
	return max(0, c.Derived[DerivedFocusPoints]-c.Pools.FocusConsumed-c.Pools.FocusExhausted)
}

// NextRefID issues a placeholder ID numbered after every ID this record
// has handed out so far
func (c *CreatureRecord) NextRefID(kind AbilityKind) string {
	c.RefSeq = max(c.RefSeq, c.highestRefSeq()) + 1
	return fmt.Sprintf("%s-%d", kind, c.RefSeq)
}

// highestRefSeq covers records stored before RefSeq was tracked
func (c *CreatureRecord) highestRefSeq() int {
	highest := 0
	for _, ref := range c.Unresolved {
		if n, ok := RefSeqOf(ref.ID); ok && n > highest {
			highest = n
		}
	}
	return highest
}

// RefSeqOf returns the number of a "<kind>-<n>" placeholder ID
func RefSeqOf(id string) (int, bool) {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FindUnresolved returns the placeholder with the given ID
func (c *CreatureRecord) FindUnresolved(id string) (*UnresolvedAbilityRef, bool) {
	for i := range c.Unresolved {
		if c.Unresolved[i].ID == id {
			return &c.Unresolved[i], true
		}
	}
	return nil, false
}

// RemoveUnresolved drops a placeholder. It reports whether one was removed.
func (c *CreatureRecord) RemoveUnresolved(id string) bool {
	for i := range c.Unresolved {
		if c.Unresolved[i].ID == id {
			c.Unresolved = append(c.Unresolved[:i], c.Unresolved[i+1:]...)
			return true
		}
	}
	return false
}

// TagUnresolved marks a placeholder as deliberately left unresolved
func (c *CreatureRecord) TagUnresolved(id string) bool {
	ref, ok := c.FindUnresolved(id)
	if !ok {
		return false
	}
	ref.Tagged = true
	return true
}

// HasAbility reports whether an ability with the unique ID is already bound
func (c *CreatureRecord) HasAbility(uniqueID string) bool {
	for _, a := range c.Abilities {
		if a.Entry.UniqueID() == uniqueID {
			return true
		}
	}
	return false
}

// AddAbility binds an ability unless one with the same unique ID exists.
// It reports whether the ability was added.
func (c *CreatureRecord) AddAbility(ability ResolvedAbility) bool {
	if c.HasAbility(ability.Entry.UniqueID()) {
		return false
	}
	c.Abilities = append(c.Abilities, ability)
	return true
}

// ResolvePlaceholder replaces the placeholder id with ability. When the
// ability is already bound the placeholder is dropped without adding a
// duplicate. It reports whether the placeholder existed.
func (c *CreatureRecord) ResolvePlaceholder(id string, ability ResolvedAbility) bool {
	if !c.RemoveUnresolved(id) {
		return false
	}
	c.AddAbility(ability)
	return true
}
