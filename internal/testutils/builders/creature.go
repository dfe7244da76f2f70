// Package builders provides test data builders for creating test fixtures
package builders

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/creature-import/internal/entities"
)

// CreatureBuilder provides a fluent interface for building test CreatureRecord instances
type CreatureBuilder struct {
	creature *entities.CreatureRecord
	counters map[entities.AbilityKind]int
}

// NewCreatureBuilder creates a new builder with minimal defaults
func NewCreatureBuilder() *CreatureBuilder {
	rec := entities.NewCreatureRecord("Felsenwolf", entities.FormatEditorV2)
	rec.ID = "creature-test-123"
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return &CreatureBuilder{
		creature: rec,
		counters: make(map[entities.AbilityKind]int),
	}
}

// WithID sets the creature ID
func (b *CreatureBuilder) WithID(id string) *CreatureBuilder {
	b.creature.ID = id
	return b
}

// WithName sets the creature name
func (b *CreatureBuilder) WithName(name string) *CreatureBuilder {
	b.creature.Name = name
	return b
}

// WithFormat sets the source format tag
func (b *CreatureBuilder) WithFormat(format entities.Format) *CreatureBuilder {
	b.creature.Format = format
	return b
}

// WithAttribute sets one attribute value
func (b *CreatureBuilder) WithAttribute(key entities.AttributeKey, value int) *CreatureBuilder {
	b.creature.Attributes[key] = value
	return b
}

// WithSkill sets one skill value
func (b *CreatureBuilder) WithSkill(key entities.SkillKey, value, points int) *CreatureBuilder {
	b.creature.Skills[key] = entities.SkillValue{Value: value, Points: points}
	return b
}

// WithUnresolved appends a placeholder, numbering its ID per kind
func (b *CreatureBuilder) WithUnresolved(kind entities.AbilityKind, name string, hint entities.SkillKey, ceiling int) *CreatureBuilder {
	b.counters[kind]++
	b.creature.RefSeq = max(b.creature.RefSeq, b.counters[kind])
	b.creature.Unresolved = append(b.creature.Unresolved, entities.UnresolvedAbilityRef{
		ID:           fmt.Sprintf("%s-%d", kind, b.counters[kind]),
		Name:         name,
		Kind:         kind,
		SkillHint:    hint,
		LevelCeiling: ceiling,
	})
	return b
}

// WithTaggedUnresolved appends a placeholder already tagged by an operator
func (b *CreatureBuilder) WithTaggedUnresolved(kind entities.AbilityKind, name string) *CreatureBuilder {
	b.WithUnresolved(kind, name, "", 0)
	b.creature.Unresolved[len(b.creature.Unresolved)-1].Tagged = true
	return b
}

// WithAbility appends a resolved ability
func (b *CreatureBuilder) WithAbility(entry entities.ReferenceLibraryEntry, sourceName string) *CreatureBuilder {
	b.creature.Abilities = append(b.creature.Abilities, entities.NewResolvedAbility(entry, sourceName, ""))
	return b
}

// WithWeapon appends a weapon
func (b *CreatureBuilder) WithWeapon(weapon entities.WeaponRef) *CreatureBuilder {
	b.creature.Weapons = append(b.creature.Weapons, weapon)
	return b
}

// Build returns the constructed creature
func (b *CreatureBuilder) Build() *entities.CreatureRecord {
	return b.creature
}
