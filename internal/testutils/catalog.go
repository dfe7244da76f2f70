package testutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/entities"
)

// Catalog partitions used by the standard fixture
const (
	PartitionMasteries = "masteries"
	PartitionSpells    = "spells"
)

// LibraryEntry creates a catalog entry. The partition is filled in by the
// source on upsert.
func LibraryEntry(id, name string, kind entities.AbilityKind, skill entities.SkillKey, level int) entities.ReferenceLibraryEntry {
	return entities.ReferenceLibraryEntry{IndexEntry: entities.IndexEntry{
		ID:    id,
		Name:  name,
		Kind:  kind,
		Skill: skill,
		Level: level,
	}}
}

// Mastery is a LibraryEntry of kind mastery
func Mastery(id, name string, skill entities.SkillKey, level int) entities.ReferenceLibraryEntry {
	return LibraryEntry(id, name, entities.AbilityKindMastery, skill, level)
}

// Spell is a LibraryEntry of kind spell
func Spell(id, name string, skill entities.SkillKey, grade int) entities.ReferenceLibraryEntry {
	return LibraryEntry(id, name, entities.AbilityKindSpell, skill, grade)
}

// CreateTestCatalog creates an in-memory catalog holding the standard
// masteries and spells partitions
func CreateTestCatalog(t *testing.T) *catalog.MemorySource {
	source := catalog.NewMemorySource()
	ctx := context.Background()

	require.NoError(t, source.Upsert(ctx, catalog.Partition{ID: PartitionMasteries, Label: "Meisterschaften"}, []entities.ReferenceLibraryEntry{
		Mastery("iron-grip", "Iron Grip", "melee", 2),
		Mastery("iron-grip-mastery", "Iron Grip Mastery", "melee", 2),
		Mastery("whirlwind-strike", "Whirlwind Strike", "melee", 3),
		Mastery("titan", "Titan", "melee", 4),
		Mastery("quick-draw", "Quick Draw", "blades", 1),
	}))
	require.NoError(t, source.Upsert(ctx, catalog.Partition{ID: PartitionSpells, Label: "Zauber"}, []entities.ReferenceLibraryEntry{
		Spell("fireball", "Fireball", "firemagic", 3),
		Spell("a-shield", "Shield", "protectionmagic", 1),
		Spell("b-shield", "Shield", "antimagic", 1),
	}))

	return source
}
