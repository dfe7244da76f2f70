package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
)

type CatalogTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestCatalogTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (s *CatalogTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *CatalogTestSuite) TestParseAvailableIn() {
	testCases := []struct {
		name     string
		raw      string
		expected []catalog.Availability
	}{
		{name: "empty", raw: "", expected: nil},
		{
			name: "two tokens",
			raw:  "deathmagic 2, shadowmagic 3",
			expected: []catalog.Availability{
				{Skill: "deathmagic", Grade: 2},
				{Skill: "shadowmagic", Grade: 3},
			},
		},
		{
			name: "missing and malformed grades default to zero",
			raw:  "Firemagic, lightmagic x, ,windmagic -1",
			expected: []catalog.Availability{
				{Skill: "firemagic", Grade: 0},
				{Skill: "lightmagic", Grade: 0},
				{Skill: "windmagic", Grade: 0},
			},
		},
		{
			name: "editor spelling maps to canonical skills",
			raw:  "Todesmagie 2, Schatten Magie 1, Geschichte und Mythen",
			expected: []catalog.Availability{
				{Skill: "deathmagic", Grade: 2},
				{Skill: "shadowmagic", Grade: 1},
				{Skill: "history", Grade: 0},
			},
		},
		{
			name: "unknown skills are kept lowercased",
			raw:  "Kochkunst 2",
			expected: []catalog.Availability{
				{Skill: "kochkunst", Grade: 2},
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, catalog.ParseAvailableIn(tc.raw))
		})
	}
}

func (s *CatalogTestSuite) TestGradeFor() {
	entry := entities.IndexEntry{Name: "Schattenpfeil", Skill: "deathmagic", Level: 1, AvailableIn: "shadowmagic 2"}

	grade, ok := catalog.GradeFor(entry, "deathmagic", nil)
	s.True(ok)
	s.Equal(1, grade)

	grade, ok = catalog.GradeFor(entry, "shadowmagic", nil)
	s.True(ok)
	s.Equal(2, grade)

	_, ok = catalog.GradeFor(entry, "firemagic", nil)
	s.False(ok)

	german := entities.IndexEntry{Name: "Schattenpfeil", Skill: "deathmagic", Level: 1, AvailableIn: "Schattenmagie 3"}
	grade, ok = catalog.GradeFor(german, "shadowmagic", nil)
	s.True(ok)
	s.Equal(3, grade)
}

func (s *CatalogTestSuite) TestAvailabilityWithAliases() {
	parse := catalog.AvailabilityWithAliases(func(name string) (entities.SkillKey, bool) {
		if strings.EqualFold(name, "Schatten") {
			return "shadowmagic", true
		}
		return "", false
	})

	s.Equal([]catalog.Availability{
		{Skill: "shadowmagic", Grade: 2},
		{Skill: "firemagic", Grade: 1},
	}, parse("Schatten 2, Feuermagie 1"))
}

func (s *CatalogTestSuite) TestMemorySource() {
	src := catalog.NewMemorySource()
	partition := catalog.Partition{ID: "masteries", Label: "Meisterschaften"}
	s.Require().NoError(src.Upsert(s.ctx, partition, []entities.ReferenceLibraryEntry{
		{
			IndexEntry:  entities.IndexEntry{ID: "iron-grip", Name: "Iron Grip", Kind: entities.AbilityKindMastery, Skill: "melee", Level: 2},
			Description: "Holds on.",
		},
	}))
	s.Require().NoError(src.Upsert(s.ctx, catalog.Partition{ID: "arcane"}, nil))

	partitions, err := src.ListPartitions(s.ctx)
	s.Require().NoError(err)
	s.Equal([]catalog.Partition{{ID: "arcane"}, partition}, partitions)

	s.Run("projection clears unrequested fields", func() {
		scanned, err := src.ScanPartition(s.ctx, partition, catalog.Projection{Skill: true})
		s.Require().NoError(err)
		s.Require().Len(scanned, 1)
		s.Equal("masteries", scanned[0].Partition)
		s.Equal(entities.SkillKey("melee"), scanned[0].Skill)
		s.Zero(scanned[0].Level)
	})

	s.Run("fetch full entry", func() {
		entry, err := src.FetchFullEntry(s.ctx, partition, "iron-grip")
		s.Require().NoError(err)
		s.Equal("Holds on.", entry.Description)
		s.Equal("masteries:iron-grip", entry.UniqueID())
	})

	s.Run("missing entry", func() {
		_, err := src.FetchFullEntry(s.ctx, partition, "nope")
		s.True(errors.IsNotFound(err))
	})

	s.Run("missing partition", func() {
		_, err := src.ScanPartition(s.ctx, catalog.Partition{ID: "gone"}, catalog.IndexProjection)
		s.True(errors.IsNotFound(err))
	})
}
