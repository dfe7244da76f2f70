package config_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestLoadDefaults() {
	cfg, err := config.Load()
	s.Require().NoError(err)

	s.Equal(50051, cfg.GRPCPort)
	s.Equal(config.CatalogYAML, cfg.Catalog)
	s.Equal(24*time.Hour, cfg.SessionTTL)
	s.Equal(15*time.Minute, cfg.IndexRefresh)
	s.NoError(cfg.Validate())
}

func (s *ConfigTestSuite) TestLoadFromEnvironment() {
	s.T().Setenv("CREATURE_IMPORT_CATALOG", "sqlite")
	s.T().Setenv("CREATURE_IMPORT_SQLITE_PATH", "/tmp/catalog.db")
	s.T().Setenv("CREATURE_IMPORT_SESSION_TTL", "90m")

	cfg, err := config.Load()
	s.Require().NoError(err)

	s.Equal(config.CatalogSQLite, cfg.Catalog)
	s.Equal("/tmp/catalog.db", cfg.SQLitePath)
	s.Equal(90*time.Minute, cfg.SessionTTL)
}

func (s *ConfigTestSuite) TestValidate() {
	testCases := []struct {
		name   string
		modify func(*config.Config)
		field  string
	}{
		{name: "bad port", modify: func(c *config.Config) { c.GRPCPort = 0 }, field: "GRPCPort"},
		{name: "unknown catalog", modify: func(c *config.Config) { c.Catalog = "mongo" }, field: "Catalog"},
		{name: "sqlite without path", modify: func(c *config.Config) { c.Catalog = config.CatalogSQLite; c.SQLitePath = "" }, field: "SQLitePath"},
		{name: "negative index refresh", modify: func(c *config.Config) { c.IndexRefresh = -time.Minute }, field: "IndexRefresh"},
		{name: "bad log level", modify: func(c *config.Config) { c.LogLevel = "loud" }, field: "LogLevel"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg, err := config.Load()
			s.Require().NoError(err)
			tc.modify(cfg)

			err = cfg.Validate()
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Contains(err.Error(), tc.field)
		})
	}
}

func (s *ConfigTestSuite) TestNewLoggerJSON() {
	cfg, err := config.Load()
	s.Require().NoError(err)
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "partition", "masteries")

	s.NotContains(buf.String(), "hidden")
	s.Contains(buf.String(), `"partition":"masteries"`)
}

type MappingTestSuite struct {
	suite.Suite
	mapping *config.Mapping
}

func TestMappingTestSuite(t *testing.T) {
	suite.Run(t, new(MappingTestSuite))
}

func (s *MappingTestSuite) SetupTest() {
	m, err := config.DefaultMapping()
	s.Require().NoError(err)
	s.mapping = m
}

func (s *MappingTestSuite) TestDefaults() {
	s.Equal(4, s.mapping.Ceiling(entities.AbilityKindMastery))
	s.Equal(5, s.mapping.Ceiling(entities.AbilityKindSpell))
	s.Equal(0.3, s.mapping.Thresholds.List)
	s.Equal(0.5, s.mapping.Thresholds.BestGuess)
	s.Len(s.mapping.SkillsIn(config.GroupFighting), len(entities.FightingSkills))
	s.Equal([]string{config.GroupNone, config.GroupFighting, config.GroupGeneral, config.GroupMagic}, s.mapping.Groups())
}

func (s *MappingTestSuite) TestGroupAndLabel() {
	s.Equal(config.GroupFighting, s.mapping.Group("melee"))
	s.Equal(config.GroupMagic, s.mapping.Group("deathmagic"))
	s.Equal(config.GroupNone, s.mapping.Group(""))
	s.Equal(config.GroupNone, s.mapping.Group(entities.SkillNone))
	s.Equal("Handgemenge", s.mapping.Label("melee"))
	s.Equal("unknownskill", s.mapping.Label("unknownskill"))
}

func (s *MappingTestSuite) TestSchoolSkill() {
	testCases := []struct {
		school   string
		expected entities.SkillKey
		ok       bool
	}{
		{school: "Tod", expected: "deathmagic", ok: true},
		{school: " Schattenmagie ", expected: "shadowmagic", ok: true},
		{school: "firemagic", expected: "firemagic", ok: true},
		{school: "Kochkunst", ok: false},
	}

	for _, tc := range testCases {
		s.Run(tc.school, func() {
			skill, ok := s.mapping.SchoolSkill(tc.school)
			s.Equal(tc.ok, ok)
			s.Equal(tc.expected, skill)
		})
	}
}

func (s *MappingTestSuite) TestCategory() {
	s.Equal("sinne", s.mapping.Category(entities.FeatureKindRefinement, "Sinne"))
	s.Equal("sonstiges", s.mapping.Category(entities.FeatureKindRefinement, "kampf"))
	s.Equal("kampf", s.mapping.Category(entities.FeatureKindTraining, "kampf"))
	s.Equal("Natürliche Waffen", s.mapping.CategoryLabel(entities.FeatureKindRefinement, "natuerliche_waffen"))
}

func (s *MappingTestSuite) TestParseMappingRejectsUnknownSkills() {
	_, err := config.ParseMapping([]byte(`
skillGroups:
  general: [perception]
  fighting: [lasers]
  magic: [firemagic]
magicSchools:
  feuer: melee
defaultCategory: sonstiges
thresholds:
  list: 0.3
  bestGuess: 1.5
`))
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "unknown skill lasers")
	s.Contains(err.Error(), "melee is not a magic skill")
	s.Contains(err.Error(), "thresholds.bestGuess")
}
