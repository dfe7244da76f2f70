package importer_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/index"
	"github.com/KirkDiggler/creature-import/internal/normalizer"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/importer"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/resolver"
	resolvermock "github.com/KirkDiggler/creature-import/internal/orchestrators/resolver/mock"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/workflow"
	"github.com/KirkDiggler/creature-import/internal/pkg/clock"
	"github.com/KirkDiggler/creature-import/internal/pkg/idgen"
	"github.com/KirkDiggler/creature-import/internal/repositories/creature"
	creaturemock "github.com/KirkDiggler/creature-import/internal/repositories/creature/mock"
	resolutionsession "github.com/KirkDiggler/creature-import/internal/repositories/resolution_session"
	"github.com/KirkDiggler/creature-import/internal/testutils"
)

const ashDrake = `{
  "formatTag": "EDITOR_V2",
  "editor": "SPLITTERMOND_CREATURE_EDITOR",
  "name": "Ash Drake",
  "masteries": [
    {"name": "Whirlwind", "skill": "melee", "level": 3},
    {"name": "Iron Grip", "skill": "melee", "level": 3}
  ],
  "spells": [{"name": "Fireball", "school": "firemagic", "grade": 5}],
  "weapons": [{"name": "Claw", "skill": "melee", "value": 15, "damage": "1d10+1", "speed": 8}]
}`

const ashDrakeReworked = `{
  "formatTag": "EDITOR_V2",
  "editor": "SPLITTERMOND_CREATURE_EDITOR",
  "name": "Ash Drake",
  "masteries": [
    {"name": "Whirlwind", "skill": "melee", "level": 3},
    {"name": "Iron Grip", "skill": "melee", "level": 3}
  ],
  "weapons": [{"name": "Bite", "skill": "melee", "value": 14, "damage": "2W6", "speed": 9}]
}`

type ImporterTestSuite struct {
	suite.Suite
	ctx        context.Context
	ctrl       *gomock.Controller
	mapping    *config.Mapping
	normalizer *normalizer.Normalizer
	index      *index.Index
	resolver   resolver.Service
	creatures  creature.Repository
	workflow   workflow.Service
	importer   importer.Service
	cleanup    func()
}

func TestImporterTestSuite(t *testing.T) {
	suite.Run(t, new(ImporterTestSuite))
}

func (s *ImporterTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())

	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	clk := clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	var err error
	s.mapping, err = config.DefaultMapping()
	s.Require().NoError(err)

	s.creatures, err = creature.NewRedis(&creature.RedisConfig{Client: client, Clock: clk})
	s.Require().NoError(err)
	sessions, err := resolutionsession.NewRedisRepository(&resolutionsession.Config{Client: client, Clock: clk})
	s.Require().NoError(err)

	source := catalog.NewMemorySource()
	s.Require().NoError(source.Upsert(s.ctx, catalog.Partition{ID: "masteries"}, []entities.ReferenceLibraryEntry{
		libraryEntry("iron-grip", "Iron Grip", entities.AbilityKindMastery, "melee", 2),
		libraryEntry("iron-grip-mastery", "Iron Grip Mastery", entities.AbilityKindMastery, "melee", 2),
		libraryEntry("whirlwind-strike", "Whirlwind Strike", entities.AbilityKindMastery, "melee", 3),
	}))
	s.Require().NoError(source.Upsert(s.ctx, catalog.Partition{ID: "spells"}, []entities.ReferenceLibraryEntry{
		libraryEntry("fireball", "Fireball", entities.AbilityKindSpell, "firemagic", 3),
	}))

	s.index, err = index.New(&index.Config{Source: source, Mapping: s.mapping})
	s.Require().NoError(err)
	s.resolver, err = resolver.NewOrchestrator(&resolver.Config{Index: s.index, Mapping: s.mapping})
	s.Require().NoError(err)
	s.normalizer, err = normalizer.New(&normalizer.Config{Mapping: s.mapping})
	s.Require().NoError(err)

	s.workflow, err = workflow.NewOrchestrator(&workflow.Config{
		Resolver:    s.resolver,
		Catalog:     s.index,
		Creatures:   s.creatures,
		Sessions:    sessions,
		EventBus:    events.NewBus(),
		IDGenerator: idgen.NewSequential("session"),
		Mapping:     s.mapping,
	})
	s.Require().NoError(err)

	s.importer = s.newImporter(s.resolver, s.creatures)
}

func (s *ImporterTestSuite) TearDownTest() {
	s.ctrl.Finish()
	s.cleanup()
}

func (s *ImporterTestSuite) newImporter(res resolver.Service, creatures creature.Repository) importer.Service {
	imp, err := importer.NewOrchestrator(&importer.Config{
		Normalizer:  s.normalizer,
		Resolver:    res,
		Catalog:     s.index,
		Creatures:   creatures,
		Workflow:    s.workflow,
		IDGenerator: idgen.NewSequential("creature"),
	})
	s.Require().NoError(err)
	return imp
}

func libraryEntry(id, name string, kind entities.AbilityKind, skill entities.SkillKey, level int) entities.ReferenceLibraryEntry {
	return entities.ReferenceLibraryEntry{IndexEntry: entities.IndexEntry{
		ID: id, Name: name, Kind: kind, Skill: skill, Level: level,
	}, Description: name + " description"}
}

func unresolvedNames(rec *entities.CreatureRecord) []string {
	out := make([]string, len(rec.Unresolved))
	for i, ref := range rec.Unresolved {
		out[i] = ref.Name
	}
	return out
}

func abilityIDs(abilities []entities.ResolvedAbility) []string {
	out := make([]string, len(abilities))
	for i, a := range abilities {
		out[i] = a.Entry.UniqueID()
	}
	return out
}

func (s *ImporterTestSuite) TestNewOrchestratorValidatesConfig() {
	_, err := importer.NewOrchestrator(&importer.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ImporterTestSuite) TestImportWithAutoAssignAndSession() {
	out, err := s.importer.Import(s.ctx, &importer.ImportInput{
		Payload:      []byte(ashDrake),
		AutoAssign:   true,
		StartSession: true,
	})
	s.Require().NoError(err)

	s.Equal("creature_1", out.Creature.ID)
	s.False(out.Reimported)
	s.ElementsMatch([]string{"masteries:whirlwind-strike", "spells:fireball"}, abilityIDs(out.AutoAssigned))
	s.Equal([]string{"Iron Grip"}, unresolvedNames(out.Creature))

	s.Require().NotNil(out.Session)
	s.Equal("creature_1", out.Session.CreatureID)
	s.Len(out.Session.Queue, 1)

	stored, err := s.creatures.Get(s.ctx, creature.GetInput{ID: "creature_1"})
	s.Require().NoError(err)
	s.Len(stored.Creature.Abilities, 2)
	for _, a := range stored.Creature.Abilities {
		s.NotEmpty(a.Entry.Description)
		s.NotEmpty(a.SourceName)
	}
	s.Require().Len(stored.Creature.Weapons, 1)
	s.Equal("Claw", stored.Creature.Weapons[0].Name)
}

func (s *ImporterTestSuite) TestImportWithoutAutoAssign() {
	out, err := s.importer.Import(s.ctx, &importer.ImportInput{Payload: []byte(ashDrake)})
	s.Require().NoError(err)

	s.Empty(out.AutoAssigned)
	s.Nil(out.Session)
	s.ElementsMatch([]string{"Whirlwind", "Iron Grip", "Fireball"}, unresolvedNames(out.Creature))
}

func (s *ImporterTestSuite) TestSessionIsNotStartedWhenNothingIsLeft() {
	payload := `{"formatTag":"EDITOR_V2","editor":"SPLITTERMOND_CREATURE_EDITOR","name":"Ash Drake",
		"masteries":[{"name":"Whirlwind","skill":"melee","level":3}]}`

	out, err := s.importer.Import(s.ctx, &importer.ImportInput{
		Payload:      []byte(payload),
		AutoAssign:   true,
		StartSession: true,
	})
	s.Require().NoError(err)
	s.Empty(out.Creature.Unresolved)
	s.Nil(out.Session)
}

func (s *ImporterTestSuite) TestFormatValidationAbortsImport() {
	payload := `{"formatTag":"EDITOR_V2","name":"Ash Drake"}`

	_, err := s.importer.Import(s.ctx, &importer.ImportInput{Payload: []byte(payload), AutoAssign: true})
	s.Require().Error(err)
	s.True(errors.IsFormatValidation(err))
	s.Equal("editor", errors.FormatField(err))

	_, err = s.creatures.Get(s.ctx, creature.GetInput{ID: "creature_1"})
	s.True(errors.IsNotFound(err), "nothing is stored")
}

func (s *ImporterTestSuite) TestEmptyPayload() {
	_, err := s.importer.Import(s.ctx, &importer.ImportInput{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ImporterTestSuite) TestReimportKeepsResolvedAbilities() {
	first, err := s.importer.Import(s.ctx, &importer.ImportInput{Payload: []byte(ashDrake), AutoAssign: true})
	s.Require().NoError(err)

	out, err := s.importer.Import(s.ctx, &importer.ImportInput{
		Payload:            []byte(ashDrakeReworked),
		ExistingCreatureID: first.Creature.ID,
	})
	s.Require().NoError(err)

	s.True(out.Reimported)
	s.Equal(first.Creature.ID, out.Creature.ID)
	s.Require().Len(out.Creature.Weapons, 1)
	s.Equal("Bite", out.Creature.Weapons[0].Name)
	s.ElementsMatch([]string{"masteries:whirlwind-strike", "spells:fireball"}, abilityIDs(out.Creature.Abilities))
	s.Equal([]string{"Iron Grip"}, unresolvedNames(out.Creature))
	s.True(out.Creature.CreatedAt.Equal(first.Creature.CreatedAt))
}

func (s *ImporterTestSuite) TestReimportUnknownCreature() {
	_, err := s.importer.Import(s.ctx, &importer.ImportInput{
		Payload:            []byte(ashDrake),
		ExistingCreatureID: "missing",
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *ImporterTestSuite) TestResolverFailureLeavesPlaceholders() {
	mockResolver := resolvermock.NewMockService(s.ctrl)
	mockResolver.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailablef("catalog down")).
		Times(3)

	out, err := s.newImporter(mockResolver, s.creatures).Import(s.ctx, &importer.ImportInput{
		Payload:    []byte(ashDrake),
		AutoAssign: true,
	})
	s.Require().NoError(err)
	s.Empty(out.AutoAssigned)
	s.Len(out.Creature.Unresolved, 3)
}

func (s *ImporterTestSuite) TestStorageFailureFailsImport() {
	mockCreatures := creaturemock.NewMockRepository(s.ctrl)
	mockCreatures.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, errors.Internal("redis unavailable"))

	_, err := s.newImporter(s.resolver, mockCreatures).Import(s.ctx, &importer.ImportInput{Payload: []byte(ashDrake)})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *ImporterTestSuite) TestReimportKeepsPlaceholderIDsForOpenSession() {
	first := `{"formatTag":"EDITOR_V2","editor":"SPLITTERMOND_CREATURE_EDITOR","name":"Ash Drake",
		"masteries":[{"name":"Iron Grip","skill":"melee","level":3},{"name":"Whirlwind","skill":"melee","level":3}]}`
	reworked := `{"formatTag":"EDITOR_V2","editor":"SPLITTERMOND_CREATURE_EDITOR","name":"Ash Drake",
		"masteries":[{"name":"Tough","level":2},{"name":"Iron Grip","skill":"melee","level":3},
			{"name":"Whirlwind","skill":"melee","level":3}]}`

	imported, err := s.importer.Import(s.ctx, &importer.ImportInput{Payload: []byte(first), StartSession: true})
	s.Require().NoError(err)
	s.Require().NotNil(imported.Session)
	sessionID := imported.Session.ID

	presented, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)
	s.Require().Equal("Iron Grip", presented.Presentation.Item.Name)
	presentedID := presented.Presentation.Item.ID

	again, err := s.importer.Import(s.ctx, &importer.ImportInput{
		Payload:            []byte(reworked),
		ExistingCreatureID: imported.Creature.ID,
		StartSession:       true,
	})
	s.Require().NoError(err)
	s.Nil(again.Session, "the open session is kept")

	ids := make(map[string]string)
	for _, ref := range again.Creature.Unresolved {
		ids[ref.Name] = ref.ID
	}
	s.Equal(presentedID, ids["Iron Grip"])
	s.Equal(imported.Creature.Unresolved[1].ID, ids["Whirlwind"])
	s.Len(ids, 3)
	s.NotContains([]string{presentedID, ids["Whirlwind"]}, ids["Tough"])

	_, err = s.workflow.Decide(s.ctx, &workflow.DecideInput{
		SessionID: sessionID,
		ItemID:    presentedID,
		Decision:  workflow.DecisionAssign,
		EntryID:   "masteries:iron-grip",
	})
	s.Require().NoError(err)

	stored, err := s.creatures.Get(s.ctx, creature.GetInput{ID: imported.Creature.ID})
	s.Require().NoError(err)
	s.Equal([]string{"masteries:iron-grip"}, abilityIDs(stored.Creature.Abilities))
	s.Equal([]string{"Tough", "Whirlwind"}, unresolvedNames(stored.Creature))
}

func (s *ImporterTestSuite) TestReimportNumbersNewPlaceholdersAfterExisting() {
	imported, err := s.importer.Import(s.ctx, &importer.ImportInput{Payload: []byte(ashDrake)})
	s.Require().NoError(err)
	s.Equal(3, imported.Creature.RefSeq)

	payload := `{"formatTag":"EDITOR_V2","editor":"SPLITTERMOND_CREATURE_EDITOR","name":"Ash Drake",
		"masteries":[{"name":"Tough","level":2}]}`
	out, err := s.importer.Import(s.ctx, &importer.ImportInput{
		Payload:            []byte(payload),
		ExistingCreatureID: imported.Creature.ID,
	})
	s.Require().NoError(err)
	s.Require().Len(out.Creature.Unresolved, 1)
	s.Equal("mastery-4", out.Creature.Unresolved[0].ID)
	s.Equal(4, out.Creature.RefSeq)
}
