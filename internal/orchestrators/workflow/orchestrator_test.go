package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/index"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/resolver"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/workflow"
	"github.com/KirkDiggler/creature-import/internal/pkg/clock"
	"github.com/KirkDiggler/creature-import/internal/pkg/idgen"
	"github.com/KirkDiggler/creature-import/internal/repositories/creature"
	resolutionsession "github.com/KirkDiggler/creature-import/internal/repositories/resolution_session"
	"github.com/KirkDiggler/creature-import/internal/testutils"
)

const testCreatureID = "creature_1"

type WorkflowTestSuite struct {
	suite.Suite
	ctx       context.Context
	creatures creature.Repository
	sessions  resolutionsession.Repository
	workflow  workflow.Service
	events    []string
	cleanup   func()
}

func TestWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}

func (s *WorkflowTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.events = nil

	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	clk := clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	var err error
	s.creatures, err = creature.NewRedis(&creature.RedisConfig{Client: client, Clock: clk})
	s.Require().NoError(err)
	s.sessions, err = resolutionsession.NewRedisRepository(&resolutionsession.Config{Client: client, Clock: clk})
	s.Require().NoError(err)

	source := catalog.NewMemorySource()
	s.Require().NoError(source.Upsert(s.ctx, catalog.Partition{ID: "masteries"}, []entities.ReferenceLibraryEntry{
		libraryEntry("iron-grip", "Iron Grip", entities.AbilityKindMastery, "melee", 2),
		libraryEntry("iron-grip-mastery", "Iron Grip Mastery", entities.AbilityKindMastery, "melee", 2),
		libraryEntry("whirlwind-strike", "Whirlwind Strike", entities.AbilityKindMastery, "melee", 3),
		libraryEntry("tough", "Tough", entities.AbilityKindMastery, "", 1),
	}))
	s.Require().NoError(source.Upsert(s.ctx, catalog.Partition{ID: "spells"}, []entities.ReferenceLibraryEntry{
		libraryEntry("fireball", "Fireball", entities.AbilityKindSpell, "firemagic", 3),
		libraryEntry("ember", "Ember", entities.AbilityKindSpell, "firemagic", 0),
	}))

	mapping, err := config.DefaultMapping()
	s.Require().NoError(err)

	idx, err := index.New(&index.Config{Source: source, Mapping: mapping})
	s.Require().NoError(err)
	res, err := resolver.NewOrchestrator(&resolver.Config{Index: idx, Mapping: mapping})
	s.Require().NoError(err)

	bus := events.NewBus()
	for _, eventType := range []string{
		workflow.EventPresented, workflow.EventAssigned, workflow.EventSkipped,
		workflow.EventRemoved, workflow.EventCompleted, workflow.EventAborted,
	} {
		bus.SubscribeFunc(eventType, 0, func(_ context.Context, e events.Event) error {
			s.events = append(s.events, e.Type())
			return nil
		})
	}

	s.workflow, err = workflow.NewOrchestrator(&workflow.Config{
		Resolver:    res,
		Catalog:     idx,
		Creatures:   s.creatures,
		Sessions:    s.sessions,
		EventBus:    bus,
		IDGenerator: idgen.NewSequential("session"),
		Mapping:     mapping,
		SessionTTL:  time.Hour,
	})
	s.Require().NoError(err)
}

func (s *WorkflowTestSuite) TearDownTest() {
	s.cleanup()
}

func libraryEntry(id, name string, kind entities.AbilityKind, skill entities.SkillKey, level int) entities.ReferenceLibraryEntry {
	return entities.ReferenceLibraryEntry{IndexEntry: entities.IndexEntry{
		ID: id, Name: name, Kind: kind, Skill: skill, Level: level,
	}}
}

// seedCreature stores a creature with placeholders A, B, C and D
func (s *WorkflowTestSuite) seedCreature(refs ...entities.UnresolvedAbilityRef) {
	if len(refs) == 0 {
		refs = []entities.UnresolvedAbilityRef{
			{ID: "mastery-1", Name: "Iron Grip", Kind: entities.AbilityKindMastery, SkillHint: "melee", LevelCeiling: 3},
			{ID: "mastery-2", Name: "Whirlwind", Kind: entities.AbilityKindMastery, SkillHint: "melee", LevelCeiling: 3},
			{ID: "spell-3", Name: "Fireball", Kind: entities.AbilityKindSpell, LevelCeiling: 5},
			{ID: "mastery-4", Name: "Tough", Kind: entities.AbilityKindMastery, SkillHint: entities.SkillNone, LevelCeiling: 4},
		}
	}
	rec := entities.NewCreatureRecord("Felsenwolf", entities.FormatEditorV1)
	rec.ID = testCreatureID
	rec.Unresolved = refs
	_, err := s.creatures.Create(s.ctx, creature.CreateInput{Creature: rec})
	s.Require().NoError(err)
}

func (s *WorkflowTestSuite) start() string {
	out, err := s.workflow.Start(s.ctx, &workflow.StartInput{CreatureID: testCreatureID})
	s.Require().NoError(err)
	return out.Session.ID
}

func (s *WorkflowTestSuite) loadCreature() *entities.CreatureRecord {
	got, err := s.creatures.Get(s.ctx, creature.GetInput{ID: testCreatureID})
	s.Require().NoError(err)
	return got.Creature
}

func refIDs(items []entities.SessionItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.RefID
	}
	return out
}

func (s *WorkflowTestSuite) TestNewOrchestratorValidatesConfig() {
	_, err := workflow.NewOrchestrator(&workflow.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *WorkflowTestSuite) TestStartQueuesOpenPlaceholders() {
	s.seedCreature(
		entities.UnresolvedAbilityRef{ID: "mastery-1", Name: "Iron Grip", Kind: entities.AbilityKindMastery},
		entities.UnresolvedAbilityRef{ID: "mastery-2", Name: "Tough", Kind: entities.AbilityKindMastery, Tagged: true},
	)

	out, err := s.workflow.Start(s.ctx, &workflow.StartInput{CreatureID: testCreatureID})
	s.Require().NoError(err)
	s.Equal("session_1", out.Session.ID)
	s.Equal(entities.SessionStateIdle, out.Session.State)
	s.Equal([]string{"mastery-1"}, out.Session.Queue)

	_, err = s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: out.Session.ID})
	s.Require().NoError(err)
	done, err := s.workflow.Decide(s.ctx, &workflow.DecideInput{SessionID: out.Session.ID, Decision: workflow.DecisionSkip})
	s.Require().NoError(err)
	s.Equal(entities.SessionStateCompleted, done.Session.State)

	again, err := s.workflow.Start(s.ctx, &workflow.StartInput{CreatureID: testCreatureID, IncludeTagged: true})
	s.Require().NoError(err)
	s.Equal([]string{"mastery-1", "mastery-2"}, again.Session.Queue)
}

func (s *WorkflowTestSuite) TestStartRejectsSecondOpenSession() {
	s.seedCreature()
	sessionID := s.start()

	_, err := s.workflow.Start(s.ctx, &workflow.StartInput{CreatureID: testCreatureID})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))

	_, err = s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)
	_, err = s.workflow.Decide(s.ctx, &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionAbort})
	s.Require().NoError(err)

	out, err := s.workflow.Start(s.ctx, &workflow.StartInput{CreatureID: testCreatureID, IncludeTagged: true})
	s.Require().NoError(err)
	s.Len(out.Session.Queue, 4)
}

// replacePlaceholder gives an existing placeholder ID to a different ability
func (s *WorkflowTestSuite) replacePlaceholder(id, name string) {
	rec := s.loadCreature()
	ref, ok := rec.FindUnresolved(id)
	s.Require().True(ok)
	ref.Name = name
	_, err := s.creatures.Update(s.ctx, creature.UpdateInput{Creature: rec})
	s.Require().NoError(err)
}

func (s *WorkflowTestSuite) TestAssignToReplacedPlaceholderIsRemoved() {
	s.seedCreature()
	sessionID := s.start()

	first, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)
	s.Require().Equal("Iron Grip", first.Presentation.Item.Name)

	s.replacePlaceholder("mastery-1", "Tough")

	next, err := s.workflow.Decide(s.ctx, &workflow.DecideInput{
		SessionID: sessionID,
		ItemID:    "mastery-1",
		Decision:  workflow.DecisionAssign,
		EntryID:   "masteries:iron-grip",
	})
	s.Require().NoError(err)
	s.Require().NotNil(next.Presentation)
	s.Equal("mastery-2", next.Presentation.Item.ID)

	rec := s.loadCreature()
	s.Empty(rec.Abilities)
	ref, ok := rec.FindUnresolved("mastery-1")
	s.Require().True(ok)
	s.Equal("Tough", ref.Name)
	s.False(ref.Tagged)

	report, err := s.workflow.Report(s.ctx, &workflow.ReportInput{SessionID: sessionID})
	s.Require().NoError(err)
	s.Equal([]string{"mastery-1"}, refIDs(report.Report.Removed))
	s.Empty(report.Report.Assigned)
	s.Contains(s.events, workflow.EventRemoved)
}

func (s *WorkflowTestSuite) TestSkipAndAbortLeaveReplacedPlaceholderAlone() {
	s.seedCreature()
	sessionID := s.start()

	_, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)
	s.replacePlaceholder("mastery-1", "Tough")

	_, err = s.workflow.Decide(s.ctx, &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionSkip})
	s.Require().NoError(err)
	ref, ok := s.loadCreature().FindUnresolved("mastery-1")
	s.Require().True(ok)
	s.False(ref.Tagged)

	s.replacePlaceholder("mastery-2", "Quick Draw")

	aborted, err := s.workflow.Decide(s.ctx, &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionAbort})
	s.Require().NoError(err)
	s.Equal([]string{"mastery-1", "mastery-2"}, refIDs(aborted.Report.Removed))
	s.Equal([]string{"spell-3", "mastery-4"}, refIDs(aborted.Report.Discarded))

	ref, ok = s.loadCreature().FindUnresolved("mastery-2")
	s.Require().True(ok)
	s.False(ref.Tagged)
}

func (s *WorkflowTestSuite) TestStartWithNothingQueuedCompletes() {
	s.seedCreature(entities.UnresolvedAbilityRef{ID: "mastery-1", Name: "Tough", Kind: entities.AbilityKindMastery, Tagged: true})

	out, err := s.workflow.Start(s.ctx, &workflow.StartInput{CreatureID: testCreatureID})
	s.Require().NoError(err)
	s.Equal(entities.SessionStateCompleted, out.Session.State)
	s.Equal([]string{workflow.EventCompleted}, s.events)

	next, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: out.Session.ID})
	s.Require().NoError(err)
	s.Nil(next.Presentation)
}

func (s *WorkflowTestSuite) TestStartUnknownCreature() {
	_, err := s.workflow.Start(s.ctx, &workflow.StartInput{CreatureID: "missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))

	_, err = s.workflow.Start(s.ctx, &workflow.StartInput{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *WorkflowTestSuite) TestAssignSkipAbort() {
	s.seedCreature()
	sessionID := s.start()

	first, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)
	s.Require().NotNil(first.Presentation)
	s.Equal("mastery-1", first.Presentation.Item.ID)
	s.Equal(resolver.OutcomeAmbiguous, first.Presentation.Outcome)
	s.Require().NotNil(first.Presentation.Suggested)
	s.Equal("iron-grip", first.Presentation.Suggested.ID)
	s.Equal(3, first.Presentation.Remaining)
	s.Equal(entities.SessionStatePresenting, first.Session.State)

	second, err := s.workflow.Decide(s.ctx, &workflow.DecideInput{
		SessionID: sessionID,
		ItemID:    "mastery-1",
		Decision:  workflow.DecisionAssign,
		EntryID:   "masteries:iron-grip",
	})
	s.Require().NoError(err)
	s.Require().NotNil(second.Presentation)
	s.Nil(second.Report)
	s.Equal("mastery-2", second.Presentation.Item.ID)
	s.Equal(resolver.OutcomeAutoMatched, second.Presentation.Outcome)
	s.Equal("whirlwind-strike", second.Presentation.Suggested.ID)

	third, err := s.workflow.Decide(s.ctx, &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionSkip})
	s.Require().NoError(err)
	s.Require().NotNil(third.Presentation)
	s.Equal("spell-3", third.Presentation.Item.ID)
	s.Equal(entities.SkillKey("firemagic"), third.Presentation.SuggestedSkill)
	s.Equal("magic", third.Presentation.Filter.Group)

	aborted, err := s.workflow.Decide(s.ctx, &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionAbort})
	s.Require().NoError(err)
	s.Nil(aborted.Presentation)
	s.Equal(entities.SessionStateAborted, aborted.Session.State)

	report := aborted.Report
	s.Require().NotNil(report)
	s.True(report.Partial)
	s.Equal([]string{"mastery-1"}, refIDs(report.Assigned))
	s.Equal("masteries:iron-grip", report.Assigned[0].EntryID)
	s.Equal([]string{"mastery-2"}, refIDs(report.Skipped))
	s.Equal([]string{"spell-3", "mastery-4"}, refIDs(report.Discarded))
	s.Empty(report.Removed)
	s.Zero(report.Remaining)

	rec := s.loadCreature()
	s.Require().Len(rec.Abilities, 1)
	s.Equal("Iron Grip", rec.Abilities[0].Entry.Name)
	s.Equal(entities.SkillKey("melee"), rec.Abilities[0].Skill)
	s.Equal("Iron Grip", rec.Abilities[0].SourceName)
	s.Require().Len(rec.Unresolved, 3)
	for _, ref := range rec.Unresolved {
		s.True(ref.Tagged, ref.ID)
	}

	s.Equal([]string{
		workflow.EventPresented, workflow.EventAssigned,
		workflow.EventPresented, workflow.EventSkipped,
		workflow.EventPresented, workflow.EventAborted,
	}, s.events)

	_, err = s.workflow.Decide(s.ctx, &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionAbort})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))

	_, err = s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *WorkflowTestSuite) TestCompletesAfterLastDecision() {
	s.seedCreature(entities.UnresolvedAbilityRef{
		ID: "mastery-1", Name: "Whirlwind", Kind: entities.AbilityKindMastery, SkillHint: "melee", LevelCeiling: 3,
	})
	sessionID := s.start()

	first, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)

	done, err := s.workflow.Decide(s.ctx, &workflow.DecideInput{
		SessionID: sessionID,
		Decision:  workflow.DecisionAssign,
		EntryID:   first.Presentation.Suggested.UniqueID(),
	})
	s.Require().NoError(err)
	s.Nil(done.Presentation)
	s.Require().NotNil(done.Report)
	s.Equal(entities.SessionStateCompleted, done.Report.State)
	s.False(done.Report.Partial)
	s.Equal([]string{"mastery-1"}, refIDs(done.Report.Assigned))

	s.Empty(s.loadCreature().Unresolved)
	s.Equal(workflow.EventCompleted, s.events[len(s.events)-1])
}

func (s *WorkflowTestSuite) TestRemovedPlaceholderIsSkippedWithoutPresenting() {
	s.seedCreature()
	sessionID := s.start()

	_, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)

	rec := s.loadCreature()
	s.Require().True(rec.RemoveUnresolved("mastery-2"))
	_, err = s.creatures.Update(s.ctx, creature.UpdateInput{Creature: rec})
	s.Require().NoError(err)

	next, err := s.workflow.Decide(s.ctx, &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionSkip})
	s.Require().NoError(err)
	s.Require().NotNil(next.Presentation)
	s.Equal("spell-3", next.Presentation.Item.ID)

	report, err := s.workflow.Report(s.ctx, &workflow.ReportInput{SessionID: sessionID})
	s.Require().NoError(err)
	s.Equal([]string{"mastery-2"}, refIDs(report.Report.Removed))
	s.Equal([]string{"mastery-1"}, refIDs(report.Report.Skipped))
	s.Equal(2, report.Report.Remaining)
	s.Contains(s.events, workflow.EventRemoved)
}

func (s *WorkflowTestSuite) TestPresentNextIsIdempotentWhilePresenting() {
	s.seedCreature()
	sessionID := s.start()

	first, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)
	again, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)

	s.Equal(first.Presentation.Item.ID, again.Presentation.Item.ID)
	s.Equal(first.Presentation.Remaining, again.Presentation.Remaining)
	s.Equal([]string{workflow.EventPresented}, s.events)
}

func (s *WorkflowTestSuite) TestRequery() {
	s.seedCreature()
	sessionID := s.start()

	_, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)

	s.Run("other skill", func() {
		out, err := s.workflow.Requery(s.ctx, &workflow.RequeryInput{SessionID: sessionID, Skill: "blades"})
		s.Require().NoError(err)
		s.Equal(entities.SkillKey("blades"), out.Presentation.Filter.Skill)
		s.Equal("fighting", out.Presentation.Filter.Group)
		s.Equal(resolver.OutcomeNoMatch, out.Presentation.Outcome)
		s.Empty(out.Presentation.Browse)
	})

	s.Run("group clears the skill", func() {
		out, err := s.workflow.Requery(s.ctx, &workflow.RequeryInput{SessionID: sessionID, Group: "fighting"})
		s.Require().NoError(err)
		s.Empty(out.Presentation.Filter.Skill)
		s.Equal("fighting", out.Presentation.Filter.Group)
		s.Equal(resolver.OutcomeAmbiguous, out.Presentation.Outcome)
		s.NotEmpty(out.Presentation.Browse)
	})

	s.Run("ceiling", func() {
		ceiling := 1
		out, err := s.workflow.Requery(s.ctx, &workflow.RequeryInput{SessionID: sessionID, Skill: "melee", LevelCeiling: &ceiling})
		s.Require().NoError(err)
		s.Equal(1, out.Presentation.Filter.LevelCeiling)
		s.Empty(out.Presentation.Candidates)
	})

	s.Run("general group", func() {
		noCeiling := -1
		out, err := s.workflow.Requery(s.ctx, &workflow.RequeryInput{SessionID: sessionID, Group: config.GroupNone, LevelCeiling: &noCeiling})
		s.Require().NoError(err)
		s.Equal(entities.SkillNone, out.Presentation.Filter.Skill)
		s.Equal(index.NoCeiling, out.Presentation.Filter.LevelCeiling)
		s.Require().Len(out.Presentation.Browse, 1)
		s.Equal("tough", out.Presentation.Browse[0].Entry.ID)
	})

	s.Run("invalid filters", func() {
		_, err := s.workflow.Requery(s.ctx, &workflow.RequeryInput{SessionID: sessionID, Skill: "cooking"})
		s.True(errors.IsInvalidArgument(err))

		_, err = s.workflow.Requery(s.ctx, &workflow.RequeryInput{SessionID: sessionID, Group: "cooking"})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("filter survives a resume", func() {
		out, err := s.workflow.Resume(s.ctx, &workflow.ResumeInput{SessionID: sessionID})
		s.Require().NoError(err)
		s.Require().NotNil(out.Presentation)
		s.Equal("mastery-1", out.Presentation.Item.ID)
		s.Equal(entities.SkillNone, out.Presentation.Filter.Skill)
	})
}

func (s *WorkflowTestSuite) TestRequeryRequiresPresenting() {
	s.seedCreature()
	sessionID := s.start()

	_, err := s.workflow.Requery(s.ctx, &workflow.RequeryInput{SessionID: sessionID, Skill: "melee"})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *WorkflowTestSuite) TestDecideValidation() {
	s.seedCreature()
	sessionID := s.start()

	_, err := s.workflow.Decide(s.ctx, &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionSkip})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err), "nothing presented yet")

	_, err = s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)

	testCases := []struct {
		name  string
		input *workflow.DecideInput
		check func(error) bool
	}{
		{
			name:  "unknown decision",
			input: &workflow.DecideInput{SessionID: sessionID, Decision: "later"},
			check: errors.IsInvalidArgument,
		},
		{
			name:  "assign without entry",
			input: &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionAssign},
			check: errors.IsInvalidArgument,
		},
		{
			name:  "stale item",
			input: &workflow.DecideInput{SessionID: sessionID, ItemID: "mastery-2", Decision: workflow.DecisionSkip},
			check: errors.IsFailedPrecondition,
		},
		{
			name:  "wrong kind",
			input: &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionAssign, EntryID: "spells:fireball"},
			check: errors.IsInvalidArgument,
		},
		{
			name:  "unknown entry",
			input: &workflow.DecideInput{SessionID: sessionID, Decision: workflow.DecisionAssign, EntryID: "masteries:nope"},
			check: errors.IsNotFound,
		},
		{
			name:  "unknown session",
			input: &workflow.DecideInput{SessionID: "missing", Decision: workflow.DecisionSkip},
			check: errors.IsNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.workflow.Decide(s.ctx, tc.input)
			s.Require().Error(err)
			s.True(tc.check(err), err.Error())
		})
	}

	report, err := s.workflow.Report(s.ctx, &workflow.ReportInput{SessionID: sessionID})
	s.Require().NoError(err)
	s.Empty(report.Report.Assigned)
	s.Equal(4, report.Report.Remaining)
}

func (s *WorkflowTestSuite) TestAssignWithSkillOverride() {
	s.seedCreature(entities.UnresolvedAbilityRef{
		ID: "spell-1", Name: "Fireball", Kind: entities.AbilityKindSpell, LevelCeiling: 5,
	})
	sessionID := s.start()

	_, err := s.workflow.PresentNext(s.ctx, &workflow.PresentNextInput{SessionID: sessionID})
	s.Require().NoError(err)

	_, err = s.workflow.Decide(s.ctx, &workflow.DecideInput{
		SessionID: sessionID,
		Decision:  workflow.DecisionAssign,
		EntryID:   "spells:fireball",
		Skill:     "combatmagic",
	})
	s.Require().NoError(err)

	rec := s.loadCreature()
	s.Require().Len(rec.Abilities, 1)
	s.Equal(entities.SkillKey("combatmagic"), rec.Abilities[0].Skill)
}
