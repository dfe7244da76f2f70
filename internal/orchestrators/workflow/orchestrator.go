// Package workflow walks the unresolved abilities of an imported creature
// one at a time. A session moves from idle to presenting an item, back to
// idle after each assign or skip decision, and ends completed once the
// queue is empty or aborted on request. The presentation layer only drives
// it through PresentNext, Requery and Decide.
package workflow

//go:generate mockgen -destination=mock/mock_service.go -package=workflowmock github.com/KirkDiggler/creature-import/internal/orchestrators/workflow Service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/index"
	"github.com/KirkDiggler/creature-import/internal/matching"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/resolver"
	"github.com/KirkDiggler/creature-import/internal/pkg/idgen"
	"github.com/KirkDiggler/creature-import/internal/repositories/creature"
	resolutionsession "github.com/KirkDiggler/creature-import/internal/repositories/resolution_session"
)

// Service drives resolution sessions
type Service interface {
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)
	Resume(ctx context.Context, input *ResumeInput) (*ResumeOutput, error)
	PresentNext(ctx context.Context, input *PresentNextInput) (*PresentNextOutput, error)
	Requery(ctx context.Context, input *RequeryInput) (*RequeryOutput, error)
	Decide(ctx context.Context, input *DecideInput) (*DecideOutput, error)
	Report(ctx context.Context, input *ReportInput) (*ReportOutput, error)
}

// Catalog is the part of the index used for browse lists and assignment
type Catalog interface {
	Browse(ctx context.Context, input index.BrowseInput) ([]index.BrowseItem, error)
	Fetch(ctx context.Context, uniqueID string) (*entities.ReferenceLibraryEntry, error)
}

// Config holds the dependencies for the workflow
type Config struct {
	Resolver    resolver.Service
	Catalog     Catalog
	Creatures   creature.Repository
	Sessions    resolutionsession.Repository
	EventBus    events.EventBus
	IDGenerator idgen.Generator
	Mapping     *config.Mapping
	// SessionTTL is how long an untouched session survives
	SessionTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Creatures == nil {
		vb.RequiredField("Creatures")
	}
	if c.Sessions == nil {
		vb.RequiredField("Sessions")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Mapping == nil {
		vb.RequiredField("Mapping")
	}
	if c.SessionTTL < 0 {
		vb.Field("SessionTTL", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	resolver  resolver.Service
	catalog   Catalog
	creatures creature.Repository
	sessions  resolutionsession.Repository
	bus       events.EventBus
	idGen     idgen.Generator
	mapping   *config.Mapping
	ttl       time.Duration

	// mu serializes transitions so only one item is ever in flight
	mu sync.Mutex
}

// NewOrchestrator creates a workflow with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		resolver:  cfg.Resolver,
		catalog:   cfg.Catalog,
		creatures: cfg.Creatures,
		sessions:  cfg.Sessions,
		bus:       cfg.EventBus,
		idGen:     cfg.IDGenerator,
		mapping:   cfg.Mapping,
		ttl:       cfg.SessionTTL,
	}, nil
}

// Start queues the creature's open placeholders in record order. It fails
// with FailedPrecondition while another session for the creature is open.
func (o *orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil || input.CreatureID == "" {
		return nil, errors.InvalidArgument("creature ID is required")
	}

	got, err := o.creatures.Get(ctx, creature.GetInput{ID: input.CreatureID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load creature %s", input.CreatureID)
	}

	queue := make([]string, 0, len(got.Creature.Unresolved))
	for _, ref := range got.Creature.Unresolved {
		if ref.Tagged && !input.IncludeTagged {
			continue
		}
		queue = append(queue, ref.ID)
	}

	session := &entities.ResolutionSession{
		ID:         o.idGen.Generate(),
		CreatureID: input.CreatureID,
		State:      entities.SessionStateIdle,
		Queue:      queue,
	}
	if len(queue) == 0 {
		session.State = entities.SessionStateCompleted
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = o.ttl
	}

	created, err := o.sessions.Create(ctx, resolutionsession.CreateInput{Session: session, TTL: ttl})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create resolution session")
	}

	slog.InfoContext(ctx, "resolution session started",
		"session_id", created.Session.ID,
		"creature_id", input.CreatureID,
		"queued", len(queue))

	if created.Session.State == entities.SessionStateCompleted {
		o.publish(ctx, EventCompleted, created.Session, nil)
	}

	return &StartOutput{Session: created.Session}, nil
}

// Resume reloads a session and recomputes the presented item, if any
func (o *orchestrator) Resume(ctx context.Context, input *ResumeInput) (*ResumeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	out := &ResumeOutput{Session: session, Report: buildReport(session)}
	if session.State == entities.SessionStatePresenting {
		out.Presentation, err = o.present(ctx, session)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// PresentNext presents the next queued item. While an item is already
// presented it is returned again.
func (o *orchestrator) PresentNext(ctx context.Context, input *PresentNextInput) (*PresentNextOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	switch session.State {
	case entities.SessionStatePresenting:
		p, err := o.present(ctx, session)
		if err != nil {
			return nil, err
		}
		return &PresentNextOutput{Session: session, Presentation: p}, nil
	case entities.SessionStateCompleted:
		return &PresentNextOutput{Session: session}, nil
	case entities.SessionStateAborted:
		return nil, errors.FailedPreconditionf("session %s was aborted", session.ID)
	}

	p, session, err := o.advance(ctx, session)
	if err != nil {
		return nil, err
	}
	return &PresentNextOutput{Session: session, Presentation: p}, nil
}

// Requery changes the skill, group or ceiling the presented item is
// searched with
func (o *orchestrator) Requery(ctx context.Context, input *RequeryInput) (*RequeryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session.State != entities.SessionStatePresenting {
		return nil, errors.FailedPreconditionf("session %s is not presenting an item", session.ID)
	}

	filter := *session.Filter
	switch {
	case input.Skill != "":
		if input.Skill != entities.SkillNone && !input.Skill.Valid() {
			return nil, errors.InvalidArgumentf("unknown skill %s", input.Skill)
		}
		filter.Skill = input.Skill
		filter.Group = o.mapping.Group(input.Skill)
	case input.Group != "":
		if !o.knownGroup(input.Group) {
			return nil, errors.InvalidArgumentf("unknown skill group %s", input.Group)
		}
		filter.Group = input.Group
		filter.Skill = ""
		if input.Group == config.GroupNone {
			filter.Skill = entities.SkillNone
		}
	}
	if input.LevelCeiling != nil {
		filter.LevelCeiling = *input.LevelCeiling
		if filter.LevelCeiling < 0 {
			filter.LevelCeiling = index.NoCeiling
		}
	}
	session.Filter = &filter

	updated, err := o.sessions.Update(ctx, resolutionsession.UpdateInput{Session: session})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save session")
	}

	p, err := o.present(ctx, updated.Session)
	if err != nil {
		return nil, err
	}
	return &RequeryOutput{Session: updated.Session, Presentation: p}, nil
}

// Decide applies the operator's decision to the presented item and
// presents the next one
func (o *orchestrator) Decide(ctx context.Context, input *DecideInput) (*DecideOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	switch input.Decision {
	case DecisionAssign:
		if input.EntryID == "" {
			return nil, errors.InvalidArgument("entry ID is required to assign")
		}
	case DecisionSkip, DecisionAbort:
	default:
		return nil, errors.InvalidArgumentf("unknown decision %q", input.Decision)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session.State != entities.SessionStatePresenting || session.Current == nil {
		return nil, errors.FailedPreconditionf("session %s is %s, no item to decide", session.ID, session.State)
	}
	if input.ItemID != "" && input.ItemID != session.Current.ID {
		return nil, errors.FailedPreconditionf("item %s is not the presented item", input.ItemID)
	}

	got, err := o.creatures.Get(ctx, creature.GetInput{ID: session.CreatureID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load creature %s", session.CreatureID)
	}
	rec := got.Creature
	ref := *session.Current

	if input.Decision == DecisionAbort {
		return o.abort(ctx, session, rec)
	}

	var item entities.SessionItem
	switch input.Decision {
	case DecisionAssign:
		item, err = o.assign(ctx, session, rec, ref, input)
	case DecisionSkip:
		item = o.skip(ctx, session, rec, ref)
	}
	if err != nil {
		return nil, err
	}

	if item.Outcome != entities.ItemOutcomeRemoved {
		if _, err := o.creatures.Update(ctx, creature.UpdateInput{Creature: rec}); err != nil {
			return nil, errors.Wrapf(err, "failed to save creature %s", rec.ID)
		}
	}

	session.Log = append(session.Log, item)
	session.Current = nil
	session.Filter = nil
	session.State = entities.SessionStateIdle
	o.publish(ctx, eventFor(item.Outcome), session, &ref)

	p, session, err := o.advance(ctx, session)
	if err != nil {
		return nil, err
	}

	out := &DecideOutput{Session: session, Presentation: p}
	if session.State.Terminal() {
		out.Report = buildReport(session)
	}
	return out, nil
}

// Report summarizes a session in any state
func (o *orchestrator) Report(ctx context.Context, input *ReportInput) (*ReportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	session, err := o.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	return &ReportOutput{Report: buildReport(session)}, nil
}

// advance pops queued items until one is still open on the creature and
// presents it, or completes the session when the queue runs out
func (o *orchestrator) advance(ctx context.Context, session *entities.ResolutionSession) (*Presentation, *entities.ResolutionSession, error) {
	got, err := o.creatures.Get(ctx, creature.GetInput{ID: session.CreatureID})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load creature %s", session.CreatureID)
	}

	for len(session.Queue) > 0 {
		id := session.Queue[0]
		session.Queue = session.Queue[1:]

		ref, ok := got.Creature.FindUnresolved(id)
		if !ok {
			slog.InfoContext(ctx, "placeholder removed before it was presented",
				"session_id", session.ID,
				"ref_id", id)
			session.Log = append(session.Log, entities.SessionItem{RefID: id, Outcome: entities.ItemOutcomeRemoved})
			o.publish(ctx, EventRemoved, session, &entities.UnresolvedAbilityRef{ID: id})
			continue
		}

		current := *ref
		session.Current = &current
		session.Filter = o.defaultFilter(current)
		session.State = entities.SessionStatePresenting

		updated, err := o.sessions.Update(ctx, resolutionsession.UpdateInput{Session: session})
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to save session")
		}

		p, err := o.present(ctx, updated.Session)
		if err != nil {
			return nil, nil, err
		}
		o.publish(ctx, EventPresented, updated.Session, &current)
		return p, updated.Session, nil
	}

	session.Current = nil
	session.Filter = nil
	session.State = entities.SessionStateCompleted

	updated, err := o.sessions.Update(ctx, resolutionsession.UpdateInput{Session: session})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to save session")
	}

	slog.InfoContext(ctx, "resolution session completed",
		"session_id", session.ID,
		"assigned", session.Count(entities.ItemOutcomeAssigned),
		"skipped", session.Count(entities.ItemOutcomeSkipped))
	o.publish(ctx, EventCompleted, updated.Session, nil)

	return nil, updated.Session, nil
}

// present resolves the current item under the session's filter
func (o *orchestrator) present(ctx context.Context, session *entities.ResolutionSession) (*Presentation, error) {
	ref := *session.Current
	filter := *session.Filter

	resolved, err := o.resolver.Resolve(ctx, &resolver.ResolveInput{
		Name:         ref.Name,
		Kind:         ref.Kind,
		SkillHint:    filter.Skill,
		LevelCeiling: filter.LevelCeiling,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %q", ref.Name)
	}

	p := &Presentation{
		Item:       ref,
		Filter:     filter,
		Outcome:    resolved.Outcome,
		Candidates: resolved.Candidates,
		Remaining:  len(session.Queue),
	}
	if top, ok := resolved.Top(); ok {
		p.Suggested = top
		p.SuggestedSkill = top.Skill
	}
	if filter.Skill != "" && filter.Skill != entities.SkillNone {
		p.SuggestedSkill = filter.Skill
	}

	if ref.Kind == entities.AbilityKindSpell && (filter.Skill == "" || filter.Skill == entities.SkillNone) {
		guess, err := o.resolver.BestGuess(ctx, &resolver.BestGuessInput{
			Name:         ref.Name,
			Kind:         ref.Kind,
			LevelCeiling: filter.LevelCeiling,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to guess a skill for %q", ref.Name)
		}
		if guess.Found {
			p.SuggestedSkill = guess.Skill
			if p.Suggested == nil {
				entry := guess.Entry
				p.Suggested = &entry
			}
		}
	}

	browse := index.BrowseInput{Kind: ref.Kind, Group: filter.Group, LevelCeiling: filter.LevelCeiling}
	if filter.Skill != entities.SkillNone {
		browse.Skill = filter.Skill
	}
	p.Browse, err = o.catalog.Browse(ctx, browse)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list browse entries")
	}

	return p, nil
}

func (o *orchestrator) assign(ctx context.Context, session *entities.ResolutionSession, rec *entities.CreatureRecord, ref entities.UnresolvedAbilityRef, input *DecideInput) (entities.SessionItem, error) {
	entry, err := o.catalog.Fetch(ctx, input.EntryID)
	if err != nil {
		return entities.SessionItem{}, errors.Wrapf(err, "failed to load entry %s", input.EntryID)
	}
	if entry.Kind != ref.Kind {
		return entities.SessionItem{}, errors.InvalidArgumentf("entry %s is a %s, not a %s", input.EntryID, entry.Kind, ref.Kind)
	}

	skill := input.Skill
	if skill == "" {
		skill = session.Filter.Skill
	}
	if skill == "" {
		skill = ref.SkillHint
	}

	item := entities.SessionItem{RefID: ref.ID, Name: ref.Name, Kind: ref.Kind, EntryID: entry.UniqueID()}
	if !stillPresented(ctx, session, rec, ref) || !rec.ResolvePlaceholder(ref.ID, entities.NewResolvedAbility(*entry, ref.Name, skill)) {
		item.Outcome = entities.ItemOutcomeRemoved
		return item, nil
	}
	item.Outcome = entities.ItemOutcomeAssigned

	slog.DebugContext(ctx, "assigned ability",
		"session_id", session.ID,
		"ref_id", ref.ID,
		"entry", item.EntryID)
	return item, nil
}

func (o *orchestrator) skip(ctx context.Context, session *entities.ResolutionSession, rec *entities.CreatureRecord, ref entities.UnresolvedAbilityRef) entities.SessionItem {
	item := entities.SessionItem{RefID: ref.ID, Name: ref.Name, Kind: ref.Kind, Outcome: entities.ItemOutcomeSkipped}
	if !stillPresented(ctx, session, rec, ref) || !rec.TagUnresolved(ref.ID) {
		item.Outcome = entities.ItemOutcomeRemoved
	}
	return item
}

// abort leaves the presented item and everything queued behind it
// unresolved and ends the session
func (o *orchestrator) abort(ctx context.Context, session *entities.ResolutionSession, rec *entities.CreatureRecord) (*DecideOutput, error) {
	current := *session.Current
	if stillPresented(ctx, session, rec, current) {
		rec.TagUnresolved(current.ID)
		session.Log = append(session.Log, entities.SessionItem{
			RefID: current.ID, Name: current.Name, Kind: current.Kind, Outcome: entities.ItemOutcomeDiscarded,
		})
	} else {
		session.Log = append(session.Log, entities.SessionItem{
			RefID: current.ID, Name: current.Name, Kind: current.Kind, Outcome: entities.ItemOutcomeRemoved,
		})
		o.publish(ctx, EventRemoved, session, &current)
	}

	pending := 1 + len(session.Queue)
	for _, id := range session.Queue {
		item := entities.SessionItem{RefID: id, Outcome: entities.ItemOutcomeDiscarded}
		if ref, ok := rec.FindUnresolved(id); ok {
			item.Name, item.Kind = ref.Name, ref.Kind
			ref.Tagged = true
		}
		session.Log = append(session.Log, item)
	}

	if _, err := o.creatures.Update(ctx, creature.UpdateInput{Creature: rec}); err != nil {
		return nil, errors.Wrapf(err, "failed to save creature %s", rec.ID)
	}

	session.Queue = nil
	session.Current = nil
	session.Filter = nil
	session.State = entities.SessionStateAborted

	updated, err := o.sessions.Update(ctx, resolutionsession.UpdateInput{Session: session})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save session")
	}

	slog.InfoContext(ctx, "resolution session aborted",
		"session_id", session.ID,
		"discarded", pending)
	o.publish(ctx, EventAborted, updated.Session, nil)

	return &DecideOutput{Session: updated.Session, Report: buildReport(updated.Session)}, nil
}

// stillPresented reports whether the creature still holds the placeholder
// the session presented. An ID now naming a different ability counts as
// removed by a concurrent edit.
func stillPresented(ctx context.Context, session *entities.ResolutionSession, rec *entities.CreatureRecord, ref entities.UnresolvedAbilityRef) bool {
	stored, ok := rec.FindUnresolved(ref.ID)
	if !ok {
		return false
	}
	if stored.Kind != ref.Kind || matching.Normalize(stored.Name) != matching.Normalize(ref.Name) {
		slog.InfoContext(ctx, "presented placeholder was replaced",
			"session_id", session.ID,
			"ref_id", ref.ID,
			"presented", ref.Name,
			"stored", stored.Name)
		return false
	}
	return true
}

func (o *orchestrator) loadSession(ctx context.Context, id string) (*entities.ResolutionSession, error) {
	if id == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	got, err := o.sessions.Get(ctx, resolutionsession.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load session %s", id)
	}
	return got.Session, nil
}

func (o *orchestrator) defaultFilter(ref entities.UnresolvedAbilityRef) *entities.ResolutionFilter {
	group := o.mapping.Group(ref.SkillHint)
	if ref.Kind == entities.AbilityKindSpell && group == config.GroupNone {
		group = config.GroupMagic
	}
	return &entities.ResolutionFilter{
		Skill:        ref.SkillHint,
		Group:        group,
		LevelCeiling: ref.LevelCeiling,
	}
}

func (o *orchestrator) knownGroup(group string) bool {
	for _, g := range o.mapping.Groups() {
		if g == group {
			return true
		}
	}
	return false
}

func (o *orchestrator) publish(ctx context.Context, eventType string, session *entities.ResolutionSession, ref *entities.UnresolvedAbilityRef) {
	var target core.Entity
	if ref != nil {
		target = ref
	}
	if err := o.bus.Publish(ctx, events.NewGameEvent(eventType, session, target)); err != nil {
		slog.WarnContext(ctx, "failed to publish workflow event",
			"event", eventType,
			"session_id", session.ID,
			"error", err)
	}
}

func eventFor(outcome entities.ItemOutcome) string {
	switch outcome {
	case entities.ItemOutcomeAssigned:
		return EventAssigned
	case entities.ItemOutcomeSkipped:
		return EventSkipped
	default:
		return EventRemoved
	}
}

func buildReport(session *entities.ResolutionSession) *Report {
	r := &Report{
		SessionID:  session.ID,
		CreatureID: session.CreatureID,
		State:      session.State,
		Remaining:  len(session.Queue),
		Partial:    session.State == entities.SessionStateAborted,
	}
	if session.Current != nil {
		r.Remaining++
	}
	for _, item := range session.Log {
		switch item.Outcome {
		case entities.ItemOutcomeAssigned:
			r.Assigned = append(r.Assigned, item)
		case entities.ItemOutcomeSkipped:
			r.Skipped = append(r.Skipped, item)
		case entities.ItemOutcomeRemoved:
			r.Removed = append(r.Removed, item)
		case entities.ItemOutcomeDiscarded:
			r.Discarded = append(r.Discarded, item)
		}
	}
	return r
}
