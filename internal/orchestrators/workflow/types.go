package workflow

import (
	"time"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/index"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/resolver"
)

// Decision is the operator's answer to a presented item
type Decision string

// Decisions
const (
	DecisionAssign Decision = "assign"
	DecisionSkip   Decision = "skip"
	DecisionAbort  Decision = "abort"
)

// Event types published on every transition
const (
	EventPresented = "resolution.presented"
	EventAssigned  = "resolution.assigned"
	EventSkipped   = "resolution.skipped"
	EventRemoved   = "resolution.removed"
	EventCompleted = "resolution.completed"
	EventAborted   = "resolution.aborted"
)

// Presentation is everything shown for the current item
type Presentation struct {
	Item   entities.UnresolvedAbilityRef
	Filter entities.ResolutionFilter

	Outcome    resolver.Outcome
	Candidates []entities.MatchCandidate
	// Suggested is the pre-selected entry, nil when nothing matched
	Suggested *entities.IndexEntry
	// SuggestedSkill is the skill the ability would be bound with
	SuggestedSkill entities.SkillKey

	// Browse lists what can be picked manually under the current filter
	Browse []index.BrowseItem

	// Remaining counts the items queued after this one
	Remaining int
}

// Report summarizes a session
type Report struct {
	SessionID  string
	CreatureID string
	State      entities.SessionState

	Assigned  []entities.SessionItem
	Skipped   []entities.SessionItem
	Removed   []entities.SessionItem
	Discarded []entities.SessionItem

	// Remaining counts items neither decided nor discarded yet
	Remaining int
	// Partial is set when the session was aborted
	Partial bool
}

// StartInput opens a session over a stored creature
type StartInput struct {
	CreatureID string
	// IncludeTagged also queues placeholders skipped in earlier sessions
	IncludeTagged bool
	// TTL overrides the configured session lifetime
	TTL time.Duration
}

// StartOutput holds the new session
type StartOutput struct {
	Session *entities.ResolutionSession
}

// ResumeInput names the session to pick up again
type ResumeInput struct {
	SessionID string
}

// ResumeOutput is the session and, while presenting, the current item
type ResumeOutput struct {
	Session      *entities.ResolutionSession
	Presentation *Presentation
	Report       *Report
}

// PresentNextInput names the session to advance
type PresentNextInput struct {
	SessionID string
}

// PresentNextOutput holds the presented item, nil once the queue is done
type PresentNextOutput struct {
	Session      *entities.ResolutionSession
	Presentation *Presentation
}

// RequeryInput overrides the search filter of the presented item.
// Zero values keep the current filter.
type RequeryInput struct {
	SessionID string
	Skill     entities.SkillKey
	Group     string
	// LevelCeiling replaces the ceiling when set, negative for none
	LevelCeiling *int
}

// RequeryOutput holds the recomputed presentation
type RequeryOutput struct {
	Session      *entities.ResolutionSession
	Presentation *Presentation
}

// DecideInput answers the presented item
type DecideInput struct {
	SessionID string
	// ItemID guards against answering an item that is no longer presented
	ItemID   string
	Decision Decision
	// EntryID is the unique ID of the catalog entry to assign
	EntryID string
	// Skill overrides the skill the assigned ability is bound with
	Skill entities.SkillKey
}

// DecideOutput holds the next presentation, or the report once the
// session reached a terminal state
type DecideOutput struct {
	Session      *entities.ResolutionSession
	Presentation *Presentation
	Report       *Report
}

// ReportInput names the session to summarize
type ReportInput struct {
	SessionID string
}

// ReportOutput holds the summary
type ReportOutput struct {
	Report *Report
}
