package entities

import "time"

// SessionState is the state of a resolution session
type SessionState string

// Session states
const (
	SessionStateIdle       SessionState = "idle"
	SessionStatePresenting SessionState = "presenting"
	SessionStateCompleted  SessionState = "completed"
	SessionStateAborted    SessionState = "aborted"
)

// Terminal reports whether no further transitions are possible
func (s SessionState) Terminal() bool {
	return s == SessionStateCompleted || s == SessionStateAborted
}

// ItemOutcome records what happened to one queued placeholder
type ItemOutcome string

// Item outcomes
const (
	ItemOutcomeAssigned ItemOutcome = "assigned"
	ItemOutcomeSkipped  ItemOutcome = "skipped"
	// ItemOutcomeRemoved means the placeholder was gone before it was presented
	ItemOutcomeRemoved ItemOutcome = "removed"
	// ItemOutcomeDiscarded means the session was aborted before the item was decided
	ItemOutcomeDiscarded ItemOutcome = "discarded"
)

// SessionItem is the log line of one processed placeholder
type SessionItem struct {
	RefID   string      `json:"ref_id"`
	Name    string      `json:"name"`
	Kind    AbilityKind `json:"kind"`
	Outcome ItemOutcome `json:"outcome"`
	// EntryID is the unique ID of the assigned catalog entry
	EntryID string `json:"entry_id,omitempty"`
}

// ResolutionFilter is the operator's override of a presented item's search
type ResolutionFilter struct {
	Skill        SkillKey `json:"skill,omitempty"`
	Group        string   `json:"group,omitempty"`
	LevelCeiling int      `json:"level_ceiling"`
}

// ResolutionSession walks the unresolved placeholders of one creature, one
// at a time. Queue holds placeholder IDs in presentation order.
type ResolutionSession struct {
	ID         string       `json:"id"`
	CreatureID string       `json:"creature_id"`
	State      SessionState `json:"state"`
	Queue      []string     `json:"queue"`

	// Current and Filter are set while presenting
	Current *UnresolvedAbilityRef `json:"current,omitempty"`
	Filter  *ResolutionFilter     `json:"filter,omitempty"`

	Log []SessionItem `json:"log,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GetID returns the session ID
func (s *ResolutionSession) GetID() string {
	return s.ID
}

// GetType returns the entity type for rpg-toolkit
func (s *ResolutionSession) GetType() string {
	return "resolution_session"
}

// Count returns how many logged items have the outcome
func (s *ResolutionSession) Count(outcome ItemOutcome) int {
	n := 0
	for _, item := range s.Log {
		if item.Outcome == outcome {
			n++
		}
	}
	return n
}
