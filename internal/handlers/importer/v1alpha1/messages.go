package v1alpha1

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/workflow"
)

// ImportCreatureRequest carries the payload either as an object or as a
// JSON string
type ImportCreatureRequest struct {
	Payload            json.RawMessage `json:"payload,omitempty"`
	PayloadJSON        string          `json:"payload_json,omitempty"`
	ExistingCreatureID string          `json:"existing_creature_id,omitempty"`
	AutoAssign         bool            `json:"auto_assign,omitempty"`
	StartSession       bool            `json:"start_session,omitempty"`
}

// SessionRequest names a session
type SessionRequest struct {
	SessionID string `json:"session_id"`
}

// RequeryRequest overrides the filter of the presented item
type RequeryRequest struct {
	SessionID    string `json:"session_id"`
	Skill        string `json:"skill,omitempty"`
	Group        string `json:"group,omitempty"`
	LevelCeiling *int   `json:"level_ceiling,omitempty"`
}

// DecideRequest answers the presented item
type DecideRequest struct {
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id,omitempty"`
	Decision  string `json:"decision"`
	EntryID   string `json:"entry_id,omitempty"`
	Skill     string `json:"skill,omitempty"`
}

// ImportCreatureResponse is the stored creature and its session
type ImportCreatureResponse struct {
	Creature     *entities.CreatureRecord   `json:"creature"`
	AutoAssigned []entities.ResolvedAbility `json:"auto_assigned,omitempty"`
	Session      *SessionView               `json:"session,omitempty"`
	Reimported   bool                       `json:"reimported,omitempty"`
}

// SessionResponse is returned by every session call
type SessionResponse struct {
	Session      *SessionView      `json:"session"`
	Presentation *PresentationView `json:"presentation,omitempty"`
	Report       *ReportView       `json:"report,omitempty"`
}

// SessionView is the client-facing session state
type SessionView struct {
	ID         string `json:"id"`
	CreatureID string `json:"creature_id"`
	State      string `json:"state"`
	Queued     int    `json:"queued"`
	CurrentID  string `json:"current_id,omitempty"`
	ExpiresAt  int64  `json:"expires_at"`
}

// CandidateView is one candidate entry
type CandidateView struct {
	EntryID string  `json:"entry_id"`
	Name    string  `json:"name"`
	Skill   string  `json:"skill,omitempty"`
	Level   int     `json:"level"`
	Score   float64 `json:"score"`
	Exact   bool    `json:"exact,omitempty"`
}

// BrowseView is one browse list row
type BrowseView struct {
	EntryID string `json:"entry_id"`
	Name    string `json:"name"`
	Skill   string `json:"skill,omitempty"`
	Grade   int    `json:"grade"`
}

// PresentationView is the presented item with its options
type PresentationView struct {
	Item           entities.UnresolvedAbilityRef `json:"item"`
	Filter         entities.ResolutionFilter     `json:"filter"`
	Outcome        string                        `json:"outcome"`
	Candidates     []CandidateView               `json:"candidates"`
	Suggested      *CandidateView                `json:"suggested,omitempty"`
	SuggestedSkill string                        `json:"suggested_skill,omitempty"`
	Browse         []BrowseView                  `json:"browse"`
	Remaining      int                           `json:"remaining"`
}

// ReportView summarizes a session
type ReportView struct {
	State     string                 `json:"state"`
	Assigned  []entities.SessionItem `json:"assigned"`
	Skipped   []entities.SessionItem `json:"skipped"`
	Removed   []entities.SessionItem `json:"removed"`
	Discarded []entities.SessionItem `json:"discarded"`
	Remaining int                    `json:"remaining"`
	Partial   bool                   `json:"partial"`
}

// Decode reads a request struct into v
func Decode(in *structpb.Struct, v any) error {
	if in == nil {
		return errors.InvalidArgument("request is required")
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "failed to read request")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.InvalidArgumentf("malformed request: %v", err)
	}
	return nil
}

// Encode turns v into a response struct
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	return out, nil
}

func toSessionView(s *entities.ResolutionSession) *SessionView {
	if s == nil {
		return nil
	}
	v := &SessionView{
		ID:         s.ID,
		CreatureID: s.CreatureID,
		State:      string(s.State),
		Queued:     len(s.Queue),
		ExpiresAt:  s.ExpiresAt.Unix(),
	}
	if s.Current != nil {
		v.CurrentID = s.Current.ID
	}
	return v
}

func toCandidateView(e entities.IndexEntry, score float64, exact bool) CandidateView {
	return CandidateView{
		EntryID: e.UniqueID(),
		Name:    e.Name,
		Skill:   string(e.Skill),
		Level:   e.Level,
		Score:   score,
		Exact:   exact,
	}
}

func toPresentationView(p *workflow.Presentation) *PresentationView {
	if p == nil {
		return nil
	}
	v := &PresentationView{
		Item:           p.Item,
		Filter:         p.Filter,
		Outcome:        string(p.Outcome),
		Candidates:     make([]CandidateView, 0, len(p.Candidates)),
		SuggestedSkill: string(p.SuggestedSkill),
		Browse:         make([]BrowseView, 0, len(p.Browse)),
		Remaining:      p.Remaining,
	}
	for _, c := range p.Candidates {
		v.Candidates = append(v.Candidates, toCandidateView(c.Entry, c.Score, c.IsExact))
	}
	if p.Suggested != nil {
		suggested := toCandidateView(*p.Suggested, 0, false)
		v.Suggested = &suggested
	}
	for _, b := range p.Browse {
		v.Browse = append(v.Browse, BrowseView{
			EntryID: b.Entry.UniqueID(),
			Name:    b.Entry.Name,
			Skill:   string(b.Skill),
			Grade:   b.Grade,
		})
	}
	return v
}

func toReportView(r *workflow.Report) *ReportView {
	if r == nil {
		return nil
	}
	return &ReportView{
		State:     string(r.State),
		Assigned:  r.Assigned,
		Skipped:   r.Skipped,
		Removed:   r.Removed,
		Discarded: r.Discarded,
		Remaining: r.Remaining,
		Partial:   r.Partial,
	}
}
