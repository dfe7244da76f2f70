package resolver

import (
	"github.com/KirkDiggler/creature-import/internal/entities"
)

// Outcome is the kind of resolution reached for a name
type Outcome string

// Resolution outcomes
const (
	// OutcomeAutoMatched means exactly one exact or prefix candidate exists
	OutcomeAutoMatched Outcome = "auto_matched"
	// OutcomeAmbiguous means the operator has to choose between candidates
	OutcomeAmbiguous Outcome = "ambiguous"
	// OutcomeNoMatch means nothing scored above the list threshold. It is
	// a valid result, not an error.
	OutcomeNoMatch Outcome = "no_match"
)

// ResolveInput names an ability and the constraints it must satisfy
type ResolveInput struct {
	Name string
	Kind entities.AbilityKind
	// SkillHint restricts candidates to the skill. Empty and
	// entities.SkillNone mean any skill.
	SkillHint entities.SkillKey
	// LevelCeiling is the highest level accepted, negative for no ceiling
	LevelCeiling int
}

// ResolveOutput is a Resolution
type ResolveOutput struct {
	Outcome Outcome
	// Entry is set for OutcomeAutoMatched
	Entry *entities.IndexEntry
	// Candidates are ordered by score, then name. For OutcomeAutoMatched
	// they hold the single matching candidate.
	Candidates []entities.MatchCandidate
}

// Top returns the entry to pre-select: the match, or the best candidate
func (o *ResolveOutput) Top() (*entities.IndexEntry, bool) {
	if o == nil {
		return nil, false
	}
	if o.Entry != nil {
		return o.Entry, true
	}
	if len(o.Candidates) > 0 {
		entry := o.Candidates[0].Entry
		return &entry, true
	}
	return nil, false
}

// BestGuessInput asks for a single most likely entry regardless of skill
type BestGuessInput struct {
	Name         string
	Kind         entities.AbilityKind
	LevelCeiling int
}

// BestGuessOutput is the best single guess, if any cleared the threshold
type BestGuessOutput struct {
	Found bool
	Entry entities.IndexEntry
	Skill entities.SkillKey
	Score float64
}
