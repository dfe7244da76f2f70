package catalog

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/creature-import/internal/entities"
)

// Availability is one "skill grade" token of an entry's available-in field
type Availability struct {
	Skill entities.SkillKey
	Grade int
}

// AvailabilityParser turns an entry's available-in field into tokens.
// Catalogs with a structured per-skill list can supply their own.
type AvailabilityParser func(raw string) []Availability

// ParseAvailableIn parses comma-separated "skill grade" tokens such as
// "deathmagic 2, Schattenmagie 3". Skill names go through
// entities.LookupSkill, so German and differently cased names find their
// canonical key. A missing or malformed grade is 0 and empty tokens are
// skipped.
func ParseAvailableIn(raw string) []Availability {
	return parseAvailableIn(raw, entities.LookupSkill)
}

// AvailabilityWithAliases returns a parser that falls back to alias for
// skill names entities.LookupSkill does not know, such as the short spell
// school names of the mapping.
func AvailabilityWithAliases(alias func(string) (entities.SkillKey, bool)) AvailabilityParser {
	return func(raw string) []Availability {
		return parseAvailableIn(raw, func(name string) (entities.SkillKey, bool) {
			if skill, ok := entities.LookupSkill(name); ok {
				return skill, true
			}
			return alias(name)
		})
	}
}

func parseAvailableIn(raw string, lookup func(string) (entities.SkillKey, bool)) []Availability {
	var out []Availability
	for _, token := range strings.Split(raw, ",") {
		fields := strings.Fields(token)
		if len(fields) == 0 {
			continue
		}

		name, grade := fields, 0
		if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil && len(fields) > 1 {
			name, grade = fields[:len(fields)-1], max(0, n)
		} else if _, ok := resolveSkill(fields, lookup); !ok && len(fields) > 1 {
			// a trailing word that is no grade and no part of a skill name
			name = fields[:len(fields)-1]
		}

		skill, _ := resolveSkill(name, lookup)
		out = append(out, Availability{Skill: skill, Grade: grade})
	}
	return out
}

// resolveSkill looks up a possibly multi-word skill name, also trying it
// written as one word ("Schatten Magie" as "Schattenmagie"). Unknown names
// come back lowercased.
func resolveSkill(words []string, lookup func(string) (entities.SkillKey, bool)) (entities.SkillKey, bool) {
	if skill, ok := lookup(strings.Join(words, " ")); ok {
		return skill, true
	}
	if len(words) > 1 {
		if skill, ok := lookup(strings.Join(words, "")); ok {
			return skill, true
		}
	}
	return entities.SkillKey(strings.ToLower(strings.Join(words, " "))), false
}

// GradeFor returns the level at which entry is usable with skill: its own
// level for its primary skill, the token grade for an available-in skill.
func GradeFor(entry entities.IndexEntry, skill entities.SkillKey, parse AvailabilityParser) (int, bool) {
	if entry.Skill == skill {
		return entry.Level, true
	}
	if parse == nil {
		parse = ParseAvailableIn
	}
	for _, a := range parse(entry.AvailableIn) {
		if a.Skill == skill {
			return a.Grade, true
		}
	}
	return 0, false
}
