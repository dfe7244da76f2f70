package normalizer

import (
	"context"
	"strings"

	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
)

type editorV2Payload struct {
	Editor      *string     `json:"editor"`
	Name        *string     `json:"name"`
	Description string      `json:"description"`
	Role        string      `json:"role"`
	Types       flexStrings `json:"types"`
	Attributes  []struct {
		ID    string  `json:"id"`
		Value flexInt `json:"value"`
	} `json:"attributes"`
	Skills []struct {
		ID     string  `json:"id"`
		Value  flexInt `json:"value"`
		Points flexInt `json:"points"`
	} `json:"skills"`
	Derived   map[string]flexInt `json:"derived"`
	Masteries []struct {
		Name  string  `json:"name"`
		Skill string  `json:"skill"`
		Level flexInt `json:"level"`
	} `json:"masteries"`
	Spells []struct {
		Name   string  `json:"name"`
		School string  `json:"school"`
		Grade  flexInt `json:"grade"`
	} `json:"spells"`
	Weapons     []editorV2Weapon `json:"weapons"`
	Refinements []struct {
		Name        string          `json:"name"`
		Category    string          `json:"category"`
		Cost        flexInt         `json:"cost"`
		Description string          `json:"description"`
		Weapon      *editorV2Weapon `json:"weapon"`
	} `json:"refinements"`
	Trainings []struct {
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		Cost        flexInt `json:"cost"`
		Description string  `json:"description"`
		GreatTricks string  `json:"greatTricks"`
	} `json:"trainings"`
}

type editorV2Weapon struct {
	Name       string      `json:"name"`
	Skill      string      `json:"skill"`
	Value      flexInt     `json:"value"`
	Damage     string      `json:"damage"`
	Speed      flexInt     `json:"speed"`
	Initiative flexInt     `json:"initiative"`
	Range      flexInt     `json:"range"`
	Features   flexStrings `json:"features"`
}

func (w editorV2Weapon) input() weaponInput {
	return weaponInput{
		Name:       w.Name,
		Skill:      w.Skill,
		Value:      w.Value,
		Damage:     w.Damage,
		Speed:      w.Speed,
		Initiative: w.Initiative,
		Range:      w.Range,
		Features:   w.Features,
	}
}

// normalizeEditorV2 reads the list-based English editor export
func normalizeEditorV2(ctx context.Context, mapping *config.Mapping, payload []byte) (*entities.CreatureRecord, error) {
	var p editorV2Payload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	if err := requireEditor(p.Editor); err != nil {
		return nil, err
	}
	name, err := requireName(p.Name)
	if err != nil {
		return nil, err
	}

	b := newBuilder(ctx, mapping, name, entities.FormatEditorV2)
	b.rec.Description = strings.TrimSpace(p.Description)
	b.rec.Role = strings.TrimSpace(p.Role)
	b.rec.Types = p.Types

	for _, a := range p.Attributes {
		b.attribute(editorV2Attribute(a.ID), "attributes."+a.ID, a.Value)
	}
	for _, s := range p.Skills {
		b.skill(s.ID, "skills."+s.ID, s.Value, s.Points)
	}
	for _, key := range sortedKeys(p.Derived) {
		b.derived(editorV2DerivedKey(key), "derived."+key, p.Derived[key])
	}

	for _, m := range p.Masteries {
		b.mastery(m.Name, m.Skill, m.Level)
	}
	for _, s := range p.Spells {
		b.spell(s.Name, s.School, s.Grade)
	}

	for _, w := range p.Weapons {
		b.weapon(w.input())
	}
	for _, r := range p.Refinements {
		in := featureInput{
			Name:        r.Name,
			Kind:        entities.FeatureKindRefinement,
			Category:    r.Category,
			Cost:        r.Cost,
			Description: r.Description,
		}
		if r.Weapon != nil {
			w := r.Weapon.input()
			in.Weapon = &w
		}
		b.feature(in)
	}
	for _, t := range p.Trainings {
		b.feature(featureInput{
			Name:        t.Name,
			Kind:        entities.FeatureKindTraining,
			Category:    t.Category,
			Cost:        t.Cost,
			Description: t.Description,
			GreatTricks: t.GreatTricks,
		})
	}

	return b.build(), nil
}

func editorV2Attribute(id string) entities.AttributeKey {
	key := strings.ToLower(strings.TrimSpace(id))
	if alias, ok := editorV2Attributes[key]; ok {
		return alias
	}
	return entities.AttributeKey(key)
}

// editorV2DerivedKey folds camel-case keys such as healthPoints onto the
// canonical lower-case keys
func editorV2DerivedKey(key string) entities.DerivedKey {
	folded := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(key))
	if alias, ok := editorV2Derived[folded]; ok {
		return alias
	}
	return entities.DerivedKey(folded)
}
