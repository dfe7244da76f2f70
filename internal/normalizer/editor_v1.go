package normalizer

import (
	"context"
	"sort"
	"strings"

	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
)

type editorV1Payload struct {
	Editor       *string            `json:"editor"`
	Name         *string            `json:"name"`
	Beschreibung string             `json:"beschreibung"`
	Description  string             `json:"description"`
	Rolle        string             `json:"rolle"`
	Typus        flexStrings        `json:"typus"`
	Attribute    map[string]flexInt `json:"attribute"`
	Fertigkeiten []struct {
		Name   string  `json:"name"`
		Wert   flexInt `json:"wert"`
		Punkte flexInt `json:"punkte"`
	} `json:"fertigkeiten"`
	AbgeleiteteWerte map[string]flexInt `json:"abgeleiteteWerte"`
	Meisterschaften  []struct {
		Name       string  `json:"name"`
		Fertigkeit string  `json:"fertigkeit"`
		Schwelle   flexInt `json:"schwelle"`
	} `json:"meisterschaften"`
	Zauber []struct {
		Name   string  `json:"name"`
		Schule string  `json:"schule"`
		Grad   flexInt `json:"grad"`
	} `json:"zauber"`
	Waffen         []editorV1Weapon `json:"waffen"`
	Verfeinerungen []struct {
		Name              string          `json:"name"`
		Kategorie         string          `json:"kategorie"`
		Kosten            flexInt         `json:"kosten"`
		Beschreibung      string          `json:"beschreibung"`
		ZusaetzlicheWaffe *editorV1Weapon `json:"zusaetzlicheWaffe"`
	} `json:"verfeinerungen"`
	Abrichtungen []struct {
		Name             string  `json:"name"`
		Kategorie        string  `json:"kategorie"`
		Kosten           flexInt `json:"kosten"`
		PotenzialKosten  flexInt `json:"potenzialKosten"`
		Beschreibung     string  `json:"beschreibung"`
		GrosseTricksWahl string  `json:"grosseTricksWahl"`
	} `json:"abrichtungen"`
}

type editorV1Weapon struct {
	Name       string      `json:"name"`
	Fertigkeit string      `json:"fertigkeit"`
	Wert       flexInt     `json:"wert"`
	Schaden    string      `json:"schaden"`
	WGS        flexInt     `json:"wgs"`
	INI        flexInt     `json:"ini"`
	Reichweite flexInt     `json:"reichweite"`
	Merkmale   flexStrings `json:"merkmale"`
}

func (w editorV1Weapon) input() weaponInput {
	return weaponInput{
		Name:       w.Name,
		Skill:      w.Fertigkeit,
		Value:      w.Wert,
		Damage:     w.Schaden,
		Speed:      w.WGS,
		Initiative: w.INI,
		Range:      w.Reichweite,
		Features:   w.Merkmale,
	}
}

// normalizeEditorV1 reads the German editor export
func normalizeEditorV1(ctx context.Context, mapping *config.Mapping, payload []byte) (*entities.CreatureRecord, error) {
	var p editorV1Payload
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

	b := newBuilder(ctx, mapping, name, entities.FormatEditorV1)
	b.rec.Description = firstNonEmpty(p.Beschreibung, p.Description)
	b.rec.Role = strings.TrimSpace(p.Rolle)
	b.rec.Types = p.Typus

	for _, abbr := range sortedKeys(p.Attribute) {
		b.attribute(editorV1Attributes[strings.ToUpper(strings.TrimSpace(abbr))], "attribute."+abbr, p.Attribute[abbr])
	}
	for _, abbr := range sortedKeys(p.AbgeleiteteWerte) {
		b.derived(editorV1Derived[strings.ToUpper(strings.TrimSpace(abbr))], "abgeleiteteWerte."+abbr, p.AbgeleiteteWerte[abbr])
	}
	for _, f := range p.Fertigkeiten {
		b.skill(f.Name, "fertigkeiten."+f.Name, f.Wert, f.Punkte)
	}

	for _, m := range p.Meisterschaften {
		b.mastery(m.Name, m.Fertigkeit, m.Schwelle)
	}
	for _, z := range p.Zauber {
		b.spell(z.Name, z.Schule, z.Grad)
	}

	for _, w := range p.Waffen {
		b.weapon(w.input())
	}
	for _, v := range p.Verfeinerungen {
		in := featureInput{
			Name:        v.Name,
			Kind:        entities.FeatureKindRefinement,
			Category:    v.Kategorie,
			Cost:        v.Kosten,
			Description: v.Beschreibung,
		}
		if v.ZusaetzlicheWaffe != nil {
			w := v.ZusaetzlicheWaffe.input()
			in.Weapon = &w
		}
		b.feature(in)
	}
	for _, a := range p.Abrichtungen {
		cost := a.Kosten
		if !cost.Set {
			cost = a.PotenzialKosten
		}
		b.feature(featureInput{
			Name:        a.Name,
			Kind:        entities.FeatureKindTraining,
			Category:    a.Kategorie,
			Cost:        cost,
			Description: a.Beschreibung,
			GreatTricks: a.GrosseTricksWahl,
		})
	}

	return b.build(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
