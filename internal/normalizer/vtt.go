package normalizer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
)

// VTT item types
const (
	vttItemMastery = "mastery"
	vttItemSpell   = "spell"
	vttItemAttack  = "npcattack"
	vttItemFeature = "npcfeature"

	vttActorType = "npc"
)

type vttValue struct {
	Value flexInt `json:"value"`
}

type vttPool struct {
	Consumed  flexInt `json:"consumed"`
	Exhausted flexInt `json:"exhausted"`
}

type vttPayload struct {
	Type   *string `json:"type"`
	Name   *string `json:"name"`
	System struct {
		Attributes map[string]vttValue `json:"attributes"`
		Skills     map[string]struct {
			Value  flexInt `json:"value"`
			Points flexInt `json:"points"`
		} `json:"skills"`
		DerivedAttributes map[string]vttValue `json:"derivedAttributes"`
		Health            vttPool             `json:"health"`
		Focus             vttPool             `json:"focus"`
		Biography         string              `json:"biography"`
		CreatureData      struct {
			Rolle string      `json:"rolle"`
			Typus flexStrings `json:"typus"`
		} `json:"creatureData"`
	} `json:"system"`
	Items []vttItem `json:"items"`
}

type vttItem struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	SourceID string `json:"sourceId"`
	System   struct {
		Skill       string      `json:"skill"`
		Level       flexInt     `json:"level"`
		SkillValue  flexInt     `json:"skillValue"`
		Damage      string      `json:"damage"`
		WeaponSpeed flexInt     `json:"weaponSpeed"`
		Initiative  flexInt     `json:"initiative"`
		Range       flexInt     `json:"range"`
		Features    flexStrings `json:"features"`
		Category    string      `json:"category"`
		Description string      `json:"description"`
	} `json:"system"`
}

// normalizeVTT reads a virtual tabletop actor export
func normalizeVTT(ctx context.Context, mapping *config.Mapping, payload []byte) (*entities.CreatureRecord, error) {
	var p vttPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	if p.Type == nil || *p.Type != vttActorType {
		got := ""
		if p.Type != nil {
			got = *p.Type
		}
		return nil, errors.FormatValidation("type", vttActorType, got)
	}
	name, err := requireName(p.Name)
	if err != nil {
		return nil, err
	}

	b := newBuilder(ctx, mapping, name, entities.FormatVTTImport)
	b.rec.Description = strings.TrimSpace(p.System.Biography)
	b.rec.Role = strings.TrimSpace(p.System.CreatureData.Rolle)
	b.rec.Types = p.System.CreatureData.Typus

	for _, key := range sortedKeys(p.System.Attributes) {
		b.attribute(entities.AttributeKey(strings.ToLower(key)), "system.attributes."+key, p.System.Attributes[key].Value)
	}
	for _, key := range sortedKeys(p.System.Skills) {
		s := p.System.Skills[key]
		b.skill(key, "system.skills."+key, s.Value, s.Points)
	}
	for _, key := range sortedKeys(p.System.DerivedAttributes) {
		b.derived(entities.DerivedKey(strings.ToLower(key)), "system.derivedAttributes."+key, p.System.DerivedAttributes[key].Value)
	}

	b.rec.Pools = entities.ResourcePools{
		HealthConsumed:  b.number("system.health.consumed", p.System.Health.Consumed),
		HealthExhausted: b.number("system.health.exhausted", p.System.Health.Exhausted),
		FocusConsumed:   b.number("system.focus.consumed", p.System.Focus.Consumed),
		FocusExhausted:  b.number("system.focus.exhausted", p.System.Focus.Exhausted),
	}

	for _, item := range p.Items {
		switch item.Type {
		case vttItemMastery, vttItemSpell:
			vttAbility(b, item)
		case vttItemAttack:
			b.weapon(weaponInput{
				Name:       item.Name,
				Skill:      item.System.Skill,
				Value:      item.System.SkillValue,
				Damage:     item.System.Damage,
				Speed:      item.System.WeaponSpeed,
				Initiative: item.System.Initiative,
				Range:      item.System.Range,
				Features:   item.System.Features,
			})
		case vttItemFeature:
			b.feature(featureInput{
				Name:        item.Name,
				Kind:        entities.FeatureKindTrait,
				Category:    item.System.Category,
				Description: item.System.Description,
			})
		default:
			slog.DebugContext(ctx, "dropping unknown item type", "type", item.Type, "name", item.Name)
		}
	}

	return b.build(), nil
}

// vttAbility binds items that carry a catalog reference and queues the rest
func vttAbility(b *builder, item vttItem) {
	kind := entities.AbilityKindMastery
	skill := b.masterySkill(item.System.Skill)
	if item.Type == vttItemSpell {
		kind = entities.AbilityKindSpell
		skill = b.spellSkill(item.System.Skill)
	}

	partition, id, ok := strings.Cut(strings.TrimSpace(item.SourceID), ".")
	if !ok || partition == "" || id == "" || strings.TrimSpace(item.Name) == "" {
		if kind == entities.AbilityKindSpell {
			b.spell(item.Name, item.System.Skill, item.System.Level)
		} else {
			b.mastery(item.Name, item.System.Skill, item.System.Level)
		}
		return
	}

	entry := entities.ReferenceLibraryEntry{
		IndexEntry: entities.IndexEntry{
			Partition: partition,
			ID:        id,
			Name:      strings.TrimSpace(item.Name),
			Kind:      kind,
			Skill:     skill,
			Level:     b.number("items.system.level", item.System.Level),
		},
		Description: strings.TrimSpace(item.System.Description),
	}
	b.resolved(entry, entry.Name, skill)
}
