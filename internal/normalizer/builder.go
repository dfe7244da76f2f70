package normalizer

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
)

// flexStrings accepts either a list of strings or one comma-separated string
type flexStrings []string

// UnmarshalJSON never fails, unreadable values become an empty list
func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = cleanList(list)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = cleanList(strings.Split(s, ","))
		return nil
	}

	*f = nil
	return nil
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// weaponInput is the weapon shape shared by every format once its own
// field names are mapped
type weaponInput struct {
	Name       string
	Skill      string
	Value      flexInt
	Damage     string
	Speed      flexInt
	Initiative flexInt
	Range      flexInt
	Features   []string
}

// featureInput is a refinement, training or trait
type featureInput struct {
	Name        string
	Kind        entities.FeatureKind
	Category    string
	Cost        flexInt
	Description string
	GreatTricks string
	Weapon      *weaponInput
}

// builder accumulates one record. It owns the record until build returns.
type builder struct {
	ctx     context.Context
	mapping *config.Mapping
	rec     *entities.CreatureRecord
}

func newBuilder(ctx context.Context, mapping *config.Mapping, name string, format entities.Format) *builder {
	return &builder{
		ctx:     ctx,
		mapping: mapping,
		rec:     entities.NewCreatureRecord(strings.TrimSpace(name), format),
	}
}

// number returns v's value, logging values that had to fall back to 0
func (b *builder) number(field string, v flexInt) int {
	if v.Set && !v.OK {
		slog.DebugContext(b.ctx, "numeric field defaulted to 0",
			"format", b.rec.Format,
			"field", field,
			"raw", v.Raw)
	}
	return v.Value
}

func (b *builder) attribute(key entities.AttributeKey, field string, v flexInt) {
	if !key.Valid() {
		b.dropped(field)
		return
	}
	b.rec.Attributes[key] = b.number(field, v)
}

func (b *builder) derived(key entities.DerivedKey, field string, v flexInt) {
	if !key.Valid() {
		b.dropped(field)
		return
	}
	b.rec.Derived[key] = b.number(field, v)
}

func (b *builder) skill(raw, field string, value, points flexInt) {
	key, ok := entities.LookupSkill(raw)
	if !ok {
		b.dropped(field)
		return
	}
	b.rec.Skills[key] = entities.SkillValue{
		Value:  b.number(field+".value", value),
		Points: b.number(field+".points", points),
	}
}

func (b *builder) dropped(field string) {
	slog.DebugContext(b.ctx, "dropping unknown key", "format", b.rec.Format, "field", field)
}

// mastery queues a mastery named only by its name. A level given by the
// source becomes the ceiling, the configured default applies otherwise.
func (b *builder) mastery(name, skillRaw string, level flexInt) {
	b.unresolved(entities.AbilityKindMastery, name, b.masterySkill(skillRaw), skillRaw, level)
}

func (b *builder) spell(name, schoolRaw string, grade flexInt) {
	b.unresolved(entities.AbilityKindSpell, name, b.spellSkill(schoolRaw), schoolRaw, grade)
}

func (b *builder) masterySkill(raw string) entities.SkillKey {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if skill, ok := entities.LookupSkill(raw); ok {
		return skill
	}
	if matchesLabel(raw, b.mapping.Label(entities.SkillNone)) || strings.EqualFold(strings.TrimSpace(raw), string(entities.SkillNone)) {
		return entities.SkillNone
	}
	return ""
}

func (b *builder) spellSkill(raw string) entities.SkillKey {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if skill, ok := b.mapping.SchoolSkill(raw); ok {
		return skill
	}
	if skill, ok := entities.LookupSkill(raw); ok && skill.IsMagic() {
		return skill
	}
	return ""
}

func (b *builder) unresolved(kind entities.AbilityKind, name string, hint entities.SkillKey, category string, level flexInt) {
	name = strings.TrimSpace(name)
	if name == "" {
		slog.DebugContext(b.ctx, "skipping unnamed ability", "format", b.rec.Format, "kind", kind)
		return
	}

	ceiling := b.mapping.Ceiling(kind)
	if level.Set {
		ceiling = b.number(string(kind)+".level", level)
	}

	b.rec.Unresolved = append(b.rec.Unresolved, entities.UnresolvedAbilityRef{
		ID:           b.rec.NextRefID(kind),
		Name:         name,
		Kind:         kind,
		SkillHint:    hint,
		LevelCeiling: max(0, ceiling),
		Category:     strings.TrimSpace(category),
	})
}

// resolved adds an ability the source already binds to a catalog entry
func (b *builder) resolved(entry entities.ReferenceLibraryEntry, sourceName string, skill entities.SkillKey) {
	b.rec.AddAbility(entities.NewResolvedAbility(entry, sourceName, skill))
}

func (b *builder) weapon(in weaponInput) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		slog.DebugContext(b.ctx, "skipping unnamed weapon", "format", b.rec.Format)
		return
	}

	w := entities.WeaponRef{
		Name:       name,
		Value:      b.number("weapon.value", in.Value),
		Damage:     strings.TrimSpace(in.Damage),
		Speed:      b.number("weapon.speed", in.Speed),
		Initiative: b.number("weapon.initiative", in.Initiative),
		Range:      b.number("weapon.range", in.Range),
		Features:   in.Features,
	}
	if skill, ok := entities.LookupSkill(in.Skill); ok {
		w.Skill = skill
	}
	if w.Damage == "" {
		w.Damage = DefaultDamage
	}

	expr, err := ParseDamage(w.Damage)
	if err != nil {
		slog.WarnContext(b.ctx, "keeping weapon damage as written",
			"weapon", name,
			"damage", w.Damage,
			"error", err)
	} else {
		w.Expr = expr
	}

	b.rec.Weapons = append(b.rec.Weapons, w)
}

func (b *builder) feature(in featureInput) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		slog.DebugContext(b.ctx, "skipping unnamed feature", "format", b.rec.Format, "kind", in.Kind)
		return
	}

	f := entities.FeatureRef{
		Name:        name,
		Kind:        in.Kind,
		Category:    b.mapping.Category(in.Kind, in.Category),
		Cost:        b.number("feature.cost", in.Cost),
		Description: strings.TrimSpace(in.Description),
	}
	if in.Kind == entities.FeatureKindTraining {
		f.TrickSlots = ParseTrickSlots(in.GreatTricks)
	}
	b.rec.Features = append(b.rec.Features, f)

	if in.Weapon != nil {
		weapon := *in.Weapon
		weapon.Name = name + " - Waffe"
		b.weapon(weapon)
	}
}

func (b *builder) build() *entities.CreatureRecord {
	return b.rec
}

func matchesLabel(raw, label string) bool {
	return label != "" && strings.EqualFold(strings.TrimSpace(raw), label)
}
