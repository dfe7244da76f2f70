// Package importer runs a payload through normalization, automatic
// resolution and persistence, and optionally opens a resolution session
// for the operator.
package importer

//go:generate mockgen -destination=mock/mock_service.go -package=importermock github.com/KirkDiggler/creature-import/internal/orchestrators/importer Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/matching"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/resolver"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/workflow"
	"github.com/KirkDiggler/creature-import/internal/pkg/idgen"
	"github.com/KirkDiggler/creature-import/internal/repositories/creature"
)

// Service imports creature payloads
type Service interface {
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)
}

// Normalizer turns a raw payload into a creature record
type Normalizer interface {
	Normalize(ctx context.Context, payload []byte) (*entities.CreatureRecord, error)
}

// Catalog loads full entries for automatic assignment
type Catalog interface {
	Fetch(ctx context.Context, uniqueID string) (*entities.ReferenceLibraryEntry, error)
}

// Config holds the dependencies for the importer
type Config struct {
	Normalizer  Normalizer
	Resolver    resolver.Service
	Catalog     Catalog
	Creatures   creature.Repository
	Workflow    workflow.Service
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Normalizer == nil {
		vb.RequiredField("Normalizer")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Creatures == nil {
		vb.RequiredField("Creatures")
	}
	if c.Workflow == nil {
		vb.RequiredField("Workflow")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	normalizer Normalizer
	resolver   resolver.Service
	catalog    Catalog
	creatures  creature.Repository
	workflow   workflow.Service
	idGen      idgen.Generator
}

// NewOrchestrator creates an importer with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		normalizer: cfg.Normalizer,
		resolver:   cfg.Resolver,
		catalog:    cfg.Catalog,
		creatures:  cfg.Creatures,
		workflow:   cfg.Workflow,
		idGen:      cfg.IDGenerator,
	}, nil
}

// Import normalizes and stores a payload. Only a format validation
// failure or a storage failure fails the import; resolution problems
// leave placeholders behind.
func (o *orchestrator) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil || len(input.Payload) == 0 {
		return nil, errors.InvalidArgument("payload is required")
	}

	rec, err := o.normalizer.Normalize(ctx, input.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to normalize payload")
	}

	var existing *entities.CreatureRecord
	if input.ExistingCreatureID != "" {
		got, err := o.creatures.Get(ctx, creature.GetInput{ID: input.ExistingCreatureID})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load creature %s", input.ExistingCreatureID)
		}
		existing = got.Creature
		mergeExisting(rec, existing)
	}

	out := &ImportOutput{}
	if input.AutoAssign {
		out.AutoAssigned = o.autoAssign(ctx, rec)
	}

	if existing != nil {
		updated, err := o.creatures.Update(ctx, creature.UpdateInput{Creature: rec})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to update creature %s", rec.ID)
		}
		out.Creature = updated.Creature
		out.Reimported = true
	} else {
		rec.ID = o.idGen.Generate()
		created, err := o.creatures.Create(ctx, creature.CreateInput{Creature: rec})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create creature")
		}
		out.Creature = created.Creature
	}

	slog.InfoContext(ctx, "creature imported",
		"creature_id", out.Creature.ID,
		"format", out.Creature.Format,
		"reimport", out.Reimported,
		"auto_assigned", len(out.AutoAssigned),
		"unresolved", len(out.Creature.Unresolved))

	if input.StartSession && len(out.Creature.Unresolved) > 0 {
		started, err := o.workflow.Start(ctx, &workflow.StartInput{CreatureID: out.Creature.ID})
		switch {
		case errors.IsFailedPrecondition(err):
			// the open session keeps its queue; new placeholders wait for the next one
			slog.InfoContext(ctx, "resolution session already open",
				"creature_id", out.Creature.ID,
				"error", err)
		case err != nil:
			return nil, errors.Wrapf(err, "failed to start resolution session for %s", out.Creature.ID)
		default:
			out.Session = started.Session
		}
	}

	return out, nil
}

// autoAssign binds the placeholders that resolve to exactly one entry
func (o *orchestrator) autoAssign(ctx context.Context, rec *entities.CreatureRecord) []entities.ResolvedAbility {
	var assigned []entities.ResolvedAbility

	refs := append([]entities.UnresolvedAbilityRef(nil), rec.Unresolved...)
	for _, ref := range refs {
		resolved, err := o.resolver.Resolve(ctx, &resolver.ResolveInput{
			Name:         ref.Name,
			Kind:         ref.Kind,
			SkillHint:    ref.SkillHint,
			LevelCeiling: ref.LevelCeiling,
		})
		if err != nil {
			slog.WarnContext(ctx, "automatic resolution failed",
				"name", ref.Name,
				"kind", ref.Kind,
				"error", err)
			continue
		}
		if resolved.Outcome != resolver.OutcomeAutoMatched {
			continue
		}

		entry, err := o.catalog.Fetch(ctx, resolved.Entry.UniqueID())
		if err != nil {
			slog.WarnContext(ctx, "failed to load matched entry",
				"name", ref.Name,
				"entry", resolved.Entry.UniqueID(),
				"error", err)
			continue
		}

		ability := entities.NewResolvedAbility(*entry, ref.Name, ref.SkillHint)
		rec.ResolvePlaceholder(ref.ID, ability)
		assigned = append(assigned, ability)
	}

	return assigned
}

// mergeExisting carries identity and resolved abilities over to a
// re-imported record. Placeholders the existing creature already resolved
// are dropped. A placeholder still open on the existing creature keeps its
// ID and tag so open sessions keep pointing at the same ability; new ones
// are numbered after every ID the creature has issued.
func mergeExisting(rec, existing *entities.CreatureRecord) {
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt

	resolvedNames := make(map[string]bool)
	for _, ability := range existing.Abilities {
		resolvedNames[placeholderKey(ability.Entry.Kind, ability.SourceName)] = true
		resolvedNames[placeholderKey(ability.Entry.Kind, ability.Entry.Name)] = true
	}

	open := make(map[string][]entities.UnresolvedAbilityRef)
	for _, ref := range existing.Unresolved {
		key := placeholderKey(ref.Kind, ref.Name)
		open[key] = append(open[key], ref)
	}

	// number from the existing record so reissued IDs never collide
	ids := &entities.CreatureRecord{Unresolved: existing.Unresolved, RefSeq: existing.RefSeq}

	kept := rec.Unresolved[:0]
	for _, ref := range rec.Unresolved {
		key := placeholderKey(ref.Kind, ref.Name)
		if resolvedNames[key] {
			continue
		}
		if prev := open[key]; len(prev) > 0 {
			ref.ID = prev[0].ID
			ref.Tagged = prev[0].Tagged
			open[key] = prev[1:]
		} else {
			ref.ID = ids.NextRefID(ref.Kind)
		}
		kept = append(kept, ref)
	}
	rec.Unresolved = kept
	rec.RefSeq = max(ids.RefSeq, existing.RefSeq)

	for _, ability := range existing.Abilities {
		rec.AddAbility(ability)
	}
}

func placeholderKey(kind entities.AbilityKind, name string) string {
	return string(kind) + "|" + matching.Normalize(name)
}
