package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/normalizer"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/importer"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/resolver"
)

var (
	importFile     string
	importAssign   bool
	importSession  bool
	importExisting string
	importDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a creature payload",
	Long: `Normalize a creature payload and store it. With --assign every placeholder the
resolver matches uniquely is bound right away. With --dry-run nothing is stored and
the normalized record is printed together with the resolver's view of each placeholder.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "payload file (required)")
	importCmd.Flags().BoolVar(&importAssign, "assign", false, "bind uniquely matched abilities")
	importCmd.Flags().BoolVar(&importSession, "session", false, "open a resolution session for the rest")
	importCmd.Flags().StringVar(&importExisting, "existing", "", "re-import over this creature ID")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "normalize and resolve without storing")
	_ = importCmd.MarkFlagRequired("file") // nolint:errcheck // safe to ignore in init
}

func runImport(cmd *cobra.Command, _ []string) error {
	payload, err := os.ReadFile(importFile) // #nosec G304 -- operator supplied path
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if importDryRun {
		return dryRunImport(ctx, payload)
	}

	svc, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer svc.close()

	out, err := svc.importer.Import(ctx, &importer.ImportInput{
		Payload:            payload,
		ExistingCreatureID: importExisting,
		AutoAssign:         importAssign,
		StartSession:       importSession,
	})
	if err != nil {
		return err
	}

	rec := out.Creature
	fmt.Printf("Creature ID: %s\n", rec.ID)
	fmt.Printf("Name: %s (%s)\n", rec.Name, rec.Format)
	if out.Reimported {
		fmt.Printf("Re-imported over the stored creature\n")
	}
	fmt.Printf("Abilities: %d resolved, %d auto-assigned, %d unresolved\n",
		len(rec.Abilities), len(out.AutoAssigned), len(rec.Unresolved))
	for _, a := range out.AutoAssigned {
		fmt.Printf("  + %s -> %s\n", a.SourceName, a.Entry.UniqueID())
	}
	for _, u := range rec.Unresolved {
		fmt.Printf("  ? %s (%s)\n", u.Name, u.Kind)
	}
	if out.Session != nil {
		fmt.Printf("\nResolution session: %s (%d queued)\n", out.Session.ID, len(out.Session.Queue))
	}
	return nil
}

type dryRunItem struct {
	Ref        entities.UnresolvedAbilityRef `json:"ref"`
	Outcome    resolver.Outcome              `json:"outcome"`
	Candidates []entities.MatchCandidate     `json:"candidates,omitempty"`
}

type dryRunOutput struct {
	Creature   *entities.CreatureRecord `json:"creature"`
	Resolution []dryRunItem             `json:"resolution,omitempty"`
}

func dryRunImport(ctx context.Context, payload []byte) error {
	stack, err := openCatalog(nil)
	if err != nil {
		return err
	}
	defer stack.close()

	norm, err := normalizer.New(&normalizer.Config{Mapping: stack.mapping})
	if err != nil {
		return err
	}
	rec, err := norm.Normalize(ctx, payload)
	if err != nil {
		return err
	}

	res, err := resolver.NewOrchestrator(&resolver.Config{Index: stack.index, Mapping: stack.mapping})
	if err != nil {
		return err
	}

	out := dryRunOutput{Creature: rec}
	if importAssign {
		for _, u := range rec.Unresolved {
			resolved, err := res.Resolve(ctx, &resolver.ResolveInput{
				Name:         u.Name,
				Kind:         u.Kind,
				SkillHint:    u.SkillHint,
				LevelCeiling: u.LevelCeiling,
			})
			if err != nil {
				return err
			}
			out.Resolution = append(out.Resolution, dryRunItem{
				Ref:        u,
				Outcome:    resolved.Outcome,
				Candidates: resolved.Candidates,
			})
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
