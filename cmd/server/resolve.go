package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/index"
	"github.com/KirkDiggler/creature-import/internal/orchestrators/resolver"
)

var (
	resolveName    string
	resolveKind    string
	resolveSkill   string
	resolveCeiling int
	resolveGuess   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve an ability name against the catalog",
	Long:  `Run the resolver for a single name and print the outcome and its candidates.`,
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveName, "name", "", "ability name (required)")
	resolveCmd.Flags().StringVar(&resolveKind, "kind", string(entities.AbilityKindMastery), "ability kind (mastery, spell)")
	resolveCmd.Flags().StringVar(&resolveSkill, "skill", "", "skill hint, none for general abilities")
	resolveCmd.Flags().IntVar(&resolveCeiling, "ceiling", index.NoCeiling, "highest level or grade, negative for none")
	resolveCmd.Flags().BoolVar(&resolveGuess, "guess", false, "also print the best single guess")
	_ = resolveCmd.MarkFlagRequired("name") // nolint:errcheck // safe to ignore in init
}

func runResolve(cmd *cobra.Command, _ []string) error {
	stack, err := openCatalog(nil)
	if err != nil {
		return err
	}
	defer stack.close()

	res, err := resolver.NewOrchestrator(&resolver.Config{Index: stack.index, Mapping: stack.mapping})
	if err != nil {
		return err
	}

	kind := entities.AbilityKind(resolveKind)
	out, err := res.Resolve(cmd.Context(), &resolver.ResolveInput{
		Name:         resolveName,
		Kind:         kind,
		SkillHint:    entities.SkillKey(resolveSkill),
		LevelCeiling: resolveCeiling,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Outcome: %s\n", out.Outcome)
	if out.Entry != nil {
		fmt.Printf("Matched: %s (%s)\n", out.Entry.Name, out.Entry.UniqueID())
	}
	for _, c := range out.Candidates {
		marker := " "
		if c.IsExact {
			marker = "="
		}
		fmt.Printf("  %s %.3f  %-32s %-14s %d  %s\n",
			marker, c.Score, c.Entry.Name, stack.mapping.Label(c.Entry.Skill), c.Entry.Level, c.Entry.UniqueID())
	}

	if resolveGuess {
		guess, err := res.BestGuess(cmd.Context(), &resolver.BestGuessInput{
			Name:         resolveName,
			Kind:         kind,
			LevelCeiling: resolveCeiling,
		})
		if err != nil {
			return err
		}
		if guess.Found {
			fmt.Printf("Best guess: %s with %s (%.3f)\n",
				guess.Entry.Name, stack.mapping.Label(guess.Skill), guess.Score)
		} else {
			fmt.Printf("Best guess: none\n")
		}
	}
	return nil
}
