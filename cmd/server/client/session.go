package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/creature-import/internal/handlers/importer/v1alpha1"
)

var (
	sessionID string

	requerySkill   string
	requeryGroup   string
	requeryCeiling int

	decideItemID   string
	decideDecision string
	decideEntryID  string
	decideSkill    string
)

var presentCmd = &cobra.Command{
	Use:   "present",
	Short: "Present the next unresolved ability of a session",
	RunE:  runPresent,
}

var requeryCmd = &cobra.Command{
	Use:   "requery",
	Short: "Search the presented ability with another skill, group or ceiling",
	RunE:  runRequery,
}

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Assign, skip or abort the presented ability",
	Long: `Answer the presented ability. assign needs --entry-id, skip tags the placeholder
for later, abort ends the session leaving everything unresolved tagged.`,
	RunE: runDecide,
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show a session and the ability it is presenting",
	RunE:  runSession,
}

func init() {
	for _, cmd := range []*cobra.Command{presentCmd, requeryCmd, decideCmd, sessionCmd} {
		cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
		_ = cmd.MarkFlagRequired("session-id") // nolint:errcheck // safe to ignore in init
	}

	requeryCmd.Flags().StringVar(&requerySkill, "skill", "", "skill to search, none for general abilities")
	requeryCmd.Flags().StringVar(&requeryGroup, "group", "", "skill group to browse")
	requeryCmd.Flags().IntVar(&requeryCeiling, "ceiling", 0, "highest level or grade, negative for none")

	decideCmd.Flags().StringVar(&decideItemID, "item-id", "", "ID of the presented item")
	decideCmd.Flags().StringVar(&decideDecision, "decision", "", "assign, skip or abort (required)")
	decideCmd.Flags().StringVar(&decideEntryID, "entry-id", "", "catalog entry to assign")
	decideCmd.Flags().StringVar(&decideSkill, "skill", "", "skill to assign the entry with")
	_ = decideCmd.MarkFlagRequired("decision") // nolint:errcheck // safe to ignore in init
}

func runPresent(_ *cobra.Command, _ []string) error {
	var resp v1alpha1.SessionResponse
	err := invoke(func(ctx context.Context, c v1alpha1.ImportServiceClient, in *structpb.Struct) (*structpb.Struct, error) {
		return c.PresentNext(ctx, in, grpc.WaitForReady(true))
	}, &v1alpha1.SessionRequest{SessionID: sessionID}, &resp)
	if err != nil {
		return fmt.Errorf("failed to present next item: %w", err)
	}

	printSession(&resp)
	return nil
}

func runRequery(cmd *cobra.Command, _ []string) error {
	req := &v1alpha1.RequeryRequest{
		SessionID: sessionID,
		Skill:     requerySkill,
		Group:     requeryGroup,
	}
	if cmd.Flags().Changed("ceiling") {
		req.LevelCeiling = &requeryCeiling
	}

	var resp v1alpha1.SessionResponse
	err := invoke(func(ctx context.Context, c v1alpha1.ImportServiceClient, in *structpb.Struct) (*structpb.Struct, error) {
		return c.Requery(ctx, in, grpc.WaitForReady(true))
	}, req, &resp)
	if err != nil {
		return fmt.Errorf("failed to requery: %w", err)
	}

	printSession(&resp)
	return nil
}

func runDecide(_ *cobra.Command, _ []string) error {
	req := &v1alpha1.DecideRequest{
		SessionID: sessionID,
		ItemID:    decideItemID,
		Decision:  decideDecision,
		EntryID:   decideEntryID,
		Skill:     decideSkill,
	}

	var resp v1alpha1.SessionResponse
	err := invoke(func(ctx context.Context, c v1alpha1.ImportServiceClient, in *structpb.Struct) (*structpb.Struct, error) {
		return c.Decide(ctx, in, grpc.WaitForReady(true))
	}, req, &resp)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", strings.ToLower(decideDecision), err)
	}

	printSession(&resp)
	return nil
}

func runSession(_ *cobra.Command, _ []string) error {
	var resp v1alpha1.SessionResponse
	err := invoke(func(ctx context.Context, c v1alpha1.ImportServiceClient, in *structpb.Struct) (*structpb.Struct, error) {
		return c.GetSession(ctx, in, grpc.WaitForReady(true))
	}, &v1alpha1.SessionRequest{SessionID: sessionID}, &resp)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	printSession(&resp)
	return nil
}

func printSession(resp *v1alpha1.SessionResponse) {
	if s := resp.Session; s != nil {
		fmt.Printf("Session %s (creature %s): %s, %d queued\n", s.ID, s.CreatureID, s.State, s.Queued)
	}

	if p := resp.Presentation; p != nil {
		fmt.Printf("\nItem %s: %s (%s)\n", p.Item.ID, p.Item.Name, p.Item.Kind)
		fmt.Printf("Filter: skill=%q group=%q ceiling=%d\n", p.Filter.Skill, p.Filter.Group, p.Filter.LevelCeiling)
		fmt.Printf("Outcome: %s, %d remaining after this one\n", p.Outcome, p.Remaining)
		if p.Suggested != nil {
			fmt.Printf("Suggested: %s (%s)\n", p.Suggested.Name, p.Suggested.EntryID)
		}
		if p.SuggestedSkill != "" {
			fmt.Printf("Suggested skill: %s\n", p.SuggestedSkill)
		}
		if len(p.Candidates) > 0 {
			fmt.Printf("\nCandidates:\n")
			for _, c := range p.Candidates {
				fmt.Printf("  %.3f  %-32s %-16s %d  %s\n", c.Score, c.Name, c.Skill, c.Level, c.EntryID)
			}
		}
		if len(p.Browse) > 0 {
			fmt.Printf("\nBrowse (%d):\n", len(p.Browse))
			for _, b := range p.Browse {
				fmt.Printf("  %-32s %-16s %d  %s\n", b.Name, b.Skill, b.Grade, b.EntryID)
			}
		}
	}

	if r := resp.Report; r != nil {
		fmt.Printf("\nReport: %s\n", r.State)
		fmt.Printf("  assigned:  %d\n", len(r.Assigned))
		fmt.Printf("  skipped:   %d\n", len(r.Skipped))
		fmt.Printf("  removed:   %d\n", len(r.Removed))
		fmt.Printf("  discarded: %d\n", len(r.Discarded))
		if r.Partial {
			fmt.Printf("  partial, %d left unresolved\n", r.Remaining)
		}
	}
}
