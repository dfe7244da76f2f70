package client

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/creature-import/internal/handlers/importer/v1alpha1"
)

var (
	importFile     string
	importExisting string
	importAssign   bool
	importSession  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a creature payload",
	Long:  `Send a payload file to the server, optionally binding unique matches and opening a session.`,
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "payload file (required)")
	importCmd.Flags().StringVar(&importExisting, "existing", "", "re-import over this creature ID")
	importCmd.Flags().BoolVar(&importAssign, "assign", true, "bind uniquely matched abilities")
	importCmd.Flags().BoolVar(&importSession, "session", true, "open a resolution session for the rest")
	_ = importCmd.MarkFlagRequired("file") // nolint:errcheck // safe to ignore in init
}

func runImport(_ *cobra.Command, _ []string) error {
	payload, err := os.ReadFile(importFile) // #nosec G304 -- operator supplied path
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	req := &v1alpha1.ImportCreatureRequest{
		PayloadJSON:        string(payload),
		ExistingCreatureID: importExisting,
		AutoAssign:         importAssign,
		StartSession:       importSession,
	}

	var resp v1alpha1.ImportCreatureResponse
	err = invoke(func(ctx context.Context, c v1alpha1.ImportServiceClient, in *structpb.Struct) (*structpb.Struct, error) {
		return c.ImportCreature(ctx, in, grpc.WaitForReady(true))
	}, req, &resp)
	if err != nil {
		return fmt.Errorf("failed to import creature: %w", err)
	}

	rec := resp.Creature
	fmt.Printf("Creature imported\n\n")
	fmt.Printf("Creature ID: %s\n", rec.ID)
	fmt.Printf("Name: %s (%s)\n", rec.Name, rec.Format)
	fmt.Printf("Resolved: %d, auto-assigned: %d, unresolved: %d\n",
		len(rec.Abilities), len(resp.AutoAssigned), len(rec.Unresolved))
	if resp.Session != nil {
		fmt.Printf("\nSession ID: %s (%d queued)\n", resp.Session.ID, resp.Session.Queued)
		fmt.Printf("Continue with: client present --session-id %s\n", resp.Session.ID)
	}
	return nil
}
