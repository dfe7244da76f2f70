// Package client provides commands that drive a remote creature import
// server over gRPC
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/handlers/importer/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for the import service",
	Long:  `Client commands import payloads and walk resolution sessions on a running server.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(importCmd)
	ClientCmd.AddCommand(presentCmd)
	ClientCmd.AddCommand(requeryCmd)
	ClientCmd.AddCommand(decideCmd)
	ClientCmd.AddCommand(sessionCmd)
}

// createImportClient creates an import service client
func createImportClient() (v1alpha1.ImportServiceClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewImportServiceClient(conn), cleanup, nil
}

type call func(ctx context.Context, client v1alpha1.ImportServiceClient, in *structpb.Struct) (*structpb.Struct, error)

// invoke encodes req, runs fn and decodes the answer into resp
func invoke(fn call, req, resp any) error {
	client, cleanup, err := createImportClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	in, err := v1alpha1.Encode(req)
	if err != nil {
		return err
	}

	out, err := fn(ctx, client, in)
	if err != nil {
		return describe(errors.FromGRPCError(err))
	}

	return v1alpha1.Decode(out, resp)
}

// describe adds the offending field of payload errors
func describe(err error) error {
	if field := errors.FormatField(err); field != "" {
		return fmt.Errorf("%w (field %s)", err, field)
	}
	return err
}
