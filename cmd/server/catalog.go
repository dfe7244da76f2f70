package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/creature-import/internal/catalog"
	"github.com/KirkDiggler/creature-import/internal/catalog/cached"
	"github.com/KirkDiggler/creature-import/internal/catalog/sqlite"
	"github.com/KirkDiggler/creature-import/internal/catalog/yamlpack"
	"github.com/KirkDiggler/creature-import/internal/config"
	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
	"github.com/KirkDiggler/creature-import/internal/index"
	redisclient "github.com/KirkDiggler/creature-import/internal/redis"
)

var loadDir string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the reference catalog",
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load YAML catalog packs into the SQLite catalog",
	Long: `Read every pack in --dir, validate it and replace the matching partitions of the
SQLite catalog given by --db. When Redis is reachable the loaded partitions are
dropped from the catalog cache and running servers rescan them.`,
	RunE: runCatalogLoad,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the partitions of the configured catalog",
	RunE:  runCatalogList,
}

func init() {
	catalogLoadCmd.Flags().StringVar(&loadDir, "dir", "", "directory of YAML packs (required)")
	_ = catalogLoadCmd.MarkFlagRequired("dir") // nolint:errcheck // safe to ignore in init

	catalogCmd.AddCommand(catalogLoadCmd)
	catalogCmd.AddCommand(catalogListCmd)
}

func runCatalogLoad(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	packs, err := yamlpack.LoadAll(ctx, loadDir)
	if err != nil {
		return err
	}
	if len(packs) == 0 {
		return errors.NotFoundf("no packs found in %s", loadDir)
	}

	store, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close catalog store", "error", err)
		}
	}()

	partitions := make([]catalog.Partition, 0, len(packs))
	for p := range packs {
		partitions = append(partitions, p)
	}
	sort.Slice(partitions, func(i, j int) bool { return partitions[i].ID < partitions[j].ID })

	var writer catalog.Writer = store
	for _, p := range partitions {
		if err := writer.Upsert(ctx, p, packs[p]); err != nil {
			return err
		}
		slog.InfoContext(ctx, "partition loaded", "partition", p.ID, "entries", len(packs[p]))
		fmt.Printf("%-24s %5d entries\n", p.ID, len(packs[p]))
	}

	fmt.Printf("\nLoaded %d partitions into %s\n", len(partitions), cfg.SQLitePath)

	ids := make([]string, len(partitions))
	for i, p := range partitions {
		ids[i] = p.ID
	}
	if err := invalidateCatalogCache(ctx, store, ids); err != nil {
		slog.WarnContext(ctx, "running servers keep the old partitions until their index refresh",
			"error", err)
	}
	return nil
}

// invalidateCatalogCache drops the loaded partitions from the shared Redis
// cache and tells running servers to rescan them
func invalidateCatalogCache(ctx context.Context, store catalog.Source, partitionIDs []string) error {
	client, err := redisclient.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close() // nolint:errcheck // safe to ignore on exit
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := redisclient.Ping(pingCtx, client); err != nil {
		return err
	}

	cache, err := cached.New(&cached.Config{
		Source:    store,
		Client:    client,
		Namespace: config.CatalogSQLite,
	})
	if err != nil {
		return err
	}
	return cache.Invalidate(ctx, partitionIDs...)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	stack, err := openCatalog(nil)
	if err != nil {
		return err
	}
	defer stack.close()

	partitions, err := stack.source.ListPartitions(ctx)
	if err != nil {
		return err
	}

	for _, p := range partitions {
		entries, err := stack.source.ScanPartition(ctx, p, catalog.Projection{})
		if err != nil {
			fmt.Printf("%-24s unreadable: %v\n", p.ID, err)
			continue
		}
		fmt.Printf("%-24s %5d entries  %s\n", p.ID, len(entries), p.Label)
	}

	for _, kind := range []entities.AbilityKind{entities.AbilityKindMastery, entities.AbilityKindSpell} {
		entries, err := stack.index.Query(ctx, index.Constraints{Kind: kind, LevelCeiling: index.NoCeiling})
		if err != nil {
			return err
		}
		fmt.Printf("\n%s: %d indexed\n", kind, len(entries))
	}
	return nil
}
