// Package main is the entry point for the creature import server and CLI
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/creature-import/cmd/server/client"
	"github.com/KirkDiggler/creature-import/internal/config"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "creature-import",
	Short: "Creature statblock import and ability resolution",
	Long: `creature-import normalizes creature statblocks exported by the supported editors,
binds their masteries and spells to the reference catalog and walks an operator
through whatever could not be resolved automatically.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.String("mapping", "", "mapping configuration file, the embedded default when empty")
	flags.String("redis", "localhost:6379", "Redis address")
	flags.String("catalog", config.CatalogYAML, "catalog source (yaml, sqlite, srd)")
	flags.String("catalog-dir", "catalog", "directory of YAML catalog packs")
	flags.String("db", "catalog.db", "SQLite catalog database")
	flags.String("srd-url", "https://www.dnd5eapi.co/api/2014/", "SRD API base URL")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(client.ClientCmd)
}

// loadConfig reads the environment and lets explicitly set flags win
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	overrideString := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name) // nolint:errcheck // flag is registered above
		}
	}
	overrideString("log-level", &loaded.LogLevel)
	overrideString("log-format", &loaded.LogFormat)
	overrideString("mapping", &loaded.MappingFile)
	overrideString("redis", &loaded.RedisAddr)
	overrideString("catalog", &loaded.Catalog)
	overrideString("catalog-dir", &loaded.CatalogDir)
	overrideString("db", &loaded.SQLitePath)
	overrideString("srd-url", &loaded.SRDBaseURL)
	if flags.Changed("port") {
		loaded.GRPCPort, _ = flags.GetInt("port") // nolint:errcheck // only registered on server
	}
	if flags.Changed("session-ttl") {
		loaded.SessionTTL, _ = flags.GetDuration("session-ttl") // nolint:errcheck // only registered on server
	}
	if flags.Changed("index-refresh") {
		loaded.IndexRefresh, _ = flags.GetDuration("index-refresh") // nolint:errcheck // only registered on server
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	logger = cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return nil
}
