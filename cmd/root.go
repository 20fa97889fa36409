package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "outreach-engine",
	Short: "Healthcare facility lead scoring and outreach pipeline",
	Long:  "Scrapes facility websites, scores website quality, ranks leads via AI-assisted analysis, and drives a compliance-gated outbound call workflow.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init scaffolds the config file; loading before it exists would
		// bake in defaults and confuse first-time setup.
		if cmd.Name() == "init" {
			return nil
		}

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
