package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/cib"
	"github.com/cuemby/burrow/pkg/config"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/schema"
	"github.com/cuemby/burrow/pkg/types"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// cfg is the effective process configuration, loaded before any command
// body runs.
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(types.ExitCode(err)))
	}
}

var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "Burrow - configuration resolution core for HA clusters",
	Long: `Burrow resolves the configuration an HA resource manager runs with:
it validates and upgrades the cluster document against a schema catalog,
evaluates time and attribute rules, and flattens scored name/value blocks
into the effective option set for a node.`,
	Version: Version,

	// Errors map to result codes in main; cobra must not print or
	// dump usage on its own.
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")
		jsonLog, _ := cmd.Flags().GetBool("json-log")

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		log.Init(log.Config{
			Level:      log.Level(level),
			JSONOutput: cfg.Log.JSONOutput || jsonLog,
			Output:     os.Stderr,
		})
		return nil
	},
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Burrow version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("config", "", "Path to burrow config file (YAML)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json-log", false, "Log as JSON instead of console output")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(schemasCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(constraintsCmd)
	rootCmd.AddCommand(ticketCmd)
	rootCmd.AddCommand(attributeCmd)
}

// newRegistry builds and initializes a schema registry from the process
// configuration. The caller owns the teardown.
func newRegistry() (*schema.Registry, error) {
	reg := schema.NewRegistry(schema.Config{
		Dir:       cfg.SchemaDir,
		ExtraDirs: cfg.ExtraSchemaDirs,
	})
	if err := reg.Init(); err != nil {
		return nil, err
	}
	return reg, nil
}

// openStore opens the configured cluster document.
func openStore() (*cib.FileStore, error) {
	return cib.OpenFile(cfg.CIBFile)
}
