package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/cib"
)

// Document commands: init, validate, upgrade, schemas.

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty cluster configuration document",
	Long: `Create an empty cluster configuration document at the configured
path, stamped with the newest schema version in the catalog and a fresh
cluster identity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if !force {
			if _, err := os.Stat(cfg.CIBFile); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.CIBFile)
			}
		}

		reg, err := newRegistry()
		if err != nil {
			return err
		}
		defer reg.Teardown()

		newest, err := reg.Newest()
		if err != nil {
			return err
		}

		store, err := cib.InitFile(cfg.CIBFile, cib.NewEmptyDocument(newest.Name))
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("✓ Configuration created: %s (schema %s)\n", cfg.CIBFile, newest.Name)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a configuration document against the schema catalog",
	Long: `Validate a configuration document against the schema catalog, trying
versions from oldest to newest. Prints the lowest version the document
satisfies; the exit code reports mismatch or store failure.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.CIBFile
		if len(args) == 1 {
			path = args[0]
		}

		reg, err := newRegistry()
		if err != nil {
			return err
		}
		defer reg.Teardown()

		store, err := cib.OpenFile(path)
		if err != nil {
			return err
		}
		defer store.Close()

		v, err := reg.Validate(store.Document())
		if err != nil {
			return err
		}

		fmt.Printf("✓ Valid: %s satisfies schema %s (ordinal %d)\n", path, v.Name, v.Ordinal)
		return nil
	},
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [file]",
	Short: "Upgrade a configuration document to a newer schema version",
	Long: `Upgrade a configuration document one schema version at a time until
it reaches the requested version (default: newest in the catalog), then
commit the result. The document on disk is untouched if any step fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")

		path := cfg.CIBFile
		if len(args) == 1 {
			path = args[0]
		}

		reg, err := newRegistry()
		if err != nil {
			return err
		}
		defer reg.Teardown()

		if to == "" {
			newest, err := reg.Newest()
			if err != nil {
				return err
			}
			to = newest.Name
		}

		store, err := cib.OpenFile(path)
		if err != nil {
			return err
		}
		defer store.Close()

		before := cib.SchemaName(store.Document())

		upgraded, v, err := reg.Upgrade(store.Document(), to)
		if err != nil {
			return err
		}

		if before == v.Name {
			fmt.Printf("✓ Already at schema %s, nothing to do\n", v.Name)
			return nil
		}

		if err := store.Commit(upgraded); err != nil {
			return err
		}

		fmt.Printf("✓ Upgraded %s: %s → %s\n", path, before, v.Name)
		return nil
	},
}

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List the schema catalog in upgrade order",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		defer reg.Teardown()

		fmt.Printf("%-8s %-20s %s\n", "ORDINAL", "NAME", "SOURCE")
		for _, v := range reg.Versions() {
			source := v.Path()
			if source == "" {
				source = "-"
			}
			fmt.Printf("%-8d %-20s %s\n", v.Ordinal, v.Name, source)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration document")
	upgradeCmd.Flags().String("to", "", "Target schema version (default: newest in catalog)")
}
