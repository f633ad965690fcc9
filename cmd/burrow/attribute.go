package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/attrs"
)

var attributeCmd = &cobra.Command{
	Use:   "attribute",
	Short: "Manage node attributes",
	Long: `Manage the per-node attributes that rules evaluate against.
Attributes live in the node-local store under the configured data
directory, split by lifetime: forever values survive until deleted,
reboot values are dropped when the node rejoins.`,
}

var attributeGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Print one attribute of a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		node, _ := cmd.Flags().GetString("node")

		store, err := attrs.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		value, err := store.Get(node, args[0])
		if err != nil {
			return err
		}

		fmt.Println(value)
		return nil
	},
}

var attributeSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Set one attribute of a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		node, _ := cmd.Flags().GetString("node")
		value, _ := cmd.Flags().GetString("value")
		lifetime, _ := cmd.Flags().GetString("lifetime")

		lt, err := attrs.ParseLifetime(lifetime)
		if err != nil {
			return err
		}

		store, err := attrs.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Set(node, args[0], value, lt); err != nil {
			return err
		}

		fmt.Printf("✓ %s=%s on %s (%s)\n", args[0], value, node, lt)
		return nil
	},
}

var attributeDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete one attribute of a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		node, _ := cmd.Flags().GetString("node")
		lifetime, _ := cmd.Flags().GetString("lifetime")

		lt, err := attrs.ParseLifetime(lifetime)
		if err != nil {
			return err
		}

		store, err := attrs.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(node, args[0], lt); err != nil {
			return err
		}

		fmt.Printf("✓ %s removed from %s (%s)\n", args[0], node, lt)
		return nil
	},
}

var attributeListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the merged attribute map of a node",
	RunE: func(cmd *cobra.Command, args []string) error {
		node, _ := cmd.Flags().GetString("node")

		store, err := attrs.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		m, err := store.Map(node)
		if err != nil {
			return err
		}

		printValues("", m)
		return nil
	},
}

func init() {
	attributeCmd.AddCommand(attributeGetCmd)
	attributeCmd.AddCommand(attributeSetCmd)
	attributeCmd.AddCommand(attributeDeleteCmd)
	attributeCmd.AddCommand(attributeListCmd)

	attributeCmd.PersistentFlags().String("node", "", "Node the attribute belongs to (required)")
	_ = attributeCmd.MarkPersistentFlagRequired("node")

	attributeSetCmd.Flags().String("value", "", "Attribute value")
	_ = attributeSetCmd.MarkFlagRequired("value")

	attributeSetCmd.Flags().String("lifetime", "forever", "Attribute lifetime: forever or reboot")
	attributeDeleteCmd.Flags().String("lifetime", "forever", "Attribute lifetime: forever or reboot")
}
