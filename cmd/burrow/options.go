package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/attrs"
	"github.com/cuemby/burrow/pkg/cib"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/nvpair"
	"github.com/cuemby/burrow/pkg/rules"
	"github.com/cuemby/burrow/pkg/types"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Resolve the effective cluster options",
	Long: `Resolve the effective cluster options by unpacking every option set
in the configuration: blocks are ordered (bootstrap first, then by score),
gated by their rules against the node's attributes and the evaluation
time, and merged by the overwrite policy. Defective blocks are reported
and skipped; the surviving values still print.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		node, _ := cmd.Flags().GetString("node")
		at, _ := cmd.Flags().GetString("at")
		noOverwrite, _ := cmd.Flags().GetBool("no-overwrite")
		resources, _ := cmd.Flags().GetBool("resources")

		now := time.Now()
		if at != "" {
			parsed, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("parse --at %q: %w: %w", at, err, types.ErrInvalidInput)
			}
			now = parsed
		}

		in := rules.Input{Now: now, Node: node, Attrs: map[string]string{}}
		if node != "" {
			m, err := nodeAttributes(node)
			if err != nil {
				return err
			}
			in.Attrs = m
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		idx := nvpair.IndexRules(store.Document().Root())

		if resources {
			return resolveResourceMeta(store, idx, in, !noOverwrite)
		}
		return resolveClusterOptions(store, idx, in, !noOverwrite)
	},
}

// nodeAttributes loads the merged attribute map of a node. A node the
// store has never seen evaluates against an empty map rather than failing.
func nodeAttributes(node string) (map[string]string, error) {
	store, err := attrs.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	m, err := store.Map(node)
	if err != nil {
		if types.IsNotFound(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return m, nil
}

func resolveClusterOptions(store cib.Store, idx nvpair.RuleIndex, in rules.Input, overwrite bool) error {
	sections, err := store.Query(cib.PathOptions)
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		fmt.Println("No options section in configuration.")
		return nil
	}

	blocks, err := nvpair.ParseBlocks(sections[0], nvpair.TagOptionSet, idx)
	if err != nil {
		log.Warn(fmt.Sprintf("defective option blocks skipped: %v", err))
	}

	req := &nvpair.Request{
		Dest:      map[string]string{},
		First:     cib.BootstrapOptions,
		Input:     in,
		Overwrite: overwrite,
	}
	if err := nvpair.Unpack(blocks, req); err != nil {
		log.Warn(fmt.Sprintf("some option blocks did not apply: %v", err))
	}

	printValues("", req.Dest)
	if !req.NextChange.IsZero() {
		fmt.Printf("\nNext change: %s\n", req.NextChange.Format(time.RFC3339))
	}
	return nil
}

func resolveResourceMeta(store cib.Store, idx nvpair.RuleIndex, in rules.Input, overwrite bool) error {
	elems, err := store.Query(cib.PathResources + "/" + cib.TagResource)
	if err != nil {
		return err
	}
	if len(elems) == 0 {
		fmt.Println("No resources in configuration.")
		return nil
	}

	resolutions, err := nvpair.ResolveAll(elems, nvpair.TagMetaSet, idx, in, overwrite)
	if err != nil {
		log.Warn(fmt.Sprintf("some meta blocks did not apply: %v", err))
	}

	for i, res := range resolutions {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s:\n", res.ID)
		printValues("  ", res.Values)
		if !res.NextChange.IsZero() {
			fmt.Printf("  (next change: %s)\n", res.NextChange.Format(time.RFC3339))
		}
	}
	return nil
}

func printValues(indent string, values map[string]string) {
	if len(values) == 0 {
		fmt.Printf("%s(no values)\n", indent)
		return
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s%-24s %s\n", indent, name, values[name])
	}
}

func init() {
	optionsCmd.Flags().String("node", "", "Resolve for this node's attribute map")
	optionsCmd.Flags().String("at", "", "Evaluate rules at this RFC3339 time instead of now")
	optionsCmd.Flags().Bool("no-overwrite", false, "First write wins instead of last")
	optionsCmd.Flags().Bool("resources", false, "Resolve resource meta attributes instead of cluster options")
}
