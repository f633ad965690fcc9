/*
Package attrs provides BoltDB-backed persistence for per-node attributes.

Node attributes are the dynamic half of rule evaluation: rules compare
against them, and the unpacker re-resolves blocks when they change. The
store splits attributes by lifetime so that transient state (connectivity,
standby mode) disappears on node rejoin while placement hints survive.

# Architecture

	┌──────────────── ATTRIBUTE STORE ────────────────┐
	│                                                  │
	│  File: <dataDir>/attributes.db                   │
	│                                                  │
	│  ┌────────────────────────────────┐              │
	│  │          Buckets               │              │
	│  │  nodes          (name → record)│              │
	│  │  attrs_forever  (name → map)   │              │
	│  │  attrs_reboot   (name → map)   │              │
	│  └────────────────────────────────┘              │
	│                                                  │
	│  Values are JSON: a node record carries the      │
	│  stable UUID, attribute buckets carry one        │
	│  map[string]string per node.                     │
	└──────────────────────────────────────────────────┘

# Lifetimes

forever:
  - Survives until explicitly deleted
  - Placement hints, site labels, capacity markers

reboot:
  - Dropped by ClearReboot when the node rejoins
  - Standby flags, maintenance markers, probe results

Reads merge both layers with reboot taking precedence, so a transient
override temporarily shadows the durable value instead of destroying it.

# Usage

	store, err := attrs.Open("/var/lib/burrow")
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.EnsureNode("node-1")
	if err != nil {
		return err
	}

	_ = store.Set("node-1", "site", "east", attrs.LifetimeForever)
	_ = store.Set("node-1", "standby", "on", attrs.LifetimeReboot)

	// Merged view for rule evaluation.
	m, err := store.Map("node-1")
	res, err := rules.Evaluate(rule, rules.Input{Now: now, Node: "node-1", Attrs: m})

# Integration Points

This package integrates with:

  - pkg/rules: Map feeds Input.Attrs for attribute expressions
  - pkg/nvpair: attribute changes prompt block re-resolution
  - pkg/events: writes that change state are announced on the wired broker
  - pkg/metrics: operation counters and the node-count collector

# See Also

  - pkg/rules for the expressions that consume attribute maps
  - BoltDB documentation: https://github.com/etcd-io/bbolt
*/
package attrs
