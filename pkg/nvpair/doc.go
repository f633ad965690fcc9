// Package nvpair merges scored, rule-gated blocks of name/value pairs into
// flat configuration maps.
//
// Cluster options and per-resource metadata are written as blocks: each
// block carries an optional score, an optional gating rule, and a list of
// pairs. Unpack flattens a set of blocks into one map under a
// deterministic precedence:
//
//	1. the block named by Request.First, if any
//	2. remaining blocks by score, highest first
//	3. equal ranks keep document order
//
// With Request.Overwrite set, later blocks replace earlier writes; without
// it, the first write of a name wins. Pairs whose value is the "#default"
// sentinel (any case) are dropped rather than stored, so a block can
// explicitly decline to override without planting the literal string.
//
// # Rule Gating and Re-resolution
//
// A block with a rule only applies while the rule is satisfied. Skipped
// blocks still fold their rule's next-change time into Request.NextChange,
// which accumulates the earliest instant any verdict could flip. Callers
// re-run the unpack at that time instead of polling:
//
//	req := &nvpair.Request{Dest: map[string]string{}, Input: in}
//	if err := nvpair.Unpack(blocks, req); err != nil { ... }
//	if !req.NextChange.IsZero() { scheduleAt(req.NextChange) }
//
// Blocks whose rule is missing, unresolvable, or failing apply nothing and
// fail closed; the merge still completes for the healthy blocks and the
// returned error joins every defect.
//
// # Document Form
//
// ParseBlocks decodes blocks from <option-set> / <meta-set> elements, and
// IndexRules builds the document-wide index that resolves <rule ref="..."/>
// references. ResolveAll runs the parse/unpack pipeline for a list of
// elements concurrently, one Resolution per element.
package nvpair
