package nvpair

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/rules"
	"github.com/cuemby/burrow/pkg/types"
)

// RuleIndex resolves <rule ref="..."/> references by rule ID.
type RuleIndex map[string]*rules.Rule

// IndexRules collects every parseable <rule> element below root, keyed by
// ID. Reference stubs and rules that fail to parse are left out, so a
// lookup miss at unpack time covers both "no such rule" and "rule is
// broken".
func IndexRules(root *etree.Element) RuleIndex {
	idx := make(RuleIndex)
	if root == nil {
		return idx
	}

	logger := log.WithComponent("nvpair")
	for _, el := range root.FindElements(".//" + rules.TagRule) {
		id := el.SelectAttrValue("id", "")
		if id == "" || el.SelectAttrValue(rules.AttrRef, "") != "" {
			continue
		}
		r, err := rules.ParseRule(el)
		if err != nil {
			logger.Debug().Str("rule", id).Err(err).Msg("skipping unparseable rule")
			continue
		}
		idx[id] = r
	}
	return idx
}

// ParseBlocks decodes the name/value blocks directly under parent that
// carry the given set tag. Malformed pieces degrade instead of aborting:
// an unparseable score leaves the block at score zero, a broken or
// unresolvable rule marks the block RuleMissing, and every such defect is
// reported in the joined error while the remaining blocks come back
// intact.
func ParseBlocks(parent *etree.Element, setTag string, idx RuleIndex) ([]Block, error) {
	if parent == nil {
		return nil, nil
	}

	var blocks []Block
	var errs []error
	for _, setEl := range parent.ChildElements() {
		if setEl.Tag != setTag {
			continue
		}

		block := Block{ID: setEl.SelectAttrValue("id", "")}

		if s := setEl.SelectAttrValue("score", ""); s != "" {
			score, err := types.ParseScore(s)
			if err != nil {
				errs = append(errs, fmt.Errorf("block %q: %w", block.ID, err))
			} else {
				block.Score = score
			}
		}

		if ruleEl := setEl.SelectElement(rules.TagRule); ruleEl != nil {
			if ref := ruleEl.SelectAttrValue(rules.AttrRef, ""); ref != "" {
				r, ok := idx[ref]
				if !ok {
					block.RuleMissing = true
					errs = append(errs, fmt.Errorf("block %q: rule ref %q does not resolve: %w",
						block.ID, ref, types.ErrInvalidInput))
				}
				block.Rule = r
			} else {
				r, err := rules.ParseRule(ruleEl)
				if err != nil {
					block.RuleMissing = true
					errs = append(errs, fmt.Errorf("block %q: %w", block.ID, err))
				}
				block.Rule = r
			}
		}

		for _, child := range setEl.ChildElements() {
			if child.Tag != tagPair {
				continue
			}
			block.Pairs = append(block.Pairs, Pair{
				Name:  child.SelectAttrValue("name", ""),
				Value: child.SelectAttrValue("value", ""),
			})
		}

		blocks = append(blocks, block)
	}

	return blocks, errors.Join(errs...)
}
