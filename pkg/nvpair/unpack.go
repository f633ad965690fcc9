package nvpair

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/rules"
	"github.com/cuemby/burrow/pkg/types"
)

// Unpack merges the blocks' pairs into req.Dest.
//
// Blocks apply in a deterministic order: the block named by req.First comes
// ahead of everything else, the rest sort by score descending, and blocks
// of equal rank keep their input order. With req.Overwrite a later block's
// pair replaces an earlier write; without it the first write wins.
//
// A block whose rule is unsatisfied contributes no pairs but still folds
// its rule's next-change time into req.NextChange. Blocks with a missing
// rule or a failing evaluation are skipped and reported; the merge
// completes best-effort and the error joins everything that went wrong.
// An empty block list is a successful no-op.
func Unpack(blocks []Block, req *Request) error {
	if req == nil || req.Dest == nil {
		return fmt.Errorf("unpack: no destination map: %w", types.ErrInvalidInput)
	}
	if len(blocks) == 0 {
		return nil
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.UnpackDuration)

	var errs []error
	for _, block := range order(blocks, req.First) {
		if block.RuleMissing {
			metrics.UnpackBlocksTotal.WithLabelValues(metrics.BlockInvalid).Inc()
			errs = append(errs, fmt.Errorf("block %q: rule missing or unresolved: %w", block.ID, types.ErrInvalidInput))
			continue
		}

		if block.Rule != nil {
			res, err := rules.Evaluate(block.Rule, req.Input)
			// Unsatisfied blocks still tell us when to look again.
			req.NextChange = rules.Earliest(req.NextChange, res.NextChange)
			if err != nil {
				metrics.RuleEvaluationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
				metrics.UnpackBlocksTotal.WithLabelValues(metrics.BlockInvalid).Inc()
				errs = append(errs, fmt.Errorf("block %q: %w", block.ID, err))
				continue
			}
			if !res.Satisfied {
				metrics.RuleEvaluationsTotal.WithLabelValues(metrics.OutcomeUnsatisfied).Inc()
				metrics.UnpackBlocksTotal.WithLabelValues(metrics.BlockSkipped).Inc()
				continue
			}
			metrics.RuleEvaluationsTotal.WithLabelValues(metrics.OutcomeSatisfied).Inc()
		}

		for _, p := range block.Pairs {
			if !req.Overwrite {
				if _, exists := req.Dest[p.Name]; exists {
					continue
				}
			}
			Insert(req.Dest, p.Name, p.Value)
		}
		metrics.UnpackBlocksTotal.WithLabelValues(metrics.BlockApplied).Inc()
	}

	return errors.Join(errs...)
}

// order returns the blocks in application order without disturbing the
// caller's slice. The sort is stable so equally scored blocks keep their
// document order.
func order(blocks []Block, first string) []Block {
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if first != "" {
			if a.ID == first && b.ID != first {
				return true
			}
			if b.ID == first && a.ID != first {
				return false
			}
		}
		return a.Score > b.Score
	})
	return sorted
}
