package nvpair

import (
	"errors"
	"time"

	"github.com/beevik/etree"
	"github.com/cuemby/burrow/pkg/rules"
	"golang.org/x/sync/errgroup"
)

// resolveWorkers bounds the unpack fan-out.
const resolveWorkers = 4

// Resolution is the merged configuration of one element.
type Resolution struct {
	ID         string
	Values     map[string]string
	NextChange time.Time
}

// ResolveAll parses and unpacks the blocks under each element, fanning the
// work out across a bounded pool. Results come back in input order, one
// Resolution per element even when its blocks had defects; the joined
// error collects every per-element failure. The elements are only read, so
// they may share a document.
func ResolveAll(elements []*etree.Element, setTag string, idx RuleIndex, in rules.Input, overwrite bool) ([]Resolution, error) {
	results := make([]Resolution, len(elements))
	errs := make([]error, len(elements))

	var g errgroup.Group
	g.SetLimit(resolveWorkers)
	for i, el := range elements {
		g.Go(func() error {
			blocks, perr := ParseBlocks(el, setTag, idx)
			req := &Request{
				Dest:      make(map[string]string),
				Input:     in,
				Overwrite: overwrite,
			}
			uerr := Unpack(blocks, req)

			results[i] = Resolution{
				ID:         el.SelectAttrValue("id", ""),
				Values:     req.Dest,
				NextChange: req.NextChange,
			}
			errs[i] = errors.Join(perr, uerr)
			return nil
		})
	}
	// Failures are recorded per element; the goroutines themselves never
	// return one.
	_ = g.Wait()

	return results, errors.Join(errs...)
}
