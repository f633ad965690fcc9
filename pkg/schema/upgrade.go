package schema

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"
	"github.com/jacoelho/xsd"

	"github.com/cuemby/burrow/pkg/cib"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/metrics"
	"github.com/cuemby/burrow/pkg/types"
)

// Upgrade transforms the document from its current matched version up to
// the named target, one catalog step at a time. Each step runs the
// registered transform, restamps the root's schema attribute, and
// revalidates against the step's version before moving on.
//
// The input document is never touched: all work happens on a copy that is
// only returned on full success, so a failing chain leaves no partial
// mutation visible to the caller. Upgrading a document to the version it
// already matches returns it as is.
func (r *Registry) Upgrade(doc *etree.Document, to string) (*etree.Document, Version, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.SchemaUpgradeDuration)

	work, target, err := r.upgrade(doc, to)
	if err != nil {
		metrics.SchemaUpgradesTotal.WithLabelValues("failure").Inc()
		return nil, Version{}, err
	}
	metrics.SchemaUpgradesTotal.WithLabelValues("success").Inc()
	return work, target, nil
}

func (r *Registry) upgrade(doc *etree.Document, to string) (*etree.Document, Version, error) {
	current, err := r.Validate(doc)
	if err != nil {
		return nil, Version{}, err
	}
	target, err := r.ByName(to)
	if err != nil {
		return nil, Version{}, err
	}
	if !target.Validates() {
		return nil, Version{}, fmt.Errorf("cannot upgrade to %q: not a validatable version: %w", to, types.ErrInvalidInput)
	}
	if target.Ordinal < current.Ordinal {
		return nil, Version{}, fmt.Errorf("cannot downgrade %q to %q: %w", current.Name, target.Name, types.ErrInvalidInput)
	}
	if target.Ordinal == current.Ordinal {
		return doc, current, nil
	}

	logger := log.WithComponent("schema")
	work := doc.Copy()

	for ord := current.Ordinal; ord < target.Ordinal; ord++ {
		from, err := r.ByOrdinal(ord)
		if err != nil {
			return nil, Version{}, err
		}
		next, err := r.ByOrdinal(ord + 1)
		if err != nil {
			return nil, Version{}, err
		}

		step, ok := transformFrom(from.Name)
		if !ok {
			return nil, Version{}, fmt.Errorf("no transform defined from %q: %w", from.Name, types.ErrInvalidInput)
		}
		if err := step(work); err != nil {
			return nil, Version{}, fmt.Errorf("transform from %q: %w", from.Name, err)
		}
		work.Root().CreateAttr(cib.AttrSchema, next.Name)

		sch := r.schemaFor(next.Name)
		if sch == nil {
			return nil, Version{}, fmt.Errorf("no schema behind %q: %w", next.Name, types.ErrInvalidInput)
		}
		raw, err := work.WriteToBytes()
		if err != nil {
			return nil, Version{}, fmt.Errorf("serialize document: %w: %w", err, types.ErrInvalidInput)
		}
		if err := sch.Validate(bytes.NewReader(raw)); err != nil {
			return nil, Version{}, fmt.Errorf("transformed document does not satisfy %q: %w: %w",
				next.Name, err, types.ErrSchemaMismatch)
		}

		logger.Debug().Str("from", from.Name).Str("to", next.Name).Msg("schema step applied")
	}

	return work, target, nil
}

func (r *Registry) schemaFor(name string) *xsd.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byName[name]
	if !ok {
		return nil
	}
	return r.versions[i].sch
}

// Newest returns the highest numbered release in the catalog, skipping the
// development and terminal entries. New documents are stamped with it.
func (r *Registry) Newest() (Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.versions) - 1; i >= 0; i-- {
		if r.versions[i].key.rank == 0 {
			return r.versions[i], nil
		}
	}
	return Version{}, fmt.Errorf("catalog has no numbered release: %w", types.ErrNotFound)
}
