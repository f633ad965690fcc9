package schema

import (
	"fmt"
	"sync"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/cuemby/burrow/pkg/cib"
	"github.com/cuemby/burrow/pkg/types"
)

// Transform rewrites a document in place from one schema version to the
// next catalog entry. Transforms run on a private copy; they may mutate
// freely but must not assume anything beyond the source version's shape.
type Transform func(doc *etree.Document) error

var (
	transformsMu sync.RWMutex
	transforms   = map[string]Transform{}
)

// RegisterTransform installs the upgrade step leaving the named version.
// Steps for released versions are registered at package init; a later
// registration for the same version replaces the earlier one.
func RegisterTransform(from string, t Transform) {
	transformsMu.Lock()
	defer transformsMu.Unlock()
	transforms[from] = t
}

func transformFrom(from string) (Transform, bool) {
	transformsMu.RLock()
	defer transformsMu.RUnlock()
	t, ok := transforms[from]
	return t, ok
}

func init() {
	// burrow-1.1 is a pure superset of burrow-1.0.
	RegisterTransform("burrow-1.0", func(*etree.Document) error { return nil })

	// burrow-2.0 made the cluster identity mandatory.
	RegisterTransform("burrow-1.1", func(doc *etree.Document) error {
		root := doc.Root()
		if root == nil {
			return fmt.Errorf("document has no root: %w", types.ErrInvalidInput)
		}
		if root.SelectAttrValue(cib.AttrClusterID, "") == "" {
			root.CreateAttr(cib.AttrClusterID, uuid.NewString())
		}
		return nil
	})

	// The development schema is a superset of burrow-2.0.
	RegisterTransform("burrow-2.0", func(*etree.Document) error { return nil })
}
