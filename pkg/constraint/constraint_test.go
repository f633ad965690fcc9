package constraint

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/cuemby/burrow/pkg/cib"
	"github.com/cuemby/burrow/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	doc := cib.NewEmptyDocument("burrow-2.0")
	constraints := doc.FindElement(cib.PathConstraints)
	require.NotNil(t, constraints)

	add := func(tag string, attrs map[string]string) {
		el := constraints.CreateElement(tag)
		for k, v := range attrs {
			el.CreateAttr(k, v)
		}
	}
	add("ticket-constraint", map[string]string{"id": "c1", "ticket": "T1", "resource": "db", "loss-policy": "stop"})
	add("ticket-constraint", map[string]string{"id": "c2", "ticket": "T2", "resource": "web", "loss-policy": "fence"})
	add("ticket-constraint", map[string]string{"id": "c3", "ticket": "T2", "resource": "cache", "loss-policy": "stop"})
	add("location-constraint", map[string]string{"id": "l1", "resource": "db", "node": "node-1", "score": "100"})
	add("order-constraint", map[string]string{"id": "o1", "first": "db", "then": "web", "resource": "db"})

	store, err := cib.InitFile(filepath.Join(t.TempDir(), "cluster.xml"), doc)
	require.NoError(t, err)
	return NewService(store)
}

func TestFindByIdentity(t *testing.T) {
	svc := newTestService(t)

	// Three ticket constraints in the store, one naming T1.
	matches, err := svc.Find(KindTicket, "T1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c1", matches[0].SelectAttrValue("id", ""))
	assert.Equal(t, "stop", matches[0].SelectAttrValue("loss-policy", ""))
}

func TestFindAllOfKind(t *testing.T) {
	svc := newTestService(t)

	matches, err := svc.Find(KindTicket, "")
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	matches, err = svc.Find(KindLocation, "")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestFindNoMatches(t *testing.T) {
	svc := newTestService(t)

	matches, err := svc.Find(KindTicket, "T404")
	require.NoError(t, err, "zero payloads is success")
	assert.Empty(t, matches)

	matches, err = svc.Find(KindColocation, "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindFiltersByResourceForNonTicket(t *testing.T) {
	svc := newTestService(t)

	matches, err := svc.Find(KindLocation, "db")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "l1", matches[0].SelectAttrValue("id", ""))
}

func TestFindRejectsBadInput(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Find(Kind("fence"), "")
	assert.True(t, types.IsInvalidInput(err))

	_, err = svc.Find(KindTicket, "T1'] | /etc")
	assert.True(t, types.IsInvalidInput(err), "identities are restricted to a safe charset")
}

func TestFindStoreFailure(t *testing.T) {
	svc := NewService(failingStore{})

	_, err := svc.Find(KindTicket, "T1")
	require.Error(t, err)
	assert.True(t, types.IsStoreUnavailable(err), "store failure is distinct from no matches")
}

func TestTicketNames(t *testing.T) {
	svc := newTestService(t)

	names, err := svc.TicketNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2"}, names, "duplicates collapse, output sorted")
}

func TestParseKind(t *testing.T) {
	for _, good := range []string{"ticket", "location", "colocation", "order"} {
		k, err := ParseKind(good)
		require.NoError(t, err)
		assert.Equal(t, Kind(good), k)
	}

	_, err := ParseKind("quorum")
	assert.True(t, types.IsInvalidInput(err))
}

// failingStore stands in for a store that cannot be reached.
type failingStore struct{}

func (failingStore) Query(string) ([]*etree.Element, error) {
	return nil, fmt.Errorf("query: %w", types.ErrStoreUnavailable)
}

func (failingStore) Document() *etree.Document    { return nil }
func (failingStore) Commit(*etree.Document) error { return types.ErrStoreUnavailable }
func (failingStore) Close() error                 { return nil }
