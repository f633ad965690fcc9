package integration

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/burrow/pkg/attrs"
	"github.com/cuemby/burrow/pkg/cib"
	"github.com/cuemby/burrow/pkg/constraint"
	"github.com/cuemby/burrow/pkg/events"
	"github.com/cuemby/burrow/pkg/nvpair"
	"github.com/cuemby/burrow/pkg/rules"
	"github.com/cuemby/burrow/pkg/schema"
)

const schemaDir = "../../schemas"

// TestConfigurationLifecycle walks the full path a cluster configuration
// takes: create at the newest schema, populate, validate, resolve the
// effective options and metadata for a node, and answer constraint
// queries.
func TestConfigurationLifecycle(t *testing.T) {
	dir := t.TempDir()

	reg := schema.NewRegistry(schema.Config{Dir: schemaDir})
	require.NoError(t, reg.Init())
	t.Cleanup(reg.Teardown)

	t.Log("Step 1: Creating an empty configuration at the newest schema...")
	newest, err := reg.Newest()
	require.NoError(t, err)
	require.Equal(t, "burrow-2.0", newest.Name)

	store, err := cib.InitFile(filepath.Join(dir, "cluster.xml"), cib.NewEmptyDocument(newest.Name))
	require.NoError(t, err)
	defer store.Close()
	t.Logf("✓ Configuration created (schema %s)", newest.Name)

	broker := events.NewBroker()
	broker.Start()
	t.Cleanup(broker.Stop)
	sub := broker.Subscribe()
	store.SetBroker(broker)

	t.Log("Step 2: Populating options, nodes, resources and constraints...")
	doc := store.Document().Copy()
	populate(doc)
	require.NoError(t, store.Commit(doc))

	select {
	case ev := <-sub:
		require.Equal(t, events.EventDocumentCommitted, ev.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no commit notification")
	}
	t.Log("✓ Population committed and announced")

	t.Log("Step 3: Validating the populated document...")
	v, err := reg.Validate(store.Document())
	require.NoError(t, err)
	assert.Equal(t, "burrow-2.0", v.Name)
	t.Logf("✓ Document satisfies %s", v.Name)

	t.Log("Step 4: Recording node attributes...")
	attrStore, err := attrs.Open(dir)
	require.NoError(t, err)
	defer attrStore.Close()

	_, err = attrStore.EnsureNode("node-1")
	require.NoError(t, err)
	require.NoError(t, attrStore.Set("node-1", "site", "east", attrs.LifetimeForever))
	t.Log("✓ node-1 registered with site=east")

	t.Log("Step 5: Resolving effective options for node-1...")
	m, err := attrStore.Map("node-1")
	require.NoError(t, err)

	idx := nvpair.IndexRules(store.Document().Root())
	in := rules.Input{Now: time.Now(), Node: "node-1", Attrs: m}

	sections, err := store.Query(cib.PathOptions)
	require.NoError(t, err)
	require.Len(t, sections, 1)

	blocks, err := nvpair.ParseBlocks(sections[0], nvpair.TagOptionSet, idx)
	require.NoError(t, err)

	req := &nvpair.Request{
		Dest:      map[string]string{},
		First:     cib.BootstrapOptions,
		Input:     in,
		Overwrite: true,
	}
	require.NoError(t, nvpair.Unpack(blocks, req))

	// The rule-gated block applied after bootstrap and overwrote the
	// shared key; attribute rules contribute no next-change time.
	assert.Equal(t, "balanced", req.Dest["placement-strategy"])
	assert.Equal(t, "true", req.Dest["stonith-enabled"])
	assert.True(t, req.NextChange.IsZero())
	t.Logf("✓ Effective options: %v", req.Dest)

	t.Log("Step 6: Resolving resource metadata...")
	resources, err := store.Query(cib.PathResources + "/" + cib.TagResource)
	require.NoError(t, err)

	resolutions, err := nvpair.ResolveAll(resources, nvpair.TagMetaSet, idx, in, true)
	require.NoError(t, err)
	require.Len(t, resolutions, 1)
	assert.Equal(t, "db", resolutions[0].ID)
	assert.Equal(t, "high", resolutions[0].Values["priority"])
	t.Log("✓ Resource metadata resolved")

	t.Log("Step 7: Querying ticket constraints...")
	svc := constraint.NewService(store)

	names, err := svc.TicketNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"T-alpha"}, names)

	tickets, err := svc.Tickets("T-alpha")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "db", tickets[0].SelectAttrValue("resource", ""))
	t.Log("✓ Ticket constraints answered")
}

// TestLegacyDocumentUpgrade proves a document written before cluster
// identities existed upgrades stepwise to the current schema, gains the
// identity on the way, and survives the file round trip.
func TestLegacyDocumentUpgrade(t *testing.T) {
	reg := schema.NewRegistry(schema.Config{Dir: schemaDir})
	require.NoError(t, reg.Init())
	t.Cleanup(reg.Teardown)

	legacy := legacyDocument(t)

	t.Log("Step 1: Validating the legacy document...")
	v, err := reg.Validate(legacy)
	require.NoError(t, err)
	require.Equal(t, "burrow-1.0", v.Name)
	t.Logf("✓ Legacy document satisfies %s", v.Name)

	t.Log("Step 2: Upgrading to the newest schema...")
	upgraded, target, err := reg.Upgrade(legacy, "burrow-2.0")
	require.NoError(t, err)
	assert.Equal(t, "burrow-2.0", target.Name)
	assert.NotEmpty(t, upgraded.Root().SelectAttrValue(cib.AttrClusterID, ""))

	// The input document is untouched.
	assert.Empty(t, legacy.Root().SelectAttrValue(cib.AttrClusterID, ""))
	assert.Equal(t, "burrow-1.0", cib.SchemaName(legacy))
	t.Log("✓ Upgrade added the cluster identity without touching the input")

	t.Log("Step 3: Writing the upgraded document and reopening it...")
	path := filepath.Join(t.TempDir(), "cluster.xml")
	store, err := cib.InitFile(path, upgraded)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := cib.OpenFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	again, err := reg.Validate(reopened.Document())
	require.NoError(t, err)
	assert.Equal(t, "burrow-2.0", again.Name)
	assert.Equal(t, 4, cib.Epoch(reopened.Document()))

	svc := constraint.NewService(reopened)
	tickets, err := svc.Tickets("T-alpha")
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
	t.Log("✓ Reopened document validates and answers queries")
}

// populate fills an empty document with a bootstrap option block, a
// rule-gated override block, one node, one resource with metadata and one
// ticket constraint.
func populate(doc *etree.Document) {
	options := doc.FindElement(cib.PathOptions)

	bootstrap := options.CreateElement(nvpair.TagOptionSet)
	bootstrap.CreateAttr(cib.AttrID, cib.BootstrapOptions)
	addPair(bootstrap, "stonith-enabled", "true")
	addPair(bootstrap, "placement-strategy", "default")

	east := options.CreateElement(nvpair.TagOptionSet)
	east.CreateAttr(cib.AttrID, "east-site-overrides")
	east.CreateAttr("score", "100")
	rule := east.CreateElement(rules.TagRule)
	rule.CreateAttr(cib.AttrID, "on-east")
	rule.CreateAttr("boolean-op", "and")
	expr := rule.CreateElement(rules.TagExpression)
	expr.CreateAttr("attribute", "site")
	expr.CreateAttr("operation", "eq")
	expr.CreateAttr("value", "east")
	expr.CreateAttr("type", "string")
	addPair(east, "placement-strategy", "balanced")

	node := doc.FindElement(cib.PathNodes).CreateElement(cib.TagNode)
	node.CreateAttr(cib.AttrID, "n-1")
	node.CreateAttr("name", "node-1")

	db := doc.FindElement(cib.PathResources).CreateElement(cib.TagResource)
	db.CreateAttr(cib.AttrID, "db")
	db.CreateAttr("type", "postgres")
	meta := db.CreateElement(nvpair.TagMetaSet)
	meta.CreateAttr(cib.AttrID, "db-meta")
	addPair(meta, "priority", "high")

	tc := doc.FindElement(cib.PathConstraints).CreateElement("ticket-constraint")
	tc.CreateAttr(cib.AttrID, "tc-db")
	tc.CreateAttr("ticket", "T-alpha")
	tc.CreateAttr("resource", "db")
	tc.CreateAttr("loss-policy", "stop")
}

func addPair(set *etree.Element, name, value string) {
	attr := set.CreateElement("attr")
	attr.CreateAttr("name", name)
	attr.CreateAttr("value", value)
}

func legacyDocument(t *testing.T) *etree.Document {
	t.Helper()

	raw := `<?xml version="1.0" encoding="UTF-8"?>
<cluster schema="burrow-1.0" epoch="4" admin-epoch="0">
  <configuration>
    <options>
      <option-set id="bootstrap-options">
        <attr name="stonith-enabled" value="true"/>
      </option-set>
    </options>
    <nodes>
      <node id="n-1" name="node-1"/>
    </nodes>
    <resources>
      <resource id="db" type="postgres"/>
    </resources>
    <constraints>
      <ticket-constraint id="tc-db" ticket="T-alpha" resource="db"/>
    </constraints>
  </configuration>
  <status/>
</cluster>`

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(raw))
	return doc
}
