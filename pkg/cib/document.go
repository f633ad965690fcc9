package cib

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// Element names of the configuration document.
const (
	TagCluster       = "cluster"
	TagConfiguration = "configuration"
	TagOptions       = "options"
	TagNodes         = "nodes"
	TagNode          = "node"
	TagResources     = "resources"
	TagResource      = "resource"
	TagConstraints   = "constraints"
	TagStatus        = "status"
)

// Attributes of the document root.
const (
	AttrSchema     = "schema"
	AttrClusterID  = "cluster-id"
	AttrEpoch      = "epoch"
	AttrAdminEpoch = "admin-epoch"
)

// AttrID identifies elements throughout the document.
const AttrID = "id"

// BootstrapOptions is the ID of the cluster option block that always
// applies first, ahead of any scored block.
const BootstrapOptions = "bootstrap-options"

// Selectors for the fixed document sections.
const (
	PathConfiguration = "/cluster/configuration"
	PathOptions       = "/cluster/configuration/options"
	PathNodes         = "/cluster/configuration/nodes"
	PathResources     = "/cluster/configuration/resources"
	PathConstraints   = "/cluster/configuration/constraints"
	PathStatus        = "/cluster/status"
)

// NewEmptyDocument builds a minimal valid document stamped with the given
// schema version and a fresh cluster identity. Epochs start at zero; the
// first commit bumps them.
func NewEmptyDocument(schemaName string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(TagCluster)
	root.CreateAttr(AttrSchema, schemaName)
	root.CreateAttr(AttrClusterID, uuid.NewString())
	root.CreateAttr(AttrEpoch, "0")
	root.CreateAttr(AttrAdminEpoch, "0")

	conf := root.CreateElement(TagConfiguration)
	conf.CreateElement(TagOptions)
	conf.CreateElement(TagNodes)
	conf.CreateElement(TagResources)
	conf.CreateElement(TagConstraints)
	root.CreateElement(TagStatus)

	return doc
}

// Epoch reads the document's commit counter, zero when absent or garbled.
func Epoch(doc *etree.Document) int {
	root := doc.Root()
	if root == nil {
		return 0
	}
	n, err := strconv.Atoi(root.SelectAttrValue(AttrEpoch, "0"))
	if err != nil {
		return 0
	}
	return n
}

// SchemaName reads the schema version the document declares, empty when
// absent.
func SchemaName(doc *etree.Document) string {
	root := doc.Root()
	if root == nil {
		return ""
	}
	return root.SelectAttrValue(AttrSchema, "")
}
