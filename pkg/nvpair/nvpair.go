package nvpair

import (
	"strings"
	"time"

	"github.com/cuemby/burrow/pkg/rules"
)

// DefaultSentinel is the magic value meaning "keep the built-in default".
// Insert drops pairs carrying it (case-insensitively) instead of storing
// the literal string.
const DefaultSentinel = "#default"

// Element and attribute names of the block grammar inside a configuration
// document.
const (
	TagOptionSet = "option-set"
	TagMetaSet   = "meta-set"

	tagPair = "attr"
)

// Pair is one name/value entry of a block.
type Pair struct {
	Name  string
	Value string
}

// Block is a scored, optionally rule-gated set of name/value pairs.
// Blocks carrying an unresolvable or unparseable rule have RuleMissing set
// and never apply.
type Block struct {
	ID          string
	Score       int
	Rule        *rules.Rule
	RuleMissing bool
	Pairs       []Pair
}

// Request carries the unpack parameters and accumulates its outputs.
//
// Dest receives the merged values; entries already present count as earlier
// writes for overwrite purposes. First names a block that sorts ahead of
// every other regardless of score. NextChange is folded in place: Unpack
// combines the earliest rule flip it sees with whatever the caller already
// accumulated, so one Request can thread through several Unpack calls.
type Request struct {
	Dest       map[string]string
	First      string
	Input      rules.Input
	Overwrite  bool
	NextChange time.Time
}

// Insert stores a name/value pair into dest and reports whether it did.
// Pairs with an empty name, an empty value, or the default sentinel as
// value are dropped.
func Insert(dest map[string]string, name, value string) bool {
	if name == "" || value == "" {
		return false
	}
	if strings.EqualFold(value, DefaultSentinel) {
		return false
	}
	dest[name] = value
	return true
}
