package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/xsd"

	"github.com/cuemby/burrow/pkg/types"
)

// Catalog entry names with no numeric release.
const (
	// NameNext is the file-backed development schema, newer than every
	// numbered release.
	NameNext = "burrow-next"

	// NameNone is the terminal pseudo entry meaning "no validation". It
	// has no schema file and never matches a document; it exists so
	// callers can express "accept anything" as an upgrade target bound.
	NameNone = "none"
)

// namePrefix is the stem shared by every released schema file.
const namePrefix = "burrow-"

// versionKey orders catalog entries: numbered releases by major.minor,
// then the development schema, then the terminal pseudo entry.
type versionKey struct {
	major, minor int
	rank         int // 0 numbered, 1 next, 2 none
}

func parseVersionKey(name string) (versionKey, error) {
	switch name {
	case NameNext:
		return versionKey{rank: 1}, nil
	case NameNone:
		return versionKey{rank: 2}, nil
	}

	rest, ok := strings.CutPrefix(name, namePrefix)
	if !ok {
		return versionKey{}, fmt.Errorf("schema name %q: missing %q prefix: %w", name, namePrefix, types.ErrInvalidInput)
	}
	majorStr, minorStr, ok := strings.Cut(rest, ".")
	if !ok {
		return versionKey{}, fmt.Errorf("schema name %q: not major.minor: %w", name, types.ErrInvalidInput)
	}
	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return versionKey{}, fmt.Errorf("schema name %q: %w", name, types.ErrInvalidInput)
	}
	minor, err := strconv.Atoi(minorStr)
	if err != nil {
		return versionKey{}, fmt.Errorf("schema name %q: %w", name, types.ErrInvalidInput)
	}
	return versionKey{major: major, minor: minor}, nil
}

func (k versionKey) less(o versionKey) bool {
	if k.rank != o.rank {
		return k.rank < o.rank
	}
	if k.major != o.major {
		return k.major < o.major
	}
	return k.minor < o.minor
}

// Version is one entry of the ordered schema catalog. Ordinals are dense
// and zero-based; the terminal "none" entry always holds the highest
// ordinal and has no schema file behind it.
type Version struct {
	Name    string
	Ordinal int

	key  versionKey
	path string      // schema file, empty for the terminal entry
	sch  *xsd.Schema // compiled schema, nil for the terminal entry
}

// Validates reports whether this entry can positively match a document.
func (v Version) Validates() bool {
	return v.sch != nil
}

// Path returns the schema file behind this entry, empty for the terminal
// one.
func (v Version) Path() string {
	return v.path
}
