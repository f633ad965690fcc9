package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Code is the closed set of result codes burrow reports upward. The values
// follow the sysexits convention where one exists so that scripts driving the
// CLI can switch on them.
type Code int

const (
	// CodeOK means the operation succeeded.
	CodeOK Code = 0

	// CodeError is the generic failure code for conditions outside the
	// closed set below.
	CodeError Code = 1

	// CodeInvalidInput means a rule, block, identity, or version string was
	// malformed (EX_DATAERR).
	CodeInvalidInput Code = 65

	// CodeStoreUnavailable means the configuration store or a schema
	// directory could not be used (EX_UNAVAILABLE).
	CodeStoreUnavailable Code = 69

	// CodeSchemaMismatch means a document validates against no known
	// schema version (EX_CONFIG).
	CodeSchemaMismatch Code = 78

	// CodeNotFound means a query matched nothing. Not an error.
	CodeNotFound Code = 105
)

// Score bounds. Scores at or beyond these values are treated as mandatory
// ("must") rather than advisory preferences.
const (
	ScoreInfinity = 1000000
	ScoreMinusInf = -1000000
)

// ParseScore parses a block or constraint score. The literals INFINITY,
// +INFINITY, and -INFINITY map to the score bounds; anything else must be a
// base-10 integer. Out-of-range integers are clamped to the bounds.
func ParseScore(s string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFINITY", "+INFINITY":
		return ScoreInfinity, nil
	case "-INFINITY":
		return ScoreMinusInf, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid score %q: %w", s, ErrInvalidInput)
	}
	if n > ScoreInfinity {
		n = ScoreInfinity
	}
	if n < ScoreMinusInf {
		n = ScoreMinusInf
	}
	return n, nil
}

// timeLayouts are tried in order by ParseTime. Layouts without a zone are
// interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses a timestamp from a configuration document. RFC 3339 is
// preferred; a zone-less timestamp or a bare date is accepted and read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, ErrInvalidInput)
}

// CompareVersions compares two dotted version strings component by component.
// Components are compared numerically; a missing component counts as zero, so
// "1.2" and "1.2.0" are equal. Returns -1, 0, or 1.
func CompareVersions(a, b string) (int, error) {
	as := strings.Split(strings.TrimSpace(a), ".")
	bs := strings.Split(strings.TrimSpace(b), ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		av, err := versionComponent(as, i)
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", a, ErrInvalidInput)
		}
		bv, err := versionComponent(bs, i)
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", b, ErrInvalidInput)
		}
		if av < bv {
			return -1, nil
		}
		if av > bv {
			return 1, nil
		}
	}
	return 0, nil
}

func versionComponent(parts []string, i int) (int, error) {
	if i >= len(parts) {
		return 0, nil
	}
	return strconv.Atoi(parts[i])
}
