package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cuemby/burrow/pkg/types"
)

// Field is an inclusive range restriction on one calendar component. The
// zero value is unset and matches every value.
type Field struct {
	lo, hi int
	set    bool
}

// NewField creates a set field matching lo through hi inclusive.
func NewField(lo, hi int) Field {
	return Field{lo: lo, hi: hi, set: true}
}

// ParseField parses a calendar field restriction: empty (unset), a single
// value ("5"), or an inclusive range ("9-16").
func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Field{}, nil
	}

	loStr, hiStr, isRange := strings.Cut(s, "-")
	lo, err := strconv.Atoi(strings.TrimSpace(loStr))
	if err != nil {
		return Field{}, fmt.Errorf("invalid field %q: %w", s, types.ErrInvalidInput)
	}
	if !isRange {
		return NewField(lo, lo), nil
	}

	hi, err := strconv.Atoi(strings.TrimSpace(hiStr))
	if err != nil || hi < lo {
		return Field{}, fmt.Errorf("invalid field range %q: %w", s, types.ErrInvalidInput)
	}
	return NewField(lo, hi), nil
}

// Contains reports whether v falls inside the field. Unset fields contain
// everything.
func (f Field) Contains(v int) bool {
	return !f.set || (v >= f.lo && v <= f.hi)
}

// matches reports whether every set field contains the corresponding
// component of t. Weekdays are ISO: Monday is 1, Sunday is 7.
func (s *DateSpec) matches(t time.Time) bool {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return s.Hours.Contains(t.Hour()) &&
		s.Weekdays.Contains(weekday) &&
		s.Monthdays.Contains(t.Day()) &&
		s.Months.Contains(int(t.Month())) &&
		s.Years.Contains(t.Year())
}
