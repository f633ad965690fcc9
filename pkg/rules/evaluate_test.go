package rules

import (
	"testing"
	"time"

	"github.com/cuemby/burrow/pkg/types"
	"github.com/sosodev/duration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func dateRule(id string, expr Expr) *Rule {
	return &Rule{ID: id, Expr: expr}
}

func TestEvaluateInRange(t *testing.T) {
	window := &DateRange{Op: RangeInRange, Start: t0, End: t0.Add(time.Hour)}

	tests := []struct {
		name          string
		now           time.Time
		wantSatisfied bool
		wantNext      time.Time
	}{
		{
			name:          "half hour inside window",
			now:           t0.Add(30 * time.Minute),
			wantSatisfied: true,
			wantNext:      t0.Add(time.Hour),
		},
		{
			name:          "two hours past window",
			now:           t0.Add(2 * time.Hour),
			wantSatisfied: false,
			wantNext:      time.Time{},
		},
		{
			name:          "before window opens",
			now:           t0.Add(-time.Hour),
			wantSatisfied: false,
			wantNext:      t0,
		},
		{
			name:          "start is inclusive",
			now:           t0,
			wantSatisfied: true,
			wantNext:      t0.Add(time.Hour),
		},
		{
			name:          "end is exclusive",
			now:           t0.Add(time.Hour),
			wantSatisfied: false,
			wantNext:      time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(dateRule("window", window), Input{Now: tt.now})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSatisfied, res.Satisfied)
			assert.True(t, res.NextChange.Equal(tt.wantNext),
				"next change: got %v, want %v", res.NextChange, tt.wantNext)
		})
	}
}

func TestEvaluateInRangeOpenEnded(t *testing.T) {
	t.Run("start only", func(t *testing.T) {
		expr := &DateRange{Op: RangeInRange, Start: t0}

		res, err := Evaluate(dateRule("r", expr), Input{Now: t0.Add(-time.Minute)})
		require.NoError(t, err)
		assert.False(t, res.Satisfied)
		assert.True(t, res.NextChange.Equal(t0))

		res, err = Evaluate(dateRule("r", expr), Input{Now: t0.Add(time.Minute)})
		require.NoError(t, err)
		assert.True(t, res.Satisfied)
		assert.True(t, res.NextChange.IsZero(), "open-ended window never flips back")
	})

	t.Run("end only", func(t *testing.T) {
		end := t0.Add(time.Hour)
		expr := &DateRange{Op: RangeInRange, End: end}

		res, err := Evaluate(dateRule("r", expr), Input{Now: t0})
		require.NoError(t, err)
		assert.True(t, res.Satisfied)
		assert.True(t, res.NextChange.Equal(end))

		res, err = Evaluate(dateRule("r", expr), Input{Now: end})
		require.NoError(t, err)
		assert.False(t, res.Satisfied)
		assert.True(t, res.NextChange.IsZero())
	})
}

func TestEvaluateInRangeDuration(t *testing.T) {
	d, err := duration.Parse("PT8H")
	require.NoError(t, err)

	expr := &DateRange{Op: RangeInRange, Start: t0, Duration: d}
	end := t0.Add(8 * time.Hour)

	res, err := Evaluate(dateRule("shift", expr), Input{Now: t0.Add(time.Hour)})
	require.NoError(t, err)
	assert.True(t, res.Satisfied)
	assert.True(t, res.NextChange.Equal(end), "duration end: got %v, want %v", res.NextChange, end)

	res, err = Evaluate(dateRule("shift", expr), Input{Now: end.Add(time.Second)})
	require.NoError(t, err)
	assert.False(t, res.Satisfied)
}

func TestEvaluateInRangeCalendarDuration(t *testing.T) {
	// P1M from March 31st lands on May 1st via the calendar, not on a fixed
	// number of hours.
	start := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	d, err := duration.Parse("P1M")
	require.NoError(t, err)

	expr := &DateRange{Op: RangeInRange, Start: start, Duration: d}

	res, err := Evaluate(dateRule("month", expr), Input{Now: start.Add(24 * time.Hour)})
	require.NoError(t, err)
	assert.True(t, res.Satisfied)
	assert.True(t, res.NextChange.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))
}

func TestEvaluateGreaterThan(t *testing.T) {
	expr := &DateRange{Op: RangeGT, Start: t0}

	res, err := Evaluate(dateRule("after", expr), Input{Now: t0.Add(-time.Minute)})
	require.NoError(t, err)
	assert.False(t, res.Satisfied)
	assert.True(t, res.NextChange.Equal(t0.Add(time.Second)), "gt flips strictly after the boundary")

	// The boundary itself does not satisfy a strict gt.
	res, err = Evaluate(dateRule("after", expr), Input{Now: t0})
	require.NoError(t, err)
	assert.False(t, res.Satisfied)

	res, err = Evaluate(dateRule("after", expr), Input{Now: t0.Add(time.Minute)})
	require.NoError(t, err)
	assert.True(t, res.Satisfied)
	assert.True(t, res.NextChange.IsZero())
}

func TestEvaluateLessThan(t *testing.T) {
	end := t0.Add(time.Hour)
	expr := &DateRange{Op: RangeLT, End: end}

	res, err := Evaluate(dateRule("before", expr), Input{Now: t0})
	require.NoError(t, err)
	assert.True(t, res.Satisfied)
	assert.True(t, res.NextChange.Equal(end))

	res, err = Evaluate(dateRule("before", expr), Input{Now: end})
	require.NoError(t, err)
	assert.False(t, res.Satisfied)
	assert.True(t, res.NextChange.IsZero())
}

func TestEvaluateMalformedDateExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
	}{
		{
			name: "end precedes start",
			expr: &DateRange{Op: RangeInRange, Start: t0, End: t0.Add(-time.Hour)},
		},
		{
			name: "in-range with no bounds",
			expr: &DateRange{Op: RangeInRange},
		},
		{
			name: "gt without start",
			expr: &DateRange{Op: RangeGT},
		},
		{
			name: "lt without end",
			expr: &DateRange{Op: RangeLT},
		},
		{
			name: "duration without start",
			expr: &DateRange{Op: RangeInRange, Duration: &duration.Duration{Hours: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(dateRule("bad", tt.expr), Input{Now: t0})

			// Malformed expressions fail closed, never crash.
			assert.False(t, res.Satisfied)
			require.Error(t, err)
			assert.True(t, types.IsInvalidInput(err))
		})
	}
}

func TestEvaluateComparison(t *testing.T) {
	attrs := map[string]string{
		"site":    "east",
		"weight":  "10",
		"load":    "0.75",
		"release": "2.11",
	}

	tests := []struct {
		name string
		expr *Comparison
		want bool
	}{
		{name: "string eq", expr: &Comparison{Attr: "site", Op: CmpEq, Value: "east", Type: TypeString}, want: true},
		{name: "string ne", expr: &Comparison{Attr: "site", Op: CmpNe, Value: "west"}, want: true},
		{name: "integer compares numerically", expr: &Comparison{Attr: "weight", Op: CmpGt, Value: "9", Type: TypeInteger}, want: true},
		{name: "integer lte", expr: &Comparison{Attr: "weight", Op: CmpLte, Value: "10", Type: TypeInteger}, want: true},
		{name: "number lt", expr: &Comparison{Attr: "load", Op: CmpLt, Value: "0.8", Type: TypeNumber}, want: true},
		{name: "version numeric per component", expr: &Comparison{Attr: "release", Op: CmpGt, Value: "2.9", Type: TypeVersion}, want: true},
		{name: "defined", expr: &Comparison{Attr: "site", Op: CmpDefined}, want: true},
		{name: "defined misses", expr: &Comparison{Attr: "rack", Op: CmpDefined}, want: false},
		{name: "not-defined", expr: &Comparison{Attr: "rack", Op: CmpNotDefined}, want: true},
		{name: "absent attribute fails closed", expr: &Comparison{Attr: "rack", Op: CmpEq, Value: "r1"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(dateRule("cmp", tt.expr), Input{Now: t0, Attrs: attrs})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Satisfied)
			assert.True(t, res.NextChange.IsZero(), "comparisons are not time-dependent")
		})
	}
}

func TestEvaluateComparisonBadOperand(t *testing.T) {
	attrs := map[string]string{"weight": "heavy"}
	expr := &Comparison{Attr: "weight", Op: CmpGt, Value: "9", Type: TypeInteger}

	res, err := Evaluate(dateRule("cmp", expr), Input{Now: t0, Attrs: attrs})
	assert.False(t, res.Satisfied)
	require.Error(t, err)
	assert.True(t, types.IsInvalidInput(err))
}

func TestEvaluateCombo(t *testing.T) {
	inWindow := &DateRange{Op: RangeInRange, Start: t0, End: t0.Add(time.Hour)}
	siteEast := &Comparison{Attr: "site", Op: CmpEq, Value: "east"}

	tests := []struct {
		name  string
		op    BoolOp
		attrs map[string]string
		want  bool
	}{
		{name: "and both hold", op: BoolAnd, attrs: map[string]string{"site": "east"}, want: true},
		{name: "and one fails", op: BoolAnd, attrs: map[string]string{"site": "west"}, want: false},
		{name: "or one holds", op: BoolOr, attrs: map[string]string{"site": "west"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := dateRule("combo", &Combo{Op: tt.op, Children: []Expr{inWindow, siteEast}})
			res, err := Evaluate(rule, Input{Now: t0.Add(10 * time.Minute), Attrs: tt.attrs})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Satisfied)

			// The window's end folds through regardless of the boolean
			// outcome.
			assert.True(t, res.NextChange.Equal(t0.Add(time.Hour)))
		})
	}
}

func TestEvaluateComboNoShortCircuit(t *testing.T) {
	// An or that is already satisfied by its first child must still fold
	// the second child's next-change time.
	early := &DateRange{Op: RangeInRange, Start: t0, End: t0.Add(time.Hour)}
	late := &DateRange{Op: RangeInRange, Start: t0.Add(30 * time.Minute), End: t0.Add(2 * time.Hour)}

	rule := dateRule("either", &Combo{Op: BoolOr, Children: []Expr{early, late}})
	res, err := Evaluate(rule, Input{Now: t0.Add(5 * time.Minute)})
	require.NoError(t, err)

	assert.True(t, res.Satisfied)
	assert.True(t, res.NextChange.Equal(t0.Add(30*time.Minute)),
		"second child's start is the earliest flip, got %v", res.NextChange)
}

func TestEvaluateComboBestEffortOnError(t *testing.T) {
	bad := &DateRange{Op: RangeInRange, Start: t0, End: t0.Add(-time.Hour)}
	good := &DateRange{Op: RangeInRange, Start: t0, End: t0.Add(time.Hour)}

	rule := dateRule("mixed", &Combo{Op: BoolOr, Children: []Expr{bad, good}})
	res, err := Evaluate(rule, Input{Now: t0.Add(10 * time.Minute)})

	// The malformed child fails closed but the healthy child still
	// satisfies the or; the error is surfaced alongside the result.
	assert.True(t, res.Satisfied)
	require.Error(t, err)
	assert.True(t, types.IsInvalidInput(err))

	// Under and, fail-closed wins.
	rule = dateRule("mixed", &Combo{Op: BoolAnd, Children: []Expr{bad, good}})
	res, err = Evaluate(rule, Input{Now: t0.Add(10 * time.Minute)})
	assert.False(t, res.Satisfied)
	require.Error(t, err)
}

func TestEvaluateComboEmpty(t *testing.T) {
	res, err := Evaluate(dateRule("empty-and", &Combo{Op: BoolAnd}), Input{Now: t0})
	require.NoError(t, err)
	assert.True(t, res.Satisfied)

	res, err = Evaluate(dateRule("empty-or", &Combo{Op: BoolOr}), Input{Now: t0})
	require.NoError(t, err)
	assert.False(t, res.Satisfied)
}

func TestEvaluateDateSpec(t *testing.T) {
	// t0 is Wednesday 2026-04-01 12:00 UTC.
	tests := []struct {
		name string
		spec *DateSpec
		now  time.Time
		want bool
	}{
		{
			name: "business hours weekday",
			spec: &DateSpec{Hours: NewField(9, 16), Weekdays: NewField(1, 5)},
			now:  t0,
			want: true,
		},
		{
			name: "weekend excluded",
			spec: &DateSpec{Weekdays: NewField(6, 7)},
			now:  t0,
			want: false,
		},
		{
			name: "sunday is iso day seven",
			spec: &DateSpec{Weekdays: NewField(7, 7)},
			now:  time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "year pin",
			spec: &DateSpec{Years: NewField(2026, 2026)},
			now:  t0,
			want: true,
		},
		{
			name: "month range misses",
			spec: &DateSpec{Months: NewField(6, 8)},
			now:  t0,
			want: false,
		},
		{
			name: "empty spec matches everything",
			spec: &DateSpec{},
			now:  t0,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(dateRule("spec", tt.spec), Input{Now: tt.now})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Satisfied)
			assert.True(t, res.NextChange.IsZero(), "date specs contribute no next-change")
		})
	}
}

func TestEvaluateContract(t *testing.T) {
	_, err := Evaluate(nil, Input{Now: t0})
	assert.True(t, types.IsInvalidInput(err))

	_, err = Evaluate(&Rule{ID: "r"}, Input{Now: t0})
	assert.True(t, types.IsInvalidInput(err))

	_, err = Evaluate(dateRule("r", &Combo{Op: BoolAnd}), Input{})
	assert.True(t, types.IsInvalidInput(err), "zero Now violates the input contract")
}

func TestEvaluateDeterministic(t *testing.T) {
	rule := dateRule("det", &Combo{Op: BoolAnd, Children: []Expr{
		&DateRange{Op: RangeInRange, Start: t0, End: t0.Add(time.Hour)},
		&Comparison{Attr: "site", Op: CmpEq, Value: "east"},
	}})
	in := Input{Now: t0.Add(time.Minute), Attrs: map[string]string{"site": "east"}}

	first, err := Evaluate(rule, in)
	require.NoError(t, err)
	second, err := Evaluate(rule, in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseField(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		value   int
		want    bool
		wantErr bool
	}{
		{name: "empty matches all", input: "", value: 42, want: true},
		{name: "single value hit", input: "5", value: 5, want: true},
		{name: "single value miss", input: "5", value: 6, want: false},
		{name: "range hit", input: "9-16", value: 12, want: true},
		{name: "range boundary", input: "9-16", value: 16, want: true},
		{name: "range miss", input: "9-16", value: 17, want: false},
		{name: "garbage", input: "nine", wantErr: true},
		{name: "inverted range", input: "16-9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseField(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Contains(tt.value))
		})
	}
}
