package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cuemby/burrow/pkg/types"
	"github.com/sosodev/duration"
)

// Evaluate evaluates a rule against the given input and reports whether it
// is satisfied, plus the next instant its truth value could flip.
//
// Evaluation is pure: no I/O, no clock access, deterministic for fixed
// inputs. Malformed expressions fail closed (unsatisfied) and surface as an
// error wrapping types.ErrInvalidInput alongside the best-effort result;
// they never panic. Every child of a combinator is evaluated even once the
// boolean outcome is decided, so that each child's next-change folds into
// the result.
func Evaluate(r *Rule, in Input) (Result, error) {
	if r == nil || r.Expr == nil {
		return Result{}, fmt.Errorf("rule has no expression: %w", types.ErrInvalidInput)
	}
	if in.Now.IsZero() {
		return Result{}, fmt.Errorf("rule %q: input has no timestamp: %w", r.ID, types.ErrInvalidInput)
	}

	res, err := evalExpr(r.Expr, in)
	if err != nil {
		return res, fmt.Errorf("rule %q: %w", r.ID, err)
	}
	return res, nil
}

func evalExpr(e Expr, in Input) (Result, error) {
	switch x := e.(type) {
	case *Combo:
		return evalCombo(x, in)
	case *Comparison:
		return evalComparison(x, in)
	case *DateRange:
		return evalDateRange(x, in)
	case *DateSpec:
		return Result{Satisfied: x.matches(in.Now)}, nil
	default:
		return Result{}, fmt.Errorf("unknown expression variant %T: %w", e, types.ErrInvalidInput)
	}
}

func evalCombo(x *Combo, in Input) (Result, error) {
	if x.Op != BoolAnd && x.Op != BoolOr {
		return Result{}, fmt.Errorf("unknown boolean operation %q: %w", x.Op, types.ErrInvalidInput)
	}

	res := Result{Satisfied: x.Op == BoolAnd}
	var errs []error
	for _, child := range x.Children {
		cr, err := evalExpr(child, in)
		if err != nil {
			errs = append(errs, err)
		}
		if x.Op == BoolAnd {
			res.Satisfied = res.Satisfied && cr.Satisfied
		} else {
			res.Satisfied = res.Satisfied || cr.Satisfied
		}
		res.NextChange = Earliest(res.NextChange, cr.NextChange)
	}
	return res, errors.Join(errs...)
}

func evalComparison(x *Comparison, in Input) (Result, error) {
	value, ok := in.Attrs[x.Attr]

	switch x.Op {
	case CmpDefined:
		return Result{Satisfied: ok}, nil
	case CmpNotDefined:
		return Result{Satisfied: !ok}, nil
	case CmpEq, CmpNe, CmpLt, CmpGt, CmpLte, CmpGte:
		if !ok {
			// An absent attribute satisfies no value comparison.
			return Result{}, nil
		}
		cmp, err := compareTyped(value, x.Value, x.Type)
		if err != nil {
			return Result{}, fmt.Errorf("expression on %q: %w", x.Attr, err)
		}
		return Result{Satisfied: cmpSatisfies(cmp, x.Op)}, nil
	default:
		return Result{}, fmt.Errorf("expression on %q: unknown operation %q: %w", x.Attr, x.Op, types.ErrInvalidInput)
	}
}

func cmpSatisfies(cmp int, op CmpOp) bool {
	switch op {
	case CmpEq:
		return cmp == 0
	case CmpNe:
		return cmp != 0
	case CmpLt:
		return cmp < 0
	case CmpGt:
		return cmp > 0
	case CmpLte:
		return cmp <= 0
	case CmpGte:
		return cmp >= 0
	}
	return false
}

func compareTyped(a, b string, typ ValueType) (int, error) {
	switch typ {
	case TypeString, "":
		return strings.Compare(a, b), nil
	case TypeInteger:
		ai, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer %q: %w", a, types.ErrInvalidInput)
		}
		bi, err := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer %q: %w", b, types.ErrInvalidInput)
		}
		return compareOrdered(ai, bi), nil
	case TypeNumber:
		af, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number %q: %w", a, types.ErrInvalidInput)
		}
		bf, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number %q: %w", b, types.ErrInvalidInput)
		}
		return compareOrdered(af, bf), nil
	case TypeVersion:
		return types.CompareVersions(a, b)
	default:
		return 0, fmt.Errorf("unknown value type %q: %w", typ, types.ErrInvalidInput)
	}
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func evalDateRange(x *DateRange, in Input) (Result, error) {
	switch x.Op {
	case RangeGT:
		if x.Start.IsZero() {
			return Result{}, fmt.Errorf("date expression: gt requires a start: %w", types.ErrInvalidInput)
		}
		if in.Now.After(x.Start) {
			return Result{Satisfied: true}, nil
		}
		// The flip happens strictly after the boundary; the evaluator
		// works at second granularity.
		return Result{NextChange: x.Start.Add(time.Second)}, nil

	case RangeLT:
		if x.End.IsZero() {
			return Result{}, fmt.Errorf("date expression: lt requires an end: %w", types.ErrInvalidInput)
		}
		if in.Now.Before(x.End) {
			return Result{Satisfied: true, NextChange: x.End}, nil
		}
		return Result{}, nil

	case RangeInRange:
		return evalInRange(x, in)

	default:
		return Result{}, fmt.Errorf("date expression: unknown operation %q: %w", x.Op, types.ErrInvalidInput)
	}
}

// evalInRange checks start <= now < end. Either bound may be absent; the
// end may be derived from start plus a duration.
func evalInRange(x *DateRange, in Input) (Result, error) {
	start, end := x.Start, x.End
	if end.IsZero() && x.Duration != nil {
		if start.IsZero() {
			return Result{}, fmt.Errorf("date expression: duration requires a start: %w", types.ErrInvalidInput)
		}
		end = addDuration(start, x.Duration)
	}

	if start.IsZero() && end.IsZero() {
		return Result{}, fmt.Errorf("date expression: in-range requires a start or an end: %w", types.ErrInvalidInput)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return Result{}, fmt.Errorf("date expression: end %s precedes start %s: %w",
			end.Format(time.RFC3339), start.Format(time.RFC3339), types.ErrInvalidInput)
	}

	if !start.IsZero() && in.Now.Before(start) {
		return Result{NextChange: start}, nil
	}
	if !end.IsZero() && !in.Now.Before(end) {
		// The interval has permanently closed.
		return Result{}, nil
	}

	res := Result{Satisfied: true}
	if !end.IsZero() {
		res.NextChange = end
	}
	return res, nil
}

// addDuration applies an ISO 8601 duration calendar-aware: years, months,
// weeks, and days move through the calendar, sub-day components are fixed
// arithmetic.
func addDuration(t time.Time, d *duration.Duration) time.Time {
	t = t.AddDate(int(d.Years), int(d.Months), 7*int(d.Weeks)+int(d.Days))
	return t.Add(time.Duration(d.Hours*float64(time.Hour)) +
		time.Duration(d.Minutes*float64(time.Minute)) +
		time.Duration(d.Seconds*float64(time.Second)))
}
