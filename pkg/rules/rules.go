package rules

import (
	"time"

	"github.com/sosodev/duration"
)

// BoolOp combines the results of a combinator's children.
type BoolOp string

const (
	BoolAnd BoolOp = "and"
	BoolOr  BoolOp = "or"
)

// CmpOp compares a node attribute against a literal value.
type CmpOp string

const (
	CmpDefined    CmpOp = "defined"
	CmpNotDefined CmpOp = "not-defined"
	CmpEq         CmpOp = "eq"
	CmpNe         CmpOp = "ne"
	CmpLt         CmpOp = "lt"
	CmpGt         CmpOp = "gt"
	CmpLte        CmpOp = "lte"
	CmpGte        CmpOp = "gte"
)

// ValueType selects how comparison operands are interpreted.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeInteger ValueType = "integer"
	TypeNumber  ValueType = "number"
	TypeVersion ValueType = "version"
)

// RangeOp is the operation of a date expression.
type RangeOp string

const (
	RangeInRange RangeOp = "in-range"
	RangeGT      RangeOp = "gt"
	RangeLT      RangeOp = "lt"
)

// Expr is the closed set of rule expression variants. Evaluation dispatches
// exhaustively over the four concrete types; there is no string-keyed
// fallthrough for unknown operators.
type Expr interface {
	isExpr()
}

// Combo combines child expressions with a boolean operation. A combinator
// with no children evaluates to the operation's identity: satisfied for and,
// unsatisfied for or.
type Combo struct {
	Op       BoolOp
	Children []Expr
}

// Comparison tests a node attribute against a literal under a value type.
type Comparison struct {
	Attr  string
	Op    CmpOp
	Value string
	Type  ValueType
}

// DateRange bounds satisfaction to a time interval. End may be given
// directly or derived from Start plus Duration. The interval is
// inclusive of Start and exclusive of End.
type DateRange struct {
	Op       RangeOp
	Start    time.Time
	End      time.Time
	Duration *duration.Duration
}

// DateSpec restricts satisfaction to calendar components of "now", cron
// style. Unset fields match everything. A date spec never contributes a
// next-change time.
type DateSpec struct {
	Hours     Field
	Weekdays  Field
	Monthdays Field
	Months    Field
	Years     Field
}

func (*Combo) isExpr()      {}
func (*Comparison) isExpr() {}
func (*DateRange) isExpr()  {}
func (*DateSpec) isExpr()   {}

// Rule is a named boolean expression gating whether a configuration block's
// values apply.
type Rule struct {
	ID   string
	Expr Expr
}

// Input carries the evaluation context: the authoritative "now", the node
// being evaluated for, and its attribute map. The evaluator never reads the
// wall clock or any other ambient state.
type Input struct {
	Now   time.Time
	Node  string
	Attrs map[string]string
}

// Result is the outcome of evaluating one rule. NextChange is the earliest
// future instant at which the rule's truth value could flip; the zero value
// means the result is stable forever.
type Result struct {
	Satisfied  bool
	NextChange time.Time
}

// Earliest returns the earlier of two next-change timestamps, treating the
// zero value as absent.
func Earliest(a, b time.Time) time.Time {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	if b.Before(a) {
		return b
	}
	return a
}
