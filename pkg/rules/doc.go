// Package rules implements time- and attribute-based rule evaluation for
// configuration blocks.
//
// A rule is a boolean expression over node attributes and the calendar.
// Rules gate whether a block of name/value pairs applies to a node at a
// given instant, and the evaluator additionally reports when its answer
// could next change so callers can schedule a re-evaluation instead of
// polling.
//
// # Expression Model
//
// Expr is a closed set of four variants:
//
//	Combo       and/or over child expressions
//	Comparison  node attribute vs. literal (string/integer/number/version)
//	DateRange   in-range / gt / lt over [start, end)
//	DateSpec    cron-style calendar restriction (hours, weekdays, ...)
//
// Evaluation dispatches exhaustively over these types. There is no
// string-keyed operator table at evaluation time; unknown operators are
// rejected when the expression is built, not discovered mid-evaluation.
//
// # Evaluation Contract
//
// Evaluate is pure: the caller supplies "now" through Input and the
// evaluator never touches the wall clock, so the same rule and input always
// produce the same Result. Date intervals are inclusive of their start and
// exclusive of their end.
//
//	in := rules.Input{Now: now, Node: "node-1", Attrs: attrs}
//	res, err := rules.Evaluate(rule, in)
//	if res.Satisfied { ... }
//	if !res.NextChange.IsZero() { scheduleAt(res.NextChange) }
//
// Result.NextChange is the earliest future instant the verdict could flip;
// the zero time means it is stable forever. Combinators evaluate every
// child even once the boolean outcome is decided, so each child's
// next-change folds into the result. A short-circuiting or would report
// "stable forever" for a rule whose second arm opens in five minutes.
//
// # Failure Mode
//
// Malformed expressions (inverted intervals, non-numeric operands under a
// numeric type, unknown enum values) fail closed: the result is
// unsatisfied and the error wraps types.ErrInvalidInput. A combinator
// collects child errors with errors.Join and still returns its best-effort
// verdict, so one broken arm cannot take down an otherwise healthy or.
//
// # XML Form
//
// ParseRule decodes the rule grammar used in configuration documents:
//
//	<rule id="business-hours" boolean-op="and">
//	  <expression attribute="site" operation="eq" value="east"/>
//	  <date-expression op="spec">
//	    <date-spec hours="9-16" weekdays="1-5"/>
//	  </date-expression>
//	</rule>
//
// Reference elements (<rule ref="..."/>) are resolved by the block
// unpacker against a document-wide index, not here.
package rules
