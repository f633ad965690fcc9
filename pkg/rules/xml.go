package rules

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/cuemby/burrow/pkg/types"
	"github.com/sosodev/duration"
)

// Element and attribute names of the rule grammar inside a configuration
// document.
const (
	TagRule           = "rule"
	TagExpression     = "expression"
	TagDateExpression = "date-expression"
	TagDateSpec       = "date-spec"

	AttrRef = "ref"
)

// opSpec selects date-spec evaluation inside a date-expression element.
const opSpec = "spec"

// ParseRule decodes a <rule> element into its expression tree. The element's
// children may be nested rules, attribute expressions, and date expressions;
// they are combined under the element's boolean-op (default "and").
//
// A <rule ref="..."> reference element is not resolved here; block parsing
// resolves references against the document-wide rule index.
func ParseRule(el *etree.Element) (*Rule, error) {
	id := el.SelectAttrValue("id", "")

	op := BoolOp(el.SelectAttrValue("boolean-op", string(BoolAnd)))
	if op != BoolAnd && op != BoolOr {
		return nil, fmt.Errorf("rule %q: unknown boolean-op %q: %w", id, op, types.ErrInvalidInput)
	}

	combo := &Combo{Op: op}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case TagRule:
			nested, err := ParseRule(child)
			if err != nil {
				return nil, err
			}
			combo.Children = append(combo.Children, nested.Expr)
		case TagExpression:
			expr, err := parseComparison(child)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", id, err)
			}
			combo.Children = append(combo.Children, expr)
		case TagDateExpression:
			expr, err := parseDateExpression(child)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", id, err)
			}
			combo.Children = append(combo.Children, expr)
		default:
			return nil, fmt.Errorf("rule %q: unknown element <%s>: %w", id, child.Tag, types.ErrInvalidInput)
		}
	}

	return &Rule{ID: id, Expr: combo}, nil
}

func parseComparison(el *etree.Element) (Expr, error) {
	id := el.SelectAttrValue("id", "")

	attr := el.SelectAttrValue("attribute", "")
	if attr == "" {
		return nil, fmt.Errorf("expression %q: missing attribute name: %w", id, types.ErrInvalidInput)
	}

	op := CmpOp(el.SelectAttrValue("operation", ""))
	switch op {
	case CmpDefined, CmpNotDefined, CmpEq, CmpNe, CmpLt, CmpGt, CmpLte, CmpGte:
	default:
		return nil, fmt.Errorf("expression %q: unknown operation %q: %w", id, op, types.ErrInvalidInput)
	}

	typ := ValueType(el.SelectAttrValue("type", string(TypeString)))
	switch typ {
	case TypeString, TypeInteger, TypeNumber, TypeVersion:
	default:
		return nil, fmt.Errorf("expression %q: unknown type %q: %w", id, typ, types.ErrInvalidInput)
	}

	return &Comparison{
		Attr:  attr,
		Op:    op,
		Value: el.SelectAttrValue("value", ""),
		Type:  typ,
	}, nil
}

func parseDateExpression(el *etree.Element) (Expr, error) {
	id := el.SelectAttrValue("id", "")
	op := el.SelectAttrValue("op", "")

	if op == opSpec {
		specEl := el.SelectElement(TagDateSpec)
		if specEl == nil {
			return nil, fmt.Errorf("date-expression %q: missing <date-spec>: %w", id, types.ErrInvalidInput)
		}
		return parseDateSpec(specEl)
	}

	x := &DateRange{Op: RangeOp(op)}
	switch x.Op {
	case RangeInRange, RangeGT, RangeLT:
	default:
		return nil, fmt.Errorf("date-expression %q: unknown op %q: %w", id, op, types.ErrInvalidInput)
	}

	var err error
	if s := el.SelectAttrValue("start", ""); s != "" {
		if x.Start, err = types.ParseTime(s); err != nil {
			return nil, fmt.Errorf("date-expression %q: start: %w", id, err)
		}
	}
	if s := el.SelectAttrValue("end", ""); s != "" {
		if x.End, err = types.ParseTime(s); err != nil {
			return nil, fmt.Errorf("date-expression %q: end: %w", id, err)
		}
	}
	if s := el.SelectAttrValue("duration", ""); s != "" {
		if x.Duration, err = duration.Parse(s); err != nil {
			return nil, fmt.Errorf("date-expression %q: duration %q: %w", id, s, types.ErrInvalidInput)
		}
	}

	return x, nil
}

func parseDateSpec(el *etree.Element) (Expr, error) {
	spec := &DateSpec{}
	fields := []struct {
		name string
		dst  *Field
	}{
		{"hours", &spec.Hours},
		{"weekdays", &spec.Weekdays},
		{"monthdays", &spec.Monthdays},
		{"months", &spec.Months},
		{"years", &spec.Years},
	}

	for _, f := range fields {
		s := el.SelectAttrValue(f.name, "")
		if s == "" {
			continue
		}
		field, err := ParseField(s)
		if err != nil {
			return nil, fmt.Errorf("date-spec: %s: %w", f.name, err)
		}
		*f.dst = field
	}

	return spec, nil
}
