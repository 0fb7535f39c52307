package cel

// This file contains functions that convert
//   FROM the cohort schema and rules
//   TO CEL declarations and expressions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ezachrisen/cohort"
	celgo "github.com/google/cel-go/cel"
)

// schemaToDeclarations declares one CEL variable per schema field.
func schemaToDeclarations(s cohort.Schema) ([]celgo.EnvOption, error) {
	opts := []celgo.EnvOption{}
	for _, d := range s.Elements() {
		typ, err := convertType(d.Type)
		if err != nil {
			return nil, fmt.Errorf("converting field %s: %w", d.Name, err)
		}
		opts = append(opts, celgo.Variable(d.Name, typ))
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("no valid schema")
	}
	return opts, nil
}

// convertType converts a cohort type to the CEL type.
func convertType(t cohort.Type) (*celgo.Type, error) {
	switch v := t.(type) {
	case cohort.String:
		return celgo.StringType, nil
	case cohort.Int:
		return celgo.IntType, nil
	case cohort.List:
		vt, err := convertType(v.ValueType)
		if err != nil {
			return nil, err
		}
		return celgo.ListType(vt), nil
	default:
		return nil, fmt.Errorf("unknown type %T", t)
	}
}

// ruleToExpr builds the conjunction of the rule's predicates. A rule
// without predicates is the expression true.
func ruleToExpr(r *cohort.Rule) (string, error) {
	if len(r.Predicates) == 0 {
		return "true", nil
	}
	terms := make([]string, 0, len(r.Predicates))
	for _, p := range r.Predicates {
		t, err := predicateToExpr(p)
		if err != nil {
			return "", fmt.Errorf("cohort %s: %w", r.ID, err)
		}
		terms = append(terms, t)
	}
	return strings.Join(terms, " && "), nil
}

func predicateToExpr(p cohort.Predicate) (string, error) {
	switch p.Kind {
	case cohort.Exact:
		return fmt.Sprintf("%s == %s", p.Field, strconv.Quote(p.Value)), nil

	case cohort.Interval:
		lo, hi := ">", "<"
		if p.Bounds.LowInclusive {
			lo = ">="
		}
		if p.Bounds.HighInclusive {
			hi = "<="
		}
		return fmt.Sprintf("(%s %s %d && %s %s %d)", p.Field, lo, p.Bounds.Low, p.Field, hi, p.Bounds.High), nil

	case cohort.Domain:
		return fmt.Sprintf(`%s.exists(m, m.substring(m.indexOf("@") + 1) == %s)`, p.Field, strconv.Quote(p.Value)), nil

	default:
		return "", fmt.Errorf("%w: %s", cohort.ErrUnrecognizedField, p.Field)
	}
}
