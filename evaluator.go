package cohort

import (
	"fmt"
)

// Evaluator is the interface implemented by types that decide whether an
// entity satisfies a rule.
type Evaluator interface {
	// Compile pre-processes the rule, returning a compiled version.
	// The engine stores the compiled version in Rule.Program before the
	// rule becomes visible to Eval.
	Compile(r *Rule) (any, error)

	// Eval reports whether the entity satisfies every predicate in the rule.
	Eval(r *Rule, e *Entity) (bool, error)
}

// NativeEvaluator evaluates the parsed predicates of a rule directly.
type NativeEvaluator struct{}

// NewNativeEvaluator returns the default evaluator.
func NewNativeEvaluator() *NativeEvaluator {
	return &NativeEvaluator{}
}

// Compile checks nothing beyond what NewRule already parsed.
func (NativeEvaluator) Compile(r *Rule) (any, error) {
	return nil, nil
}

// Eval evaluates every predicate of the rule. All predicates are evaluated
// even after one fails, so that errors do not depend on field order.
func (NativeEvaluator) Eval(r *Rule, e *Entity) (bool, error) {
	if err := CheckFields(r); err != nil {
		return false, err
	}
	pass := true
	for _, p := range r.Predicates {
		ok, err := p.Match(e)
		if err != nil {
			return false, fmt.Errorf("cohort %s: %w", r.ID, err)
		}
		if !ok {
			pass = false
		}
	}
	return pass, nil
}

// CheckFields returns ErrUnrecognizedField if the rule has a predicate on a
// field outside the schema.
func CheckFields(r *Rule) error {
	for _, p := range r.Predicates {
		if p.Kind == Unrecognized {
			return fmt.Errorf("cohort %s: %w: %s", r.ID, ErrUnrecognizedField, p.Field)
		}
	}
	return nil
}
