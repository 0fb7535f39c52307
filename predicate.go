package cohort

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// A Predicate is a single field-level test. Which of Value and Bounds is
// used depends on the Kind.
type Predicate struct {
	Field string
	Kind  Kind

	// The raw specification, as written in the rule.
	Spec string

	// Exact value or email domain.
	Value string

	// Parsed interval, for Interval predicates.
	Bounds Bounds
}

// Bounds is an integer interval. Each end is either inclusive (written
// with [ or ]) or exclusive (written with ( or )).
type Bounds struct {
	Low           int
	LowInclusive  bool
	High          int
	HighInclusive bool
}

// ParseBounds parses an interval of the form [10,50], (15,45], [18,26) etc.
func ParseBounds(spec string) (Bounds, error) {
	var b Bounds
	if len(spec) < 2 {
		return b, fmt.Errorf("%w: interval %q is too short", ErrMalformedPredicate, spec)
	}

	switch spec[0] {
	case '[':
		b.LowInclusive = true
	case '(':
	default:
		return b, fmt.Errorf("%w: interval %q must start with [ or (", ErrMalformedPredicate, spec)
	}

	switch spec[len(spec)-1] {
	case ']':
		b.HighInclusive = true
	case ')':
	default:
		return b, fmt.Errorf("%w: interval %q must end with ] or )", ErrMalformedPredicate, spec)
	}

	parts := strings.Split(spec[1:len(spec)-1], ",")
	if len(parts) != 2 {
		return b, fmt.Errorf("%w: interval %q must have exactly two bounds", ErrMalformedPredicate, spec)
	}

	var err error
	if b.Low, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return b, fmt.Errorf("%w: interval %q lower bound: %v", ErrMalformedPredicate, spec, err)
	}
	if b.High, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return b, fmt.Errorf("%w: interval %q upper bound: %v", ErrMalformedPredicate, spec, err)
	}
	return b, nil
}

// Contains reports whether v lies within the interval.
func (b Bounds) Contains(v int) bool {
	lowOK := v > b.Low
	if b.LowInclusive {
		lowOK = v >= b.Low
	}
	highOK := v < b.High
	if b.HighInclusive {
		highOK = v <= b.High
	}
	return lowOK && highOK
}

func (b Bounds) String() string {
	lo, hi := "(", ")"
	if b.LowInclusive {
		lo = "["
	}
	if b.HighInclusive {
		hi = "]"
	}
	return fmt.Sprintf("%s%d,%d%s", lo, b.Low, b.High, hi)
}

// ParsePredicate interprets spec according to the kind the Fields registry
// assigns to field. The spec must be valid UTF-8. Fields outside the registry produce an Unrecognized
// predicate rather than an error; the error is raised when the predicate is
// evaluated.
func ParsePredicate(field, spec string) (Predicate, error) {
	p := Predicate{
		Field: field,
		Kind:  Fields.Kind(field),
		Spec:  spec,
	}
	if !utf8.ValidString(spec) {
		return p, fmt.Errorf("field %s: %w: %q is not valid UTF-8", field, ErrMalformedPredicate, spec)
	}
	switch p.Kind {
	case Interval:
		b, err := ParseBounds(spec)
		if err != nil {
			return p, fmt.Errorf("field %s: %w", field, err)
		}
		p.Bounds = b
	default:
		p.Value = spec
	}
	return p, nil
}

// Match evaluates the predicate against the entity.
func (p Predicate) Match(e *Entity) (bool, error) {
	switch p.Kind {
	case Exact:
		v, ok := e.Text(p.Field)
		if !ok {
			return false, fmt.Errorf("%w: %s is not a text field", ErrUnrecognizedField, p.Field)
		}
		return v == p.Value, nil

	case Interval:
		return p.Bounds.Contains(e.Age), nil

	case Domain:
		found := false
		for _, m := range e.Emails {
			d, err := EmailDomain(m)
			if err != nil {
				return false, fmt.Errorf("eid %d: %w", e.EID, err)
			}
			if d == p.Value {
				found = true
			}
		}
		return found, nil

	default:
		return false, fmt.Errorf("%w: %s", ErrUnrecognizedField, p.Field)
	}
}

func (p Predicate) String() string {
	return p.Field + ":" + p.Spec
}
