package cohort

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// A Rule defines the membership condition of a cohort: a set of field
// predicates that must all hold for an entity to be a member.
//
// Rules are parsed once, when they are created. A rule stored in the engine
// must not be modified; to change a cohort, upsert a new rule with the same ID.
type Rule struct {
	// The cohort identifier, taken from the cohort key. Opaque; not
	// necessarily numeric.
	ID string `json:"cohort"`

	// Spec is the field to predicate specification mapping exactly as
	// supplied, including the cohort key.
	Spec map[string]string `json:"spec"`

	// Predicates parsed from Spec, sorted by field name. The cohort key is
	// not a predicate.
	Predicates []Predicate `json:"-"`

	// Reference to the compiled form produced by an Evaluator.
	Program any `json:"-"`
}

// NewRule parses the specification into a rule. The specification must
// contain the cohort key. Field names are not checked here: predicates on
// unknown fields are kept and fail when the rule is evaluated.
func NewRule(spec map[string]string) (*Rule, error) {
	id, ok := spec[IDKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s key", ErrMalformedRule, IDKey)
	}

	r := &Rule{
		ID:   id,
		Spec: maps.Clone(spec),
	}

	for _, field := range r.fieldNames() {
		p, err := ParsePredicate(field, spec[field])
		if err != nil {
			return nil, fmt.Errorf("cohort %s: %w", id, err)
		}
		r.Predicates = append(r.Predicates, p)
	}
	return r, nil
}

// ParseRule parses a tab-separated list of key:value tokens, such as
//
//	cohort:5	last_name:Jackson	age:(18,26)
//
// Each token is split at its first colon, so values may contain colons.
func ParseRule(line string) (*Rule, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, fmt.Errorf("%w: empty rule", ErrMalformedRule)
	}

	spec := map[string]string{}
	for i, tok := range strings.Split(line, "\t") {
		k, v, ok := strings.Cut(tok, ":")
		if !ok {
			return nil, fmt.Errorf("%w: token %d (%q) is not key:value", ErrMalformedRule, i+1, tok)
		}
		if k == "" {
			return nil, fmt.Errorf("%w: token %d (%q) has an empty key", ErrMalformedRule, i+1, tok)
		}
		if _, dup := spec[k]; dup {
			return nil, fmt.Errorf("%w: key %s appears more than once", ErrMalformedRule, k)
		}
		spec[k] = v
	}
	return NewRule(spec)
}

// Text returns the rule as a tab-separated line that ParseRule accepts.
// The cohort token comes first, followed by the fields in name order.
func (r *Rule) Text() string {
	toks := []string{IDKey + ":" + r.ID}
	for _, f := range r.fieldNames() {
		toks = append(toks, f+":"+r.Spec[f])
	}
	return strings.Join(toks, "\t")
}

// fieldNames returns the predicate field names in sorted order.
func (r *Rule) fieldNames() []string {
	names := make([]string, 0, len(r.Spec))
	for k := range r.Spec {
		if k == IDKey {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String returns the rule's predicates as a table.
func (r *Rule) String() string {
	tw := table.NewWriter()
	tw.SetTitle("COHORT " + r.ID)
	tw.AppendHeader(table.Row{"Field", "Kind", "Spec"})
	for _, p := range r.Predicates {
		tw.AppendRow(table.Row{p.Field, p.Kind, p.Spec})
	}
	if len(r.Predicates) == 0 {
		tw.AppendRow(table.Row{"(any)", "", ""})
	}
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}
