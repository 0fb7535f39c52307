package cohort

import (
	"fmt"
	"sort"
	"strings"
)

// Names of the entity fields a rule can refer to.
const (
	FirstName = "first_name"
	LastName  = "last_name"
	Age       = "age"
	Country   = "country"
	ZipCode   = "zip_code"
	Emails    = "emails"

	// IDKey is the rule key holding the cohort identifier. It is metadata
	// and is never evaluated.
	IDKey = "cohort"
)

// Kind determines how a predicate specification is interpreted.
type Kind int

const (
	// Unrecognized marks a predicate on a field outside the schema.
	// Evaluating it is an error.
	Unrecognized Kind = iota

	// Exact predicates match if the field equals the specification.
	Exact

	// Interval predicates match if the field lies within a bracketed
	// integer interval such as (15,45].
	Interval

	// Domain predicates match if any email address has the domain.
	Domain
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Interval:
		return "interval"
	case Domain:
		return "email domain"
	default:
		return "unrecognized"
	}
}

// Type is the data type of an entity field as seen by an evaluator.
type Type interface {
	String() string
}

// String defines a string field.
type String struct{}

// Int defines an integer field.
type Int struct{}

// List defines a field holding a slice of values
type List struct {
	ValueType Type // the type of element stored in the list
}

func (String) String() string { return "string" }
func (Int) String() string    { return "int" }
func (t List) String() string { return "list(" + t.ValueType.String() + ")" }

// A DataElement describes one field of the entity schema.
type DataElement struct {
	Name string
	Kind Kind
	Type Type
}

func (d DataElement) String() string {
	return fmt.Sprintf("  %s (%s, %s)", d.Name, d.Type, d.Kind)
}

// Schema is the fixed set of fields rules can be written against.
type Schema map[string]DataElement

// Fields is the registry of recognized fields.
var Fields = Schema{
	FirstName: {Name: FirstName, Kind: Exact, Type: String{}},
	LastName:  {Name: LastName, Kind: Exact, Type: String{}},
	Country:   {Name: Country, Kind: Exact, Type: String{}},
	ZipCode:   {Name: ZipCode, Kind: Exact, Type: String{}},
	Age:       {Name: Age, Kind: Interval, Type: Int{}},
	Emails:    {Name: Emails, Kind: Domain, Type: List{ValueType: String{}}},
}

// Kind returns the predicate kind of the field, or Unrecognized.
func (s Schema) Kind(field string) Kind {
	d, ok := s[field]
	if !ok {
		return Unrecognized
	}
	return d.Kind
}

// Elements returns the schema's fields sorted by name.
func (s Schema) Elements() []DataElement {
	out := make([]DataElement, 0, len(s))
	for _, d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s Schema) String() string {
	x := strings.Builder{}
	for _, e := range s.Elements() {
		x.WriteString(e.String())
		x.WriteString("\n")
	}
	return x.String()
}
