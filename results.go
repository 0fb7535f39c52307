package cohort

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Result of matching one entity against every cohort rule.
type Result struct {
	// The entity that was matched
	Entity *Entity

	// One entry per rule, in store order
	Cohorts []CohortResult
}

// CohortResult is the outcome of one rule.
type CohortResult struct {
	Rule *Rule

	// Whether the entity is a member of the cohort.
	Pass bool

	// Outcome of each predicate, in the rule's predicate order.
	Fields []FieldResult
}

// FieldResult is the outcome of one predicate.
type FieldResult struct {
	Predicate Predicate
	Pass      bool
}

// Matches returns the IDs of the cohorts that passed, in store order.
func (u *Result) Matches() []string {
	ids := []string{}
	for _, c := range u.Cohorts {
		if c.Pass {
			ids = append(ids, c.Rule.ID)
		}
	}
	return ids
}

// String produces a table of every rule and predicate evaluated, and the outcome.
func (u *Result) String() string {
	tw := table.NewWriter()
	tw.SetTitle(fmt.Sprintf("COHORTS FOR EID %d", u.Entity.EID))
	tw.AppendHeader(table.Row{"Cohort", "Pass/\nFail", "Field", "Spec", "Entity\nValue", "Field\nPass/Fail"})

	for _, c := range u.Cohorts {
		tw.AppendRow(table.Row{c.Rule.ID, boolString(c.Pass), "", "", "", ""})
		for _, f := range c.Fields {
			tw.AppendRow(table.Row{"", "", f.Predicate.Field, f.Predicate.Spec, entityValue(u.Entity, f.Predicate.Field), boolString(f.Pass)})
		}
	}

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

func boolString(b bool) string {
	switch b {
	case true:
		return "PASS"
	default:
		return "FAIL"
	}
}

// entityValue formats the entity's value for a field for display.
func entityValue(e *Entity, field string) string {
	switch field {
	case Age:
		return strconv.Itoa(e.Age)
	case Emails:
		return strings.Join(e.Emails, "\n")
	}
	v, _ := e.Text(field)
	return v
}
