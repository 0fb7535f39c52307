package cohort_test

import (
	"flag"
	"testing"

	"github.com/ezachrisen/cohort"
	"github.com/ezachrisen/cohort/cel"
)

// Set flag with go test -run=MyTest --debug=true
// to print result tables
var debugOutput bool

func init() {
	flag.BoolVar(&debugOutput, "debug", false, "Enable detailed logging for tests")
}

func debugLogf(t *testing.T, format string, args ...any) {
	t.Helper()
	if debugOutput {
		t.Logf(format, args...)
	}
}

// makeEntities returns the test population.
func makeEntities() []*cohort.Entity {
	return []*cohort.Entity{
		{
			EID:       1,
			FirstName: "John",
			LastName:  "Lee",
			Age:       22,
			Country:   "US",
			ZipCode:   "91003",
			Emails:    []string{"jlee@yahoo.com", "johnl@aol.com", "jl123@gmail.com"},
		},
		{
			EID:       2,
			FirstName: "Mary",
			LastName:  "Chen",
			Age:       35,
			Country:   "US",
			ZipCode:   "02134",
			Emails:    []string{"mchen@hotmail.com"},
		},
		{
			EID:       4,
			FirstName: "Anna",
			LastName:  "Meier",
			Age:       45,
			Country:   "CH",
			ZipCode:   "8001",
			Emails:    []string{"anna.meier@bluewin.ch", "am@hotmail.com"},
		},
		{
			EID:       5,
			FirstName: "Tom",
			LastName:  "Tan",
			Age:       81,
			Country:   "CH",
			ZipCode:   "349999",
			Emails:    []string{},
		},
	}
}

// makeRules returns the test cohorts, parsed fresh on every call.
func makeRules(t *testing.T) []*cohort.Rule {
	t.Helper()
	lines := []string{
		"cohort:1\tlast_name:Chen\tage:[10,50]\tcountry:US",
		"cohort:2\tage:(15,45]\tcountry:CH\temails:hotmail.com",
		"cohort:3\tfirst_name:John\tzip_code:91003",
		"cohort:4\tcountry:US\temails:gmail.com",
	}
	rules := make([]*cohort.Rule, len(lines))
	for i, l := range lines {
		r, err := cohort.ParseRule(l)
		if err != nil {
			t.Fatalf("parsing %q: %v", l, err)
		}
		rules[i] = r
	}
	return rules
}

func mustRule(t *testing.T, line string) *cohort.Rule {
	t.Helper()
	r, err := cohort.ParseRule(line)
	if err != nil {
		t.Fatalf("parsing %q: %v", line, err)
	}
	return r
}

// newEngine creates an engine over the test population and the rules.
func newEngine(t *testing.T, ev cohort.Evaluator, rules ...*cohort.Rule) *cohort.Engine {
	t.Helper()
	s, err := cohort.NewStore(makeEntities(), rules)
	if err != nil {
		t.Fatal(err)
	}
	e, err := cohort.NewEngine(s, cohort.WithEvaluator(ev))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// forEachEvaluator runs fn as a subtest once per evaluator implementation.
// Both must produce the same results.
func forEachEvaluator(t *testing.T, fn func(t *testing.T, ev cohort.Evaluator)) {
	t.Helper()
	celEval, err := cel.NewEvaluator()
	if err != nil {
		t.Fatal(err)
	}
	evaluators := []struct {
		name string
		ev   cohort.Evaluator
	}{
		{"native", cohort.NewNativeEvaluator()},
		{"cel", celEval},
	}
	for _, c := range evaluators {
		t.Run(c.name, func(t *testing.T) {
			fn(t, c.ev)
		})
	}
}
