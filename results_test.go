package cohort_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ezachrisen/cohort"
	"github.com/matryer/is"
)

func TestExplain(t *testing.T) {
	forEachEvaluator(t, func(t *testing.T, ev cohort.Evaluator) {
		is := is.New(t)
		e := newEngine(t, ev, makeRules(t)...)

		res, err := e.Explain(1)
		is.NoErr(err)
		is.Equal(res.Entity.EID, 1)
		is.Equal(len(res.Cohorts), 4)
		is.Equal(res.Matches(), []string{"3", "4"})

		// cohort 1: last_name:Chen age:[10,50] country:US
		c1 := res.Cohorts[0]
		is.Equal(c1.Rule.ID, "1")
		is.True(!c1.Pass)
		outcome := map[string]bool{}
		for _, f := range c1.Fields {
			outcome[f.Predicate.Field] = f.Pass
		}
		is.Equal(outcome, map[string]bool{"age": true, "country": true, "last_name": false})

		s := res.String()
		debugLogf(t, "%s\n", s)
		is.True(strings.Contains(s, "COHORTS FOR EID 1"))
		is.True(strings.Contains(s, "jl123@gmail.com"))
		is.True(strings.Contains(s, "PASS"))
		is.True(strings.Contains(s, "FAIL"))
	})
}

func TestExplainErrors(t *testing.T) {
	is := is.New(t)
	e := newEngine(t, cohort.NewNativeEvaluator(), makeRules(t)...)

	_, err := e.Explain(42)
	is.True(errors.Is(err, cohort.ErrEntityNotFound))

	_, err = e.UpsertCohort("cohort:z\theight:180")
	is.NoErr(err)
	_, err = e.Explain(1)
	is.True(errors.Is(err, cohort.ErrUnrecognizedField))
}

func TestResultMatchesEmpty(t *testing.T) {
	is := is.New(t)
	var res cohort.Result
	is.Equal(res.Matches(), []string{})
}
