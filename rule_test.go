package cohort_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ezachrisen/cohort"
	"github.com/matryer/is"
)

func TestParseRule(t *testing.T) {
	is := is.New(t)

	r, err := cohort.ParseRule("cohort:5\tlast_name:Jackson\tage:(18,26)")
	is.NoErr(err)
	is.Equal(r.ID, "5")
	is.Equal(r.Spec, map[string]string{
		"cohort":    "5",
		"last_name": "Jackson",
		"age":       "(18,26)",
	})

	// predicates are sorted by field and exclude the cohort key
	is.Equal(len(r.Predicates), 2)
	is.Equal(r.Predicates[0].Field, "age")
	is.Equal(r.Predicates[0].Kind, cohort.Interval)
	is.Equal(r.Predicates[0].Bounds, cohort.Bounds{Low: 18, High: 26})
	is.Equal(r.Predicates[1].Field, "last_name")
	is.Equal(r.Predicates[1].Value, "Jackson")
}

func TestParseRuleEdgeCases(t *testing.T) {
	cases := []struct {
		name string
		line string
		id   string
		spec map[string]string
		err  error
	}{
		{
			name: "only the cohort key",
			line: "cohort:any",
			id:   "any",
			spec: map[string]string{"cohort": "any"},
		},
		{
			name: "non-numeric identifier",
			line: "cohort:gold-tier\tcountry:US",
			id:   "gold-tier",
			spec: map[string]string{"cohort": "gold-tier", "country": "US"},
		},
		{
			name: "value containing colons",
			line: "cohort:7\tzip_code:a:b:c",
			id:   "7",
			spec: map[string]string{"cohort": "7", "zip_code": "a:b:c"},
		},
		{
			name: "empty value",
			line: "cohort:8\tlast_name:",
			id:   "8",
			spec: map[string]string{"cohort": "8", "last_name": ""},
		},
		{
			name: "trailing newline",
			line: "cohort:9\tcountry:CH\r\n",
			id:   "9",
			spec: map[string]string{"cohort": "9", "country": "CH"},
		},
		{
			name: "unknown field is kept",
			line: "cohort:10\temail:gmail.com",
			id:   "10",
			spec: map[string]string{"cohort": "10", "email": "gmail.com"},
		},
		{name: "missing cohort", line: "last_name:Jackson\tage:(18,26)", err: cohort.ErrMalformedRule},
		{name: "empty line", line: "", err: cohort.ErrMalformedRule},
		{name: "token without colon", line: "cohort:5\tJackson", err: cohort.ErrMalformedRule},
		{name: "empty token", line: "cohort:5\t\tcountry:US", err: cohort.ErrMalformedRule},
		{name: "empty key", line: "cohort:5\t:US", err: cohort.ErrMalformedRule},
		{name: "duplicate key", line: "cohort:5\tcountry:US\tcountry:CH", err: cohort.ErrMalformedRule},
		{name: "space separated", line: "cohort:5 last_name:Jackson", id: "5 last_name:Jackson", spec: map[string]string{"cohort": "5 last_name:Jackson"}},
		{name: "malformed interval", line: "cohort:5\tage:18-26", err: cohort.ErrMalformedPredicate},
		{name: "interval bounds not integers", line: "cohort:5\tage:[a,b]", err: cohort.ErrMalformedPredicate},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			is := is.New(t)
			r, err := cohort.ParseRule(c.line)
			if c.err != nil {
				is.True(errors.Is(err, c.err))
				is.True(r == nil)
				return
			}
			is.NoErr(err)
			is.Equal(r.ID, c.id)
			is.Equal(r.Spec, c.spec)
		})
	}
}

func TestNewRuleCopiesSpec(t *testing.T) {
	is := is.New(t)
	spec := map[string]string{"cohort": "1", "country": "US"}
	r, err := cohort.NewRule(spec)
	is.NoErr(err)
	spec["country"] = "CH"
	is.Equal(r.Spec["country"], "US")

	_, err = cohort.NewRule(map[string]string{"country": "US"})
	is.True(errors.Is(err, cohort.ErrMalformedRule))
}

func TestRuleText(t *testing.T) {
	is := is.New(t)
	line := "zip_code:91003\tcohort:3\tfirst_name:John"
	r := mustRule(t, line)
	is.Equal(r.Text(), "cohort:3\tfirst_name:John\tzip_code:91003")

	again := mustRule(t, r.Text())
	is.Equal(again.Spec, r.Spec)
}

func TestRuleString(t *testing.T) {
	is := is.New(t)
	r := mustRule(t, "cohort:2\tage:(15,45]\tcountry:CH\temails:hotmail.com")
	s := r.String()
	debugLogf(t, "%s\n", s)
	is.True(strings.Contains(s, "COHORT 2"))
	is.True(strings.Contains(s, "(15,45]"))
	is.True(strings.Contains(s, "email domain"))

	empty := mustRule(t, "cohort:all")
	is.True(strings.Contains(empty.String(), "(any)"))
}
