package source

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezachrisen/cohort"
)

// Column order of the entity TSV format.
var entityColumns = []string{
	"eid",
	cohort.FirstName,
	cohort.LastName,
	cohort.Age,
	cohort.Country,
	cohort.ZipCode,
	cohort.Emails,
}

// ReadEntitiesTSV reads entities, one per line, with tab-separated columns
// in the order eid, first_name, last_name, age, country, zip_code, emails.
// Emails are written as a bracketed, comma-separated list: [a@x.com,b@y.com]
// or [] for none. A header line starting with "eid" and blank lines are
// skipped.
func ReadEntitiesTSV(r io.Reader) ([]*cohort.Entity, error) {
	var out []*cohort.Entity
	err := scanLines(r, func(n int, line string) error {
		if strings.HasPrefix(line, "eid") {
			return nil
		}
		e, err := parseEntity(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

func parseEntity(line string) (*cohort.Entity, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != len(entityColumns) {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", cohort.ErrMalformedEntity, len(entityColumns), len(cols))
	}

	eid, err := strconv.Atoi(cols[0])
	if err != nil {
		return nil, fmt.Errorf("%w: eid: %v", cohort.ErrMalformedEntity, err)
	}
	age, err := strconv.Atoi(cols[3])
	if err != nil {
		return nil, fmt.Errorf("%w: eid %d: age: %v", cohort.ErrMalformedEntity, eid, err)
	}
	emails, err := parseList(cols[6])
	if err != nil {
		return nil, fmt.Errorf("%w: eid %d: emails: %v", cohort.ErrMalformedEntity, eid, err)
	}

	e := &cohort.Entity{
		EID:       eid,
		FirstName: cols[1],
		LastName:  cols[2],
		Age:       age,
		Country:   cols[4],
		ZipCode:   cols[5],
		Emails:    emails,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// parseList parses [a,b,c]. [] is the empty list.
func parseList(s string) ([]string, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") || len(s) < 2 {
		return nil, fmt.Errorf("%q is not a bracketed list", s)
	}
	inner := s[1 : len(s)-1]
	if inner == "" {
		return []string{}, nil
	}
	items := strings.Split(inner, ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items, nil
}

// ReadCohortsTSV reads one rule per line in the format accepted by
// cohort.ParseRule. Blank lines are skipped.
func ReadCohortsTSV(r io.Reader) ([]*cohort.Rule, error) {
	var out []*cohort.Rule
	err := scanLines(r, func(n int, line string) error {
		rule, err := cohort.ParseRule(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		out = append(out, rule)
		return nil
	})
	return out, err
}

// WriteCohortsTSV writes one rule per line.
func WriteCohortsTSV(w io.Writer, rules []*cohort.Rule) error {
	bw := bufio.NewWriter(w)
	for _, r := range rules {
		if _, err := bw.WriteString(r.Text() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// scanLines calls fn for each non-blank line, with its 1-based line number.
func scanLines(r io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	return sc.Err()
}
