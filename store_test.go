package cohort_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ezachrisen/cohort"
	"github.com/matryer/is"
)

func ids(rules []*cohort.Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.ID
	}
	return out
}

func TestNewStore(t *testing.T) {
	is := is.New(t)
	s, err := cohort.NewStore(makeEntities(), makeRules(t))
	is.NoErr(err)
	is.Equal(s.EntityCount(), 4)
	is.Equal(s.CohortCount(), 4)
	is.Equal(ids(s.Cohorts()), []string{"1", "2", "3", "4"})

	e, err := s.Entity(4)
	is.NoErr(err)
	is.Equal(e.FirstName, "Anna")

	_, err = s.Entity(3)
	is.True(errors.Is(err, cohort.ErrEntityNotFound))

	order := []int{}
	for _, e := range s.Entities() {
		order = append(order, e.EID)
	}
	is.Equal(order, []int{1, 2, 4, 5})
}

func TestNewStoreDuplicates(t *testing.T) {
	is := is.New(t)

	ents := append(makeEntities(), &cohort.Entity{EID: 1})
	_, err := cohort.NewStore(ents, nil)
	is.True(errors.Is(err, cohort.ErrDuplicateEntity))

	// a repeated cohort replaces the first one in its position
	rules := append(makeRules(t), mustRule(t, "cohort:2\tcountry:FR"))
	s, err := cohort.NewStore(makeEntities(), rules)
	is.NoErr(err)
	is.Equal(ids(s.Cohorts()), []string{"1", "2", "3", "4"})
	r, ok := s.Cohort("2")
	is.True(ok)
	is.Equal(r.Spec["country"], "FR")
}

func TestStoreUpsert(t *testing.T) {
	is := is.New(t)
	s, err := cohort.NewStore(makeEntities(), makeRules(t))
	is.NoErr(err)

	replaced := s.Upsert(mustRule(t, "cohort:3\tlast_name:Lee"), mustRule(t, "cohort:x\tcountry:US"))
	is.Equal(replaced, []bool{true, false})
	is.Equal(ids(s.Cohorts()), []string{"1", "2", "3", "4", "x"})

	r, ok := s.Cohort("3")
	is.True(ok)
	is.Equal(r.Spec, map[string]string{"cohort": "3", "last_name": "Lee"})

	_, ok = s.Cohort("nope")
	is.True(!ok)
}

func TestStoreDelete(t *testing.T) {
	is := is.New(t)
	s, err := cohort.NewStore(makeEntities(), makeRules(t))
	is.NoErr(err)

	is.NoErr(s.Delete("2"))
	is.Equal(ids(s.Cohorts()), []string{"1", "3", "4"})

	// the index must follow the shifted positions
	s.Upsert(mustRule(t, "cohort:4\tcountry:CH"))
	is.Equal(ids(s.Cohorts()), []string{"1", "3", "4"})
	r, _ := s.Cohort("4")
	is.Equal(r.Spec["country"], "CH")

	err = s.Delete("2")
	is.True(errors.Is(err, cohort.ErrCohortNotFound))
}

func TestStoreReplace(t *testing.T) {
	is := is.New(t)
	s, err := cohort.NewStore(makeEntities(), makeRules(t))
	is.NoErr(err)

	s.Replace(mustRule(t, "cohort:b"), mustRule(t, "cohort:a"))
	is.Equal(ids(s.Cohorts()), []string{"b", "a"})
	_, ok := s.Cohort("1")
	is.True(!ok)
}

// A snapshot taken before a change is not affected by it.
func TestStoreSnapshot(t *testing.T) {
	is := is.New(t)
	s, err := cohort.NewStore(makeEntities(), makeRules(t))
	is.NoErr(err)

	before := s.Cohorts()
	old, _ := s.Cohort("1")
	s.Upsert(mustRule(t, "cohort:1\tcountry:CH"), mustRule(t, "cohort:5"))
	is.NoErr(s.Delete("3"))

	is.Equal(ids(before), []string{"1", "2", "3", "4"})
	is.True(before[0] == old)
	is.Equal(ids(s.Cohorts()), []string{"1", "2", "4", "5"})
}

func TestStoreConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}
	is := is.New(t)
	s, err := cohort.NewStore(makeEntities(), makeRules(t))
	is.NoErr(err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r, err := cohort.ParseRule(fmt.Sprintf("cohort:%d\tcountry:US", i%10))
			if err != nil {
				t.Error(err)
				return
			}
			s.Upsert(r)
		}(i)
		go func() {
			defer wg.Done()
			seen := map[string]bool{}
			for _, r := range s.Cohorts() {
				if seen[r.ID] {
					t.Errorf("duplicate cohort %s in snapshot", r.ID)
				}
				seen[r.ID] = true
			}
		}()
	}
	wg.Wait()

	// cohorts 1-4 kept their positions, 0 and 5-9 were appended
	got := ids(s.Cohorts())
	is.Equal(len(got), 10)
	is.Equal(got[:4], []string{"1", "2", "3", "4"})
}
