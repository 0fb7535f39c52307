package cohort

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// Store holds the entities and the ordered collection of cohort rules.
//
// Entities are fixed when the store is created. Cohort rules can be added,
// replaced and deleted at any time: readers see an immutable snapshot of the
// cohorts, and writers publish a modified copy, so a match in progress is
// never affected by a concurrent upsert.
type Store struct {
	entities map[int]*Entity
	order    []int

	cohorts atomic.Pointer[cohortSet] // current immutable snapshot
	mu      sync.Mutex                // serializes writers
}

// cohortSet is an immutable, ordered set of rules, indexed by rule ID.
type cohortSet struct {
	rules []*Rule
	index map[string]int
}

// NewStore creates a store with the entities and rules. Entity IDs must be
// unique. If two rules share an ID, the later one replaces the earlier one
// in its position.
func NewStore(entities []*Entity, rules []*Rule) (*Store, error) {
	s := &Store{
		entities: make(map[int]*Entity, len(entities)),
	}
	for _, e := range entities {
		if e == nil {
			return nil, fmt.Errorf("nil entity")
		}
		if _, ok := s.entities[e.EID]; ok {
			return nil, fmt.Errorf("%w: eid %d", ErrDuplicateEntity, e.EID)
		}
		s.entities[e.EID] = e
		s.order = append(s.order, e.EID)
	}

	cs := &cohortSet{index: map[string]int{}}
	for _, r := range rules {
		if r == nil {
			return nil, fmt.Errorf("nil rule")
		}
		cs.upsert(r)
	}
	s.cohorts.Store(cs)
	return s, nil
}

// Entity returns the entity with the ID.
func (s *Store) Entity(eid int) (*Entity, error) {
	e, ok := s.entities[eid]
	if !ok {
		return nil, fmt.Errorf("%w: eid %d", ErrEntityNotFound, eid)
	}
	return e, nil
}

// Entities returns the entities in the order they were loaded.
func (s *Store) Entities() []*Entity {
	out := make([]*Entity, len(s.order))
	for i, id := range s.order {
		out[i] = s.entities[id]
	}
	return out
}

// EntityCount is the number of entities in the store.
func (s *Store) EntityCount() int {
	return len(s.entities)
}

// Cohorts returns the current cohort rules in store order.
// The rules themselves are shared and must not be modified.
func (s *Store) Cohorts() []*Rule {
	return slices.Clone(s.snapshot().rules)
}

// Cohort returns the rule with the ID.
func (s *Store) Cohort(id string) (*Rule, bool) {
	cs := s.snapshot()
	i, ok := cs.index[id]
	if !ok {
		return nil, false
	}
	return cs.rules[i], true
}

// CohortCount is the number of cohort rules in the store.
func (s *Store) CohortCount() int {
	return len(s.snapshot().rules)
}

// Upsert replaces each rule whose ID is already present, keeping its
// position, and appends the others in order. All rules become visible at
// once. The returned slice reports, per rule, whether it replaced an
// existing one.
//
// Rules are stored as given, without being compiled. In a store served by
// an Engine, use Engine.UpsertRules instead: an evaluator that needs a
// compiled program, such as the CEL evaluator, fails on rules added here.
func (s *Store) Upsert(rules ...*Rule) []bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.snapshot().clone()
	replaced := make([]bool, len(rules))
	for i, r := range rules {
		replaced[i] = cs.upsert(r)
	}
	s.cohorts.Store(cs)
	return replaced
}

// Replace discards all rules and stores the new ones, in order. As with
// NewStore, a later rule replaces an earlier one with the same ID.
// Like Upsert, Replace does not compile the rules; see Engine.Reload.
func (s *Store) Replace(rules ...*Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := &cohortSet{index: make(map[string]int, len(rules))}
	for _, r := range rules {
		cs.upsert(r)
	}
	s.cohorts.Store(cs)
}

// Delete removes the rule with the ID. The order of the remaining rules is
// unchanged.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.snapshot()
	i, ok := old.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCohortNotFound, id)
	}

	cs := &cohortSet{
		rules: slices.Delete(slices.Clone(old.rules), i, i+1),
		index: make(map[string]int, len(old.rules)-1),
	}
	for j, r := range cs.rules {
		cs.index[r.ID] = j
	}
	s.cohorts.Store(cs)
	return nil
}

func (s *Store) snapshot() *cohortSet {
	return s.cohorts.Load()
}

// clone makes a copy that can be modified without affecting readers of c.
func (c *cohortSet) clone() *cohortSet {
	return &cohortSet{
		rules: slices.Clone(c.rules),
		index: maps.Clone(c.index),
	}
}

// upsert replaces or appends r, reporting whether it replaced a rule.
func (c *cohortSet) upsert(r *Rule) bool {
	if i, ok := c.index[r.ID]; ok {
		c.rules[i] = r
		return true
	}
	c.index[r.ID] = len(c.rules)
	c.rules = append(c.rules, r)
	return false
}
