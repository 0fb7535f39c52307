package cohort

import (
	"fmt"

	"go.uber.org/zap"
)

// Engine matches entities against the cohort rules in a Store, and applies
// changes to the rules.
//
// An engine compiles every rule with its Evaluator before the rule becomes
// visible, so a Store must only be used by one engine.
type Engine struct {
	store *Store

	// The Evaluator that decides whether an entity satisfies a rule
	evaluator Evaluator

	log *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(e *Engine)

// WithEvaluator sets the evaluator used to compile and evaluate rules.
// Default: the NativeEvaluator
func WithEvaluator(ev Evaluator) EngineOption {
	return func(e *Engine) {
		e.evaluator = ev
	}
}

// WithLogger sets the logger.
// Default: a no-op logger
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine creates an engine for the store and compiles the rules already
// in it. The store's rules are replaced by their compiled copies.
func NewEngine(store *Store, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		store:     store,
		evaluator: NewNativeEvaluator(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	compiled, err := e.compileAll(store.Cohorts())
	if err != nil {
		return nil, err
	}
	store.Replace(compiled...)
	return e, nil
}

// Store returns the engine's store.
func (e *Engine) Store() *Store {
	return e.store
}

// FindCohorts returns the IDs of the cohorts the entity belongs to, in store
// order. A rule with no predicates matches every entity.
func (e *Engine) FindCohorts(eid int) ([]string, error) {
	ent, err := e.store.Entity(eid)
	if err != nil {
		return nil, err
	}

	rules := e.store.snapshot().rules
	ids := []string{}
	for _, r := range rules {
		pass, err := e.evaluator.Eval(r, ent)
		if err != nil {
			return nil, fmt.Errorf("matching eid %d: %w", eid, err)
		}
		if pass {
			ids = append(ids, r.ID)
		}
	}

	e.log.Debug("matched entity",
		zap.Int("eid", eid),
		zap.Int("rules", len(rules)),
		zap.Strings("cohorts", ids))
	return ids, nil
}

// Explain matches the entity against every rule like FindCohorts, and
// returns the outcome of each rule and each of its predicates.
func (e *Engine) Explain(eid int) (*Result, error) {
	ent, err := e.store.Entity(eid)
	if err != nil {
		return nil, err
	}

	u := &Result{Entity: ent}
	for _, r := range e.store.snapshot().rules {
		pass, err := e.evaluator.Eval(r, ent)
		if err != nil {
			return nil, fmt.Errorf("matching eid %d: %w", eid, err)
		}
		cr := CohortResult{Rule: r, Pass: pass}
		for _, p := range r.Predicates {
			ok, err := p.Match(ent)
			if err != nil {
				return nil, fmt.Errorf("matching eid %d: cohort %s: %w", eid, r.ID, err)
			}
			cr.Fields = append(cr.Fields, FieldResult{Predicate: p, Pass: ok})
		}
		u.Cohorts = append(u.Cohorts, cr)
	}
	return u, nil
}

// UpsertCohort parses a tab-separated key:value rule line and adds it to
// the store, replacing the rule with the same cohort ID in place if there is
// one. The store is unchanged if an error is returned.
func (e *Engine) UpsertCohort(line string) (bool, error) {
	r, err := ParseRule(line)
	if err != nil {
		return false, err
	}
	if err := e.UpsertRules(r); err != nil {
		return false, err
	}
	return true, nil
}

// UpsertRules compiles the rules and adds them to the store in one step:
// either all of them become visible or, on error, none do.
//
// The store receives compiled copies; the rules passed in are not modified,
// so rules taken from the store may be upserted again.
func (e *Engine) UpsertRules(rules ...*Rule) error {
	compiled, err := e.compileAll(rules)
	if err != nil {
		return err
	}

	replaced := e.store.Upsert(compiled...)
	for i, r := range compiled {
		e.log.Info("upserted cohort",
			zap.String("cohort", r.ID),
			zap.Bool("replaced", replaced[i]),
			zap.Int("predicates", len(r.Predicates)))
	}
	return nil
}

// Reload compiles the rules and replaces every rule in the store with them.
// As with UpsertRules, the rules passed in are not modified. On error the
// store is unchanged.
func (e *Engine) Reload(rules ...*Rule) error {
	compiled, err := e.compileAll(rules)
	if err != nil {
		return err
	}
	e.store.Replace(compiled...)
	e.log.Info("reloaded cohorts", zap.Int("count", e.store.CohortCount()))
	return nil
}

// DeleteCohort removes the cohort with the ID.
func (e *Engine) DeleteCohort(id string) error {
	if err := e.store.Delete(id); err != nil {
		return err
	}
	e.log.Info("deleted cohort", zap.String("cohort", id))
	return nil
}

// compileAll returns a compiled copy of each rule. A stored rule may be read
// by a concurrent match, so its Program is never written.
func (e *Engine) compileAll(rules []*Rule) ([]*Rule, error) {
	out := make([]*Rule, len(rules))
	for i, r := range rules {
		if r == nil {
			return nil, fmt.Errorf("compiling nil rule")
		}
		c := *r
		prg, err := e.evaluator.Compile(&c)
		if err != nil {
			return nil, fmt.Errorf("compiling cohort %s: %w", r.ID, err)
		}
		c.Program = prg
		out[i] = &c
	}
	return out, nil
}
