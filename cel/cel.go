package cel

import (
	"fmt"

	"github.com/ezachrisen/cohort"
	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
)

// Evaluator compiles each cohort rule into a single CEL expression over the
// entity fields, and evaluates it with cel-go.
type Evaluator struct {
	env *celgo.Env
}

// program is the compiled form of a rule, stored in cohort.Rule.Program.
type program struct {
	expr   string
	prg    celgo.Program
	emails bool // the rule has an email domain predicate
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithFixedEnv uses env instead of an environment built from
// cohort.Fields. The environment must declare every field of the schema.
func WithFixedEnv(env *celgo.Env) EvaluatorOption {
	return func(e *Evaluator) {
		e.env = env
	}
}

// NewEvaluator creates an Evaluator whose environment declares the fields
// of cohort.Fields, plus the CEL string extensions.
func NewEvaluator(opts ...EvaluatorOption) (*Evaluator, error) {
	e := &Evaluator{}
	for _, o := range opts {
		o(e)
	}
	if e.env != nil {
		return e, nil
	}

	decls, err := schemaToDeclarations(cohort.Fields)
	if err != nil {
		return nil, err
	}
	env, err := celgo.NewEnv(append(decls, ext.Strings())...)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}
	e.env = env
	return e, nil
}

// Compile translates the rule to CEL, then parses, checks and plans it.
// Rules with fields outside the schema are not translated; they fail when
// evaluated, like with the native evaluator.
func (e *Evaluator) Compile(r *cohort.Rule) (any, error) {
	if cohort.CheckFields(r) != nil {
		return &program{}, nil
	}

	expr, err := ruleToExpr(r)
	if err != nil {
		return nil, err
	}

	ast, iss := e.env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compiling %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(celgo.BoolType) {
		return nil, fmt.Errorf("expression %q produces %s, want bool", expr, ast.OutputType())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("planning %q: %w", expr, err)
	}

	p := &program{expr: expr, prg: prg}
	for _, pr := range r.Predicates {
		if pr.Kind == cohort.Domain {
			p.emails = true
		}
	}
	return p, nil
}

// Eval runs the rule's compiled program against the entity.
func (e *Evaluator) Eval(r *cohort.Rule, ent *cohort.Entity) (bool, error) {
	if err := cohort.CheckFields(r); err != nil {
		return false, err
	}

	p, ok := r.Program.(*program)
	if !ok || p.prg == nil {
		return false, fmt.Errorf("cohort %s has not been compiled by the CEL evaluator", r.ID)
	}

	// CEL would treat an address without @ as having the whole address as
	// its domain.
	if p.emails {
		for _, m := range ent.Emails {
			if _, err := cohort.EmailDomain(m); err != nil {
				return false, fmt.Errorf("cohort %s: eid %d: %w", r.ID, ent.EID, err)
			}
		}
	}

	out, _, err := p.prg.Eval(ent.Data())
	if err != nil {
		return false, fmt.Errorf("evaluating cohort %s: %w", r.ID, err)
	}
	pass, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluating cohort %s: expected boolean value, got %T", r.ID, out.Value())
	}
	return pass, nil
}

// Expr returns the CEL expression a compiled rule was translated to.
func Expr(r *cohort.Rule) string {
	p, ok := r.Program.(*program)
	if !ok {
		return ""
	}
	return p.expr
}
