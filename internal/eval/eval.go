// Package eval implements the fixture expression micro-language: ":fn:"
// derived-value functions over path expressions, ":op:" operator assertions,
// and plain equality assertions against a namespace of harness-collected run
// data.
//
// Evaluation policy: var bindings are computed in declaration order before
// any assertion; assertions are evaluated independently and in order, and a
// failing assertion does not halt evaluation - all failures are accumulated
// so the report is complete.
package eval

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/yardstick-io/yardstick/internal/fixture"
	"github.com/yardstick-io/yardstick/internal/pathexpr"
)

// Failure describes one failed assertion with enough context to debug it.
type Failure struct {
	// Index is the assertion's position in the assert list.
	Index int `json:"index"`

	// Expr is the source form of the assertion's subject.
	Expr string `json:"expr"`

	// Expected and Actual are human-readable outcomes.
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (f Failure) String() string {
	return fmt.Sprintf("assert[%d] %s: expected %s, got %s", f.Index, f.Expr, f.Expected, f.Actual)
}

// Result is the outcome of evaluating a fixture's vars and assertions.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Vars holds the computed var bindings.
	Vars map[string]any `json:"vars,omitempty"`

	// Failures lists every failed assertion, in assertion order.
	Failures []Failure `json:"failures,omitempty"`
}

// Evaluator resolves expressions against a namespace tree and the var
// bindings computed so far.
type Evaluator struct {
	ns   map[string]any
	vars map[string]any
}

// New creates an evaluator over the given namespace tree.
func New(ns map[string]any) *Evaluator {
	return &Evaluator{ns: ns, vars: make(map[string]any)}
}

// Vars returns the bindings computed so far.
func (e *Evaluator) Vars() map[string]any {
	return e.vars
}

// EvalVars computes the var bindings in declaration order. Later bindings may
// reference earlier ones. A binding that cannot be computed is a hard error:
// assertions depending on it could only fail confusingly.
func (e *Evaluator) EvalVars(decls []fixture.VarDecl) error {
	for _, decl := range decls {
		arg, err := e.resolve(decl.Path)
		if err != nil {
			return fmt.Errorf("var %q: %w", decl.Name, err)
		}
		v, err := applyFn(decl.Fn, arg)
		if err != nil {
			return fmt.Errorf("var %q: %w", decl.Name, err)
		}
		e.vars[decl.Name] = v
	}
	return nil
}

// EvalAsserts evaluates the assertion list, accumulating failures.
func (e *Evaluator) EvalAsserts(asserts []fixture.Assertion) *Result {
	result := &Result{Pass: true, Vars: e.vars}
	for i, a := range asserts {
		if f := e.evalAssert(i, a); f != nil {
			result.Failures = append(result.Failures, *f)
			result.Pass = false
		}
	}
	return result
}

// evalAssert evaluates one assertion. Returns nil when the assertion holds.
// Resolution and dispatch errors become failures so evaluation continues.
func (e *Evaluator) evalAssert(index int, a fixture.Assertion) *Failure {
	if a.IsOp() {
		return e.evalOpAssert(index, a)
	}

	actual, err := e.resolve(a.Path)
	if err != nil {
		return &Failure{
			Index:    index,
			Expr:     a.Path,
			Expected: formatValue(a.Expected),
			Actual:   err.Error(),
		}
	}
	if !valuesEqual(a.Expected, actual) {
		return &Failure{
			Index:    index,
			Expr:     a.Path,
			Expected: formatValue(a.Expected),
			Actual:   formatValue(actual),
		}
	}
	return nil
}

// evalOpAssert evaluates an operator assertion.
func (e *Evaluator) evalOpAssert(index int, a fixture.Assertion) *Failure {
	subject := ":op:" + a.Op

	if a.Op == "expr" {
		return e.evalExprAssert(index, a)
	}

	left, err := e.resolveOperand(a.Operands[0])
	if err != nil {
		return &Failure{Index: index, Expr: subject, Expected: "operand to resolve", Actual: err.Error()}
	}
	right, err := e.resolveOperand(a.Operands[1])
	if err != nil {
		return &Failure{Index: index, Expr: subject, Expected: "operand to resolve", Actual: err.Error()}
	}

	ok, err := applyOp(a.Op, left, right)
	if err != nil {
		return &Failure{Index: index, Expr: subject, Expected: "operator to apply", Actual: err.Error()}
	}
	if !ok {
		return &Failure{
			Index:    index,
			Expr:     subject,
			Expected: fmt.Sprintf("%s %s %s", formatValue(left), a.Op, formatValue(right)),
			Actual:   "condition does not hold",
		}
	}
	return nil
}

// evalExprAssert evaluates the ":op:expr" free-form condition. The first
// operand is a boolean condition over the var bindings and namespace roots,
// the second the expected truth value.
func (e *Evaluator) evalExprAssert(index int, a fixture.Assertion) *Failure {
	cond, ok := a.Operands[0].(string)
	if !ok {
		return &Failure{Index: index, Expr: ":op:expr", Expected: "a condition string", Actual: fmt.Sprintf("%T", a.Operands[0])}
	}

	env := make(map[string]any, len(e.ns)+len(e.vars))
	for k, v := range e.ns {
		env[k] = v
	}
	for k, v := range e.vars {
		env[k] = v
	}

	out, err := expr.Eval(cond, env)
	if err != nil {
		return &Failure{Index: index, Expr: ":op:expr", Expected: "condition to evaluate", Actual: err.Error()}
	}
	got, ok := out.(bool)
	if !ok {
		return &Failure{Index: index, Expr: ":op:expr", Expected: "condition to evaluate to bool", Actual: fmt.Sprintf("%T", out)}
	}

	want, err := e.resolveOperand(a.Operands[1])
	if err != nil {
		return &Failure{Index: index, Expr: ":op:expr", Expected: "operand to resolve", Actual: err.Error()}
	}
	if !valuesEqual(want, got) {
		return &Failure{
			Index:    index,
			Expr:     ":op:expr",
			Expected: fmt.Sprintf("%q to be %s", cond, formatValue(want)),
			Actual:   formatValue(got),
		}
	}
	return nil
}

// resolveOperand resolves an operand: strings shaped like path expressions
// are resolved, everything else is a literal.
func (e *Evaluator) resolveOperand(v any) (any, error) {
	if s, ok := v.(string); ok && pathexpr.IsExpr(s) {
		return e.resolve(s)
	}
	return v, nil
}

// resolve resolves a path expression: var references against the bindings,
// namespace paths against the namespace tree.
func (e *Evaluator) resolve(raw string) (any, error) {
	p, err := pathexpr.Parse(raw)
	if err != nil {
		return nil, err
	}
	if p.IsVar() {
		v, ok := e.vars[p.Var]
		if !ok {
			return nil, &pathexpr.MissingFieldError{Path: raw, Segment: ":" + p.Var, Reason: "no such var binding"}
		}
		return v, nil
	}
	return pathexpr.Resolve(e.ns, p)
}

// formatValue renders a value for failure messages with its dynamic type.
// Type mismatches are a common cause of assertion failures.
func formatValue(v any) string {
	return fmt.Sprintf("%v (%T)", v, v)
}
