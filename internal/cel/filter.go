// Package cel filters records with CEL expressions. The record is bound to
// the variable "_", e.g. `_.type == "comment" && _.score > 10.0`.
package cel

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/streamview/internal/record"
)

// ErrNotBool is returned when a filter expression does not yield a bool.
var ErrNotBool = errors.New("filter expression must evaluate to a bool")

// Filter is a compiled record predicate. A nil *Filter matches everything.
type Filter struct {
	expr string
	prg  cel.Program
}

// newEnv creates a CEL environment with the record bound to "_" and the
// common extension libraries.
func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("_", cel.DynType),
		cel.CrossTypeNumericComparisons(true),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
}

// NewFilter compiles expr. An empty expression returns a nil Filter.
func NewFilter(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	switch ast.OutputType().Kind() { //nolint:exhaustive // only bool or dyn can yield a bool
	case types.BoolKind, types.DynKind:
	default:
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotBool, expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Match reports whether rec satisfies the filter. Evaluation errors, such
// as selecting a field the record does not have, are returned with false.
func (f *Filter) Match(rec record.Record) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, _, err := f.prg.Eval(map[string]any{
		"_": map[string]any(rec),
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("%w: got %s", ErrNotBool, out.Type().TypeName())
	}
	return bool(b), nil
}
