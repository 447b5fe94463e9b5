package eval

import (
	"errors"
	"fmt"
)

// ErrUnsupportedExpr is the sentinel for unknown function or operator names.
var ErrUnsupportedExpr = errors.New("unsupported expression")

// UnsupportedExprError names the unknown expression element. Referencing a
// function or operator the harness does not implement is a fixture-authoring
// error.
type UnsupportedExprError struct {
	// Kind is "fn" or "op".
	Kind string

	// Name is the unknown function or operator name.
	Name string
}

func (e *UnsupportedExprError) Error() string {
	return fmt.Sprintf("unsupported expression: %s %q", e.Kind, e.Name)
}

func (e *UnsupportedExprError) Unwrap() error {
	return ErrUnsupportedExpr
}
