package pathexpr

import (
	"errors"
	"fmt"
)

// ErrMissingField is the sentinel for unresolved path segments. Callers use
// errors.Is to distinguish authoring errors (bad path) from harness defects.
var ErrMissingField = errors.New("missing field")

// MissingFieldError reports the exact segment at which resolution failed.
type MissingFieldError struct {
	// Path is the full source form of the expression being resolved.
	Path string

	// Segment is the segment that could not be resolved.
	Segment string

	// Reason describes why the segment failed (absent key, index out of
	// range, wrong container type).
	Reason string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field: %s at %s (%s)", e.Path, e.Segment, e.Reason)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// Resolve walks a namespace path against the namespace tree. The tree is the
// plain-data rendering of harness-collected results: maps keyed by string,
// slices, and scalars.
//
// Var references cannot be resolved here; they are bound by the evaluation
// layer, which resolves them against its var table before delegating
// namespace paths to this function.
func Resolve(ns map[string]any, p *Path) (any, error) {
	if p.IsVar() {
		return nil, fmt.Errorf("path %q: var references are resolved by the evaluator, not the namespace", p)
	}

	root, ok := ns[p.Namespace]
	if !ok {
		return nil, &MissingFieldError{Path: p.String(), Segment: ":" + p.Namespace, Reason: "namespace not recorded"}
	}

	cur, err := step(p, root, Selector{Key: p.Field})
	if err != nil {
		return nil, err
	}
	for _, sel := range p.Selectors {
		cur, err = step(p, cur, sel)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// step applies one selector to the current value.
func step(p *Path, cur any, sel Selector) (any, error) {
	if sel.IsIndex {
		seq, ok := cur.([]any)
		if !ok {
			return nil, &MissingFieldError{Path: p.String(), Segment: sel.String(), Reason: fmt.Sprintf("cannot index %T", cur)}
		}
		if sel.Index >= len(seq) {
			return nil, &MissingFieldError{Path: p.String(), Segment: sel.String(), Reason: fmt.Sprintf("index out of range (len %d)", len(seq))}
		}
		return seq[sel.Index], nil
	}

	m, ok := cur.(map[string]any)
	if !ok {
		return nil, &MissingFieldError{Path: p.String(), Segment: sel.String(), Reason: fmt.Sprintf("cannot select key in %T", cur)}
	}
	v, ok := m[sel.Key]
	if !ok {
		return nil, &MissingFieldError{Path: p.String(), Segment: sel.String(), Reason: "key not present"}
	}
	return v, nil
}
