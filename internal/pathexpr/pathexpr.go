// Package pathexpr implements the dotted/bracketed path micro-language used
// by fixture documents to address values inside harness-collected run data.
//
// A path expression has one of two shapes:
//
//	:wandb:runs[0][history]   namespace path - "wandb" selects the tracking
//	                          integration's recorded data, "runs" the root
//	                          field, and each bracket selector steps into a
//	                          sequence (numeric) or mapping (word).
//	:history_0_len            var reference - a single segment naming a
//	                          binding computed earlier by the var block.
//
// Parsing and resolution are separate steps: Parse produces a Path, Resolve
// walks it against a namespace tree. Resolution fails with a missing-field
// error if any segment is absent, which is a fixture-authoring error rather
// than a harness defect.
package pathexpr

import (
	"fmt"
	"strconv"
	"strings"
)

// Selector is one bracket step in a path: either a sequence index or a
// mapping key.
type Selector struct {
	// Key is the mapping key when IsIndex is false.
	Key string

	// Index is the sequence position when IsIndex is true.
	Index int

	// IsIndex reports whether the bracket content was numeric.
	IsIndex bool
}

// String returns the selector in source form, e.g. "[0]" or "[history]".
func (s Selector) String() string {
	if s.IsIndex {
		return fmt.Sprintf("[%d]", s.Index)
	}
	return fmt.Sprintf("[%s]", s.Key)
}

// Path is a parsed path expression.
type Path struct {
	// Namespace is the leading segment of a namespace path ("wandb").
	// Empty for var references.
	Namespace string

	// Var is the binding name for var references. Empty for namespace paths.
	Var string

	// Field is the root field inside the namespace ("runs", "runs_len").
	Field string

	// Selectors are the bracket steps applied after Field, in order.
	Selectors []Selector

	raw string
}

// IsVar reports whether the path is a var-binding reference.
func (p *Path) IsVar() bool {
	return p.Var != ""
}

// String returns the original source form of the path.
func (p *Path) String() string {
	return p.raw
}

// IsExpr reports whether a YAML scalar looks like a path expression.
// Fixture documents distinguish paths from string literals by the leading
// colon; ":fn:" and ":op:" keys are reserved by the expression layer and are
// not paths.
func IsExpr(s string) bool {
	if !strings.HasPrefix(s, ":") || len(s) < 2 {
		return false
	}
	return !strings.HasPrefix(s, ":fn:") && !strings.HasPrefix(s, ":op:")
}

// Parse parses a path expression.
func Parse(s string) (*Path, error) {
	if !strings.HasPrefix(s, ":") {
		return nil, fmt.Errorf("path %q: must start with ':'", s)
	}
	if strings.HasPrefix(s, ":fn:") || strings.HasPrefix(s, ":op:") {
		return nil, fmt.Errorf("path %q: ':fn:' and ':op:' are reserved prefixes", s)
	}

	rest := s[1:]
	if rest == "" {
		return nil, fmt.Errorf("path %q: empty expression", s)
	}

	p := &Path{raw: s}

	// A second ':' separates namespace from field. Without one the whole
	// expression is a var reference.
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		p.Namespace = rest[:i]
		rest = rest[i+1:]
		if p.Namespace == "" {
			return nil, fmt.Errorf("path %q: empty namespace", s)
		}
		if rest == "" {
			return nil, fmt.Errorf("path %q: missing field after namespace", s)
		}
	} else {
		if strings.ContainsAny(rest, "[]") {
			return nil, fmt.Errorf("path %q: var references cannot have selectors", s)
		}
		if err := checkIdent(s, rest); err != nil {
			return nil, err
		}
		p.Var = rest
		return p, nil
	}

	// Field runs up to the first bracket.
	bracket := strings.IndexByte(rest, '[')
	if bracket < 0 {
		if err := checkIdent(s, rest); err != nil {
			return nil, err
		}
		p.Field = rest
		return p, nil
	}
	p.Field = rest[:bracket]
	if err := checkIdent(s, p.Field); err != nil {
		return nil, err
	}

	// Remaining text must be a run of bracket selectors.
	sels, err := parseSelectors(s, rest[bracket:])
	if err != nil {
		return nil, err
	}
	p.Selectors = sels
	return p, nil
}

// parseSelectors parses a run of "[...]" selectors.
func parseSelectors(raw, s string) ([]Selector, error) {
	var sels []Selector
	for s != "" {
		if s[0] != '[' {
			return nil, fmt.Errorf("path %q: expected '[' at %q", raw, s)
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, fmt.Errorf("path %q: unclosed selector", raw)
		}
		content := s[1:end]
		if content == "" {
			return nil, fmt.Errorf("path %q: empty selector", raw)
		}
		if idx, err := strconv.Atoi(content); err == nil {
			if idx < 0 {
				return nil, fmt.Errorf("path %q: negative index %d", raw, idx)
			}
			sels = append(sels, Selector{Index: idx, IsIndex: true})
		} else {
			if err := checkIdent(raw, content); err != nil {
				return nil, err
			}
			sels = append(sels, Selector{Key: content})
		}
		s = s[end+1:]
	}
	return sels, nil
}

// checkIdent validates a field, key, or var name.
func checkIdent(raw, ident string) error {
	if ident == "" {
		return fmt.Errorf("path %q: empty identifier", raw)
	}
	for _, r := range ident {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return fmt.Errorf("path %q: invalid character %q in identifier %q", raw, r, ident)
		}
	}
	return nil
}
