// Package deps models the packages a fixture declares under
// depend.requirements. The harness does not install anything - installation
// belongs to the runner - but it validates specifier syntax and reports the
// merged requirement set for a scenario.
package deps

import (
	"fmt"
	"sort"
	"strings"
)

// Requirement is one parsed requirement specifier, e.g. "torch",
// "torchvision[extra]", or "torch>=2.1".
type Requirement struct {
	// Name is the normalized package name: lowercased, with runs of
	// "-", "_", and "." collapsed to "-".
	Name string

	// Extras lists requested optional features, normalized.
	Extras []string

	// Constraint is the raw version constraint ("==2.1", ">=1.0,<2"),
	// empty when unpinned.
	Constraint string
}

// String renders the requirement back in specifier form.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[")
		b.WriteString(strings.Join(r.Extras, ","))
		b.WriteString("]")
	}
	b.WriteString(r.Constraint)
	return b.String()
}

// constraintOps are the comparison prefixes a version constraint may open
// with.
var constraintOps = []string{"==", ">=", "<=", "~=", "!=", ">", "<"}

// Parse parses a single requirement specifier.
func Parse(spec string) (Requirement, error) {
	raw := strings.TrimSpace(spec)
	if raw == "" {
		return Requirement{}, fmt.Errorf("empty requirement")
	}

	var req Requirement

	// Split off the version constraint first.
	rest := raw
	if i := indexConstraint(rest); i >= 0 {
		req.Constraint = strings.ReplaceAll(rest[i:], " ", "")
		rest = strings.TrimSpace(rest[:i])
	}

	// Extras between brackets.
	if open := strings.IndexByte(rest, '['); open >= 0 {
		closeIdx := strings.IndexByte(rest, ']')
		if closeIdx < open {
			return Requirement{}, fmt.Errorf("requirement %q: unclosed extras", spec)
		}
		for _, extra := range strings.Split(rest[open+1:closeIdx], ",") {
			extra = normalizeName(strings.TrimSpace(extra))
			if extra == "" {
				return Requirement{}, fmt.Errorf("requirement %q: empty extra", spec)
			}
			req.Extras = append(req.Extras, extra)
		}
		rest = rest[:open]
	}

	name := normalizeName(strings.TrimSpace(rest))
	if name == "" {
		return Requirement{}, fmt.Errorf("requirement %q: missing package name", spec)
	}
	if err := checkName(spec, name); err != nil {
		return Requirement{}, err
	}
	req.Name = name
	return req, nil
}

// indexConstraint returns the offset where a version constraint begins, or -1.
func indexConstraint(s string) int {
	best := -1
	for _, op := range constraintOps {
		if i := strings.Index(s, op); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

// normalizeName applies the canonical package-name form: lowercase with
// runs of separator characters collapsed to a single dash.
func normalizeName(name string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(name) {
		if r == '-' || r == '_' || r == '.' {
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
			continue
		}
		b.WriteRune(r)
		prevDash = false
	}
	return strings.TrimSuffix(b.String(), "-")
}

func checkName(spec, name string) error {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return fmt.Errorf("requirement %q: invalid character %q in name", spec, r)
		}
	}
	return nil
}

// Set is a deduplicated requirement collection keyed by normalized name.
type Set struct {
	byName map[string]Requirement
}

// NewSet creates an empty requirement set.
func NewSet() *Set {
	return &Set{byName: make(map[string]Requirement)}
}

// ParseAll parses a specifier list into a set. A name appearing twice is an
// authoring error.
func ParseAll(specs []string) (*Set, error) {
	set := NewSet()
	for _, spec := range specs {
		req, err := Parse(spec)
		if err != nil {
			return nil, err
		}
		if _, dup := set.byName[req.Name]; dup {
			return nil, fmt.Errorf("requirement %q: duplicate package %q", spec, req.Name)
		}
		set.byName[req.Name] = req
	}
	return set, nil
}

// Has reports whether the named package (in any form) is in the set.
func (s *Set) Has(name string) bool {
	_, ok := s.byName[normalizeName(name)]
	return ok
}

// Len returns the number of requirements.
func (s *Set) Len() int {
	return len(s.byName)
}

// List returns the requirements sorted by name.
func (s *Set) List() []Requirement {
	reqs := make([]Requirement, 0, len(s.byName))
	for _, r := range s.byName {
		reqs = append(reqs, r)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Name < reqs[j].Name })
	return reqs
}

// Merge adds every requirement from other, rejecting conflicting constraints
// for the same package.
func (s *Set) Merge(other *Set) error {
	for name, req := range other.byName {
		existing, ok := s.byName[name]
		if ok && existing.Constraint != req.Constraint {
			return fmt.Errorf("requirement %q: conflicting constraints %q and %q", name, existing.Constraint, req.Constraint)
		}
		s.byName[name] = req
	}
	return nil
}
