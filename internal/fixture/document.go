// Package fixture defines the declarative scenario descriptor consumed by the
// harness: a scenario id, grouping tags, the integrations the target script
// exercises, the packages that must be installed before the run, derived-value
// var bindings, and an ordered list of assertions over the recorded results.
//
// Documents are authored once, loaded by the harness, evaluated once per test
// execution, and discarded. Loading is strict: unknown fields, malformed
// expressions, and duplicate ids are authoring errors surfaced at load time.
package fixture

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed fixture file.
type Document struct {
	// ID uniquely identifies the scenario across the fixture corpus.
	ID string

	// Tag holds categorical labels (e.g. "shard") used for grouping and
	// filtering. Values are free-form strings.
	Tag map[string]string

	// Plugin names the optional integrations the target script exercises,
	// in order.
	Plugin []string

	// Depend declares execution prerequisites.
	Depend Depend

	// Var holds derived-value bindings in declaration order. Bindings are
	// computed before any assertion and may be referenced by later vars
	// and by assertions.
	Var []VarDecl

	// Assert holds the assertions in evaluation order.
	Assert []Assertion

	// Command optionally overrides the target script the runner executes.
	// By convention the script shares the fixture's basename.
	Command string

	// Path is the file the document was loaded from, for reporting.
	Path string
}

// Depend declares packages that must be installed before the scenario runs.
type Depend struct {
	Requirements []string `yaml:"requirements"`
}

// VarDecl is one derived-value binding: apply function Fn to the value found
// by resolving Path. Authored as {":fn:<name>": <path-expr>}.
type VarDecl struct {
	Name string
	Fn   string
	Path string
}

// Assertion is one entry in the assert list. Exactly one of the two forms is
// populated:
//
//   - equality: {<path-expr>: <literal>} - Path and Expected are set
//   - operator: {":op:<name>": [operand, operand]} - Op and Operands are set
type Assertion struct {
	Path     string
	Expected any

	Op       string
	Operands []any
}

// IsOp reports whether the assertion is an operator check.
func (a Assertion) IsOp() bool {
	return a.Op != ""
}

// rawDocument is the strict YAML surface of a fixture file. Var and Assert
// are kept as nodes so declaration order and single-key mapping shapes can be
// validated by hand.
type rawDocument struct {
	ID      string            `yaml:"id"`
	Tag     map[string]string `yaml:"tag"`
	Plugin  []string          `yaml:"plugin"`
	Depend  Depend            `yaml:"depend"`
	Var     yaml.Node         `yaml:"var"`
	Assert  yaml.Node         `yaml:"assert"`
	Command string            `yaml:"command"`
}

const fnPrefix = ":fn:"
const opPrefix = ":op:"

// Load reads and parses a fixture file. Returns an error if the file is
// missing, malformed, fails schema validation, or contains unknown fields.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse parses fixture document bytes.
func Parse(data []byte) (*Document, error) {
	// Coarse shape validation first so schema errors carry positions.
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	// Strict decode catches typos in top-level field names.
	var raw rawDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	doc := &Document{
		ID:      raw.ID,
		Tag:     raw.Tag,
		Plugin:  raw.Plugin,
		Depend:  raw.Depend,
		Command: raw.Command,
	}

	if doc.ID == "" {
		return nil, fmt.Errorf("invalid fixture: id is required")
	}

	vars, err := parseVarBlock(&raw.Var)
	if err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	doc.Var = vars

	asserts, err := parseAssertBlock(&raw.Assert)
	if err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	doc.Assert = asserts

	return doc, nil
}

// parseVarBlock decodes the var mapping, preserving declaration order.
// Each value must be a single-key mapping {":fn:<name>": <path>}.
func parseVarBlock(node *yaml.Node) ([]VarDecl, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("var: must be a mapping")
	}

	seen := make(map[string]bool)
	var decls []VarDecl
	for i := 0; i < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		name := key.Value
		if seen[name] {
			return nil, fmt.Errorf("var %q: declared twice", name)
		}
		seen[name] = true

		if val.Kind != yaml.MappingNode || len(val.Content) != 2 {
			return nil, fmt.Errorf("var %q: expression must be a single-key mapping", name)
		}
		fnKey, fnVal := val.Content[0], val.Content[1]
		if !strings.HasPrefix(fnKey.Value, fnPrefix) {
			return nil, fmt.Errorf("var %q: expression key %q must start with %q", name, fnKey.Value, fnPrefix)
		}
		fn := strings.TrimPrefix(fnKey.Value, fnPrefix)
		if fn == "" {
			return nil, fmt.Errorf("var %q: empty function name", name)
		}
		if fnVal.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("var %q: function argument must be a path expression", name)
		}

		decls = append(decls, VarDecl{Name: name, Fn: fn, Path: fnVal.Value})
	}
	return decls, nil
}

// parseAssertBlock decodes the assert sequence. Each entry must be a
// single-key mapping: a path expression mapped to its expected literal, or an
// ":op:<name>" key mapped to a two-operand list.
func parseAssertBlock(node *yaml.Node) ([]Assertion, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("assert: must be a sequence")
	}

	var asserts []Assertion
	for i, item := range node.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, fmt.Errorf("assert[%d]: entry must be a single-key mapping", i)
		}
		key, val := item.Content[0], item.Content[1]

		if strings.HasPrefix(key.Value, opPrefix) {
			op := strings.TrimPrefix(key.Value, opPrefix)
			if op == "" {
				return nil, fmt.Errorf("assert[%d]: empty operator name", i)
			}
			if val.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("assert[%d]: operator %q requires an operand list", i, op)
			}
			if len(val.Content) != 2 {
				return nil, fmt.Errorf("assert[%d]: operator %q requires exactly 2 operands, got %d", i, op, len(val.Content))
			}
			operands := make([]any, len(val.Content))
			for j, opnd := range val.Content {
				var v any
				if err := opnd.Decode(&v); err != nil {
					return nil, fmt.Errorf("assert[%d]: operand %d: %w", i, j, err)
				}
				operands[j] = v
			}
			asserts = append(asserts, Assertion{Op: op, Operands: operands})
			continue
		}

		if !strings.HasPrefix(key.Value, ":") {
			return nil, fmt.Errorf("assert[%d]: key %q is neither a path expression nor an operator", i, key.Value)
		}
		var expected any
		if err := val.Decode(&expected); err != nil {
			return nil, fmt.Errorf("assert[%d]: expected value: %w", i, err)
		}
		asserts = append(asserts, Assertion{Path: key.Value, Expected: expected})
	}
	return asserts, nil
}
