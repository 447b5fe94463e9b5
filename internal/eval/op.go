package eval

import (
	"fmt"
	"reflect"
	"strings"
)

// applyOp dispatches a binary ":op:" operator. The "expr" operator is handled
// by the evaluator because it needs the var environment.
func applyOp(name string, left, right any) (bool, error) {
	switch name {
	case "eq":
		return valuesEqual(left, right), nil
	case "ne":
		return !valuesEqual(left, right), nil
	case "contains":
		return opContains(left, right)
	case "not_contains":
		ok, err := opContains(left, right)
		return !ok, err
	case "in":
		return opContains(right, left)
	case "lt", "le", "gt", "ge":
		return opCompare(name, left, right)
	default:
		return false, &UnsupportedExprError{Kind: "op", Name: name}
	}
}

// opContains reports whether needle is a member of the sequence, set, or
// string produced by container.
func opContains(container, needle any) (bool, error) {
	switch c := container.(type) {
	case []any:
		for _, elem := range c {
			if valuesEqual(elem, needle) {
				return true, nil
			}
		}
		return false, nil
	case map[string]any:
		key, ok := needle.(string)
		if !ok {
			return false, fmt.Errorf("op contains: mapping membership requires a string key, got %T", needle)
		}
		_, present := c[key]
		return present, nil
	case string:
		sub, ok := needle.(string)
		if !ok {
			return false, fmt.Errorf("op contains: string membership requires a string, got %T", needle)
		}
		return strings.Contains(c, sub), nil
	default:
		return false, fmt.Errorf("op contains: %T is not a sequence, mapping, or string", container)
	}
}

// opCompare handles the ordered comparison operators over numbers and strings.
func opCompare(name string, left, right any) (bool, error) {
	var cmp int
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	switch {
	case lok && rok:
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	default:
		ls, lok := left.(string)
		rs, rok := right.(string)
		if !lok || !rok {
			return false, fmt.Errorf("op %s: cannot compare %T with %T", name, left, right)
		}
		cmp = strings.Compare(ls, rs)
	}

	switch name {
	case "lt":
		return cmp < 0, nil
	case "le":
		return cmp <= 0, nil
	case "gt":
		return cmp > 0, nil
	case "ge":
		return cmp >= 0, nil
	}
	return false, &UnsupportedExprError{Kind: "op", Name: name}
}

// valuesEqual compares two values with numeric coercion. YAML literals,
// namespace trees built from JSON, and SQLite round-trips disagree on
// int vs int64 vs float64 for the same number, so numbers compare by value.
func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}

	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, present := bv[k]
			if !present || !valuesEqual(v, bvv) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

// toFloat coerces the numeric types that appear in YAML documents, JSON
// imports, and SQLite reads.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
