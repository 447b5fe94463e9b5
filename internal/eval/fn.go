package eval

import "fmt"

// applyFn dispatches a ":fn:" derived-value function.
func applyFn(name string, v any) (any, error) {
	switch name {
	case "len":
		return fnLen(v)
	default:
		return nil, &UnsupportedExprError{Kind: "fn", Name: name}
	}
}

// fnLen computes the length of a sequence, mapping, or string.
func fnLen(v any) (any, error) {
	switch val := v.(type) {
	case []any:
		return len(val), nil
	case map[string]any:
		return len(val), nil
	case string:
		return len(val), nil
	default:
		return nil, fmt.Errorf("fn len: cannot take length of %T", v)
	}
}
