package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpContains(t *testing.T) {
	tests := []struct {
		name      string
		container any
		needle    any
		want      bool
	}{
		{"int in sequence", []any{1, 2, 3}, 1, true},
		{"int not in sequence", []any{2, 3}, 1, false},
		{"coerced numeric member", []any{int64(1)}, 1, true},
		{"string in sequence", []any{"torch", "keras"}, "torch", true},
		{"key in mapping", map[string]any{"loss": 0.5}, "loss", true},
		{"key not in mapping", map[string]any{"loss": 0.5}, "acc", false},
		{"substring", "torchvision", "torch", true},
		{"empty sequence", []any{}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyOp("contains", tt.container, tt.needle)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpContainsErrors(t *testing.T) {
	_, err := applyOp("contains", 42, 1)
	assert.Error(t, err)

	_, err = applyOp("contains", map[string]any{}, 1)
	assert.Error(t, err)

	_, err = applyOp("contains", "abc", 1)
	assert.Error(t, err)
}

func TestOpFamily(t *testing.T) {
	tests := []struct {
		op          string
		left, right any
		want        bool
	}{
		{"eq", 1, int64(1), true},
		{"eq", "a", "b", false},
		{"ne", 1, 2, true},
		{"not_contains", []any{2, 3}, 1, true},
		{"in", 1, []any{1, 2}, true},
		{"in", 5, []any{1, 2}, false},
		{"lt", 1, 2, true},
		{"le", 2, 2, true},
		{"gt", 3, 2, true},
		{"ge", 2, 3, false},
		{"lt", "a", "b", true},
		{"ge", "b", "a", true},
	}

	for _, tt := range tests {
		got, err := applyOp(tt.op, tt.left, tt.right)
		require.NoError(t, err, "%s(%v, %v)", tt.op, tt.left, tt.right)
		assert.Equal(t, tt.want, got, "%s(%v, %v)", tt.op, tt.left, tt.right)
	}
}

func TestOpUnsupported(t *testing.T) {
	_, err := applyOp("xor", 1, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedExpr))

	var ue *UnsupportedExprError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "op", ue.Kind)
	assert.Equal(t, "xor", ue.Name)
}

func TestOpCompareMixedTypes(t *testing.T) {
	_, err := applyOp("lt", 1, "b")
	assert.Error(t, err)
}

func TestValuesEqualNested(t *testing.T) {
	a := map[string]any{"history": []any{map[string]any{"loss": 1}}}
	b := map[string]any{"history": []any{map[string]any{"loss": int64(1)}}}
	assert.True(t, valuesEqual(a, b))

	c := map[string]any{"history": []any{map[string]any{"loss": 2}}}
	assert.False(t, valuesEqual(a, c))
}

func TestFnLen(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{[]any{1, 2, 3}, 3},
		{map[string]any{"a": 1}, 1},
		{"torch", 5},
		{[]any{}, 0},
	}

	for _, tt := range tests {
		got, err := applyFn("len", tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := applyFn("len", 42)
	assert.Error(t, err)

	_, err = applyFn("sum", []any{1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedExpr))
}
