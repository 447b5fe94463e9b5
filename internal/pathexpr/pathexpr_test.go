package pathexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNamespacePath(t *testing.T) {
	p, err := Parse(":wandb:runs[0][history]")
	require.NoError(t, err)

	assert.Equal(t, "wandb", p.Namespace)
	assert.Equal(t, "runs", p.Field)
	assert.False(t, p.IsVar())
	require.Len(t, p.Selectors, 2)
	assert.Equal(t, Selector{Index: 0, IsIndex: true}, p.Selectors[0])
	assert.Equal(t, Selector{Key: "history"}, p.Selectors[1])
	assert.Equal(t, ":wandb:runs[0][history]", p.String())
}

func TestParseBareField(t *testing.T) {
	p, err := Parse(":wandb:runs_len")
	require.NoError(t, err)

	assert.Equal(t, "wandb", p.Namespace)
	assert.Equal(t, "runs_len", p.Field)
	assert.Empty(t, p.Selectors)
}

func TestParseVarReference(t *testing.T) {
	p, err := Parse(":history_0_len")
	require.NoError(t, err)

	assert.True(t, p.IsVar())
	assert.Equal(t, "history_0_len", p.Var)
	assert.Empty(t, p.Namespace)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"no leading colon", "wandb:runs"},
		{"empty", ":"},
		{"reserved fn prefix", ":fn:len"},
		{"reserved op prefix", ":op:contains"},
		{"empty namespace", "::runs"},
		{"missing field", ":wandb:"},
		{"unclosed selector", ":wandb:runs[0"},
		{"empty selector", ":wandb:runs[]"},
		{"negative index", ":wandb:runs[-1]"},
		{"selector on var ref", ":history[0]"},
		{"bad identifier", ":wandb:runs[a b]"},
		{"trailing garbage", ":wandb:runs[0]x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestParseDeepSelectors(t *testing.T) {
	p, err := Parse(":wandb:runs[2][telemetry][1]")
	require.NoError(t, err)

	require.Len(t, p.Selectors, 3)
	assert.Equal(t, Selector{Index: 2, IsIndex: true}, p.Selectors[0])
	assert.Equal(t, Selector{Key: "telemetry"}, p.Selectors[1])
	assert.Equal(t, Selector{Index: 1, IsIndex: true}, p.Selectors[2])
}

func TestIsExpr(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{":wandb:runs_len", true},
		{":history_0_len", true},
		{":fn:len", false},
		{":op:contains", false},
		{"plain string", false},
		{":", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsExpr(tt.in), "IsExpr(%q)", tt.in)
	}
}
