package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceDoc is the canonical import-tracking scenario: run a minimal
// script that imports torch and torchvision, log 20 history rows, exit
// cleanly, then assert on the recorded run.
const referenceDoc = `
id: 0.0.4
tag:
  shard: standalone-gpu
plugin:
  - wandb
depend:
  requirements:
    - torch
    - torchvision
var:
  history_0_len:
    :fn:len:
      :wandb:runs[0][history]
assert:
  - :wandb:runs_len: 1
  - :wandb:runs[0][exitcode]: 0
  - :op:contains:
    - :wandb:runs[0][telemetry][1]
    - 1
  - :op:contains:
    - :wandb:runs[0][telemetry][2]
    - 1
  - :history_0_len: 20
`

func TestParseReferenceDocument(t *testing.T) {
	doc, err := Parse([]byte(referenceDoc))
	require.NoError(t, err)

	assert.Equal(t, "0.0.4", doc.ID)
	assert.Equal(t, map[string]string{"shard": "standalone-gpu"}, doc.Tag)
	assert.Equal(t, []string{"wandb"}, doc.Plugin)
	assert.Equal(t, []string{"torch", "torchvision"}, doc.Depend.Requirements)

	require.Len(t, doc.Var, 1)
	assert.Equal(t, VarDecl{Name: "history_0_len", Fn: "len", Path: ":wandb:runs[0][history]"}, doc.Var[0])

	require.Len(t, doc.Assert, 5)

	assert.Equal(t, ":wandb:runs_len", doc.Assert[0].Path)
	assert.Equal(t, 1, doc.Assert[0].Expected)
	assert.False(t, doc.Assert[0].IsOp())

	assert.Equal(t, ":wandb:runs[0][exitcode]", doc.Assert[1].Path)
	assert.Equal(t, 0, doc.Assert[1].Expected)

	require.True(t, doc.Assert[2].IsOp())
	assert.Equal(t, "contains", doc.Assert[2].Op)
	assert.Equal(t, []any{":wandb:runs[0][telemetry][1]", 1}, doc.Assert[2].Operands)

	require.True(t, doc.Assert[3].IsOp())
	assert.Equal(t, []any{":wandb:runs[0][telemetry][2]", 1}, doc.Assert[3].Operands)

	assert.Equal(t, ":history_0_len", doc.Assert[4].Path)
	assert.Equal(t, 20, doc.Assert[4].Expected)
}

func TestParseVarDeclarationOrder(t *testing.T) {
	doc, err := Parse([]byte(`
id: order-check
var:
  zebra:
    :fn:len:
      :wandb:runs
  apple:
    :fn:len:
      :wandb:runs[0][history]
  middle:
    :fn:len:
      :wandb:runs[0][telemetry]
`))
	require.NoError(t, err)

	require.Len(t, doc.Var, 3)
	assert.Equal(t, "zebra", doc.Var[0].Name)
	assert.Equal(t, "apple", doc.Var[1].Name)
	assert.Equal(t, "middle", doc.Var[2].Name)
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing id", "tag:\n  shard: default\n"},
		{"unknown top-level field", "id: x\nasserts:\n  - :wandb:runs_len: 1\n"},
		{"var not a mapping", "id: x\nvar:\n  - history\n"},
		{"var duplicate name", "id: x\nvar:\n  n:\n    :fn:len: :wandb:runs\n  n:\n    :fn:len: :wandb:runs\n"},
		{"var without fn key", "id: x\nvar:\n  n:\n    length: :wandb:runs\n"},
		{"var empty fn name", "id: x\nvar:\n  n:\n    :fn:: :wandb:runs\n"},
		{"var multi-key expression", "id: x\nvar:\n  n:\n    :fn:len: :wandb:runs\n    :fn:max: :wandb:runs\n"},
		{"assert not a sequence", "id: x\nassert:\n  :wandb:runs_len: 1\n"},
		{"assert multi-key entry", "id: x\nassert:\n  - :wandb:runs_len: 1\n    :wandb:runs[0][exitcode]: 0\n"},
		{"assert empty op name", "id: x\nassert:\n  - :op::\n    - :wandb:runs\n    - 1\n"},
		{"assert op without operand list", "id: x\nassert:\n  - :op:contains: :wandb:runs\n"},
		{"assert op wrong arity", "id: x\nassert:\n  - :op:contains:\n    - :wandb:runs\n"},
		{"assert key not a path", "id: x\nassert:\n  - runs_len: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseOptionalBlocks(t *testing.T) {
	doc, err := Parse([]byte("id: minimal\n"))
	require.NoError(t, err)

	assert.Equal(t, "minimal", doc.ID)
	assert.Empty(t, doc.Var)
	assert.Empty(t, doc.Assert)
	assert.Empty(t, doc.Plugin)
	assert.Empty(t, doc.Depend.Requirements)
}

func TestParseCommandOverride(t *testing.T) {
	doc, err := Parse([]byte("id: scripted\ncommand: train_minimal.py\n"))
	require.NoError(t, err)

	assert.Equal(t, "train_minimal.py", doc.Command)
}
