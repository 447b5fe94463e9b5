package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchemaAcceptsReference(t *testing.T) {
	require.NoError(t, ValidateSchema([]byte(referenceDoc)))
}

func TestValidateSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"id not a string", "id: 7\n"},
		{"tag value not a string", "id: x\ntag:\n  shard: [a, b]\n"},
		{"plugin not a list", "id: x\nplugin: wandb\n"},
		{"requirements not a list", "id: x\ndepend:\n  requirements: torch\n"},
		{"unknown field", "id: x\nextra: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchema([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
