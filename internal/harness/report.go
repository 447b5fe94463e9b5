package harness

import (
	"encoding/json"
	"fmt"
)

// Snapshot renders the report as deterministic JSON for golden comparison.
// Struct field order is fixed and encoding/json sorts map keys, so identical
// reports always produce identical bytes.
func (r *Report) Snapshot() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}
