package results

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// File is the JSON interchange format the recorder emits and the harness
// consumes: the integration name plus the runs it recorded.
type File struct {
	Integration string      `json:"integration"`
	Runs        []RunRecord `json:"runs"`
}

// LoadFile reads a recorded-results JSON file. Runs without an id are
// assigned one so downstream reports can reference them.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	if f.Integration == "" {
		return nil, fmt.Errorf("invalid results file: integration is required")
	}

	for i := range f.Runs {
		if f.Runs[i].ID == "" {
			f.Runs[i].ID = uuid.NewString()
		}
		if f.Runs[i].Seq == 0 {
			f.Runs[i].Seq = int64(i + 1)
		}
	}
	return &f, nil
}

// SaveFile writes a recorded-results JSON file.
func SaveFile(path string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}

// Namespace renders the file's runs as a namespace tree.
func (f *File) Namespace() map[string]any {
	return Namespace(f.Integration, f.Runs)
}
