package index

import (
	"encoding/json"
	"fmt"
	"os"
)

// Save writes the index as a flat identifier-to-key JSON object so a
// future run can bootstrap without querying the tracking service.
func (ix *Index) Save(path string) error {
	data, err := json.MarshalIndent(ix.byID, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index snapshot %s: %w", path, err)
	}
	return nil
}

// LoadSnapshot reads an index snapshot previously written by Save.
func LoadSnapshot(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index snapshot %s: %w", path, err)
	}

	var byID map[string]string
	if err := json.Unmarshal(data, &byID); err != nil {
		return nil, fmt.Errorf("failed to parse index snapshot %s: %w", path, err)
	}

	return New(byID), nil
}
