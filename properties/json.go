package properties

import (
	"encoding/json"
	"fmt"
	"os"
)

// NewJSONSource loads properties from a JSON file.
func NewJSONSource(path string) (*FileSource, error) {
	values, err := loadJSON(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{values: values}, nil
}

func loadJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON properties: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON properties: %w", err)
	}
	out := make(map[string]any)
	flatten("", raw, out)
	return out, nil
}
