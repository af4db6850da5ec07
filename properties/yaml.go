package properties

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NewYAMLSource loads properties from a YAML file.
func NewYAMLSource(path string) (*FileSource, error) {
	values, err := loadYAML(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{values: values}, nil
}

func loadYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML properties: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML properties: %w", err)
	}
	out := make(map[string]any)
	flatten("", raw, out)
	return out, nil
}
