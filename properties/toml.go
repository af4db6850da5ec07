package properties

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// NewTOMLSource loads properties from a TOML file.
func NewTOMLSource(path string) (*FileSource, error) {
	values, err := loadTOML(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{values: values}, nil
}

func loadTOML(path string) (map[string]any, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML properties: %w", err)
	}
	out := make(map[string]any)
	flatten("", raw, out)
	return out, nil
}
