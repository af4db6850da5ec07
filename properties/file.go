package properties

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileSource serves properties parsed from a configuration file. Nested
// tables flatten to dotted keys: {"cache": {"enabled": true}} is looked
// up as "cache.enabled". The snapshot is immutable after load; use
// WatchSource for files that change at runtime.
type FileSource struct {
	values map[string]any
}

// NewFileSource loads a file, picking the parser by extension
// (.json, .yaml, .yml, .toml).
func NewFileSource(path string) (*FileSource, error) {
	loader, err := loaderFor(path)
	if err != nil {
		return nil, err
	}
	values, err := loader(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{values: values}, nil
}

// Lookup implements Source.
func (f *FileSource) Lookup(key string) (any, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

type fileLoader func(path string) (map[string]any, error)

func loaderFor(path string) (fileLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON, nil
	case ".yaml", ".yml":
		return loadYAML, nil
	case ".toml":
		return loadTOML, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// flatten rewrites nested maps into dotted keys. Slices and scalars are
// stored as-is.
func flatten(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch nested := v.(type) {
		case map[string]any:
			flatten(key, nested, out)
		case map[any]any:
			converted := make(map[string]any, len(nested))
			for nk, nv := range nested {
				converted[fmt.Sprintf("%v", nk)] = nv
			}
			flatten(key, converted, out)
		default:
			out[key] = v
		}
	}
}
