package properties

import (
	"fmt"

	"github.com/joho/godotenv"
)

// DotEnvSource serves properties parsed from a .env file. Keys use the
// same mapping as EnvSource: the dotted key "cache.enabled" with prefix
// "APP" reads the APP_CACHE_ENABLED entry.
type DotEnvSource struct {
	prefix string
	vars   map[string]string
}

// NewDotEnvSource parses the .env file at path with an optional prefix.
func NewDotEnvSource(path, prefix string) (*DotEnvSource, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dotenv properties: %w", err)
	}
	return &DotEnvSource{prefix: prefix, vars: vars}, nil
}

// Lookup implements Source.
func (d *DotEnvSource) Lookup(key string) (any, bool, error) {
	v, ok := d.vars[EnvSource{Prefix: d.prefix}.varName(key)]
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}
