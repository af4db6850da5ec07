package properties

import (
	"os"
	"strings"
)

// EnvSource reads properties from environment variables. Dotted keys map
// to upper-snake variable names, so with prefix "APP" the key
// "cache.enabled" reads APP_CACHE_ENABLED.
type EnvSource struct {
	Prefix string
}

// NewEnvSource creates an environment source with an optional prefix.
func NewEnvSource(prefix string) EnvSource {
	return EnvSource{Prefix: prefix}
}

// Lookup implements Source.
func (e EnvSource) Lookup(key string) (any, bool, error) {
	v, ok := os.LookupEnv(e.varName(key))
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func (e EnvSource) varName(key string) string {
	name := strings.ToUpper(envKeyReplacer.Replace(key))
	if e.Prefix == "" {
		return name
	}
	return strings.ToUpper(e.Prefix) + "_" + name
}
