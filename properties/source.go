// Package properties provides property sources for condition evaluation:
// in-memory maps, environment variables, JSON/YAML/TOML files, chained
// fallbacks, and a file-watching source that reloads on change.
package properties

import (
	"fmt"
	"reflect"

	"github.com/golobby/cast"
)

// Source supplies property values by key. Implementations must be safe
// for concurrent lookups.
type Source interface {
	// Lookup returns the value for key and whether it was found.
	Lookup(key string) (any, bool, error)
}

// MapSource serves properties from a fixed in-memory map.
type MapSource map[string]any

// NewMapSource creates a source over a copy of the given map.
func NewMapSource(values map[string]any) MapSource {
	out := make(MapSource, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

// Lookup implements Source.
func (m MapSource) Lookup(key string) (any, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

// Chain tries each source in order and returns the first match.
type Chain []Source

// NewChain creates a chained source; earlier sources win.
func NewChain(sources ...Source) Chain {
	return Chain(sources)
}

// Lookup implements Source. A source error stops the chain; a missing
// key falls through to the next source.
func (c Chain) Lookup(key string) (any, bool, error) {
	for _, s := range c {
		v, ok, err := s.Lookup(key)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return v, true, nil
		}
	}
	return nil, false, nil
}

// String looks up key and coerces the value to a string.
func String(s Source, key string) (string, bool, error) {
	return typed[string](s, key)
}

// Bool looks up key and coerces the value to a bool.
func Bool(s Source, key string) (bool, bool, error) {
	return typed[bool](s, key)
}

// Int looks up key and coerces the value to an int.
func Int(s Source, key string) (int, bool, error) {
	return typed[int](s, key)
}

func typed[T any](s Source, key string) (T, bool, error) {
	var zero T
	v, ok, err := s.Lookup(key)
	if err != nil || !ok {
		return zero, ok, err
	}
	if t, isT := v.(T); isT {
		return t, true, nil
	}
	converted, err := cast.FromType(fmt.Sprintf("%v", v), reflect.TypeOf(zero))
	if err != nil {
		return zero, true, fmt.Errorf("%w: key %q: %v", ErrCastFailed, key, err)
	}
	t, isT := converted.(T)
	if !isT {
		return zero, true, fmt.Errorf("%w: key %q holds %T", ErrCastFailed, key, v)
	}
	return t, true, nil
}
