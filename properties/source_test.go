package properties

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type erroringSource struct{}

func (erroringSource) Lookup(string) (any, bool, error) {
	return nil, false, errors.New("backend unavailable")
}

func TestMapSourceLookup(t *testing.T) {
	src := NewMapSource(map[string]any{"cache.enabled": true})

	v, ok, err := src.Lookup("cache.enabled")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, true, v)

	_, ok, err = src.Lookup("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMapSourceCopiesInput(t *testing.T) {
	original := map[string]any{"key": "before"}
	src := NewMapSource(original)
	original["key"] = "after"

	v, ok, err := src.Lookup("key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "before", v)
}

func TestChainEarlierSourceWins(t *testing.T) {
	chain := NewChain(
		NewMapSource(map[string]any{"mode": "override"}),
		NewMapSource(map[string]any{"mode": "default", "extra": "fallback"}),
	)

	v, ok, err := chain.Lookup("mode")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "override", v)

	v, ok, err = chain.Lookup("extra")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fallback", v)

	_, ok, err = chain.Lookup("absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChainStopsOnSourceError(t *testing.T) {
	chain := NewChain(erroringSource{}, NewMapSource(map[string]any{"mode": "unreachable"}))

	_, _, err := chain.Lookup("mode")
	assert.Error(t, err)
}

func TestTypedHelpersCoerce(t *testing.T) {
	src := NewMapSource(map[string]any{
		"name":    "weld",
		"enabled": "true",
		"count":   "42",
		"exact":   7,
	})

	name, ok, err := String(src, "name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "weld", name)

	enabled, ok, err := Bool(src, "enabled")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, enabled)

	count, ok, err := Int(src, "count")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, count)

	exact, ok, err := Int(src, "exact")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, exact)
}

func TestTypedHelperMissingKey(t *testing.T) {
	src := NewMapSource(nil)

	_, ok, err := Bool(src, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypedHelperCastFailure(t *testing.T) {
	src := NewMapSource(map[string]any{"enabled": "definitely"})

	_, ok, err := Bool(src, "enabled")
	assert.True(t, ok, "key exists even when the cast fails")
	require.ErrorIs(t, err, ErrCastFailed)
}
