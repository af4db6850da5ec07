package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSourceMapsDottedKeys(t *testing.T) {
	t.Setenv("WELDTEST_CACHE_ENABLED", "true")

	src := NewEnvSource("weldtest")
	v, ok, err := src.Lookup("cache.enabled")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestEnvSourceDashesBecomeUnderscores(t *testing.T) {
	t.Setenv("WELDTEST_FEATURE_FLAG_X", "on")

	src := NewEnvSource("weldtest")
	v, ok, err := src.Lookup("feature-flag.x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "on", v)
}

func TestEnvSourceNoPrefix(t *testing.T) {
	t.Setenv("WELDTEST_BARE_KEY", "value")

	src := NewEnvSource("")
	v, ok, err := src.Lookup("weldtest.bare.key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestEnvSourceMissingVariable(t *testing.T) {
	src := NewEnvSource("weldtest")
	_, ok, err := src.Lookup("definitely.not.set")
	require.NoError(t, err)
	assert.False(t, ok)
}
