package zecs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -run ^TestLoadConfig$ . -count 1
func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("ZECS_CHUNK_BYTES", "4096")
		t.Setenv("ZECS_WORKERS", "3")
		t.Setenv("ZECS_LOG_LEVEL", "debug")
		t.Setenv("ZECS_LOG_FORMAT", "pretty")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 4096, cfg.ChunkBytes)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, LogFormatPretty, ParseLogFormat(cfg.LogFormat))
	})

	invalid := map[string][2]string{
		"chunk bytes": {"ZECS_CHUNK_BYTES", "0"},
		"workers":     {"ZECS_WORKERS", "-1"},
		"level":       {"ZECS_LOG_LEVEL", "loud"},
		"format":      {"ZECS_LOG_FORMAT", "xml"},
		"invalid int": {"ZECS_INITIAL_CAPACITY", "many"},
	}
	for name, kv := range invalid {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

// go test -run ^TestStoreLogging$ . -count 1
func TestStoreLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	s, err := NewStore(WithConfig(cfg), WithLogger(newLogger(cfg, &buf)))
	require.NoError(t, err)

	e := mustCreate(t, s)
	mustAdd(t, s, e, Position{})
	require.NoError(t, s.DestroyAllEntities())

	out := buf.String()
	assert.Contains(t, out, `"message":"group created"`)
	assert.Contains(t, out, `"archetype":"{`)
	assert.Contains(t, out, `"message":"store cleared"`)
	assert.Contains(t, out, `"entities":1`)
}
