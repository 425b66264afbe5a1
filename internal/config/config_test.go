package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray .env is loaded.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("EVENT_CHANNEL_BUFFER_SIZE", "")
	t.Setenv("DISPUTED_OUTPUT_PATH", "")

	cfg := Load()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1024, cfg.EventBus.ChannelBufferSize)
	assert.Empty(t, cfg.Output.DisputedPath)
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("EVENT_CHANNEL_BUFFER_SIZE", "16")
	t.Setenv("DISPUTED_OUTPUT_PATH", "/tmp/disputed.csv")

	cfg := Load()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 16, cfg.EventBus.ChannelBufferSize)
	assert.Equal(t, "/tmp/disputed.csv", cfg.Output.DisputedPath)
}

func TestLoad_InvalidBufferSizeFallsBack(t *testing.T) {
	chdirTemp(t)

	for _, value := range []string{"abc", "0", "-5"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("EVENT_CHANNEL_BUFFER_SIZE", value)

			cfg := Load()
			assert.Equal(t, 1024, cfg.EventBus.ChannelBufferSize)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("EVENT_CHANNEL_BUFFER_SIZE", "")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("EVENT_CHANNEL_BUFFER_SIZE")

	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=warn\nEVENT_CHANNEL_BUFFER_SIZE=8\n"), 0o600)
	require.NoError(t, err)

	cfg := Load()

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.EventBus.ChannelBufferSize)
}
