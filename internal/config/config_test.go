package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, 3*time.Second, cfg.Autosave.Debounce())
	assert.Equal(t, 2, cfg.Autosave.MaxRetries)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
db_path: /tmp/desk.db
autosave:
  debounce_ms: 500
  saved_display_ms: 1000
  max_retries: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/desk.db", cfg.DBPath)
	assert.Equal(t, 500*time.Millisecond, cfg.Autosave.Debounce())
	assert.Equal(t, time.Second, cfg.Autosave.SavedDisplay())
	assert.Equal(t, 5, cfg.Autosave.MaxRetries)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "db_path: /tmp/partial.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/partial.db", cfg.DBPath)
	assert.Equal(t, Default().Autosave.DebounceMs, cfg.Autosave.DebounceMs)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := writeConfig(t, "db_path: /tmp/from-file.db\n")
	t.Setenv("COPYDESK_DB", "/tmp/from-env.db")
	t.Setenv("COPYDESK_AUTOSAVE_DEBOUNCE_MS", "750")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", cfg.DBPath)
	assert.Equal(t, 750, cfg.Autosave.DebounceMs)
}

func TestLoad_RejectsBadIntervals(t *testing.T) {
	path := writeConfig(t, `
autosave:
  debounce_ms: -1
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "db_path: [unclosed\n")

	_, err := Load(path)
	assert.Error(t, err)
}
