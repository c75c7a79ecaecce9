package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "comrade")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, filepath.Join(dir, "blobs.db"), cfg.DatabasePath)
	assert.FileExists(t, filepath.Join(dir, "config.json"))
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"lookahead": 6, "browser_fallback": true}`), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Lookahead)
	assert.True(t, cfg.BrowserFallback)
	assert.Equal(t, 1, cfg.Lookbehind)
	assert.Equal(t, 500*time.Millisecond, cfg.PrefetchInterval())
	assert.Equal(t, filepath.Join(dir, "comrade.log"), cfg.LogFile())
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"request_timeout": 0}`), 0644))
	_, err := Load(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"lookahead": -1}`), 0644))
	_, err = Load(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{`), 0644))
	_, err = Load(dir)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	cfg.DebugHTMLDir = filepath.Join(dir, "html")
	require.NoError(t, cfg.Save())

	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}
