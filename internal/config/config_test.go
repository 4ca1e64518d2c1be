package config

import (
	"bytes"
	"log/slog"
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

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GANTTKIT_CONFIG", "")
	return home
}

func TestDefault(t *testing.T) {
	cfg := Default("/home/op")

	assert.Equal(t, "/home/op/.ganttkit/ganttkit.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(home), cfg)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	isolateHome(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	home := isolateHome(t)
	path := writeConfig(t, `
fixture_dir: /srv/fixtures
server:
  addr: ":9090"
  read_timeout: 3s
watch:
  enabled: true
  debounce: 50ms
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/fixtures", cfg.FixtureDir)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout, "unset keys keep defaults")
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, Default(home).DBPath, cfg.DBPath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, "server:\n  addr: \":9090\"\n")
	t.Setenv("GANTTKIT_CONFIG", path)
	t.Setenv("GANTTKIT_ADDR", ":7070")
	t.Setenv("GANTTKIT_DB", "/tmp/g.db")
	t.Setenv("GANTTKIT_WATCH", "true")
	t.Setenv("GANTTKIT_WATCH_DEBOUNCE_MS", "25")
	t.Setenv("GANTTKIT_LARGE_CAMPAIGNS", "5")
	t.Setenv("GANTTKIT_LARGE_SEED", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "/tmp/g.db", cfg.DBPath)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 25*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 5, cfg.Large.Campaigns)
	assert.Equal(t, int64(2024), cfg.Large.Seed, "unparsable values are ignored")
}

func TestLoad_InvalidValues(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, "log:\n  level: loud\n  format: xml\nlarge:\n  campaigns: 0\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "log.format")
	assert.Contains(t, err.Error(), "large.campaigns")
}

func TestLoad_MalformedYAML(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, "server: [unclosed\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestLogger(t *testing.T) {
	cfg := Default("/home/op")
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=1")

	buf.Reset()
	cfg.Log.Format = "json"
	cfg.Logger(&buf).Warn("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}
