package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(dir, "data", "todos", "todos.db"), cfg.DB)
	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
	require.NoError(t, cfg.Validate())
}

func TestDefaultPath(t *testing.T) {
	dir := isolate(t)
	assert.Equal(t, filepath.Join(dir, "config", "todos", "config.yaml"), DefaultPath())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_DefaultLocation(t *testing.T) {
	isolate(t)
	writeConfig(t, DefaultPath(), "format: json\nverbose: true\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, DefaultConfig().DB, cfg.DB)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeConfig(t, path, "db: /tmp/todos-test.db\nserve:\n  addr: \":9090\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/todos-test.db", cfg.DB)
	assert.Equal(t, ":9090", cfg.Serve.Addr)
	assert.Equal(t, "text", cfg.Format)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_MalformedYAML(t *testing.T) {
	isolate(t)
	writeConfig(t, DefaultPath(), "format: [unclosed\n")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad format", "format: yaml\n", "format"},
		{"empty db", "db: \"\"\n", "db"},
		{"bad addr", "serve:\n  addr: localhost\n", "addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			writeConfig(t, DefaultPath(), tt.content)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	isolate(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	writeConfig(t, DefaultPath(), "db: ~/tasks.db\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tasks.db"), cfg.DB)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DB: "x.db", Format: "json", Serve: ServeConfig{Addr: "0.0.0.0:80"}}
	assert.NoError(t, cfg.Validate())

	cfg.Format = "xml"
	assert.Error(t, cfg.Validate())
}
