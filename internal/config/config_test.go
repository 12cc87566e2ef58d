package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PXEXEC_HOST", "PXEXEC_OVERRIDE_EDITOR_PATH", "PXEXEC_TOOLCHAIN", "PXEXEC_RUNTIME", "PXEXEC_WORKDIR", "PXEXEC_LOG_DEV"} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:80", cfg.Host)
	assert.Equal(t, "./editor/", cfg.EditorPath)
	assert.Equal(t, "", cfg.ToolchainPath)
	assert.Equal(t, RuntimeProcess, cfg.Runtime)
	assert.Equal(t, filepath.Join(os.TempDir(), "pxexec"), cfg.WorkDir)
	assert.False(t, cfg.LogDev)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PXEXEC_HOST", "127.0.0.1:8080")
	t.Setenv("PXEXEC_OVERRIDE_EDITOR_PATH", "/srv/editor")
	t.Setenv("PXEXEC_TOOLCHAIN", "/etc/pxexec/tc.json")
	t.Setenv("PXEXEC_RUNTIME", "Docker")
	t.Setenv("PXEXEC_WORKDIR", "/var/pxexec")
	t.Setenv("PXEXEC_LOG_DEV", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Host:          "127.0.0.1:8080",
		EditorPath:    "/srv/editor",
		ToolchainPath: "/etc/pxexec/tc.json",
		Runtime:       RuntimeDocker,
		WorkDir:       "/var/pxexec",
		LogDev:        true,
	}, cfg)
}

func TestInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PXEXEC_RUNTIME", "vm")
	_, err := FromEnv()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("PXEXEC_LOG_DEV", "maybe")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PXEXEC_HOST")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PXEXEC_HOST=10.0.0.1:9000\n"), 0644))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:9000", cfg.Host)
}
