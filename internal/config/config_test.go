package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "promenade.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.Size)
	assert.Equal(t, "example", cfg.ProgramPath)
	assert.Equal(t, 1, cfg.Rounds)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, "size: 16\nprogram: input.txt\nrounds: 1000000000\nlog_level: debug\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Size)
	assert.Equal(t, "input.txt", cfg.ProgramPath)
	assert.Equal(t, 1000000000, cfg.Rounds)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "promenade.db", cfg.DBPath, "unset keys keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "size: 16\nrounds: 3\n")
	t.Setenv("PROMENADE_SIZE", "8")
	t.Setenv("PROMENADE_PROGRAM", "other")
	t.Setenv("PROMENADE_DB", ":memory:")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Size)
	assert.Equal(t, 3, cfg.Rounds)
	assert.Equal(t, "other", cfg.ProgramPath)
	assert.Equal(t, ":memory:", cfg.DBPath)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("PROMENADE_ROUNDS", "many")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "size: [1, 2\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "size: 27\n"))
	assert.Error(t, err)
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := Config{Size: 0, Rounds: -1, LogLevel: "loud"}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"size", "rounds", "program", "log level"} {
		assert.Contains(t, err.Error(), want)
	}
}
