package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slxkit.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeFile(t *testing.T) {
	path := writeConfig(t, `
root_dir      = "/models"
library_paths = ["/models/libs", "/opt/shared"]
workers       = 4

log {
  level  = "debug"
  format = "json"
}
`)
	cfg, err := DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "/models", cfg.RootDir)
	assert.Equal(t, []string{"/models/libs", "/opt/shared"}, cfg.LibraryPaths)
	assert.Equal(t, 4, cfg.Workers)
	require.NotNil(t, cfg.Log)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestDecodeFileDefaults(t *testing.T) {
	path := writeConfig(t, ``)
	cfg, err := DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, cfg.RootDir)
	assert.Empty(t, cfg.LibraryPaths)
	assert.Zero(t, cfg.Workers)
	assert.Nil(t, cfg.Log)
}

func TestDecodeFileEnvInterpolation(t *testing.T) {
	t.Setenv("SLXKIT_TEST_LIBDIR", "/env/libs")
	path := writeConfig(t, `
library_paths = ["${env.SLXKIT_TEST_LIBDIR}/a", env.SLXKIT_TEST_LIBDIR]
`)
	cfg, err := DecodeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/env/libs/a", "/env/libs"}, cfg.LibraryPaths)
}

func TestDecodeFileParseError(t *testing.T) {
	path := writeConfig(t, `root_dir = `)
	_, err := DecodeFile(context.Background(), path)
	assert.ErrorContains(t, err, "failed to parse HCL file")
}

func TestDecodeFileUnknownAttribute(t *testing.T) {
	path := writeConfig(t, `does_not_exist = true`)
	_, err := DecodeFile(context.Background(), path)
	assert.ErrorContains(t, err, "failed to decode HCL file")
}
