package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates a file with the given contents, failing the test on error.
func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

// TestValidate checks enumeration validation for the defaults file.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty config is fine.
	require.NoError(t, Validate(new(Config)))

	// Bad profile.
	err := Validate(&Config{Profile: "fast"})
	require.Error(t, err)

	// Bad summary format.
	err = Validate(&Config{Summary: "xml"})
	require.Error(t, err)

	// Bad log level.
	err = Validate(&Config{LogLevel: "loud"})
	require.Error(t, err)

	// All supported values together.
	cfg := &Config{
		TargetDir: "bin",
		Profile:   "debug",
		Summary:   "json-pretty",
		Quiet:     true,
		LogLevel:  "warn",
	}
	require.NoError(t, Validate(cfg))
}

// TestSaveLoadRoundtrip ensures defaults are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".mdrcp.yaml")

	cfg := &Config{
		TargetDir: "custom/bin",
		Profile:   "release",
		Summary:   "json",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.TargetDir, loaded.TargetDir)
	require.Equal(t, cfg.Profile, loaded.Profile)
	require.Equal(t, cfg.Summary, loaded.Summary)
}

// TestLoadMissingFile verifies a missing defaults file yields no config and no error.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), ".mdrcp.yaml"))
	require.NoError(t, err)
	require.Nil(t, cfg)
}

// TestLoadInvalidYAML verifies decode failures surface as errors.
func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".mdrcp.yaml")
	writeFile(t, path, "profile: [broken")

	_, err := Load(path)
	require.Error(t, err)
}
