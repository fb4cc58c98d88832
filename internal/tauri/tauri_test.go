package tauri

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mdrcp/mdrcp/internal/manifest"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

// TestDetect requires both the sub-manifest and a packaging config.
func TestDetect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.False(t, Detect(dir))

	writeFile(t, filepath.Join(BaseDir(dir), manifest.Filename), "[package]\nname = \"app\"")
	require.False(t, Detect(dir))

	writeFile(t, filepath.Join(BaseDir(dir), "tauri.conf.json"), "{}")
	require.True(t, Detect(dir))
}

// TestDetectJSON5Variant accepts the .json5 configuration filename.
func TestDetectJSON5Variant(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(BaseDir(dir), manifest.Filename), "[package]\nname = \"app\"")
	writeFile(t, filepath.Join(BaseDir(dir), "tauri.conf.json5"), "{}")
	require.True(t, Detect(dir))
}

// TestProductNameRootLevel reads productName from the configuration root.
func TestProductNameRootLevel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(BaseDir(dir), "tauri.conf.json"), `{ "productName": "MyApp" }`)

	name, ok := ProductName(dir)
	require.True(t, ok)
	require.Equal(t, "MyApp", name)
}

// TestProductNameUnderPackage reads productName nested under "package".
func TestProductNameUnderPackage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(BaseDir(dir), "tauri.conf.json"),
		`{ "package": { "productName": "InsidePkg" } }`)

	name, ok := ProductName(dir)
	require.True(t, ok)
	require.Equal(t, "InsidePkg", name)
}

// TestProductNameFailures covers invalid JSON and missing keys.
func TestProductNameFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// No config file at all.
	_, ok := ProductName(dir)
	require.False(t, ok)

	// Invalid JSON.
	writeFile(t, filepath.Join(BaseDir(dir), "tauri.conf.json"), "{ invalid }")
	_, ok = ProductName(dir)
	require.False(t, ok)

	// Valid JSON, key absent.
	writeFile(t, filepath.Join(BaseDir(dir), "tauri.conf.json"), `{ "foo": "bar" }`)
	_, ok = ProductName(dir)
	require.False(t, ok)

	// Valid JSON, key absent under package.
	writeFile(t, filepath.Join(BaseDir(dir), "tauri.conf.json"), `{ "package": { "version": "1.0" } }`)
	_, ok = ProductName(dir)
	require.False(t, ok)
}
