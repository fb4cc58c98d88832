package artifact

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
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o755))
}

func parseManifest(t *testing.T, contents string) manifest.Manifest {
	t.Helper()

	m, err := manifest.Parse([]byte(contents))
	require.NoError(t, err)

	return m
}

func names(artifacts []Artifact) []string {
	result := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		result = append(result, a.Name)
	}

	return result
}

// TestFindBuiltEmptyCandidates verifies the hard error for a manifest with nothing declared.
func TestFindBuiltEmptyCandidates(t *testing.T) {
	t.Parallel()

	_, err := FindBuilt(t.TempDir(), parseManifest(t, ""), ProfileRelease, nil)
	require.ErrorIs(t, err, ErrNoCandidates)
}

// TestFindBuiltNothingBuilt distinguishes "no candidates" from "nothing built".
func TestFindBuiltNothingBuilt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ArtifactDir(dir, ProfileRelease), 0o755))

	built, err := FindBuilt(dir, parseManifest(t, "[package]\nname = \"demo\""), ProfileRelease, nil)
	require.NoError(t, err)
	require.Empty(t, built)
}

// TestFindBuiltCustomBinName ensures only the built custom bin survives resolution.
func TestFindBuiltCustomBinName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(ArtifactDir(dir, ProfileRelease), ExecutableFilename("mddsklbl")), "fake exe")

	m := parseManifest(t, `
[package]
name = "mddskmgr"

[[bin]]
name = "mddsklbl"
path = "src/main.rs"
`)

	built, err := FindBuilt(dir, m, ProfileRelease, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"mddsklbl"}, names(built))
	require.Equal(t, ExecutableFilename("mddsklbl"), built[0].Filename)
}

// TestFindBuiltWorkspacePartial verifies members without built executables are excluded.
func TestFindBuiltWorkspacePartial(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, project := range []string{"project-a", "project-b", "project-c"} {
		writeFile(t, filepath.Join(dir, project, manifest.Filename),
			"[package]\nname = \""+project+"\"")
	}

	// Only a and c were built.
	writeFile(t, filepath.Join(ArtifactDir(dir, ProfileRelease), ExecutableFilename("project-a")), "fake")
	writeFile(t, filepath.Join(ArtifactDir(dir, ProfileRelease), ExecutableFilename("project-c")), "fake")

	m := parseManifest(t, `[workspace]
members = ["project-a", "project-b", "project-c"]`)

	built, err := FindBuilt(dir, m, ProfileRelease, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"project-a", "project-c"}, names(built))
}

// TestFindBuiltMixedRootAndMember covers a manifest with both package and workspace sections.
func TestFindBuiltMixedRootAndMember(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sub-project", manifest.Filename),
		"[package]\nname = \"sub-project\"")
	writeFile(t, filepath.Join(ArtifactDir(dir, ProfileRelease), ExecutableFilename("root-package")), "fake")
	writeFile(t, filepath.Join(ArtifactDir(dir, ProfileRelease), ExecutableFilename("sub-project")), "fake")

	m := parseManifest(t, `
[package]
name = "root-package"

[workspace]
members = ["sub-project"]
`)

	built, err := FindBuilt(dir, m, ProfileRelease, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"root-package", "sub-project"}, names(built))
}

// TestFindBuiltSkipsBrokenMembers ensures unreadable member manifests are not errors.
func TestFindBuiltSkipsBrokenMembers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// "missing" has no manifest at all, "broken" has invalid TOML.
	writeFile(t, filepath.Join(dir, "broken", manifest.Filename), "invalid = toml [")
	writeFile(t, filepath.Join(dir, "good", manifest.Filename), "[package]\nname = \"good\"")
	writeFile(t, filepath.Join(ArtifactDir(dir, ProfileRelease), ExecutableFilename("good")), "fake")

	m := parseManifest(t, `[workspace]
members = ["missing", "broken", "good"]`)

	built, err := FindBuilt(dir, m, ProfileRelease, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"good"}, names(built))
}

// TestFindBuiltExtraNames covers externally supplied names such as a Tauri product name.
func TestFindBuiltExtraNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(ArtifactDir(dir, ProfileDebug), ExecutableFilename("MyProduct")), "fake")

	m := parseManifest(t, "[package]\nname = \"backend\"")

	built, err := FindBuilt(dir, m, ProfileDebug, []string{"MyProduct", ""})
	require.NoError(t, err)
	require.Equal(t, []string{"MyProduct"}, names(built))
}

// TestProfile checks directory mapping and build hints per packaging mode.
func TestProfile(t *testing.T) {
	t.Parallel()

	require.Equal(t, "release", ProfileRelease.Dir())
	require.Equal(t, "debug", ProfileDebug.Dir())

	require.Equal(t, "cargo build --release", ProfileRelease.BuildHint(false))
	require.Equal(t, "cargo build", ProfileDebug.BuildHint(false))
	require.Equal(t, "cargo tauri build", ProfileRelease.BuildHint(true))
	require.Equal(t, "cargo tauri build --debug", ProfileDebug.BuildHint(true))

	p, ok := ParseProfile("debug")
	require.True(t, ok)
	require.Equal(t, ProfileDebug, p)

	_, ok = ParseProfile("fast")
	require.False(t, ok)
}
