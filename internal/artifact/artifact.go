package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/mdrcp/mdrcp/internal/manifest"
)

const (
	// targetDirName is the build output directory produced by cargo.
	targetDirName = "target"

	// DefaultFileMode is applied to deployed executables.
	DefaultFileMode os.FileMode = 0o755
)

// ErrNoCandidates is returned when the manifest declares neither a package
// nor any workspace members, so there is nothing that could have been built.
var ErrNoCandidates = errors.New("no packages or bins found in Cargo.toml")

// Artifact is a candidate name confirmed to exist in the artifact directory.
type Artifact struct {
	// Name is the candidate base name from the manifest.
	Name string
	// Filename is the platform-specific executable filename.
	Filename string
	// SourcePath is the absolute or base-relative path of the built executable.
	SourcePath string
}

// ExecutableExtension returns ".exe" on Windows and "" elsewhere.
func ExecutableExtension() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}

	return ""
}

// ExecutableFilename appends the platform executable extension to a base name.
func ExecutableFilename(base string) string {
	return base + ExecutableExtension()
}

// ArtifactDir returns the profile-specific artifact directory under baseDir.
func ArtifactDir(baseDir string, profile Profile) string {
	return filepath.Join(baseDir, targetDirName, profile.Dir())
}

// FindBuilt intersects candidate names from the root manifest, the supplied
// extra names and every readable workspace member manifest against the
// artifact directory for the selected profile.
//
// A member whose manifest is missing or fails to decode is silently skipped.
// ErrNoCandidates is returned when the candidate set itself is empty; an empty
// result with a nil error means candidates exist but nothing was built.
func FindBuilt(baseDir string, root manifest.Manifest, profile Profile, extraNames []string) ([]Artifact, error) {
	candidates := make(map[string]struct{})

	for _, name := range root.BinNames() {
		candidates[name] = struct{}{}
	}

	for _, name := range extraNames {
		if name != "" {
			candidates[name] = struct{}{}
		}
	}

	for _, member := range root.WorkspaceMembers() {
		memberManifest, err := manifest.Load(filepath.Join(baseDir, member, manifest.Filename))
		if err != nil {
			continue
		}

		for _, name := range memberManifest.BinNames() {
			candidates[name] = struct{}{}
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	artifactDir := ArtifactDir(baseDir, profile)
	built := make([]Artifact, 0, len(candidates))

	for name := range candidates {
		filename := ExecutableFilename(name)
		sourcePath := filepath.Join(artifactDir, filename)

		if info, err := os.Stat(sourcePath); err != nil || info.IsDir() {
			continue
		}

		built = append(built, Artifact{
			Name:       name,
			Filename:   filename,
			SourcePath: sourcePath,
		})
	}

	// Order is insignificant to callers; sort for stable logs and tests.
	sort.Slice(built, func(i, j int) bool {
		return built[i].Name < built[j].Name
	})

	return built, nil
}
