package target

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// OverrideEnvVar names the destination directory when set in the environment.
	OverrideEnvVar = "MD_TARGET_DIR"

	// homeEnvVar locates the per-user default destination on non-Windows platforms.
	homeEnvVar = "HOME"

	// windowsDefaultDir is the fixed default destination on Windows.
	windowsDefaultDir = `c:\apps`

	// defaultDirPermissions is used when creating the destination directory.
	defaultDirPermissions os.FileMode = 0o755
)

var (
	// ErrEmptyOverrideVariable is returned when the override variable is set but empty.
	ErrEmptyOverrideVariable = errors.New(OverrideEnvVar + " is set but empty; provide an absolute path")
	// ErrHomeNotSet is returned when HOME is required but absent.
	ErrHomeNotSet = errors.New("HOME is not set; cannot determine ~/.local/bin")
	// ErrNotADirectory is returned when the resolved destination exists as a non-directory.
	ErrNotADirectory = errors.New("target path exists but is not a directory")
)

// Environment carries the environment-derived inputs of destination
// resolution. Passing them explicitly keeps the resolver pure and testable.
type Environment struct {
	// OverrideDir is the value of the destination override variable.
	OverrideDir string
	// OverrideDirSet reports whether the variable was present at all.
	OverrideDirSet bool
	// HomeDir is the value of the home directory variable.
	HomeDir string
	// HomeDirSet reports whether the home variable was present.
	HomeDirSet bool
	// GOOS selects platform defaults; empty means runtime.GOOS.
	GOOS string
}

// OSEnvironment captures the real process environment.
func OSEnvironment() Environment {
	overrideDir, overrideSet := os.LookupEnv(OverrideEnvVar)
	homeDir, homeSet := os.LookupEnv(homeEnvVar)

	return Environment{
		OverrideDir:    overrideDir,
		OverrideDirSet: overrideSet,
		HomeDir:        homeDir,
		HomeDirSet:     homeSet,
	}
}

func (e Environment) goos() string {
	if e.GOOS != "" {
		return e.GOOS
	}

	return runtime.GOOS
}

// Target is the resolved deployment destination.
type Target struct {
	// Dir is the resolved destination directory.
	Dir string
	// OverrideUsed reports whether an explicit override path was provided.
	OverrideUsed bool
	// Default is the computed default destination, kept for redundancy
	// warnings when an override was used. Empty when the default could not
	// be computed.
	Default string
}

// DefaultDir computes the platform default destination: the override variable
// when set, a fixed system path on Windows, $HOME/.local/bin elsewhere.
func DefaultDir(env Environment) (string, error) {
	if env.OverrideDirSet {
		if env.OverrideDir == "" {
			return "", ErrEmptyOverrideVariable
		}

		return env.OverrideDir, nil
	}

	if env.goos() == "windows" {
		return windowsDefaultDir, nil
	}

	if !env.HomeDirSet || env.HomeDir == "" {
		return "", ErrHomeNotSet
	}

	return filepath.Join(env.HomeDir, ".local", "bin"), nil
}

// Resolve computes the deployment target. An explicit override wins over the
// environment variable, which wins over the platform default. A relative
// override resolves against the project directory, not the working directory.
func Resolve(projectDir, override string, env Environment) (*Target, error) {
	if override != "" {
		t := &Target{OverrideUsed: true}

		// Best effort: the default is only needed for the redundancy warning.
		if defaultDir, err := DefaultDir(env); err == nil {
			t.Default = defaultDir
		}

		if filepath.IsAbs(override) {
			t.Dir = override
		} else {
			t.Dir = filepath.Join(projectDir, override)
		}

		return t, nil
	}

	defaultDir, err := DefaultDir(env)
	if err != nil {
		return nil, err
	}

	return &Target{Dir: defaultDir, Default: defaultDir}, nil
}

// Ensure creates the destination directory (and parents) when absent and
// rejects a destination pre-empted by a non-directory. The check applies even
// without an override: a stray file can shadow the default directory.
func (t *Target) Ensure() error {
	info, err := os.Stat(t.Dir)

	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%w: %s", ErrNotADirectory, t.Dir)
	case err == nil:
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("stat target directory %s: %w", t.Dir, err)
	}

	if err := os.MkdirAll(t.Dir, defaultDirPermissions); err != nil {
		return fmt.Errorf("create target directory %s: %w", t.Dir, err)
	}

	return nil
}

// MatchesDefault reports whether the resolved directory equals the computed
// default, signalling a redundant override.
func (t *Target) MatchesDefault() bool {
	return t.OverrideUsed && t.Default != "" && filepath.Clean(t.Dir) == filepath.Clean(t.Default)
}
