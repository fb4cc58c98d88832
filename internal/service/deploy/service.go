package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mdrcp/mdrcp/internal/artifact"
	"github.com/mdrcp/mdrcp/internal/logger"
	"github.com/mdrcp/mdrcp/internal/manifest"
	"github.com/mdrcp/mdrcp/internal/selfupdate"
	"github.com/mdrcp/mdrcp/internal/target"
	"github.com/mdrcp/mdrcp/internal/tauri"
)

// TauriOverride controls packaging-mode detection.
type TauriOverride int

const (
	// TauriAuto detects the packaging layout from the project directory.
	TauriAuto TauriOverride = iota
	// TauriForced treats the project as a Tauri project unconditionally.
	TauriForced
	// TauriDisabled skips Tauri detection entirely.
	TauriDisabled
)

// ErrNoBuiltExecutables is returned when candidates exist but none were built.
var ErrNoBuiltExecutables = errors.New("no built executables found")

// redundantOverrideWarning is emitted when an explicit override resolves to
// the destination that would have been used anyway.
const redundantOverrideWarning = "resolved target matches default destination; override may be redundant"

// Options are inputs accepted by the deployment entry point.
type Options struct {
	// ProjectDir is the project root the tool operates on.
	ProjectDir string
	// TargetOverride is an explicit destination directory; relative paths
	// resolve against ProjectDir. Empty means env/default resolution.
	TargetOverride string
	// Profile selects the artifact subdirectory (release or debug).
	Profile artifact.Profile
	// Tauri overrides packaging-mode detection.
	Tauri TauriOverride
	// Executable reports the running executable path; nil means the real one.
	Executable selfupdate.ExecutableProvider
	// Env carries environment-derived resolution inputs; nil means the
	// real process environment.
	Env *target.Environment
}

// pendingSelfUpdate records the single artifact whose destination is the
// running executable; its copy is postponed until all others are attempted.
type pendingSelfUpdate struct {
	name       string
	sourcePath string
	destPath   string
}

// runner holds the mutable state of a single deployment execution.
// It is intentionally unexported: call Run(ctx, Options) from callers.
type runner struct {
	opts         *Options
	tauriProject bool
	baseDir      string
	artifacts    []artifact.Artifact
	destination  *target.Target

	copiedCount    int
	copiedBinaries []string
	failedBinaries []FailedCopy
	warnings       []string
	pending        *pendingSelfUpdate
	spawned        bool
}

// Run executes the deployment lifecycle and is the public entry point for the
// CLI. Fatal configuration and resolution errors are returned directly;
// per-artifact copy failures are aggregated into the summary instead.
func Run(ctx context.Context, opts *Options) (*Summary, error) {
	ctx = logger.WithName(ctx, "deploy")

	// Opportunistic cleanup from a previous interrupted update.
	selfupdate.CleanupStaleHelper(ctx)

	r := &runner{opts: opts}

	if err := r.resolveArtifacts(ctx); err != nil {
		return nil, err
	}

	if err := r.resolveDestination(ctx); err != nil {
		return nil, err
	}

	r.copyArtifacts(ctx)
	r.settlePendingSelfUpdate(ctx)

	return r.summary(), nil
}

// resolveArtifacts loads the manifest and intersects candidates against the
// artifact directory.
func (r *runner) resolveArtifacts(ctx context.Context) error {
	switch r.opts.Tauri {
	case TauriForced:
		r.tauriProject = true
	case TauriDisabled:
		r.tauriProject = false
	case TauriAuto:
		r.tauriProject = tauri.Detect(r.opts.ProjectDir)
		if r.tauriProject {
			logger.Info(ctx, "Detected Tauri project layout")
		}
	}

	r.baseDir = r.opts.ProjectDir
	if r.tauriProject {
		r.baseDir = tauri.BaseDir(r.opts.ProjectDir)
	}

	manifestPath := filepath.Join(r.baseDir, manifest.Filename)

	root, err := manifest.Load(manifestPath)
	if err != nil {
		if r.tauriProject && errors.Is(err, manifest.ErrNotFound) {
			return fmt.Errorf("is this a valid Tauri project? %w", err)
		}

		return err
	}

	var extraNames []string

	if r.tauriProject {
		if product, ok := tauri.ProductName(r.opts.ProjectDir); ok {
			extraNames = append(extraNames, product)
		}
	}

	r.artifacts, err = artifact.FindBuilt(r.baseDir, root, r.opts.Profile, extraNames)
	if err != nil {
		return err
	}

	if len(r.artifacts) == 0 {
		return fmt.Errorf("%s profile, run '%s' first: %w",
			r.opts.Profile.Label(), r.opts.Profile.BuildHint(r.tauriProject), ErrNoBuiltExecutables)
	}

	return nil
}

// resolveDestination computes and prepares the deployment directory.
func (r *runner) resolveDestination(ctx context.Context) error {
	env := target.OSEnvironment()
	if r.opts.Env != nil {
		env = *r.opts.Env
	}

	destination, err := target.Resolve(r.opts.ProjectDir, r.opts.TargetOverride, env)
	if err != nil {
		return err
	}

	if err := destination.Ensure(); err != nil {
		return err
	}

	if destination.MatchesDefault() {
		r.warnings = append(r.warnings, redundantOverrideWarning)
	}

	r.destination = destination

	logger.InfoKV(ctx, "Resolved deployment target",
		"directory", destination.Dir, "override", destination.OverrideUsed)

	return nil
}

// copyArtifacts attempts every resolved artifact, deferring the one that
// targets the running executable. There is no fail-fast: later artifacts are
// attempted regardless of earlier failures.
func (r *runner) copyArtifacts(ctx context.Context) {
	for _, a := range r.artifacts {
		destPath := filepath.Join(r.destination.Dir, a.Filename)

		if selfupdate.IsSelfTarget(destPath, r.opts.Executable) {
			logger.InfoKV(ctx, "Deferred executable, self-update will be attempted after other copies",
				"binary", a.Filename)

			r.pending = &pendingSelfUpdate{
				name:       a.Filename,
				sourcePath: a.SourcePath,
				destPath:   destPath,
			}

			continue
		}

		if err := copyFile(a.SourcePath, destPath); err != nil {
			logger.WarnKV(ctx, "Copy failed", "binary", a.Filename, "error", err)

			r.failedBinaries = append(r.failedBinaries, FailedCopy{
				Binary: a.Filename,
				Error:  fmt.Sprintf("copy %s to %s: %v", a.SourcePath, destPath, err),
			})

			continue
		}

		logger.InfoKV(ctx, "Copied executable", "binary", a.Filename, "destination", destPath)

		r.copiedCount++
		r.copiedBinaries = append(r.copiedBinaries, a.Filename)
	}
}

// settlePendingSelfUpdate resolves the deferred artifact after the main loop.
// The self-update is exclusive: any other failure downgrades it to a reported
// failure, since a partial failure elsewhere must not risk corrupting the
// running binary.
func (r *runner) settlePendingSelfUpdate(ctx context.Context) {
	if r.pending == nil {
		return
	}

	if len(r.failedBinaries) > 0 {
		logger.Warn(ctx, "Skipping self-update, fix other copy failures first and re-run")

		r.failedBinaries = append(r.failedBinaries, FailedCopy{
			Binary: r.pending.name,
			Error:  "self-update skipped due to other failures",
		})

		return
	}

	result := selfupdate.TrySpawn(ctx, r.pending.sourcePath, r.pending.destPath, r.opts.Executable)

	switch result.State {
	case selfupdate.StateSpawned:
		r.spawned = true
	case selfupdate.StateFailed:
		r.failedBinaries = append(r.failedBinaries, FailedCopy{
			Binary: r.pending.name,
			Error:  fmt.Sprintf("self-update %s to %s: %s", r.pending.sourcePath, r.pending.destPath, result.Message),
		})
	case selfupdate.StateNotApplicable:
		// The caller matched by path already, so this is effectively a
		// busy destination.
		r.failedBinaries = append(r.failedBinaries, FailedCopy{
			Binary: r.pending.name,
			Error:  fmt.Sprintf("copy %s to %s: file in use", r.pending.sourcePath, r.pending.destPath),
		})
	}
}

// summary freezes the run results into the reported structure.
func (r *runner) summary() *Summary {
	return &Summary{
		Status:            computeStatus(r.copiedCount, len(r.failedBinaries)),
		CopiedCount:       r.copiedCount,
		TargetDir:         r.destination.Dir,
		OverrideUsed:      r.destination.OverrideUsed,
		CopiedBinaries:    append([]string{}, r.copiedBinaries...),
		FailedBinaries:    append([]FailedCopy{}, r.failedBinaries...),
		Warnings:          append([]string{}, r.warnings...),
		SelfUpdateSpawned: r.spawned,
	}
}

// copyFile performs the byte-level artifact copy with executable permissions.
func copyFile(sourcePath, destPath string) error {
	source, err := os.Open(filepath.Clean(sourcePath))
	if err != nil {
		return err
	}

	defer func() {
		_ = source.Close()
	}()

	dest, err := os.OpenFile(filepath.Clean(destPath), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, artifact.DefaultFileMode)
	if err != nil {
		return err
	}

	if _, err = io.Copy(dest, source); err != nil {
		_ = dest.Close()

		return err
	}

	return dest.Close()
}
