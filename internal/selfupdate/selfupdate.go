package selfupdate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/mitchellh/go-ps"

	"github.com/mdrcp/mdrcp/internal/artifact"
	"github.com/mdrcp/mdrcp/internal/logger"
)

const (
	// helperBaseName is the well-known name of the temporary helper copy.
	helperBaseName = "mdrcp_updater"

	// FinishCommandName is the private subcommand the helper is launched with.
	FinishCommandName = "finish-update"

	// finishAttempts bounds the helper's retry loop. The retries cover the
	// window where the OS has not yet released the file handle of the
	// just-exited parent process.
	finishAttempts = 10

	// finishRetryDelay is the fixed pause between helper copy attempts.
	finishRetryDelay = 200 * time.Millisecond
)

var errFinishInterrupted = errors.New("finish-update interrupted")

// ExecutableProvider reports the path of the currently running executable.
// It exists so tests can substitute a fixed path without touching process state.
type ExecutableProvider func() (string, error)

// OSExecutable is the default provider backed by os.Executable.
func OSExecutable() (string, error) {
	return os.Executable()
}

// State describes the outcome of a self-update attempt.
type State int

const (
	// StateNotApplicable means the destination is not the running executable.
	StateNotApplicable State = iota
	// StateSpawned means the helper was launched; the caller should exit so
	// its executable file handle is released.
	StateSpawned
	// StateFailed means the helper could not be prepared or launched.
	StateFailed
)

// Result carries the self-update state and a failure description when failed.
type Result struct {
	State   State
	Message string
}

// HelperFilename returns the platform-specific helper filename.
func HelperFilename() string {
	return artifact.ExecutableFilename(helperBaseName)
}

// HelperPath returns the fixed helper location in the system temp directory.
func HelperPath() string {
	return filepath.Join(os.TempDir(), HelperFilename())
}

// CanonicalPath resolves symlinks and relative segments, falling back to the
// absolute or original path when resolution fails.
func CanonicalPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return path
}

// IsSelfTarget reports whether the destination path is the running executable.
func IsSelfTarget(destPath string, current ExecutableProvider) bool {
	if current == nil {
		current = OSExecutable
	}

	currentExe, err := current()
	if err != nil {
		return false
	}

	return CanonicalPath(currentExe) == CanonicalPath(destPath)
}

// TrySpawn clones the running executable to the temp helper location and
// launches it with instructions to retry-copy sourcePath over destPath.
// The helper is intentionally not waited for: the caller exits right after a
// Spawned result so its own file can be overwritten.
func TrySpawn(ctx context.Context, sourcePath, destPath string, current ExecutableProvider) Result {
	if current == nil {
		current = OSExecutable
	}

	currentExe, err := current()
	if err != nil {
		return Result{State: StateNotApplicable}
	}

	// Defensive re-check: the caller already matched by path.
	if CanonicalPath(currentExe) != CanonicalPath(destPath) {
		return Result{State: StateNotApplicable}
	}

	helperPath := HelperPath()
	if err := copyFile(CanonicalPath(currentExe), helperPath); err != nil {
		return Result{
			State:   StateFailed,
			Message: fmt.Sprintf("copy self to temp: %v", err),
		}
	}

	// exec.Command, not CommandContext: the helper must outlive this process.
	cmd := exec.Command(helperPath, FinishCommandName, sourcePath, destPath)
	if err := cmd.Start(); err != nil {
		return Result{
			State:   StateFailed,
			Message: fmt.Sprintf("spawn updater: %v", err),
		}
	}

	// Detach so exiting does not reap or block on the helper.
	_ = cmd.Process.Release()

	logger.InfoKV(ctx, "Spawned self-update helper",
		"helper", helperPath, "source", sourcePath, "destination", destPath)

	return Result{State: StateSpawned}
}

// Finish is executed inside the spawned helper. It retries the deferred copy
// a fixed number of times with a fixed delay, tolerating the short window in
// which the parent's executable file is still open.
func Finish(ctx context.Context, sourcePath, destPath string) error {
	data, err := os.ReadFile(filepath.Clean(sourcePath))
	if err != nil {
		return fmt.Errorf("read update source: %w", err)
	}

	var lastErr error

	for attempt := 1; attempt <= finishAttempts; attempt++ {
		lastErr = apply(data, destPath)
		if lastErr == nil {
			logger.InfoKV(ctx, "Finished pending self-update",
				"destination", destPath, "attempt", attempt)

			return nil
		}

		logger.DebugKV(ctx, "Self-update attempt failed",
			"attempt", attempt, "error", lastErr)

		// No point waiting after the last attempt.
		if attempt == finishAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return errFinishInterrupted
		case <-time.After(finishRetryDelay):
		}
	}

	return fmt.Errorf("apply update to %s after %d attempts: %w", destPath, finishAttempts, lastErr)
}

// apply atomically replaces destPath with the provided bytes and removes the
// backup file go-update leaves behind.
func apply(data []byte, destPath string) error {
	// go-update replaces an existing file; make sure one is there.
	if _, err := os.Stat(destPath); err != nil && os.IsNotExist(err) {
		created, createErr := os.Create(filepath.Clean(destPath))
		if createErr != nil {
			return createErr
		}

		if err := created.Close(); err != nil {
			return err
		}
	}

	options := goupdate.Options{
		TargetPath: destPath,
		TargetMode: artifact.DefaultFileMode,
	}

	if err := goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return err
	}

	oldPath := destPath + ".old"
	if _, err := os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	return nil
}

// CleanupStaleHelper removes a helper file left behind by a previous
// interrupted update. Deletion is best effort and skipped while a helper
// process is still alive.
func CleanupStaleHelper(ctx context.Context) {
	helperPath := HelperPath()
	if _, err := os.Stat(helperPath); err != nil {
		return
	}

	if helperProcessRunning() {
		logger.Debug(ctx, "Self-update helper still running, keeping its file")
		return
	}

	if err := os.Remove(helperPath); err != nil {
		// File may still be mapped by a just-exited helper; the next run retries.
		logger.DebugKV(ctx, "Unable to remove stale helper", "path", helperPath, "error", err)
		return
	}

	logger.DebugKV(ctx, "Removed stale self-update helper", "path", helperPath)
}

// helperProcessRunning reports whether another process with the helper's
// executable name exists.
func helperProcessRunning() bool {
	processList, err := ps.Processes()
	if err != nil {
		return false
	}

	helperName := HelperFilename()
	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == helperName {
			return true
		}
	}

	return false
}

// copyFile performs a plain byte copy with executable permissions.
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
