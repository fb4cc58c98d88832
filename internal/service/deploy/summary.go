package deploy

import (
	"errors"
	"fmt"
)

// Status is the overall outcome tag of a deployment run.
type Status string

const (
	// StatusOK means every attempted copy succeeded.
	StatusOK Status = "ok"
	// StatusPartial means some copies succeeded despite failures.
	StatusPartial Status = "partial"
	// StatusFailed means no copy succeeded.
	StatusFailed Status = "failed"
)

// FailedCopy describes a single artifact that could not be deployed.
type FailedCopy struct {
	// Binary is the platform-specific executable filename.
	Binary string `json:"binary"`
	// Error is the formatted failure description.
	Error string `json:"error"`
}

// Summary aggregates the results of one deployment run. It is constructed
// once after all copy attempts (including any self-update attempt) resolve
// and is immutable afterwards.
type Summary struct {
	// Status is ok, partial or failed.
	Status Status `json:"status"`
	// CopiedCount is the number of successfully copied executables.
	CopiedCount int `json:"copied_count"`
	// TargetDir is the resolved destination directory.
	TargetDir string `json:"target_dir"`
	// OverrideUsed reports whether an explicit destination override was given.
	OverrideUsed bool `json:"override_used"`
	// CopiedBinaries lists the deployed executable filenames.
	CopiedBinaries []string `json:"copied_binaries"`
	// FailedBinaries itemizes artifacts that could not be deployed.
	FailedBinaries []FailedCopy `json:"failed_binaries"`
	// Warnings carries non-fatal notes such as a redundant override.
	Warnings []string `json:"warnings"`

	// SelfUpdateSpawned reports that a helper process now owns the final
	// copy; the caller should exit promptly so its file handle is released.
	SelfUpdateSpawned bool `json:"-"`
}

// ErrCopiesFailed tags the aggregate error produced when any artifact failed.
var ErrCopiesFailed = errors.New("executable copies failed")

// computeStatus derives the status tag from the copy counters.
func computeStatus(copiedCount, failedCount int) Status {
	switch {
	case failedCount == 0:
		return StatusOK
	case copiedCount > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// Err returns the aggregate failure for a summary with failed copies, nil
// otherwise. Callers use it to turn a rendered partial failure into a
// non-zero exit.
func (s *Summary) Err() error {
	failedCount := len(s.FailedBinaries)
	if failedCount == 0 {
		return nil
	}

	if s.CopiedCount > 0 {
		return fmt.Errorf("%w: %d of %d failed, %d copied successfully",
			ErrCopiesFailed, failedCount, s.CopiedCount+failedCount, s.CopiedCount)
	}

	return fmt.Errorf("%w: %d failed", ErrCopiesFailed, failedCount)
}
