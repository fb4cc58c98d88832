// Package target resolves the deployment destination directory.
//
// Resolution order is explicit override, then the MD_TARGET_DIR environment
// variable, then a per-platform default (c:\apps on Windows, ~/.local/bin
// elsewhere). Environment inputs are injected via the Environment struct so
// resolution stays pure and testable.
package target
