// Package tauri handles the desktop packaging layout where the buildable
// Cargo package lives in src-tauri/ and the packaging configuration may
// declare an extra product name used as an artifact candidate.
package tauri
