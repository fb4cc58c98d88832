// Package deploy orchestrates a deployment run: it resolves built artifacts
// from the project manifest, prepares the destination directory, copies every
// artifact while aggregating per-artifact failures, hands a deferred
// self-overwrite to the self-update protocol, and freezes the outcome into an
// immutable summary for the CLI to render.
package deploy
