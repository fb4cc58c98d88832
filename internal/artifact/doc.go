// Package artifact resolves which candidate binary names were actually built.
//
// Candidates come from the root manifest, workspace member manifests and any
// externally supplied names; each is checked for a platform-named executable
// under target/<profile>/ and only existing files survive resolution.
package artifact
