// Package manifest reads Cargo manifests and extracts the fields the deployer
// consumes: declared binary names, the package name and workspace member paths.
//
// Extraction is deliberately lenient: missing or oddly typed fields yield
// absent values, never errors. Only unreadable or syntactically invalid
// manifest files fail.
package manifest
