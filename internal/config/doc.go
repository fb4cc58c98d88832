// Package config defines optional per-project deployment defaults and provides
// helpers to load, validate and save them in YAML format.
//
// The defaults file (.mdrcp.yaml) lives in the project directory and supplies
// fallback values for the target directory, build profile, summary format and
// output verbosity. Command line flags always win over file values.
package config
