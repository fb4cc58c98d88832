package artifact

// Profile selects which build artifact subdirectory is consulted and which
// build hint is shown when nothing was built.
type Profile string

const (
	// ProfileRelease resolves artifacts under target/release.
	ProfileRelease Profile = "release"
	// ProfileDebug resolves artifacts under target/debug.
	ProfileDebug Profile = "debug"
)

// Dir returns the profile-specific subdirectory under target/.
func (p Profile) Dir() string {
	return string(p)
}

// Label returns the human-readable profile name.
func (p Profile) Label() string {
	return string(p)
}

// BuildHint returns the cargo command that would produce artifacts for this
// profile, accounting for the Tauri packaging layer.
func (p Profile) BuildHint(tauriProject bool) string {
	switch {
	case tauriProject && p == ProfileDebug:
		return "cargo tauri build --debug"
	case tauriProject:
		return "cargo tauri build"
	case p == ProfileDebug:
		return "cargo build"
	default:
		return "cargo build --release"
	}
}

// ParseProfile converts a string to a Profile, reporting unknown values.
func ParseProfile(s string) (Profile, bool) {
	switch s {
	case "release":
		return ProfileRelease, true
	case "debug":
		return ProfileDebug, true
	default:
		return ProfileRelease, false
	}
}
