package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Filename is the manifest filename looked up in every package directory.
const Filename = "Cargo.toml"

// ErrNotFound is returned when the manifest file does not exist.
var ErrNotFound = errors.New("no Cargo.toml found")

// Manifest is a decoded Cargo manifest. The document is kept as a generic
// key-value tree: only a handful of fields are consumed, and missing fields
// yield absent values rather than errors.
type Manifest map[string]any

// Load reads and decodes the manifest at the provided path.
func Load(path string) (Manifest, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, path)
		}

		return nil, fmt.Errorf("read Cargo.toml: %w", err)
	}

	return Parse(contents)
}

// Parse decodes raw manifest bytes.
func Parse(contents []byte) (Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(contents, &m); err != nil {
		return nil, fmt.Errorf("parse Cargo.toml: %w", err)
	}

	return m, nil
}

// PackageName returns the package.name value, or "" when absent.
func (m Manifest) PackageName() string {
	pkg, ok := m["package"].(map[string]any)
	if !ok {
		return ""
	}

	name, _ := pkg["name"].(string)

	return name
}

// BinNames returns candidate executable names declared by the manifest.
// Each [[bin]] entry contributes its name, falling back to the file stem of
// its path when the name is absent; entries with neither contribute nothing.
// The package name is appended afterwards unless already present.
func (m Manifest) BinNames() []string {
	var names []string

	if bins, ok := m["bin"].([]any); ok {
		for _, entry := range bins {
			bin, ok := entry.(map[string]any)
			if !ok {
				continue
			}

			if name, ok := bin["name"].(string); ok && name != "" {
				names = append(names, name)
				continue
			}

			if path, ok := bin["path"].(string); ok && path != "" {
				if stem := fileStem(path); stem != "" {
					names = append(names, stem)
				}
			}
		}
	}

	if name := m.PackageName(); name != "" && !contains(names, name) {
		names = append(names, name)
	}

	return names
}

// WorkspaceMembers returns workspace.members path strings verbatim.
// Non-string entries are ignored, not an error.
func (m Manifest) WorkspaceMembers() []string {
	ws, ok := m["workspace"].(map[string]any)
	if !ok {
		return nil
	}

	raw, ok := ws["members"].([]any)
	if !ok {
		return nil
	}

	members := make([]string, 0, len(raw))

	for _, entry := range raw {
		if member, ok := entry.(string); ok {
			members = append(members, member)
		}
	}

	return members
}

// fileStem returns the filename without directory and extension.
func fileStem(path string) string {
	base := filepath.Base(filepath.ToSlash(path))

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func contains(values []string, needle string) bool {
	for _, value := range values {
		if value == needle {
			return true
		}
	}

	return false
}
