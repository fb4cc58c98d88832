package tauri

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mdrcp/mdrcp/internal/manifest"
)

// SubDir is the directory holding the Rust side of a Tauri project.
const SubDir = "src-tauri"

// confFilenames are the packaging configuration files checked for product names.
// The .json5 variant is parsed with the same strict decoder; a config relying
// on json5-only syntax simply contributes no product name.
var confFilenames = []string{"tauri.conf.json", "tauri.conf.json5"}

// BaseDir returns the Cargo base directory of a Tauri project.
func BaseDir(projectDir string) string {
	return filepath.Join(projectDir, SubDir)
}

// Detect reports whether projectDir looks like a Tauri project:
// src-tauri/Cargo.toml plus a tauri.conf.json or tauri.conf.json5.
func Detect(projectDir string) bool {
	if _, err := os.Stat(filepath.Join(BaseDir(projectDir), manifest.Filename)); err != nil {
		return false
	}

	for _, name := range confFilenames {
		if _, err := os.Stat(filepath.Join(BaseDir(projectDir), name)); err == nil {
			return true
		}
	}

	return false
}

// ProductName extracts the declared product name from the packaging
// configuration. The key is accepted at the root level or under "package".
// Missing files, undecodable JSON or an absent key yield ("", false).
func ProductName(projectDir string) (string, bool) {
	for _, name := range confFilenames {
		contents, err := os.ReadFile(filepath.Clean(filepath.Join(BaseDir(projectDir), name)))
		if err != nil {
			continue
		}

		var conf map[string]any
		if err := json.Unmarshal(contents, &conf); err != nil {
			continue
		}

		if product, ok := conf["productName"].(string); ok && product != "" {
			return product, true
		}

		if pkg, ok := conf["package"].(map[string]any); ok {
			if product, ok := pkg["productName"].(string); ok && product != "" {
				return product, true
			}
		}
	}

	return "", false
}
