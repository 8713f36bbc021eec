package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/lawnstrings/internal/config"
)

// configExtensions are tried in this order in every directory.
var configExtensions = []string{".toml", ".yaml", ".yml", ".json"}

// FindConfig recursively looks upwards from startDir for a lawnstrings
// configuration file and returns its absolute path.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, ext := range configExtensions {
			if path := filepath.Join(dir, config.FileName+ext); hasFile(path) {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("config not found")
}

func hasFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
