package platform

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/lawnstrings/pkg/core"
)

// LoadExcludeList reads the keys to leave out of a diff. YAML files hold a
// sequence, JSON files an array, and any other file one key per line with
// blank lines and lines starting with '#' ignored. An empty path yields nil.
func LoadExcludeList(path string) (core.ExcludeSet, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exclude list: %w", err)
	}

	var keys []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &keys); err != nil {
			return nil, fmt.Errorf("failed to parse exclude list %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &keys); err != nil {
			return nil, fmt.Errorf("failed to parse exclude list %s: %w", path, err)
		}
	default:
		if keys, err = parseLines(data); err != nil {
			return nil, fmt.Errorf("failed to parse exclude list %s: %w", path, err)
		}
	}

	return core.NewExcludeSet(keys...), nil
}

func parseLines(data []byte) ([]string, error) {
	var keys []string
	sc := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys = append(keys, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
