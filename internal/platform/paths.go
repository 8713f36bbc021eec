package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/lawnstrings/pkg/core"
)

// BuildPath returns <dir>/<name>_<suffix><ext> for the source path src, where
// ext is the extension of format. When that file exists, " (n)" is inserted
// before the extension with the smallest n that gives a free path.
func BuildPath(src, suffix string, format core.Format) string {
	return buildPathIn(filepath.Dir(src), src, suffix, format)
}

func buildPathIn(dir, src, suffix string, format core.Format) string {
	base := filepath.Base(src)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	stem := filepath.Join(dir, name+"_"+suffix)
	return dedupPath(stem, format.Extension())
}

func dedupPath(stem, ext string) string {
	candidate := stem + ext
	for n := 1; exists(candidate); n++ {
		candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
	}
	return candidate
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// ExpandInputs resolves every argument that contains glob metacharacters
// (including "**") and keeps the others as they are. The result holds no
// duplicates; matches of one pattern are sorted.
func ExpandInputs(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, arg := range args {
		if !hasMeta(arg) {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
