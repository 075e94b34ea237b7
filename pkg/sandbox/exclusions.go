package sandbox

import "strings"

// excludedNames are directory and file names skipped during indexing and
// recursive scans. The set mirrors the usual dependency, VCS, and build
// output directories plus the engine's own state directory.
var excludedNames = map[string]struct{}{
	"node_modules":     {},
	".git":             {},
	".svn":             {},
	".hg":              {},
	".DS_Store":        {},
	"dist":             {},
	"build":            {},
	"coverage":         {},
	".next":            {},
	".nuxt":            {},
	".cache":           {},
	"vendor":           {},
	"bower_components": {},
	"__pycache__":      {},
	".pytest_cache":    {},
	".mypy_cache":      {},
	".tox":             {},
	IndexDirName:       {},
}

// IsExcludedName reports whether a single path element is excluded from
// traversal.
func IsExcludedName(name string) bool {
	_, ok := excludedNames[name]
	return ok
}

// IsExcludedPath reports whether any element of a normalized relative path
// is excluded.
func IsExcludedPath(rel string) bool {
	if rel == "" {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if IsExcludedName(part) {
			return true
		}
	}
	return false
}

// ExcludedNames returns the exclusion set as a slice for display, in no
// particular order.
func ExcludedNames() []string {
	out := make([]string, 0, len(excludedNames))
	for name := range excludedNames {
		out = append(out, name)
	}
	return out
}
