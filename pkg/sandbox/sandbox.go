// Package sandbox normalizes and validates user-supplied paths against a
// base directory. All engine operations go through Normalize before any
// filesystem call, so every path that reaches disk is a clean, forward-slash
// relative path inside the sandbox.
package sandbox

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// MaxDepth is the recursion cap for indexing and modification scans.
// Subtrees deeper than this are skipped, never errored on.
const MaxDepth = 10

// IndexDirName is the reserved directory holding engine state. It is always
// excluded from indexing and from every public result.
const IndexDirName = ".packfs"

var (
	// ErrEmptyPath is returned when an operation requires a concrete path
	// and the caller supplied none.
	ErrEmptyPath = errors.New("path cannot be empty")

	// ErrEscapesBase is returned when a path resolves outside the sandbox.
	ErrEscapesBase = errors.New("path escapes base directory")

	// ErrReserved is returned for paths under the engine's state directory.
	ErrReserved = errors.New("path is reserved for engine state")
)

// Normalize converts a user-supplied path into a clean relative path inside
// the sandbox. The caller's leading "/" addresses the sandbox root, not the
// OS root, so a single one is stripped before cleaning. The empty string and
// "." normalize to "", meaning the base directory itself.
func Normalize(input string) (string, error) {
	p := strings.TrimSpace(input)
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "/")

	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == "" {
		return "", nil
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || path.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: %s", ErrEscapesBase, input)
	}
	if IsReserved(cleaned) {
		return "", fmt.Errorf("%w: %s", ErrReserved, input)
	}
	return cleaned, nil
}

// NormalizeFile is Normalize for operations that need a concrete file path;
// the sandbox root itself is not acceptable.
func NormalizeFile(input string) (string, error) {
	rel, err := Normalize(input)
	if err != nil {
		return "", err
	}
	if rel == "" {
		return "", ErrEmptyPath
	}
	return rel, nil
}

// IsReserved reports whether rel names the engine state directory or
// anything under it.
func IsReserved(rel string) bool {
	return rel == IndexDirName || strings.HasPrefix(rel, IndexDirName+"/")
}

// Basename returns the final element of a normalized relative path.
func Basename(rel string) string {
	return path.Base(rel)
}

// Parent returns the parent of a normalized relative path, with "" standing
// for the sandbox root.
func Parent(rel string) string {
	dir := path.Dir(rel)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// Join joins normalized relative segments, keeping the result relative.
func Join(elems ...string) string {
	joined := path.Join(elems...)
	if joined == "." {
		return ""
	}
	return joined
}
