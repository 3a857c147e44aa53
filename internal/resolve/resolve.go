// Package resolve maps request paths onto the served directory tree.
package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// Kind classifies a resolved target.
type Kind int

const (
	// Missing means no filesystem entry exists at the target.
	Missing Kind = iota
	// Forbidden means the target normalizes outside the served root.
	Forbidden
	// Directory means the target is a directory.
	Directory
	// File means the target exists and is not a directory.
	File
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Forbidden:
		return "forbidden"
	case Directory:
		return "directory"
	case File:
		return "file"
	}
	return "unknown"
}

// Root is the served directory. It is immutable once created and safe to
// share between request handlers.
type Root struct {
	path string
}

// NewRoot wraps an already canonical, absolute directory path.
// Use config.Config.Validate to produce one.
func NewRoot(path string) Root {
	return Root{path: filepath.Clean(path)}
}

// Path returns the absolute path of the root.
func (r Root) Path() string {
	return r.path
}

// Target is the classified result of resolving a request path.
type Target struct {
	// Path is the absolute, lexically normalized filesystem path.
	Path   string
	// Rel is Path relative to the root, slash separated. "." for the root.
	Rel    string
	Kind   Kind
	// IsRoot reports whether Path is the root itself.
	IsRoot bool
}

// Resolve joins requestPath onto root and classifies the result.
//
// Containment is decided on the normalized path before the filesystem is
// consulted, so a path that escapes the root is Forbidden whether or not it
// exists. A stat failure of any kind yields Missing.
func Resolve(root Root, requestPath string) Target {
	// Treat the request as relative even when it carries a leading slash.
	candidate := filepath.Join(root.path, filepath.FromSlash(requestPath))

	rel, ok := within(root.path, candidate)
	if !ok {
		return Target{Path: candidate, Kind: Forbidden}
	}

	t := Target{
		Path:   candidate,
		Rel:    filepath.ToSlash(rel),
		IsRoot: rel == ".",
	}

	info, err := os.Stat(candidate)
	switch {
	case err != nil:
		t.Kind = Missing
	case info.IsDir():
		t.Kind = Directory
	default:
		t.Kind = File
	}
	return t
}

// within reports whether target lies inside root, comparing whole path
// components so that /srv/files2 is not inside /srv/files.
func within(root, target string) (string, bool) {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
