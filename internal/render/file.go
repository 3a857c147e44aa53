package render

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrRead is wrapped by File when the file's contents cannot be read.
var ErrRead = errors.New("read file")

// DefaultContentType is used when no MIME type is known for a name.
const DefaultContentType = "application/octet-stream"

// File reads path fully into memory and returns it as a download.
func File(path string) (*Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}

	name := filepath.Base(path)
	h := make(http.Header)
	h.Set("Content-Type", ContentType(name))
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	return &Response{Header: h, Body: data}, nil
}

// knownTypes takes precedence over the system MIME table.
var knownTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain; charset=utf-8",
	".csv":      "text/csv",
	".yaml":     "application/yaml",
	".yml":      "application/yaml",
	".toml":     "application/toml",
	".tar":      "application/x-tar",
	".gz":       "application/gzip",
	".zip":      "application/zip",
	".mp4":      "video/mp4",
	".mp3":      "audio/mpeg",
}

// ContentType guesses the MIME type of a file from its extension.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return DefaultContentType
	}
	if ct, ok := knownTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return DefaultContentType
}
