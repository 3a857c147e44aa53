package render

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one child of a listed directory.
type Entry struct {
	Name  string
	IsDir bool
}

// Href returns the link target for the entry, relative to its directory.
// Directory links end in a slash.
func (e Entry) Href() string {
	// The "./" prefix keeps names such as "a:b" from parsing as a scheme.
	href := "./" + url.PathEscape(e.Name)
	if e.IsDir {
		href += "/"
	}
	return href
}

// Label returns the visible link text.
func (e Entry) Label() string {
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name
}

// SortEntries orders directories before files, each group by name.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
}

// ReadEntries returns the sorted children of dir. A directory that cannot be
// read yields no entries and a non-nil error describing why.
func ReadEntries(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			// Follow the link so directory symlinks list as directories.
			if info, err := os.Stat(filepath.Join(dir, de.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		entries = append(entries, Entry{Name: de.Name(), IsDir: isDir})
	}
	SortEntries(entries)
	return entries, nil
}

// ListingOptions describes where a listed directory sits in the URL space.
type ListingOptions struct {
	// URLPath is the request path of the directory, e.g. "/docs/".
	URLPath string
	// IsRoot suppresses the parent directory link.
	IsRoot  bool
}

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <base href="{{.Base}}">
    <title>Directory listing for {{.Title}}</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 0 auto; padding: 2rem; }
        ul { list-style-type: none; padding: 0; }
        li { margin: 0.5rem 0; }
        a { text-decoration: none; color: #2563eb; }
        a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1>Directory listing for {{.Title}}</h1>
{{- if not .IsRoot}}
    <p class="parent"><a href="../">📁 ..</a></p>
{{- end}}
    <ul>
{{- range .Entries}}
{{- if .IsDir}}
        <li class="dir">📁 <a href="{{.Href}}">{{.Label}}</a></li>
{{- else}}
        <li class="file">📄 <a href="{{.Href}}">{{.Label}}</a></li>
{{- end}}
{{- end}}
    </ul>
</body>
</html>
`))

type listingData struct {
	Base    string
	Title   string
	IsRoot  bool
	Entries []Entry
}

// Listing renders the HTML index of dir. It never fails: an unreadable
// directory produces a page with an empty list.
func Listing(dir string, opts ListingOptions) *Response {
	entries, err := ReadEntries(dir)
	if err != nil {
		log.Printf("Listing %s: %v. Rendering empty listing.", dir, err)
	}

	data := listingData{
		Base:    baseHref(opts.URLPath),
		Title:   displayPath(opts.URLPath),
		IsRoot:  opts.IsRoot,
		Entries: entries,
	}

	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, data); err != nil {
		// Only reachable on a template bug; keep the page well formed.
		log.Printf("Listing %s: template: %v", dir, err)
		buf.Reset()
		buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Directory listing</title></head><body><ul></ul></body></html>\n")
	}

	h := make(http.Header)
	h.Set("Content-Type", "text/html; charset=utf-8")
	return &Response{Header: h, Body: buf.Bytes()}
}

// displayPath cleans urlPath to a slash-terminated absolute path.
func displayPath(urlPath string) string {
	p := path.Clean("/" + urlPath)
	if p != "/" {
		p += "/"
	}
	return p
}

// baseHref escapes each segment of the display path for use in a URL.
func baseHref(urlPath string) string {
	p := displayPath(urlPath)
	segs := strings.Split(strings.Trim(p, "/"), "/")
	var b strings.Builder
	b.WriteString("/")
	for _, s := range segs {
		if s == "" {
			continue
		}
		b.WriteString(url.PathEscape(s))
		b.WriteString("/")
	}
	return b.String()
}
