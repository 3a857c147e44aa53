// Package server dispatches HTTP requests to directory listings and file
// downloads under a served root.
package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/kainlite/local-serve/internal/render"
	"github.com/kainlite/local-serve/internal/resolve"
)

// Handler serves the tree under a single root. It holds no mutable state and
// is safe for concurrent use.
type Handler struct {
	root resolve.Root
}

// New returns a Handler for root.
func New(root resolve.Root) *Handler {
	return &Handler{root: root}
}

// ServeHTTP resolves the request path and writes a listing or file.
//
// The raw URL path is used as is. Requests are expected to bypass
// http.ServeMux, whose path cleaning would redirect traversal attempts
// instead of rejecting them.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	head := r.Method == http.MethodHead

	if r.URL.Path == "/" || r.URL.Path == "" {
		h.send(w, r, render.Listing(h.root.Path(), render.ListingOptions{URLPath: "/", IsRoot: true}), head)
		return
	}

	target := resolve.Resolve(h.root, strings.TrimPrefix(r.URL.Path, "/"))
	switch target.Kind {
	case resolve.Missing:
		http.Error(w, "File not found", http.StatusNotFound)
	case resolve.Forbidden:
		http.Error(w, "Access denied", http.StatusForbidden)
	case resolve.Directory:
		opts := render.ListingOptions{URLPath: "/" + target.Rel, IsRoot: target.IsRoot}
		h.send(w, r, render.Listing(target.Path, opts), head)
	case resolve.File:
		resp, err := render.File(target.Path)
		if err != nil {
			log.Printf("[%s] %v", RequestID(r.Context()), err)
			http.Error(w, "Failed to read file", http.StatusInternalServerError)
			return
		}
		h.send(w, r, resp, head)
	}
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request, resp *render.Response, head bool) {
	if err := resp.Send(w, http.StatusOK, head); err != nil {
		log.Printf("[%s] write response: %v", RequestID(r.Context()), err)
	}
}
