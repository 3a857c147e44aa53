// Package render builds the HTTP responses for directories and files.
package render

import (
	"net/http"
	"strconv"
)

// Response is a fully materialized HTTP response body and its headers.
type Response struct {
	Header http.Header
	Body   []byte
}

// Send writes the response to w with the given status. The body is
// omitted when head is true; Content-Length is set either way.
func (r *Response) Send(w http.ResponseWriter, status int, head bool) error {
	h := w.Header()
	for k, v := range r.Header {
		h[k] = v
	}
	h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	w.WriteHeader(status)
	if head {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}
