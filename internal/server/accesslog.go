package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request identifier on every response.
const RequestIDHeader = "X-Request-Id"

type ctxKey struct{}

// RequestID returns the identifier assigned by AccessLog, or "-" outside it.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return "-"
}

// statusRecorder captures what the wrapped handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// AccessLog assigns each request an ID and logs one line per request once
// next returns. A nil logger uses the standard logger.
func AccessLog(logger *log.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		logger.Printf("[%s] %s %s %d %dB %s", id, r.Method, r.URL.Path, status, rec.bytes, time.Since(start).Round(time.Microsecond))
	})
}
