package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// Request paths can carry feed tokens (/u/{token}.rss), so the log line is
// limited to method, path, status and latency; query strings and headers
// stay out of the log.
var sanitize = strings.NewReplacer("\n", "", "\r", "").Replace

// Logger logs one line per request after the handler returns.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Printf("%s %s %d %s",
			sanitize(r.Method), sanitize(r.URL.Path), rec.status, time.Since(start))
	})
}

// statusRecorder captures the status code written downstream.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
