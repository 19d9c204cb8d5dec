package middleware

import "net/http"

// MaxBodySize limits the request body to the given number of bytes. All API
// routes here take small JSON payloads, so one megabyte is plenty.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
