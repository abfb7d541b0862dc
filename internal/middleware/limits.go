package middleware

import (
	"net/http"
)

// Common size limits
const (
	KB = 1024

	// FormMaxBodySize bounds POST /select, whose body is four short fields.
	FormMaxBodySize = 16 * KB
)

// MaxBodySize limits the size of request bodies. Requests that announce a
// larger body get 413; bodies that grow past the limit fail on read.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
