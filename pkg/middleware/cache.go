package middleware

import (
	"fmt"
	"net/http"
)

// CacheControl sets a private Cache-Control header on GET responses, since
// bodies depend on the caller's coordinates. maxAge <= 0 disables caching.
func CacheControl(maxAge int) func(http.Handler) http.Handler {
	value := fmt.Sprintf("private, max-age=%d", maxAge)
	if maxAge <= 0 {
		value = "no-store"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
