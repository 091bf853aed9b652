package middleware

import (
	"crypto/subtle"
	"net/http"
)

// BearerKey enforces a static shared key on the tool-call endpoint. An empty
// configured key disables the endpoint.
func BearerKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				http.Error(w, "tool-call auth disabled", http.StatusUnauthorized)
				return
			}
			presented, ok := bearerToken(r)
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				http.Error(w, "invalid api key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
