package web

import (
	"net/http"
	"strings"
)

// methodOverride rewrites POST requests carrying _method (form field) or
// X-HTTP-Method-Override (header). It must wrap the router, because gin
// picks the route before any middleware runs.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			m := r.Header.Get("X-HTTP-Method-Override")
			if m == "" {
				m = r.FormValue("_method")
			}
			switch m = strings.ToUpper(m); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}
