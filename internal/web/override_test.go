package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MethodOverride(t *testing.T) {
	tests := []struct {
		name   string
		method string
		form   url.Values
		header string
		want   string
	}{
		{"form put", http.MethodPost, url.Values{"_method": {"put"}}, "", http.MethodPut},
		{"form delete", http.MethodPost, url.Values{"_method": {"DELETE"}}, "", http.MethodDelete},
		{"header", http.MethodPost, nil, "PATCH", http.MethodPatch},
		{"unknown verb ignored", http.MethodPost, url.Values{"_method": {"TRACE"}}, "", http.MethodPost},
		{"get untouched", http.MethodGet, nil, "DELETE", http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := methodOverride(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.Method
			}))

			req := httptest.NewRequest(tt.method, "/x", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.header != "" {
				req.Header.Set("X-HTTP-Method-Override", tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}
