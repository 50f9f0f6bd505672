package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const htmxKey contextKey = "htmx"

// HX is the htmx request metadata carried in the request headers.
type HX struct {
	Request bool   // HX-Request
	Boosted bool   // HX-Boosted: a whole-page navigation through hx-boost
	Target  string // HX-Target: id of the element being swapped
}

func parseHX(r *http.Request) HX {
	return HX{
		Request: r.Header.Get("HX-Request") == "true",
		Boosted: r.Header.Get("HX-Boosted") == "true",
		Target:  r.Header.Get("HX-Target"),
	}
}

// HTMX parses the htmx headers once and stores them in the request context.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), htmxKey, parseHX(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromRequest returns the htmx metadata stored by HTMX, parsing the headers
// when the middleware did not run.
func FromRequest(r *http.Request) HX {
	if hx, ok := r.Context().Value(htmxKey).(HX); ok {
		return hx
	}
	return parseHX(r)
}

func IsHTMX(r *http.Request) bool {
	return FromRequest(r).Request
}

// IsPartial reports whether the client swaps a fragment rather than a page.
func IsPartial(r *http.Request) bool {
	hx := FromRequest(r)
	return hx.Request && !hx.Boosted
}
