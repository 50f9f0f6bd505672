package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestHTMX(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"htmx request", "true", true},
		{"plain request", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bool
			h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = IsHTMX(r)
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("HX-Request", tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("IsHTMX = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTMX_Metadata(t *testing.T) {
	var hx HX
	var partial bool
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hx = FromRequest(r)
		partial = IsPartial(r)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/experiments", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Boosted", "true")
	req.Header.Set("HX-Target", "main")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !hx.Request || !hx.Boosted || hx.Target != "main" {
		t.Errorf("FromRequest = %+v", hx)
	}
	if partial {
		t.Error("boosted request should not be partial")
	}
}

func TestIsHTMX_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	if !IsHTMX(req) {
		t.Error("expected header fallback to report htmx")
	}
}

func TestWithLogger_AttachesLogger(t *testing.T) {
	var ctxLogger *zerolog.Logger
	h := WithLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = zerolog.Ctx(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if ctxLogger == nil || ctxLogger.GetLevel() == zerolog.Disabled {
		t.Fatal("expected a request-scoped logger in the context")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
