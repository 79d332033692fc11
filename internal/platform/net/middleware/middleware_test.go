package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	perr "pushverify/internal/platform/errors"
	"pushverify/internal/platform/logger"
	phttp "pushverify/internal/platform/net/http"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Init(logger.Options{Level: "debug", Format: "json", Writer: &buf})
	return &buf
}

func TestAccessLogWritesStatusAndBytes(t *testing.T) {
	buf := captureLogs(t)
	h := AccessLogZerolog(AccessLogOptions{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	r := httptest.NewRequest(http.MethodGet, "/v1/verifications/queue", nil)
	r = r.WithContext(context.WithValue(r.Context(), chimw.RequestIDKey, "rid-7"))
	h.ServeHTTP(httptest.NewRecorder(), r)

	out := buf.String()
	for _, want := range []string{`"status":418`, `"bytes":5`, `"http_request_id":"rid-7"`, `"level":"info"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %q missing %s", out, want)
		}
	}
}

func TestAccessLogSlowIsWarn(t *testing.T) {
	buf := captureLogs(t)
	h := AccessLogZerolog(AccessLogOptions{Slow: time.Nanosecond})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Millisecond)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("expected warn level, got %s", buf.String())
	}
}

func TestRecoverJSON(t *testing.T) {
	buf := captureLogs(t)
	h := RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/verifications", nil)
	r = r.WithContext(context.WithValue(r.Context(), chimw.RequestIDKey, "rid-9"))
	h.ServeHTTP(rec, r)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") != "rid-9" {
		t.Fatalf("missing request id header")
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Code != perr.ErrorCodePanic || env.Error != "panic recovered" || env.RequestID != "rid-9" {
		t.Fatalf("envelope = %+v", env)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("panic not logged: %s", buf.String())
	}
}

func chain(h http.Handler, mws []func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestStackCORSPreflight(t *testing.T) {
	captureLogs(t)
	h := chain(http.NotFoundHandler(), Stack(StackOptions{CORS: CORSOptions{AllowedOrigins: []string{"https://push.example.com"}}}))

	r := httptest.NewRequest(http.MethodOptions, "/v1/verifications", nil)
	r.Header.Set("Origin", "https://push.example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://push.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestStackPanicCarriesRequestID(t *testing.T) {
	captureLogs(t)
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), Stack(StackOptions{}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/verifications/queue", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.RequestID == "" || rec.Header().Get("X-Request-ID") != env.RequestID {
		t.Fatalf("request id missing: header=%q body=%q", rec.Header().Get("X-Request-ID"), env.RequestID)
	}
}
