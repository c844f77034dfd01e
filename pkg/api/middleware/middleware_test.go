package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qnetlab/topoforge/pkg/logging"
)

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "" {
		t.Fatal("expected generated request id in context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("header %q does not match context %q", got, seen)
	}
}

func TestRequestIDClientProvided(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "client-id-42" {
		t.Errorf("seen = %q, want client-id-42", seen)
	}
}

func TestRequestIDSanitized(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc<script>!")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "abcscript" {
		t.Errorf("seen = %q, want abcscript", seen)
	}
}

func TestPanicRecovery(t *testing.T) {
	handler := PanicRecovery(logging.NewNopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

type captureRecorder struct {
	method, path, status string
}

func (c *captureRecorder) RecordHTTPRequest(method, path, status string, _ time.Duration) {
	c.method, c.path, c.status = method, path, status
}

func TestMetricsCapturesStatus(t *testing.T) {
	rec := &captureRecorder{}
	handler := Metrics(rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest("DELETE", "/nodes/x", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if rec.method != "DELETE" || rec.path != "/nodes/x" || rec.status != "404" {
		t.Errorf("recorded %q %q %q", rec.method, rec.path, rec.status)
	}
}
