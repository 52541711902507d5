package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthCheck(t *testing.T) {
	srv := New(Config{Port: 0})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestCORSRejectsForeignOriginByDefault(t *testing.T) {
	srv := New(Config{Port: 0})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin header, got %q", got)
	}
}

func TestAPIRoutesHaveDeadline(t *testing.T) {
	srv := New(Config{Port: 0, RequestTimeout: time.Minute})

	var apiDeadline, rootDeadline bool
	srv.API().Get("/api/deadline", func(w http.ResponseWriter, r *http.Request) {
		_, apiDeadline = r.Context().Deadline()
	})
	srv.Router().Get("/stream", func(w http.ResponseWriter, r *http.Request) {
		_, rootDeadline = r.Context().Deadline()
	})

	srv.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/deadline", nil))
	srv.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/stream", nil))

	if !apiDeadline {
		t.Error("API routes should carry the request timeout")
	}
	if rootDeadline {
		t.Error("root routes should not carry a deadline")
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	if err := New(Config{}).Shutdown(t.Context()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestLocalOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:8080", true},
		{"http://127.0.0.1:3000", true},
		{"http://[::1]:8080", true},
		{"https://localhost", true},
		{"https://evil.example", false},
		{"http://localhost.evil.example", false},
		{"file://localhost", false},
		{"null", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/ws/chat", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := LocalOrigin(req); got != tt.want {
			t.Errorf("LocalOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
