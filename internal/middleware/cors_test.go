package middleware

import (
	"net/http"
	"strings"
	"testing"
)

func TestCORS_AllowedOrigin(t *testing.T) {
	w := serve(CORS([]string{"http://localhost:5173", "https://atelie.example"}),
		http.MethodPost, "/test", map[string]string{"Origin": "http://localhost:5173"})

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected CORS origin header, got %q", got)
	}
	for _, m := range []string{"POST", "DELETE"} {
		if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, m) {
			t.Errorf("expected %s to be allowed, got %q", m, got)
		}
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	w := serve(CORS([]string{"http://localhost:5173"}),
		http.MethodGet, "/test", map[string]string{"Origin": "http://evil.example"})

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for disallowed origin, got %q", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("request itself should pass, got %d", w.Code)
	}
}

func TestCORS_Wildcard(t *testing.T) {
	w := serve(CORS([]string{"*"}),
		http.MethodGet, "/test", map[string]string{"Origin": "https://anywhere.example"})

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example" {
		t.Errorf("expected origin echoed for wildcard, got %q", got)
	}
}

func TestCORS_PreflightOptions(t *testing.T) {
	w := serve(CORS([]string{"http://localhost:5173"}),
		http.MethodOptions, "/test", map[string]string{"Origin": "http://localhost:5173"})

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected Access-Control-Allow-Methods header")
	}
}
