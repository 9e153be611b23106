package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serve runs one request through mw and an OK handler that echoes the
// authenticated key.
func serve(mw gin.HandlerFunc, method, target string, header map[string]string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(mw)
	router.Handle(method, "/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ClientKey))
	})

	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth(t *testing.T) {
	keys := []string{"shop-front", "kiosk"}

	tests := []struct {
		name     string
		target   string
		header   map[string]string
		wantCode int
		wantKey  string
	}{
		{"valid header", "/test", map[string]string{"X-API-Key": "kiosk"}, http.StatusOK, "kiosk"},
		{"valid query param", "/test?api_key=shop-front", nil, http.StatusOK, "shop-front"},
		{"missing", "/test", nil, http.StatusUnauthorized, ""},
		{"invalid", "/test", map[string]string{"X-API-Key": "guess"}, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(APIKeyAuth(keys), http.MethodGet, tt.target, tt.header)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
			if tt.wantCode == http.StatusOK && w.Body.String() != tt.wantKey {
				t.Errorf("context key = %q, want %q", w.Body.String(), tt.wantKey)
			}
		})
	}
}

func TestAPIKeyAuth_OpenWithoutKeys(t *testing.T) {
	w := serve(APIKeyAuth(nil), http.MethodGet, "/test", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with no keys configured, got %d", w.Code)
	}
}

func TestAdminKeyAuth(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		header   map[string]string
		wantCode int
	}{
		{"valid", []string{"ops"}, map[string]string{"X-API-Key": "ops"}, http.StatusOK},
		{"wrong key", []string{"ops"}, map[string]string{"X-API-Key": "kiosk"}, http.StatusForbidden},
		{"missing key", []string{"ops"}, nil, http.StatusUnauthorized},
		{"no admin keys configured", nil, map[string]string{"X-API-Key": "anything"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(AdminKeyAuth(tt.keys), http.MethodGet, "/test", tt.header)
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}
