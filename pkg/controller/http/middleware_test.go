package http_test

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/m-mizutani/gt"
	httpCtrl "github.com/secmon-lab/trialdash/pkg/controller/http"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("wildcard", func(t *testing.T) {
		h := httpCtrl.CORS([]string{"*"})(next)
		w := doRequest(h, http.MethodGet, "/api/pages", map[string]string{"Origin": "http://localhost:5173"})
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")
		gt.S(t, w.Header().Get("Access-Control-Allow-Methods")).Contains("GET")
	})

	t.Run("listed origin is echoed", func(t *testing.T) {
		h := httpCtrl.CORS([]string{"https://dash.example.org"})(next)
		w := doRequest(h, http.MethodGet, "/api/pages", map[string]string{"Origin": "https://dash.example.org"})
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "https://dash.example.org")
		gt.Equal(t, w.Header().Get("Vary"), "Origin")
	})

	t.Run("unlisted origin gets no headers", func(t *testing.T) {
		h := httpCtrl.CORS([]string{"https://dash.example.org"})(next)
		w := doRequest(h, http.MethodGet, "/api/pages", map[string]string{"Origin": "https://evil.example.com"})
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "")
	})

	t.Run("preflight", func(t *testing.T) {
		called := false
		h := httpCtrl.CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		w := doRequest(h, http.MethodOptions, "/api/pages", map[string]string{"Origin": "http://localhost:5173"})
		gt.Equal(t, w.Code, http.StatusNoContent)
		gt.False(t, called)
	})
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat(`{"site":"AIIMS Delhi","count":12},`, 200)
	small := `{"status":"healthy"}`

	handler := func(body string, status int) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		})
	}

	t.Run("large body is compressed", func(t *testing.T) {
		h := httpCtrl.Brotli(5)(handler(large, http.StatusOK))
		w := doRequest(h, http.MethodGet, "/api/pages", map[string]string{"Accept-Encoding": "gzip, br"})
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Encoding"), "br")
		gt.S(t, w.Header().Get("Vary")).Contains("Accept-Encoding")
		gt.True(t, w.Body.Len() < len(large))

		decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
		gt.NoError(t, err)
		gt.Equal(t, string(decoded), large)
	})

	t.Run("small body is sent as is", func(t *testing.T) {
		h := httpCtrl.Brotli(5)(handler(small, http.StatusOK))
		w := doRequest(h, http.MethodGet, "/health", map[string]string{"Accept-Encoding": "br"})
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Encoding"), "")
		gt.Equal(t, w.Body.String(), small)
	})

	t.Run("status is kept when compressing", func(t *testing.T) {
		h := httpCtrl.Brotli(5)(handler(large, http.StatusNotFound))
		w := doRequest(h, http.MethodGet, "/api/pages/x", map[string]string{"Accept-Encoding": "br"})
		gt.Equal(t, w.Code, http.StatusNotFound)
		gt.Equal(t, w.Header().Get("Content-Encoding"), "br")
	})

	t.Run("client without br", func(t *testing.T) {
		h := httpCtrl.Brotli(5)(handler(large, http.StatusOK))
		w := doRequest(h, http.MethodGet, "/api/pages", map[string]string{"Accept-Encoding": "gzip"})
		gt.Equal(t, w.Header().Get("Content-Encoding"), "")
		gt.Equal(t, w.Body.String(), large)
	})

	t.Run("out of range quality falls back to default", func(t *testing.T) {
		h := httpCtrl.Brotli(42)(handler(large, http.StatusOK))
		w := doRequest(h, http.MethodGet, "/api/pages", map[string]string{"Accept-Encoding": "br"})
		decoded, err := io.ReadAll(brotli.NewReader(w.Body))
		gt.NoError(t, err)
		gt.Equal(t, string(decoded), large)
	})
}

func TestBrotliThroughServer(t *testing.T) {
	dashboard := newPagesDashboard(60)
	h := newTestServer(t, dashboard)

	w := doRequest(h, http.MethodGet, "/api/pages", map[string]string{"Accept-Encoding": "br"})
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("Content-Encoding"), "br")
	gt.Equal(t, w.Header().Get("Content-Type"), "application/json")
}
