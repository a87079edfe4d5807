package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/app"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable is a base URL no server listens on, so dials fail immediately
const unreachable = "http://127.0.0.1:1"

// newTestHandler builds the full router over an app with every remote down,
// so catalog reads resolve through the bundled snapshot and auth falls back
// to the local credential table.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App:    config.AppConfig{Name: "storefront-test", Version: "0.0.0", Environment: "test"},
		Server: config.ServerConfig{Port: "0"},
		Store:  config.StoreConfig{Path: filepath.Join(t.TempDir(), "store.db")},
		Services: config.ServicesConfig{
			UsersBaseURL:     unreachable,
			ProductsBaseURL:  unreachable,
			PurchasesBaseURL: unreachable,
			Timeout:          2 * time.Second,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}

	a, err := app.New(cfg)
	require.NoError(t, err)
	a.Logger.SetOutput(io.Discard)
	t.Cleanup(func() { a.Close() })

	s := NewServer(a)
	s.gin = gin.New()
	s.setupMiddleware()
	s.setupRoutes()
	return s.gin
}

func doJSON(t *testing.T, handler http.Handler, method, target, host, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Host = host
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	code, body := doJSON(t, handler, http.MethodGet, "/health", "localhost", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestSecurityHeaders(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestTenantEndpoint_ResolvesFromHost(t *testing.T) {
	handler := newTestHandler(t)

	code, body := doJSON(t, handler, http.MethodGet, "/api/v1/tenant", "dogshop.pet-palette.example", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "dogshop", body["tenant_id"])
	assert.Equal(t, "host", body["source"])
	assert.Equal(t, "🐶 Dog Shop", body["document_title"])
}

func TestTenantEndpoint_OverrideBeatsHost(t *testing.T) {
	handler := newTestHandler(t)

	code, body := doJSON(t, handler, http.MethodGet, "/api/v1/tenant?tenant=catshop", "dogshop.pet-palette.example", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "catshop", body["tenant_id"])
	assert.Equal(t, "override", body["source"])
}

func TestTenantEndpoint_UnknownHostFallsBack(t *testing.T) {
	handler := newTestHandler(t)

	code, body := doJSON(t, handler, http.MethodGet, "/api/v1/tenant", "www.pet-palette.example", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "default", body["tenant_id"])
	assert.Equal(t, "fallback", body["source"])
}

func TestProducts_StaticTierScopedToTenant(t *testing.T) {
	handler := newTestHandler(t)

	code, body := doJSON(t, handler, http.MethodGet, "/api/v1/products", "catshop.pet-palette.example", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "static", body["tier"])

	products, ok := body["products"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, products)
	for _, raw := range products {
		product := raw.(map[string]any)
		assert.Contains(t, []string{"gatos", "salud"}, product["category_id"],
			"catshop must only see its categories")
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	handler := newTestHandler(t)

	code, body := doJSON(t, handler, http.MethodGet, "/api/v1/products/999", "dogshop.pet-palette.example", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not-found", body["code"])
}

func TestCheckout_AnonymousIsRejected(t *testing.T) {
	handler := newTestHandler(t)

	code, body := doJSON(t, handler, http.MethodPost, "/api/v1/cart/checkout",
		"dogshop.pet-palette.example", `{"shipping_address": "Calle 1"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "not-authenticated", body["code"])
}

func TestRegisterThenSession(t *testing.T) {
	handler := newTestHandler(t)
	host := "dogshop.pet-palette.example"

	code, body := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", host,
		`{"name": "Ana", "surname": "García", "email": "ana@x.com", "address": "Av. 1", "password": "secret"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "Ana", body["display_name"])

	code, body = doJSON(t, handler, http.MethodGet, "/api/v1/auth/session", host, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ana@x.com", body["email"])

	code, _ = doJSON(t, handler, http.MethodPost, "/api/v1/auth/logout", host, "")
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, handler, http.MethodGet, "/api/v1/auth/session", host, "")
	assert.Equal(t, http.StatusNoContent, code)
}

func TestCartFlow_AddAndRead(t *testing.T) {
	handler := newTestHandler(t)
	host := "dogshop.pet-palette.example"

	code, body := doJSON(t, handler, http.MethodPost, "/api/v1/cart/items", host,
		`{"product_id": "7", "quantity": 2}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["item_count"])

	// The cat storefront must not see the dog storefront's cart
	code, body = doJSON(t, handler, http.MethodGet, "/api/v1/cart", "catshop.pet-palette.example", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["item_count"])
}
