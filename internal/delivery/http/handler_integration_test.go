package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gondola/backend/config"
	"github.com/gondola/backend/internal/domain"
	"github.com/gondola/backend/internal/infrastructure/cache"
	"github.com/gondola/backend/internal/usecase"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
			MaxRecords:     5,
		},
		RateLimit: config.RateLimitConfig{PerIP: 0},
	}
}

// setupTestRouter wires the real categorization service and cache
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	memoryCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = memoryCache.Close() })

	service := usecase.NewCategorizationService(
		usecase.NewSignatureExtractor(usecase.DefaultVocabulary()),
		memoryCache,
		zap.NewNop(),
		usecase.CategorizationServiceConfig{Workers: 2, CacheTTL: time.Minute},
	)

	cfg := testConfig()
	handler := NewHandler(service, memoryCache, zap.NewNop(), cfg.Server.MaxRecords)
	return SetupRouter(cfg, handler, zap.NewNop())
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status with cache stats", func(t *testing.T) {
		router := setupTestRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "gondola-backend", response["service"])
		assert.Equal(t, Version, response["version"])
		assert.Contains(t, response, "cache")
	})

	t.Run("omits cache stats without a cache", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil, nil, nil, 0), nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "cache")
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(t)

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, "/health", nil))
			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		}
	})
}

func TestCategorizeEndpoint(t *testing.T) {
	t.Run("groups listings of the same product", func(t *testing.T) {
		router := setupTestRouter(t)

		w := post(router, "/api/v1/categorize", `[
			{"title": "Leite Integral Piracanjuba 1 L", "supermarket": "A"},
			{"title": "Arroz Branco Tio João 5kg", "supermarket": "A"},
			{"title": "leite integral piracanjuba 1 l", "supermarket": "B"}
		]`)

		require.Equal(t, http.StatusOK, w.Code)

		var groups []domain.CategoryGroup
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &groups))
		require.Len(t, groups, 2)
		assert.Equal(t, domain.CategoryGroup{
			Category: "Leite Integral Piracanjuba 1 L",
			Count:    2,
			Products: []domain.ProductRecord{
				{Title: "Leite Integral Piracanjuba 1 L", Supermarket: "A"},
				{Title: "leite integral piracanjuba 1 l", Supermarket: "B"},
			},
		}, groups[0])
		assert.Equal(t, "Arroz Branco Tio João 5kg", groups[1].Category)
	})

	t.Run("empty array yields empty array", func(t *testing.T) {
		router := setupTestRouter(t)

		w := post(router, "/api/v1/categorize", `[]`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("field error reports the record index", func(t *testing.T) {
		router := setupTestRouter(t)

		w := post(router, "/api/v1/categorize", `[
			{"title": "Leite Italac 1 l", "supermarket": "A"},
			{"title": 123, "supermarket": "B"}
		]`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "product at index 1 has no valid \"title\"", "index": 1, "field": "title"}`, w.Body.String())
	})

	t.Run("shape error", func(t *testing.T) {
		router := setupTestRouter(t)

		w := post(router, "/api/v1/categorize", `{"title": "Leite", "supermarket": "A"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "must be an array of products")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		router := setupTestRouter(t)

		w := post(router, "/api/v1/categorize", `[{"title":`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "not valid JSON")
	})

	t.Run("too many records", func(t *testing.T) {
		router := setupTestRouter(t)

		var items []string
		for i := 0; i < 6; i++ {
			items = append(items, `{"title": "Arroz Camil 1kg", "supermarket": "A"}`)
		}
		w := post(router, "/api/v1/categorize", "["+strings.Join(items, ",")+"]")

		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), `"limit":5`)
	})

	t.Run("service not configured", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil, nil, nil, 0), nil)

		w := post(router, "/api/v1/categorize", `[]`)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "not configured")
	})

	t.Run("service failure", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(failingCategorizer{}, nil, nil, 0), nil)

		w := post(router, "/api/v1/categorize", `[{"title": "Arroz", "supermarket": "A"}]`)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error": "categorization failed"}`, w.Body.String())
	})

	t.Run("validates HTTP method", func(t *testing.T) {
		router := setupTestRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/categorize", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSignatureEndpoint(t *testing.T) {
	t.Run("explains a title", func(t *testing.T) {
		router := setupTestRouter(t)

		w := post(router, "/api/v1/signature", `{"title": "Feijão  Carioca 1kg"}`)

		require.Equal(t, http.StatusOK, w.Code)

		var response SignatureResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, SignatureResponse{
			Title:      "Feijão  Carioca 1kg",
			Normalized: "feijao carioca 1kg",
			Signature:  "feijao--carioca-1kg",
			Slots:      domain.Signature{BaseProduct: "feijao", Type: "carioca", Size: "1kg"},
		}, response)
	})

	t.Run("requires a title", func(t *testing.T) {
		router := setupTestRouter(t)

		for _, body := range []string{`{}`, `{"title": ""}`, `not json`} {
			w := post(router, "/api/v1/signature", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
		}
	})
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/categorize", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitIntegration(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.PerIP = 1
	router := SetupRouter(cfg, NewHandler(nil, nil, nil, 0), nil)

	send := func(path string) int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", path, strings.NewReader(`[]`)))
		return w.Code
	}

	assert.Equal(t, http.StatusServiceUnavailable, send("/api/v1/categorize"))
	assert.Equal(t, http.StatusTooManyRequests, send("/api/v1/categorize"))

	// health is outside the limited group
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIVersioning(t *testing.T) {
	router := setupTestRouter(t)

	w := post(router, "/categorize", `[]`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = post(router, "/api/v2/categorize", `[]`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type failingCategorizer struct{}

func (failingCategorizer) Categorize(ctx context.Context, records []domain.ProductRecord) ([]domain.CategoryGroup, error) {
	return nil, errors.New("boom")
}

func (failingCategorizer) Signature(title string) domain.Signature {
	return domain.Signature{}
}
