package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type invoiceRoutes struct{}

func (invoiceRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/invoices")
	g.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []string{}})
	})
	g.POST("", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": "draft"})
	})
}

type paymentRoutes struct{}

func (paymentRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"reconciled": true})
	})
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()

	NewRouter(engine).
		Register(invoiceRoutes{}).
		Register(paymentRoutes{}).
		Setup()

	t.Run("mounts routes under the v1 prefix", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("registers every queued registrar", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unversioned paths are not served", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouter_WithAPIVersion(t *testing.T) {
	engine := gin.New()

	NewRouter(engine, WithAPIVersion("v2")).
		Register(invoiceRoutes{}).
		Setup()

	routes := engine.Routes()
	require.NotEmpty(t, routes)
	for _, route := range routes {
		assert.Contains(t, route.Path, "/api/v2/")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v2/invoices", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}
