package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/movements", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"organization_id": GetOrganizationID(c),
			"member_id":       GetMemberID(c),
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestOrganizationMiddleware(t *testing.T) {
	t.Run("extracts organization and member from headers", func(t *testing.T) {
		r := newTestRouter(OrganizationMiddleware())
		organizationID := uuid.New().String()
		memberID := uuid.New().String()

		req := httptest.NewRequest(http.MethodGet, "/movements", nil)
		req.Header.Set(OrganizationHeaderKey, organizationID)
		req.Header.Set(MemberHeaderKey, memberID)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), organizationID)
		assert.Contains(t, w.Body.String(), memberID)
	})

	t.Run("rejects missing organization when required", func(t *testing.T) {
		r := newTestRouter(OrganizationMiddleware())

		req := httptest.NewRequest(http.MethodGet, "/movements", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed organization ID", func(t *testing.T) {
		r := newTestRouter(OrganizationMiddleware())

		req := httptest.NewRequest(http.MethodGet, "/movements", nil)
		req.Header.Set(OrganizationHeaderKey, "not-a-uuid")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skips configured paths", func(t *testing.T) {
		r := newTestRouter(OrganizationMiddleware())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("optional organization passes through", func(t *testing.T) {
		cfg := DefaultOrganizationConfig()
		cfg.Required = false
		r := newTestRouter(OrganizationMiddlewareWithConfig(cfg))

		req := httptest.NewRequest(http.MethodGet, "/movements", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates an ID when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Body.String())
		assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
	})

	t.Run("keeps a caller-provided ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Body.String())
	})
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.ContentLength = 1024
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
