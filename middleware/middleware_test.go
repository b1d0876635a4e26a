package middleware

import (
	"bytes"
	"context"
	"log/slog"
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

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://shop.example"))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	t.Run("preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/ping", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestCORSMiddlewareDefaultOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(""))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seenID string
	var seenLogger *slog.Logger
	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/ping", func(c *gin.Context) {
		seenID = RequestID(c.Request.Context())
		seenLogger = FromContext(c.Request.Context())
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NotEmpty(t, seenID)
	assert.Equal(t, seenID, w.Header().Get(RequestIDHeader))
	assert.NotSame(t, slog.Default(), seenLogger)
	assert.Contains(t, buf.String(), `"request_id":"`+seenID+`"`)
	assert.Contains(t, buf.String(), `"status":418`)
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestFromContextOutsideRequest(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
	assert.Equal(t, "", RequestID(context.Background()))
}
