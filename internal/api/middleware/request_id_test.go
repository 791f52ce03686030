package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	router.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", seen)

	for _, bad := range []string{strings.Repeat("x", 65), "has space", "line\nbreak"} {
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, bad)
		router.ServeHTTP(w, req)
		assert.NotEqual(t, bad, seen)
		_, err = uuid.Parse(seen)
		assert.NoError(t, err)
	}
}

func TestUserContext(t *testing.T) {
	ctx := SetUserContext(context.Background(), "u-1", "alice")
	assert.Equal(t, "u-1", GetUserID(ctx))
	assert.Equal(t, "alice", GetUsername(ctx))
	assert.Empty(t, GetUsername(context.Background()))
}

func TestRequestLogger(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		w := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		})
	}
}
