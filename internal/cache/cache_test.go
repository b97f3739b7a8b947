package cache

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/civicsignal/petition-meter/internal/monitoring"
)

func TestCache_SetAndGet(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("key", []byte("value"))

	data, found := c.Get("key")
	assert.True(t, found)
	assert.Equal(t, []byte("value"), data)

	_, found = c.Get("missing")
	assert.False(t, found)
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)
	c.Set("key", []byte("value"))

	time.Sleep(25 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCache_SetWithTTL(t *testing.T) {
	c := NewCache(time.Hour)
	c.SetWithTTL("short", []byte("v"), 10*time.Millisecond)
	c.Set("long", []byte("v"))

	time.Sleep(25 * time.Millisecond)

	_, found := c.Get("short")
	assert.False(t, found)
	_, found = c.Get("long")
	assert.True(t, found)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	assert.Equal(t, 2, c.Size())

	c.Delete("a")
	_, found := c.Get("a")
	assert.False(t, found)
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCache_Stats(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Contains(t, stats, "active_items")
	assert.Contains(t, stats, "ttl_seconds")
}

func TestCache_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()

	calls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.POST("/analyze", func(ctx *gin.Context) {
		calls++
		ctx.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	body := `{"title":"Save the library"}`

	first := httptest.NewRecorder()
	req1, _ := http.NewRequest("POST", "/analyze", bytes.NewBufferString(body))
	r.ServeHTTP(first, req1)
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	req2, _ := http.NewRequest("POST", "/analyze", bytes.NewBufferString(body))
	r.ServeHTTP(second, req2)
	assert.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 1, calls, "identical request body must be served from cache")
	assert.Equal(t, first.Body.String(), second.Body.String())

	third := httptest.NewRecorder()
	req3, _ := http.NewRequest("POST", "/analyze", bytes.NewBufferString(`{"title":"Different"}`))
	r.ServeHTTP(third, req3)
	assert.Equal(t, 2, calls, "different body must miss the cache")
}

func TestCache_MiddlewareIgnoresGET(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()

	calls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.GET("/health", func(ctx *gin.Context) {
		calls++
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, calls)
}
