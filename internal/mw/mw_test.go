package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCache(t *testing.T) {
	calls := 0
	status := http.StatusOK
	r := gin.New()
	r.Use(Cache(cache.New(time.Minute, time.Minute), time.Minute))
	handler := func(c *gin.Context) {
		calls++
		c.JSON(status, gin.H{"calls": calls})
	}
	r.GET("/machines", handler)
	r.POST("/machines", handler)

	first := serve(r, http.MethodGet, "/machines", nil)
	second := serve(r, http.MethodGet, "/machines", nil)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))

	serve(r, http.MethodGet, "/machines?deck=2", nil)
	assert.Equal(t, 2, calls, "query is part of the key")

	serve(r, http.MethodPost, "/machines", nil)
	serve(r, http.MethodPost, "/machines", nil)
	assert.Equal(t, 4, calls, "only GET is cached")

	status = http.StatusInternalServerError
	serve(r, http.MethodGet, "/machines?deck=3", nil)
	serve(r, http.MethodGet, "/machines?deck=3", nil)
	assert.Equal(t, 6, calls, "failures are not cached")
}

func TestInvalidate(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	calls := 0
	refuse := false
	r := gin.New()
	r.Use(Invalidate(store))
	r.GET("/machines", Cache(store, time.Minute), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.POST("/machines/:id/commands", func(c *gin.Context) {
		if refuse {
			c.JSON(http.StatusConflict, gin.H{"error": "door open"})
			return
		}
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/machines", nil)
	serve(r, http.MethodGet, "/machines", nil)
	assert.Equal(t, 1, calls)

	serve(r, http.MethodPost, "/machines/x/commands", nil)
	serve(r, http.MethodGet, "/machines", nil)
	assert.Equal(t, 2, calls, "a command flushes cached views")

	refuse = true
	serve(r, http.MethodPost, "/machines/x/commands", nil)
	serve(r, http.MethodGet, "/machines", nil)
	assert.Equal(t, 2, calls, "refused commands change nothing")
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Every(time.Hour), 2, ClientIP("X-Forwarded-For")))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	alice := http.Header{"X-Forwarded-For": {"10.0.0.1, 172.16.0.1"}}
	bob := http.Header{"X-Forwarded-For": {"10.0.0.2"}}

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/ping", alice).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/ping", alice).Code)
	limited := serve(r, http.MethodGet, "/ping", alice)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, limited.Body.String())

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/ping", bob).Code, "limits are per client")
}

func TestClientIP_Fallback(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.0.2.7:5555"

	assert.Equal(t, "192.0.2.7", ClientIP("X-Real-IP")(c))
	assert.Equal(t, "192.0.2.7", ClientIP("")(c))
}
