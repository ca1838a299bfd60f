package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersInflightAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/profiles/:id", func(c *gin.Context) { c.String(http.StatusOK, "profile") })
	r.DELETE("/comments/:id/unlike", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/profiles/:id", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404"))
	base204 := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", "/comments/:id/unlike", "204"))

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/profiles/1", http.StatusOK},
		{http.MethodGet, "/profiles/2", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodDelete, "/comments/9/unlike", http.StatusNoContent},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("%s %s -> %d; want %d", tc.method, tc.path, w.Code, tc.want)
		}
	}

	// Both profile ids collapse onto the route template.
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/profiles/:id", "200")); got != baseOK+2 {
		t.Fatalf("route counter = %v; want %v", got, baseOK+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404")); got != base404+1 {
		t.Fatalf("404 fallback counter = %v; want %v", got, base404+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", "/comments/:id/unlike", "204")); got != base204+1 {
		t.Fatalf("204 counter = %v; want %v", got, base204+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}

func TestMetrics_IdempotentReplaysCounted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemIdem()

	r := gin.New()
	r.Use(Idempotency(IdempotencyOptions{}, store))
	r.POST("/profiles", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"result": "ok"}) })

	base := testutil.ToFloat64(idemReplays.WithLabelValues("POST", "/profiles"))
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/profiles", nil)
		req.Header.Set(HeaderIdempotencyKey, "metrics-k")
		r.ServeHTTP(w, req)
	}
	if got := testutil.ToFloat64(idemReplays.WithLabelValues("POST", "/profiles")); got != base+2 {
		t.Fatalf("replays = %v; want %v", got, base+2)
	}
}

func TestMetrics_RateLimitedCounted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(RateLimitOptions{RPS: 0.001, Burst: 1})

	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/profiles/:id/comments", func(c *gin.Context) { c.Status(http.StatusOK) })

	base := testutil.ToFloat64(rateLimited.WithLabelValues("/profiles/:id/comments"))
	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/profiles/1/comments", nil))
	}
	if got := testutil.ToFloat64(rateLimited.WithLabelValues("/profiles/:id/comments")); got != base+2 {
		t.Fatalf("rate limited = %v; want %v", got, base+2)
	}
}
