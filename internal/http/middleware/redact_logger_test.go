package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func withCapturedLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

// accessLines decodes every http_request line in buf.
func accessLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if m["message"] == "http_request" {
			out = append(out, m)
		}
	}
	return out
}

func TestRedactor_Scrub(t *testing.T) {
	rd := newRedactor(nil)
	cases := []struct{ in, want string }{
		{"", ""},
		{"filter=mbti&sortby=best", "filter=mbti&sortby=best"},
		{"email=a.b+tag@example.com", "email=[REDACTED:email]"},
		{"rid=123e4567-e89b-12d3-a456-426614174000", "rid=[REDACTED:id]"},
		{"call 212-555-1212", "call [REDACTED:phone]"},
	}
	for _, tc := range cases {
		if got := rd.scrub(tc.in); got != tc.want {
			t.Fatalf("scrub(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactor_Headers(t *testing.T) {
	rd := newRedactor([]string{" X-Api-Key ", ""})
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("Cookie", "sid=1")
	h.Set("X-Api-Key", "shhh")
	h.Set("Idempotency-Key", "create-profile-1")
	h.Add("X-Contact", "a@b.com")
	h.Add("X-Contact", "c@d.org")

	got := rd.headers(h)
	for _, k := range []string{"Authorization", "Cookie", "X-Api-Key"} {
		if got[k] != "[REDACTED]" {
			t.Fatalf("%s = %q; want masked", k, got[k])
		}
	}
	if got["Idempotency-Key"] != "create-profile-1" {
		t.Fatalf("Idempotency-Key should pass through, got %q", got["Idempotency-Key"])
	}
	if got["X-Contact"] != "[REDACTED:email], [REDACTED:email]" {
		t.Fatalf("X-Contact = %q", got["X-Contact"])
	}
}

func TestRedactingLogger_InfoLineWithRouteAndID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Header("X-Request-ID", "rid-resp"); c.Next() })
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/profiles/:id/comments", func(c *gin.Context) { c.String(http.StatusOK, "[]") })

	req := httptest.NewRequest(http.MethodGet, "/profiles/7/comments?filter=zodiac&who=a@b.com", nil)
	req.Header.Set("X-Api-Key", "shhh")
	req.Header.Set("X-Request-ID", "rid-req")
	r.ServeHTTP(httptest.NewRecorder(), req)

	lines := accessLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 access line, got %d: %s", len(lines), buf.String())
	}
	l := lines[0]
	if l["level"] != "info" || l["path"] != "/profiles/:id/comments" || l["id"] != "7" {
		t.Fatalf("unexpected line: %v", l)
	}
	if l["request_id"] != "rid-resp" {
		t.Fatalf("request_id should prefer the response header, got %v", l["request_id"])
	}
	if l["query"] != "filter=zodiac&who=[REDACTED:email]" {
		t.Fatalf("query = %v", l["query"])
	}
	hdrs, _ := l["headers"].(map[string]any)
	if hdrs["X-Api-Key"] != "[REDACTED]" {
		t.Fatalf("X-Api-Key must be masked: %v", hdrs)
	}
	if _, ok := l["replay"]; ok {
		t.Fatalf("replay flag must be absent on first execution")
	}
}

func TestRedactingLogger_LevelsAndRequestIDFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/ginerr", func(c *gin.Context) {
		_ = c.Error(http.ErrBodyNotAllowed)
		c.Status(http.StatusOK)
	})

	for _, p := range []string{"/warn", "/error", "/ginerr"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		req.Header.Set("X-Request-ID", "rid"+p)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	lines := accessLines(t, buf)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := []struct{ level, rid string }{
		{"warn", "rid/warn"},
		{"error", "rid/error"},
		{"error", "rid/ginerr"},
	}
	for i, w := range want {
		if lines[i]["level"] != w.level || lines[i]["request_id"] != w.rid {
			t.Fatalf("line %d = %v; want level=%s rid=%s", i, lines[i], w.level, w.rid)
		}
	}
	if lines[2]["errors"] == nil {
		t.Fatalf("gin errors should be logged: %v", lines[2])
	}
}

func TestRedactingLogger_SkipPathsOnlyOnSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)
	healthy := true

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{SkipPaths: []string{"/ready"}}))
	r.GET("/ready", func(c *gin.Context) {
		if healthy {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusServiceUnavailable)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready", nil))
	if n := len(accessLines(t, buf)); n != 0 {
		t.Fatalf("successful probe should not be logged, got %d lines", n)
	}

	healthy = false
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready", nil))
	lines := accessLines(t, buf)
	if len(lines) != 1 || lines[0]["level"] != "error" {
		t.Fatalf("failed probe must be logged at error: %v", lines)
	}
}

func TestRedactingLogger_ScopedLoggerReachesHandlerAndContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{}))
	r.POST("/comments/:id/like", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("from gin")
		zerolog.Ctx(c.Request.Context()).Info().Msg("from context")
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/comments/3/like", nil)
	req.Header.Set("X-Request-ID", "rid-scoped")
	r.ServeHTTP(httptest.NewRecorder(), req)

	for _, msg := range []string{"from gin", "from context"} {
		found := false
		for _, line := range strings.Split(buf.String(), "\n") {
			if strings.Contains(line, msg) {
				found = true
				if !strings.Contains(line, `"request_id":"rid-scoped"`) || !strings.Contains(line, `"path":"/comments/:id/like"`) {
					t.Fatalf("%q line lacks request fields: %s", msg, line)
				}
			}
		}
		if !found {
			t.Fatalf("missing %q in logs: %s", msg, buf.String())
		}
	}
}

func TestRedactingLogger_ReplayFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)
	store := newMemIdem()

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.Use(Idempotency(IdempotencyOptions{}, store))
	r.POST("/profiles", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"result": "ok"}) })

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/profiles", nil)
		req.Header.Set(HeaderIdempotencyKey, "log-replay")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	lines := accessLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if _, ok := lines[0]["replay"]; ok {
		t.Fatalf("first request is not a replay: %v", lines[0])
	}
	if lines[1]["replay"] != true {
		t.Fatalf("second request should be flagged as replay: %v", lines[1])
	}
}
