package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-profile-backend/internal/services"
)

func Test_fail_500_LogsAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// capture logs from LoggerFrom(c)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	// simulate RequestID + request-scoped logger
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})

	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-500" || resp.Error.Type != "internal_error" || resp.Error.Description != "kaboom" {
		t.Fatalf("unexpected body: %+v", resp)
	}

	// ensure something was logged at error level
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error log, got: %s", buf.String())
	}
}

func Test_Fail_404_And_ResultHelper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-404")
		c.Next()
	})

	r.GET("/missing", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope")
	})
	r.GET("/ok", func(c *gin.Context) {
		result(c, http.StatusCreated, "done")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json 404: %v", err)
	}
	if er.RequestID != "rid-404" || er.Error.Type != "not_found" || er.Error.Description != "nope" {
		t.Fatalf("unexpected 404 body: %+v", er)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"result":"done"}` {
		t.Fatalf("unexpected result body: %s", got)
	}
}

func Test_writeServiceError_KindToStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		err      error
		status   int
		typ      string
		contains string
	}{
		{"schema", &services.Error{Kind: services.KindValidation, Message: "name is required"}, 400, "schema_validation", "name is required"},
		{"invalid input", services.ErrEmptyComment, 400, "invalid_input", "atleast a voting"},
		{"not found", services.ErrProfileNotFound, 404, "not_found", "profile not found"},
		{"conflict", services.ErrAlreadyLiked, 409, "conflict", "already liked"},
		{"wrapped", fmt.Errorf("ctx: %w", services.ErrCommentNotFound), 404, "not_found", "comment not found"},
		{"untagged", errors.New("connection refused"), 500, "internal_error", "failed to do the thing"},
		{"tagged internal", &services.Error{Kind: services.KindInternal, Err: errors.New("socket closed")}, 500, "internal_error", "failed to do the thing"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { writeServiceError(c, tc.err, "failed to do the thing") })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			if w.Code != tc.status {
				t.Fatalf("status=%d want %d", w.Code, tc.status)
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("json: %v", err)
			}
			if er.Error.Type != tc.typ || !strings.Contains(er.Error.Description, tc.contains) {
				t.Fatalf("unexpected body: %+v", er)
			}
		})
	}
}

func Test_writeServiceError_InternalCauseOnlyLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("logger", &logger); c.Next() })
	r.GET("/x", func(c *gin.Context) {
		writeServiceError(c, errors.New("server selection timeout"), msgGetProfileFailed)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if strings.Contains(w.Body.String(), "server selection") {
		t.Fatalf("cause leaked into body: %s", w.Body.String())
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Error.Description != "failed to fetch profile" {
		t.Fatalf("description = %q", er.Error.Description)
	}
	if !strings.Contains(buf.String(), `"error":"server selection timeout"`) {
		t.Fatalf("cause not logged: %s", buf.String())
	}
}
