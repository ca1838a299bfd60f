package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

// stubProfiles, stubComments and stubLikes record their inputs and return
// canned results.
type stubProfiles struct {
	created *domain.Profile
	got     int64
	out     *domain.Profile
	err     error
}

func (s *stubProfiles) Create(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	s.created = p
	return p, s.err
}

func (s *stubProfiles) Get(_ context.Context, id int64) (*domain.Profile, error) {
	s.got = id
	return s.out, s.err
}

type stubComments struct {
	profileID int64
	created   *domain.Comment
	filter    string
	sortBy    string
	out       []domain.Comment
	err       error
}

func (s *stubComments) Create(_ context.Context, profileID int64, c *domain.Comment) (*domain.Comment, error) {
	s.profileID, s.created = profileID, c
	return c, s.err
}

func (s *stubComments) List(_ context.Context, profileID int64, filter, sortBy string) ([]domain.Comment, error) {
	s.profileID, s.filter, s.sortBy = profileID, filter, sortBy
	return s.out, s.err
}

type stubLikes struct {
	commentID, userID int64
	calls             int
	err               error
}

func (s *stubLikes) Like(_ context.Context, commentID, userID int64) (*domain.Like, error) {
	s.commentID, s.userID = commentID, userID
	s.calls++
	return &domain.Like{ID: 1, CommentID: commentID, UserID: userID}, s.err
}

func (s *stubLikes) Unlike(_ context.Context, commentID, userID int64) error {
	s.commentID, s.userID = commentID, userID
	s.calls++
	return s.err
}

// newTestRouter mounts h the same way the production router does.
func newTestRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/profiles/:id", h.GetProfile)
	r.POST("/profiles", h.CreateProfile)
	r.POST("/profiles/:id/comment", h.CreateComment)
	r.GET("/profiles/:id/comments", h.ListComments)
	r.POST("/comments/:id/like", h.Like)
	r.DELETE("/comments/:id/unlike", h.Unlike)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return er.Error
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := struct {
		Result any `json:"result"`
	}{Result: v}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode result body %q: %v", w.Body.String(), err)
	}
}
