// Comment HTTP handlers.
//
// This file exposes REST endpoints for comments on a profile:
//   - POST   /profiles/{id}/comment    (create)
//   - GET    /profiles/{id}/comments   (list, filter, sort)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-profile-backend/internal/domain"
)

// CreateCommentRequest is the JSON payload for commenting on a profile. At
// least one of title, description, mbti, enneagram or zodiac must be set.
type CreateCommentRequest struct {
	// UserID is the commenter, itself a profile id.
	UserID      int64  `json:"user_id" example:"2"`
	Title       string `json:"title" example:"Clearly an introvert"`
	Description string `json:"description" example:"Every interview reads like Fi-dom."`
	MBTI        string `json:"mbti" example:"INFP"`
	Enneagram   string `json:"enneagram" example:"4w5"`
	Zodiac      string `json:"zodiac" example:"Pisces"`
}

func (r CreateCommentRequest) comment() *domain.Comment {
	return &domain.Comment{
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		MBTI:        r.MBTI,
		Enneagram:   r.Enneagram,
		Zodiac:      r.Zodiac,
	}
}

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a profile
// @Description Stores a comment left by user_id on the profile. Both ids must name existing, distinct profiles.
// @Tags        Comments
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Replay-safe retry key"  example(comment-1)
// @Param       id               path    int     true  "Profile ID"             minimum(1) example(1)
// @Param       body             body    handlers.CreateCommentRequest  true  "Comment payload"
//
// @Success     201  {object} handlers.MessageResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload or empty comment"
// @Failure     404  {object} handlers.ErrorResponse "Profile or user not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /profiles/{id}/comment [post]
func (h *Handlers) CreateComment(c *gin.Context) {
	profileID, valid := pathID(c, "profile")
	if !valid {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if _, err := h.commentSvc.Create(c.Request.Context(), profileID, req.comment()); err != nil {
		writeServiceError(c, err, msgCreateCommentFailed)
		return
	}
	result(c, http.StatusCreated, "comment created successfully")
}

// ListComments godoc
// @ID          listComments
// @Summary     List comments on a profile
// @Description Returns the comments on a profile. filter keeps comments that carry a vote of that kind; sortby orders them by recency or likes. An empty result is reported as 404 with an empty list.
// @Tags        Comments
// @Produce     json
//
// @Param       id      path   int     true   "Profile ID"     minimum(1) example(1)
// @Param       filter  query  string  false  "Vote filter"    Enums(all, mbti, enneagram, zodiac)
// @Param       sortby  query  string  false  "Sort order"     Enums(recent, best)
//
// @Success     200  {object} handlers.CommentsResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid filter"
// @Failure     404  {object} handlers.CommentsResponse "No comments"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /profiles/{id}/comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	profileID, valid := pathID(c, "profile")
	if !valid {
		return
	}

	items, err := h.commentSvc.List(c.Request.Context(), profileID, c.Query("filter"), c.Query("sortby"))
	if err != nil {
		writeServiceError(c, err, msgListCommentsFailed)
		return
	}
	if len(items) == 0 {
		result(c, http.StatusNotFound, []domain.Comment{})
		return
	}
	result(c, http.StatusOK, items)
}
