// Like HTTP handlers.
//
// This file exposes REST endpoints for likes on a comment:
//   - POST   /comments/{id}/like     (like)
//   - DELETE /comments/{id}/unlike   (remove like)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LikeRequest identifies the profile liking or unliking a comment.
type LikeRequest struct {
	UserID int64 `json:"user_id" example:"2"`
}

// Like godoc
// @ID          likeComment
// @Summary     Like a comment
// @Description Records a like by user_id and increments the comment's like counter. A user can like a comment once.
// @Tags        Likes
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Replay-safe retry key"  example(like-1)
// @Param       id               path    int     true  "Comment ID"             minimum(1) example(1)
// @Param       body             body    handlers.LikeRequest  true  "Liking user"
//
// @Success     201  {object} handlers.MessageResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object} handlers.ErrorResponse "Comment or user not found"
// @Failure     409  {object} handlers.ErrorResponse "Already liked"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /comments/{id}/like [post]
func (h *Handlers) Like(c *gin.Context) {
	commentID, valid := pathID(c, "comment")
	if !valid {
		return
	}

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if _, err := h.likeSvc.Like(c.Request.Context(), commentID, req.UserID); err != nil {
		writeServiceError(c, err, msgLikeFailed)
		return
	}
	result(c, http.StatusCreated, "like added successfully")
}

// Unlike godoc
// @ID          unlikeComment
// @Summary     Remove a like
// @Description Deletes the like left by user_id and decrements the comment's like counter.
// @Tags        Likes
// @Accept      json
// @Produce     json
//
// @Param       id    path  int  true  "Comment ID"  minimum(1) example(1)
// @Param       body  body  handlers.LikeRequest  true  "Unliking user"
//
// @Success     200  {object} handlers.MessageResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object} handlers.ErrorResponse "No like found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /comments/{id}/unlike [delete]
func (h *Handlers) Unlike(c *gin.Context) {
	commentID, valid := pathID(c, "comment")
	if !valid {
		return
	}

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if err := h.likeSvc.Unlike(c.Request.Context(), commentID, req.UserID); err != nil {
		writeServiceError(c, err, msgUnlikeFailed)
		return
	}
	result(c, http.StatusOK, "liked removed successfully")
}
