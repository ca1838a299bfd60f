// Profile HTTP handlers.
//
// This file exposes REST endpoints for profile resources:
//   - GET    /profiles/{id}   (fetch)
//   - POST   /profiles        (create)
//
// It also declares the service contracts consumed by every handler in this
// package. Handlers are transport-thin: they validate path and body input,
// call application services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-profile-backend/internal/domain"
	"github.com/tbourn/go-profile-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ProfileService defines profile operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation.
type ProfileService interface {
	// Create assigns the next profile id and stores p.
	Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	// Get returns the profile with the given id.
	Get(ctx context.Context, id int64) (*domain.Profile, error)
}

// CommentService defines comment operations consumed by HTTP handlers.
type CommentService interface {
	// Create stores c as a comment on profileID.
	Create(ctx context.Context, profileID int64, c *domain.Comment) (*domain.Comment, error)
	// List returns the comments on profileID, optionally filtered and sorted.
	List(ctx context.Context, profileID int64, filter, sortBy string) ([]domain.Comment, error)
}

// LikeService defines like operations consumed by HTTP handlers.
type LikeService interface {
	// Like records that userID liked commentID.
	Like(ctx context.Context, commentID, userID int64) (*domain.Like, error)
	// Unlike removes the like left by userID on commentID.
	Unlike(ctx context.Context, commentID, userID int64) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for profiles, comments, and likes.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	profileSvc ProfileService
	commentSvc CommentService
	likeSvc    LikeService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(profileSvc ProfileService, commentSvc CommentService, likeSvc LikeService) *Handlers {
	return &Handlers{profileSvc: profileSvc, commentSvc: commentSvc, likeSvc: likeSvc}
}

// pathID parses the :id path parameter, writing a 400 when it is not a
// positive integer.
func pathID(c *gin.Context, what string) (int64, bool) {
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, what+" id must be a positive integer")
	}
	return id, valid
}

//
// DTOs
//

// CreateProfileRequest is the JSON payload for creating a profile. Only name
// is required; it is enforced by the profile collection schema.
type CreateProfileRequest struct {
	Name        string `json:"name" example:"A Martinez"`
	Description string `json:"description" example:"Adolph Larrue Martinez III."`
	MBTI        string `json:"mbti" example:"ISFJ"`
	Enneagram   string `json:"enneagram" example:"9w3"`
	Variant     string `json:"variant" example:"sp/so"`
	Tritype     int    `json:"tritype" example:"725"`
	Socionics   string `json:"socionics" example:"SEE"`
	Sloan       string `json:"sloan" example:"RCOEN"`
	Psyche      string `json:"psyche" example:"FEVL"`
	Image       string `json:"image" example:"https://soulverse.boo.world/images/1.png"`
}

func (r CreateProfileRequest) profile() *domain.Profile {
	return &domain.Profile{
		Name:        r.Name,
		Description: r.Description,
		MBTI:        r.MBTI,
		Enneagram:   r.Enneagram,
		Variant:     r.Variant,
		Tritype:     r.Tritype,
		Socionics:   r.Socionics,
		Sloan:       r.Sloan,
		Psyche:      r.Psyche,
		Image:       r.Image,
	}
}

//
// Handlers
//

// GetProfile godoc
// @ID          getProfile
// @Summary     Get a profile
// @Description Returns the profile with the given id. Profiles stored without an image get the configured default image.
// @Tags        Profiles
// @Produce     json
//
// @Param       id  path  int  true  "Profile ID"  minimum(1) example(1)
//
// @Success     200  {object} domain.Profile
// @Failure     400  {object} handlers.ErrorResponse "Bad id"
// @Failure     404  {object} handlers.ErrorResponse "Profile not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /profiles/{id} [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	id, valid := pathID(c, "profile")
	if !valid {
		return
	}

	p, err := h.profileSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, msgGetProfileFailed)
		return
	}
	ok(c, http.StatusOK, p)
}

// CreateProfile godoc
// @ID          createProfile
// @Summary     Create a profile
// @Description Allocates the next profile id and stores the profile. The id is returned to the sequence when the store rejects the document.
// @Tags        Profiles
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Replay-safe retry key"  example(create-profile-1)
// @Param       body             body    handlers.CreateProfileRequest  true  "Profile payload"
//
// @Success     201  {object} handlers.MessageResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload or schema violation"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /profiles [post]
func (h *Handlers) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if _, err := h.profileSvc.Create(c.Request.Context(), req.profile()); err != nil {
		writeServiceError(c, err, msgCreateProfileFailed)
		return
	}
	result(c, http.StatusCreated, "profile created successfully")
}
