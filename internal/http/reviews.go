package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelichka/bookshelf/internal/database/reviews"
	"github.com/avelichka/bookshelf/internal/entities"
)

// ReviewStore is the review surface the review endpoints need.
type ReviewStore interface {
	Upsert(userID, bookID uint, rating int, content string) (*entities.Review, error)
	Delete(reviewID, userID uint) error
}

// ReviewsController serves review creation and deletion.
type ReviewsController struct {
	reviews ReviewStore
}

func NewReviewsController(store ReviewStore) *ReviewsController {
	return &ReviewsController{reviews: store}
}

type upsertReviewRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

// Upsert handles PUT /api/books/:id/review. Reviewing the same book twice
// replaces the earlier review.
func (ctrl *ReviewsController) Upsert(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req upsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondBadRequest(c, "rating must be between 1 and 5")
		return
	}

	review, err := ctrl.reviews.Upsert(GetUserID(c), bookID, req.Rating, req.Content)
	if err != nil {
		respondInternalError(c, err, "save review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// Delete handles DELETE /api/reviews/:id.
func (ctrl *ReviewsController) Delete(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.reviews.Delete(reviewID, GetUserID(c))
	switch {
	case errors.Is(err, reviews.ErrReviewNotFound):
		respondNotFound(c, "review")
	case err != nil:
		respondInternalError(c, err, "delete review")
	default:
		respondSuccess(c, "review deleted")
	}
}
