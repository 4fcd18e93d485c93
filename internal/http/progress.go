package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelichka/bookshelf/internal/entities"
)

// ProgressStore is the reading-progress surface the progress endpoints need.
type ProgressStore interface {
	Get(userID, bookID uint) (*entities.ReadingProgress, error)
	Start(userID, bookID uint) (*entities.ReadingProgress, error)
	UpdatePage(userID, bookID uint, currentPage int) (*entities.ReadingProgress, error)
	Finish(userID, bookID uint) (*entities.ReadingProgress, error)
	CurrentlyReading(userID uint) ([]entities.ReadingProgress, error)
}

// ProgressController serves the reading-progress endpoints.
type ProgressController struct {
	progress ProgressStore
}

func NewProgressController(store ProgressStore) *ProgressController {
	return &ProgressController{progress: store}
}

// Get handles GET /api/books/:id/progress.
func (ctrl *ProgressController) Get(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	progress, err := ctrl.progress.Get(GetUserID(c), bookID)
	if err != nil {
		respondInternalError(c, err, "load progress")
		return
	}
	if progress == nil {
		respondNotFound(c, "progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Start handles POST /api/books/:id/progress/start.
func (ctrl *ProgressController) Start(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	progress, err := ctrl.progress.Start(GetUserID(c), bookID)
	if err != nil {
		respondInternalError(c, err, "start progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

type updatePageRequest struct {
	CurrentPage int `json:"current_page"`
}

// UpdatePage handles PUT /api/books/:id/progress.
func (ctrl *ProgressController) UpdatePage(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPage < 0 {
		respondBadRequest(c, "current_page must be a non-negative number")
		return
	}

	progress, err := ctrl.progress.UpdatePage(GetUserID(c), bookID, req.CurrentPage)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "update progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Finish handles POST /api/books/:id/progress/finish.
func (ctrl *ProgressController) Finish(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	progress, err := ctrl.progress.Finish(GetUserID(c), bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "finish book")
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Reading handles GET /api/progress/reading.
func (ctrl *ProgressController) Reading(c *gin.Context) {
	items, err := ctrl.progress.CurrentlyReading(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list currently reading")
		return
	}
	c.JSON(http.StatusOK, items)
}
