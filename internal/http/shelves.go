package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelichka/bookshelf/internal/database/shelves"
	"github.com/avelichka/bookshelf/internal/entities"
)

// ShelfStore is the shelf surface the shelf endpoints need.
type ShelfStore interface {
	ListForUser(userID uint) ([]entities.Shelf, error)
	GetByID(shelfID uint) (*entities.Shelf, error)
	Create(userID uint, name string) (*entities.Shelf, error)
	Delete(shelfID, userID uint) error
	Assign(shelfID, bookID, userID uint) error
	Remove(shelfID, bookID, userID uint) error
}

// ShelvesController serves the shelf management endpoints.
type ShelvesController struct {
	shelves ShelfStore
}

func NewShelvesController(store ShelfStore) *ShelvesController {
	return &ShelvesController{shelves: store}
}

// List handles GET /api/shelves.
func (ctrl *ShelvesController) List(c *gin.Context) {
	result, err := ctrl.shelves.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list shelves")
		return
	}
	c.JSON(http.StatusOK, result)
}

type createShelfRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/shelves.
func (ctrl *ShelvesController) Create(c *gin.Context) {
	var req createShelfRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	shelf, err := ctrl.shelves.Create(GetUserID(c), req.Name)
	if err != nil {
		respondInternalError(c, err, "create shelf")
		return
	}
	respondCreated(c, shelf)
}

// Delete handles DELETE /api/shelves/:id.
func (ctrl *ShelvesController) Delete(c *gin.Context) {
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.shelves.Delete(shelfID, GetUserID(c))
	switch {
	case errors.Is(err, shelves.ErrShelfNotFound):
		respondNotFound(c, "shelf")
	case errors.Is(err, shelves.ErrDefaultShelf):
		respondError(c, http.StatusForbidden, shelves.ErrDefaultShelf.Error())
	case err != nil:
		respondInternalError(c, err, "delete shelf")
	default:
		respondSuccess(c, "shelf deleted")
	}
}

type assignBookRequest struct {
	BookID uint `json:"book_id"`
}

// AddBook handles POST /api/shelves/:id/books.
func (ctrl *ShelvesController) AddBook(c *gin.Context) {
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req assignBookRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BookID == 0 {
		respondBadRequest(c, "book_id is required")
		return
	}

	err := ctrl.shelves.Assign(shelfID, req.BookID, GetUserID(c))
	switch {
	case errors.Is(err, shelves.ErrShelfNotFound):
		respondNotFound(c, "shelf")
	case err != nil:
		respondInternalError(c, err, "add book to shelf")
	default:
		respondSuccess(c, "book added to shelf")
	}
}

// RemoveBook handles DELETE /api/shelves/:id/books/:bookId.
func (ctrl *ShelvesController) RemoveBook(c *gin.Context) {
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	err := ctrl.shelves.Remove(shelfID, bookID, GetUserID(c))
	switch {
	case errors.Is(err, shelves.ErrShelfNotFound):
		respondNotFound(c, "shelf")
	case err != nil:
		respondInternalError(c, err, "remove book from shelf")
	default:
		respondSuccess(c, "book removed from shelf")
	}
}
