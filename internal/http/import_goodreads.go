package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avelichka/bookshelf/internal/entities"
	"github.com/avelichka/bookshelf/internal/goodreads"
	"github.com/avelichka/bookshelf/internal/importers"
)

// ImportPipeline runs the Goodreads reconcile-and-write pipeline.
type ImportPipeline interface {
	Run(ctx context.Context, userID uint, records []goodreads.Record) importers.Summary
}

// ImportSessionStore persists import run outcomes.
type ImportSessionStore interface {
	Begin(userID uint) (*entities.ImportSession, error)
	Complete(sessionID uint, imported, skipped int, errs []string) error
	Fail(sessionID uint, reason string) error
	ListForUser(userID uint) ([]entities.ImportSession, error)
}

// GoodreadsImportController handles Goodreads CSV export uploads.
type GoodreadsImportController struct {
	pipeline       ImportPipeline
	sessions       ImportSessionStore
	maxUploadBytes int64
}

func NewGoodreadsImportController(pipeline ImportPipeline, sessions ImportSessionStore, maxUploadBytes int64) *GoodreadsImportController {
	return &GoodreadsImportController{
		pipeline:       pipeline,
		sessions:       sessions,
		maxUploadBytes: maxUploadBytes,
	}
}

// GoodreadsImportResponse wraps the pipeline summary with the session token.
type GoodreadsImportResponse struct {
	Token   string            `json:"token"`
	Summary importers.Summary `json:"summary"`
}

// Import handles POST /api/import/goodreads. The upload is a multipart form
// with the CSV in the "file" field.
func (ctrl *GoodreadsImportController) Import(c *gin.Context) {
	userID := GetUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "missing file upload")
		return
	}

	if fileHeader.Size > ctrl.maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", ctrl.maxUploadBytes))
		return
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".csv" {
		respondBadRequest(c, "expected a .csv file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, ctrl.maxUploadBytes+1))
	if err != nil {
		respondInternalError(c, err, "read upload")
		return
	}
	if int64(len(content)) > ctrl.maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", ctrl.maxUploadBytes))
		return
	}

	records, err := goodreads.Parse(string(content))
	if err != nil {
		var missing *goodreads.MissingColumnError
		if errors.As(err, &missing) {
			respondBadRequest(c, missing.Error())
			return
		}
		respondBadRequest(c, "could not parse the CSV export: "+err.Error())
		return
	}

	session, err := ctrl.sessions.Begin(userID)
	if err != nil {
		respondInternalError(c, err, "begin import session")
		return
	}

	summary := ctrl.pipeline.Run(c.Request.Context(), userID, records)

	if err := ctrl.sessions.Complete(session.ID, summary.Imported, summary.Skipped, summary.Errors); err != nil {
		// The import itself finished; the summary still goes to the client.
		log.Printf("Failed to record import session %d: %v", session.ID, err)
	}

	c.JSON(http.StatusOK, GoodreadsImportResponse{
		Token:   session.Token,
		Summary: summary,
	})
}

// History handles GET /api/import/sessions.
func (ctrl *GoodreadsImportController) History(c *gin.Context) {
	sessions, err := ctrl.sessions.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list import sessions")
		return
	}
	c.JSON(http.StatusOK, sessions)
}
