package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillery/backend/internal/apperr"
	"github.com/skillery/backend/internal/blob"
)

// maxUploadBytes caps a single media upload at 10 MiB.
const maxUploadBytes = 10 << 20

// UploadHandler stores and serves post media through the blob store.
type UploadHandler struct {
	blobs blob.Store
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(blobs blob.Store) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

// Upload handles POST /api/uploads. The body is the raw blob; the returned
// key is the opaque reference posts embed in their media list.
func (h *UploadHandler) Upload(c *gin.Context) {
	contentType := c.ContentType()
	if contentType == "" {
		respondError(c, apperr.Validation("Content-Type is required"))
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	key, err := h.blobs.Put(c.Request.Context(), body, contentType)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, apperr.Validation("upload exceeds the size limit"))
			return
		}
		respondError(c, apperr.Dependency("failed to store upload", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}

// Download handles GET /api/uploads/:key, streaming the blob back.
func (h *UploadHandler) Download(c *gin.Context) {
	content, contentType, err := h.blobs.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			respondError(c, apperr.NotFound("upload"))
			return
		}
		respondError(c, apperr.Dependency("failed to read upload", err))
		return
	}
	defer content.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, content); err != nil {
		// Headers are gone; nothing left to do but log via middleware.
		c.Abort()
	}
}
