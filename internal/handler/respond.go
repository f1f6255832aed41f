package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillery/backend/internal/apperr"
)

// badRequest rejects a request whose body failed binding.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{
		Kind:    "validation",
		Code:    apperr.CodeInvalidInput,
		Message: err.Error(),
	}})
}

// errorBody is the JSON error envelope. Clients switch on kind and code,
// never on message text.
type errorBody struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps the apperr taxonomy onto HTTP statuses:
// validation 400, unauthorized 403, not found 404, invalid state 409,
// dependency 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		slog.Error("unclassified error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorBody{
			Kind:    "dependency",
			Code:    apperr.CodeStorage,
			Message: "internal error",
		}})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindUnauthorized:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInvalidState:
		status = http.StatusConflict
	case apperr.KindDependency:
		slog.Error("dependency failure", "code", appErr.Code, "error", appErr)
	}

	c.JSON(status, gin.H{"error": errorBody{
		Kind:    appErr.Kind.String(),
		Code:    appErr.Code,
		Message: appErr.Message,
	}})
}
