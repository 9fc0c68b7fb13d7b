package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mariaherliana/invoice-creation/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response. Code identifies the
// failing stage so callers know whether a PDF exists despite the error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and
// stage-specific error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrInvalidDraft):
		return http.StatusBadRequest, "INVALID_DRAFT", err.Error()
	case errors.Is(err, domain.ErrRenderFailed):
		return http.StatusInternalServerError, "RENDER_FAILED", "pdf rendering failed; nothing was saved"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "STORAGE_FAILED", "pdf upload failed; nothing was recorded"
	case errors.Is(err, domain.ErrLedgerWrite):
		return http.StatusInternalServerError, "LEDGER_WRITE_FAILED", "pdf was stored but the ledger record could not be written; contact support with the document details"
	case errors.Is(err, domain.ErrSequenceConflict):
		return http.StatusConflict, "SEQUENCE_CONFLICT", "could not allocate a document number under concurrent submissions; retry"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Error().Err(err).Interface("request_id", requestID).Msg("internal error")
	}
	RespondError(c, status, code, msg)
}
