package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-buyer-indexer/internal/api/shared/errors"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    apierrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Details string              `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code apierrors.ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, apierrors.ErrCodeBadRequest, message, details...)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, apierrors.ErrCodeNotFound, message, details...)
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, apierrors.ErrCodeValidationFailed, "Validation failed", details)
}

// respondError maps an executor error onto a status code. Server side failures are
// logged and their details withheld from the caller.
func respondError(c *gin.Context, err error, message string, fields ...zap.Field) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierrors.NewInternalError(message)
	}

	switch apiErr.Code {
	case apierrors.ErrCodeValidationFailed:
		respondValidationError(c, apiErr.Details)
	case apierrors.ErrCodeBadRequest:
		respondBadRequest(c, apiErr.Message, apiErr.Details)
	case apierrors.ErrCodeNotFound:
		respondNotFound(c, apiErr.Message, apiErr.Details)
	case apierrors.ErrCodeServiceError:
		logger.WarnCtx(c.Request.Context(), message, append(fields, zap.Error(err))...)
		respondWithError(c, http.StatusBadGateway, apiErr.Code, message)
	default:
		logger.ErrorCtx(c.Request.Context(), err, fields...)
		respondWithError(c, http.StatusInternalServerError, apiErr.Code, message)
	}
}

// ingestStatus maps a run error code onto a status code
func ingestStatus(code string) int {
	switch code {
	case domain.CodeInProgress:
		return http.StatusConflict
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeAuth, domain.CodeRateLimited, domain.CodeService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
