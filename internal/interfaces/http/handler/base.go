package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/infrastructure/logger"
	"github.com/shipdesk/backend/internal/interfaces/http/dto"
	"github.com/shipdesk/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.HeaderRequestID)
}

// Success sends a 200 response wrapping data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponse(code, message, getRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, code, message string) {
	h.Error(c, http.StatusBadRequest, code, message)
}

// HandleDomainError converts an error returned by an application service
// into an HTTP response. Validation errors keep their per-field details.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
		return
	}

	code := dto.NormalizeErrorCode(domainErr.Code)
	status := dto.GetHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	if shared.IsDataIntegrity(err) {
		logger.GetGinLogger(c).Error("Reference data gap",
			zap.String("error_code", domainErr.Code),
			zap.Bool("data_integrity", true),
			zap.Error(err),
		)
	}
	if code == dto.ErrCodeValidation {
		c.JSON(status, dto.NewValidationErrorResponse(domainErr.Message, requestID, domainErr.Details))
		return
	}
	c.JSON(status, dto.NewErrorResponse(code, domainErr.Message, requestID))
}
