package handler

import (
	"errors"
	"net/http"

	"github.com/addressbook/backend/internal/domain/shared"
	"github.com/addressbook/backend/internal/infrastructure/logger"
	"github.com/addressbook/backend/internal/interfaces/http/dto"
	"github.com/addressbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// OK sends a 200 response with data as the body
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// OKEmpty sends a 200 response with no body
func (h *BaseHandler) OKEmpty(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Error sends the single-error envelope
func (h *BaseHandler) Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(statusCode, message))
}

// BadRequest sends a 400 with the fixed malformed-request message
func (h *BaseHandler) BadRequest(c *gin.Context) {
	h.Error(c, http.StatusBadRequest, dto.MessageBadRequest)
}

// ValidationError sends a 400 listing every failed validation
func (h *BaseHandler) ValidationError(c *gin.Context, messages []string) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(messages))
}

// HandleError converts an error into an HTTP response by its domain kind.
// Errors that are not domain errors are treated as internal.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	log := logger.FromContext(c.Request.Context())
	kind := shared.KindOf(err)
	status := dto.GetHTTPStatus(kind)

	var domainErr *shared.DomainError
	isDomain := errors.As(err, &domainErr)

	switch kind {
	case shared.KindValidation:
		var details []string
		if isDomain {
			details = domainErr.Details
		}
		h.ValidationError(c, details)
	case shared.KindMalformedRequest:
		log.Debug("Malformed request",
			zap.String("request_id", getRequestID(c)),
			zap.Error(err),
		)
		h.BadRequest(c)
	case shared.KindNotFound:
		h.Error(c, status, domainErr.Message)
	default:
		log.Error("Request failed",
			zap.String("request_id", getRequestID(c)),
			zap.Error(err),
		)
		message := dto.MessageInternal
		if isDomain && domainErr.Message != "" {
			message = domainErr.Message
		}
		h.Error(c, status, message)
	}
}

// BindJSON decodes the body into req. Field validation failures become a
// validation error using fieldMessages; any other decoding failure is a
// malformed request.
func (h *BaseHandler) BindJSON(c *gin.Context, req any, fieldMessages map[string]string) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if messages, ok := middleware.ValidationMessages(err, fieldMessages); ok {
			return shared.NewValidationError(messages...)
		}
		return shared.NewMalformedRequestError(err)
	}
	return nil
}

// ParseUUIDParam parses a UUID path parameter
func (h *BaseHandler) ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, shared.NewMalformedRequestError(err)
	}
	return id, nil
}
