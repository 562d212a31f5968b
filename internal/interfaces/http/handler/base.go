package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/shopping"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Landing holds the pages a browser is sent to after an auth failure
type Landing struct {
	SignInPath string
	HomePath   string
}

// BaseHandler provides common handler utilities
type BaseHandler struct {
	landing Landing
}

// NewBaseHandler creates a BaseHandler that points auth failures at landing
func NewBaseHandler(landing Landing) BaseHandler {
	if landing.SignInPath == "" {
		landing.SignInPath = "/signin"
	}
	if landing.HomePath == "" {
		landing.HomePath = "/dashboard"
	}
	return BaseHandler{landing: landing}
}

// principal returns the principal resolved by the session gate
func principal(c *gin.Context) identity.Principal {
	return middleware.GetPrincipal(c)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response, deriving the status from the code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// HandleError maps an error from the application layer to a response.
// Auth failures carry the landing page in error.redirect_to.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)
	log := logger.L(c.Request.Context())

	var verr *shopping.ValidationError
	if errors.As(err, &verr) {
		details := make([]dto.ValidationDetail, 0, len(verr.Details))
		for _, d := range verr.Details {
			details = append(details, dto.ValidationDetail{
				Field:   d.Field,
				Message: middleware.ValidationMessage(d.Rule, d.Param),
			})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(verr.Message, requestID, details))
		return
	}

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		log.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
			shared.CodeInternal,
			"An unexpected error occurred",
			requestID,
		))
		return
	}

	code := domainErr.Code
	switch code {
	case shared.CodeNotAuthenticated:
		c.JSON(http.StatusUnauthorized, dto.NewRedirectErrorResponse(code, domainErr.Message, requestID,
			middleware.NoticeURL(h.landing.SignInPath, code)))
		return
	case shared.CodeUnauthorized:
		c.JSON(http.StatusForbidden, dto.NewRedirectErrorResponse(code, domainErr.Message, requestID,
			middleware.NoticeURL(h.landing.HomePath, code)))
		return
	case shared.CodeRemoteError:
		log.Warn("Backend call failed", zap.Error(err))
	case shared.CodeInternal:
		log.Error("Request failed", zap.Error(err))
	}
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter; junk reads as def
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// bindJSON binds and validates the body, answering 400 on failure
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}
