package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/veridoc/doc-custody/internal/api/shared/errors"
	"github.com/veridoc/doc-custody/internal/auth"
	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, apierrors.NewValidationError(message))
}

// respondUnauthorized responds with an unauthorized error
func respondUnauthorized(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError(message, details...))
}

// respondForbidden responds with a forbidden error
func respondForbidden(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusForbidden, apierrors.NewForbiddenError(message, details...))
}

// respondInternalError responds with an internal server error
func respondInternalError(c *gin.Context, err error, message string) {
	logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, apierrors.NewInternalError(message))
}

// respondDomainError maps core sentinel errors onto HTTP responses.
// Anything unrecognized is an internal error.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondBadRequest(c, "Invalid request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondNotFound(c, "Not found", err.Error())
	case errors.Is(err, domain.ErrNotApproved):
		respondForbidden(c, "Operator not approved", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, apierrors.New(apierrors.ErrCodeInvalidState, "Invalid state", err.Error()))
	case errors.Is(err, domain.ErrUnsupportedToken):
		c.JSON(http.StatusBadRequest, apierrors.New(apierrors.ErrCodeUnsupportedToken, "Unsupported token", err.Error()))
	case errors.Is(err, domain.ErrInsufficientAllowance):
		c.JSON(http.StatusUnprocessableEntity, apierrors.New(apierrors.ErrCodeInsufficientAllowance, "Insufficient allowance", err.Error()))
	case errors.Is(err, domain.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, apierrors.New(apierrors.ErrCodeInsufficientBalance, "Insufficient balance", err.Error()))
	case errors.Is(err, domain.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, apierrors.New(apierrors.ErrCodeTransactionNotFound, "Transaction not found", err.Error()))
	case errors.Is(err, domain.ErrChainGateway):
		c.JSON(http.StatusBadGateway, apierrors.NewChainError("Chain gateway error", err.Error()))
	case errors.Is(err, auth.ErrInvalidSignature), errors.Is(err, auth.ErrInvalidSIWEMessage):
		respondUnauthorized(c, "Authentication failed", err.Error())
	case errors.Is(err, domain.ErrPersistence):
		logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, apierrors.New(apierrors.ErrCodeDatabaseError, "Storage error"))
	default:
		respondInternalError(c, err, "Internal server error")
	}
}
