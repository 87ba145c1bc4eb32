package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"connectfarma-backend/internal/domain"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNothingToPay):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrNotApproved),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ..., "details": ...}. Internal errors are logged
// and replaced with a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Unhandled error",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error", "request_id": c.GetString(requestIDKey)})
		return
	}

	body := gin.H{"error": err.Error()}
	var stockErr *domain.StockError
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &stockErr):
		body["error"] = "insufficient stock"
		body["details"] = stockErr.Shortages
	case errors.As(err, &validationErr):
		body["details"] = validationErr.Fields
	}
	c.JSON(status, body)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
}
