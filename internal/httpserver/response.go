package httpserver

import (
	"errors"
	"net/http"

	"milsabores/internal/domain"
	ordersvc "milsabores/internal/service/order"
	usersvc "milsabores/internal/service/user"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP statuses. Anything unmapped is a
// 500 with a generic message, so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	var vErr *usersvc.ValidationError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Error(), "field": vErr.Field})
	case errors.Is(err, usersvc.ErrEmailTaken), errors.Is(err, usersvc.ErrNationalIDTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usersvc.ErrInvalidCredentials), errors.Is(err, usersvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ordersvc.ErrProfileRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ordersvc.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
