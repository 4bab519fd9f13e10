package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tanish431/CC-BackProj-3/store"
)

// writeStoreError maps the store's error taxonomy onto HTTP statuses.
// Persistence failures are logged with detail but answered generically.
func writeStoreError(c *gin.Context, err error) {
	var notFound *store.ItemNotFoundError
	var insufficient *store.InsufficientStockError
	var badQty *store.InvalidQuantityError
	var persistErr *store.PersistenceError

	switch {
	case errors.Is(err, store.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &badQty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     insufficient.Error(),
			"itemId":    insufficient.ItemID,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error(), "itemId": notFound.ItemID})
	case errors.Is(err, store.ErrConflictRetryExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": true})
	case errors.As(err, &persistErr):
		log.Printf("request %s: %v", c.Writer.Header().Get("X-Request-ID"), persistErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	default:
		log.Printf("request %s: %v", c.Writer.Header().Get("X-Request-ID"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
