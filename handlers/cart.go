package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tanish431/CC-BackProj-3/cache"
	"github.com/Tanish431/CC-BackProj-3/models"
	"github.com/Tanish431/CC-BackProj-3/store"
)

func CartAdd(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}
		if err := st.AddToCart(c.Request.Context(), currentUserID(c), req.ItemID, req.Quantity); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func CartInfo(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := st.CartInfo(c.Request.Context(), currentUserID(c))
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func CartRemove(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CartRemoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}
		err := st.RemoveFromCart(c.Request.Context(), currentUserID(c), req.ItemID)
		var notFound *store.ItemNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not in cart"})
			return
		}
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from cart"})
	}
}

// CartCheckout converts the caller's cart into an order. On success the
// cart is already cleared and cached catalog pages are dropped because
// stock levels changed.
func CartCheckout(st *store.Store, ch *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		receipt, err := st.CheckoutCart(c.Request.Context(), currentUserID(c))
		if err != nil {
			writeStoreError(c, err)
			return
		}
		ch.InvalidatePrefix(c.Request.Context(), shopCachePrefix)
		c.JSON(http.StatusOK, receipt)
	}
}
