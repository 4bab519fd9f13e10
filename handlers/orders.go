package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tanish431/CC-BackProj-3/cache"
	"github.com/Tanish431/CC-BackProj-3/models"
	"github.com/Tanish431/CC-BackProj-3/store"
)

// OrderNew places an order directly from a client-supplied item list,
// bypassing the cart.
func OrderNew(st *store.Store, ch *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.OrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No items provided"})
			return
		}
		receipt, err := st.PlaceOrder(c.Request.Context(), currentUserID(c), req.Items)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		ch.InvalidatePrefix(c.Request.Context(), shopCachePrefix)
		c.JSON(http.StatusOK, receipt)
	}
}

func OrdersPast(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := st.PastOrders(c.Request.Context(), currentUserID(c))
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if orders == nil {
			orders = []models.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}
