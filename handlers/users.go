package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tanish431/CC-BackProj-3/models"
	"github.com/Tanish431/CC-BackProj-3/store"
	"github.com/Tanish431/CC-BackProj-3/validators"
)

func Profile(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _, err := st.GetUserByID(c.Request.Context(), currentUserID(c))
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func ChangePassword(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PasswordChangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}
		if err := validators.ValidateString("password", req.NewPassword, 8, 72); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userID := currentUserID(c)
		_, storedHash, err := st.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.OldPassword)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
			return
		}
		newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if err := st.UpdatePassword(c.Request.Context(), userID, string(newHash)); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
