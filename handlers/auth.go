package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tanish431/CC-BackProj-3/models"
	"github.com/Tanish431/CC-BackProj-3/store"
	"github.com/Tanish431/CC-BackProj-3/validators"
)

const tokenTTL = 24 * time.Hour

func issueToken(secret []byte, id int, username, role string) (string, error) {
	claims := &models.Claims{
		UserID:   id,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func Signup(st *store.Store, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds models.Credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}
		if err := validators.ValidateCredentials(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		userID, err := st.CreateUser(c.Request.Context(), creds.Username, string(hash), models.RoleUser)
		if errors.Is(err, store.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "User exists"})
			return
		}
		if err != nil {
			writeStoreError(c, err)
			return
		}
		token, err := issueToken(secret, userID, creds.Username, models.RoleUser)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

func Login(st *store.Store, secret []byte) gin.HandlerFunc {
	return login(st, secret, "")
}

// AdminLogin authenticates like Login but only accepts admin accounts; a
// non-admin gets the same answer as a wrong password so the endpoint does
// not reveal which accounts exist.
func AdminLogin(st *store.Store, secret []byte) gin.HandlerFunc {
	return login(st, secret, models.RoleAdmin)
}

func login(st *store.Store, secret []byte, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds models.Credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}
		user, hash, err := st.GetUserByUsername(c.Request.Context(), creds.Username)
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if requiredRole != "" && user.Role != requiredRole {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		token, err := issueToken(secret, user.ID, user.Username, user.Role)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
