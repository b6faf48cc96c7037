package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// --- User Handlers (JSON API) ---

func loginUser(c *gin.Context) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	session, token, err := sessionManager.Login(creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Printf("!!! DATABASE ERROR during login for user '%s': %v", creds.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"user":     session,
		"is_admin": session.IsAdmin(),
	})
}

// getSession restores the persisted session, the equivalent of the web app's
// startup restore. An invalid or expired token has already been cleared by the
// time the 401 goes out.
func getSession(c *gin.Context) {
	session, ok := sessionManager.Restore()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No active session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": session, "is_admin": session.IsAdmin()})
}

// logoutUser always succeeds; logging out twice is a no-op.
func logoutUser(c *gin.Context) {
	sessionManager.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// --- Password Hashing ---

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
