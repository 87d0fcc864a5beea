package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stayscout/internal/auth"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "stayscout_session"

const sessionMaxAge = 7 * 24 * 60 * 60

type credentialsForm struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Signup registers a new user and logs them in.
func (h *Handler) Signup(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signup data"})
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.SetCookie(SessionCookie, token, sessionMaxAge, "/", "", false, true)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Welcome User",
		"user":    user,
	})
}

// Login verifies credentials and opens a session.
func (h *Handler) Login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login data"})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.respondError(c, err)
		return
	}

	c.SetCookie(SessionCookie, token, sessionMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome back User",
		"user":    user,
	})
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out!"})
}
