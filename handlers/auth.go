package handlers

import (
	"net/http"

	"handwerk/models"
	"handwerk/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler exposes the authentication actions over HTTP.
type AuthHandler struct {
	Sessions session.SessionService
}

// RegisterHandler handles POST /auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.Sessions.Register(c.Request.Context(), req.Email, req.Password, models.ParseRole(req.Role))
	if !result.Success {
		logger.Warn("registration failed", zap.String("email", req.Email), zap.String("reason", result.Error))
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// LoginHandler handles POST /auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if !result.Success {
		logger.Warn("login failed", zap.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// LogoutHandler handles POST /auth/logout. Local sign-out always
// succeeds; a remote revocation failure comes back as a warning.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	result := h.Sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, result)
}

// ResetPasswordHandler handles POST /auth/reset-password. The response
// does not reveal whether the email is registered.
func (h *AuthHandler) ResetPasswordHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.Sessions.ResetPassword(c.Request.Context(), req.Email)
	c.JSON(http.StatusOK, result)
}

// CompletePasswordResetHandler handles POST /auth/reset-password/complete.
// The token arrives from the emailed link's query string or the body.
func (h *AuthHandler) CompletePasswordResetHandler(c *gin.Context) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token := req.Token
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing reset token"})
		return
	}

	result := h.Sessions.CompletePasswordReset(c.Request.Context(), token, req.NewPassword)
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdatePasswordHandler handles PUT /auth/password for the signed-in user.
func (h *AuthHandler) UpdatePasswordHandler(c *gin.Context) {
	var req struct {
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.Sessions.UpdatePassword(c.Request.Context(), req.NewPassword)
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
