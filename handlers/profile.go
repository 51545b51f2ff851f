package handlers

import (
	"net/http"

	"handwerk/models"
	"handwerk/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler exposes the signed-in user's profile state.
type ProfileHandler struct {
	Sessions session.SessionService
}

// SessionStateHandler handles GET /auth/session: the authentication
// state snapshot the client renders from.
func (h *ProfileHandler) SessionStateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated": h.Sessions.IsAuthenticated(),
		"role":            h.Sessions.Role(),
		"user":            h.Sessions.CurrentUser(),
		"profile":         h.Sessions.CurrentProfile(),
	})
}

// GetProfileHandler handles GET /profile. It refreshes the profile from
// the store before answering.
func (h *ProfileHandler) GetProfileHandler(c *gin.Context) {
	logger := getLogger(c)

	if err := h.Sessions.FetchProfile(c.Request.Context()); err != nil {
		logger.Error("profile fetch failed", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	profile := h.Sessions.CurrentProfile()
	if profile == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfileHandler handles PUT /profile with a partial update.
func (h *ProfileHandler) UpdateProfileHandler(c *gin.Context) {
	logger := getLogger(c)

	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.Sessions.UpdateProfile(c.Request.Context(), update)
	if !result.Success {
		logger.Warn("profile update failed", zap.String("reason", result.Error))
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": h.Sessions.CurrentProfile()})
}
