package handlers

import (
	"net/http"

	profileRepo "handwerk/database/repository/profile"
	serviceRepo "handwerk/database/repository/service"
	"handwerk/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PublicHandler serves the unauthenticated marketplace listings.
type PublicHandler struct {
	Profiles profileRepo.ProfileRepository
	Services serviceRepo.ServiceRepository
}

// ListServicesHandler handles GET /services: all active offerings.
func (h *PublicHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Services.ListActive()
	if err != nil {
		getLogger(c).Error("service listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, services)
}

// ListHandwerkersHandler handles GET /handwerkers: public profiles of
// all registered handwerkers.
func (h *PublicHandler) ListHandwerkersHandler(c *gin.Context) {
	profiles, err := h.Profiles.ListByRole(models.RoleHandwerker)
	if err != nil {
		getLogger(c).Error("handwerker listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// ListHandwerkerServicesHandler handles GET /handwerkers/:id/services.
func (h *PublicHandler) ListHandwerkerServicesHandler(c *gin.Context) {
	services, err := h.Services.ListByHandwerker(c.Param("id"))
	if err != nil {
		getLogger(c).Error("handwerker service listing failed",
			zap.String("handwerkerId", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, services)
}
