package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"handwerk/models"
	"handwerk/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingFormHandler drives the multi-step booking form session.
type BookingFormHandler struct {
	Bookings booking.BookingService
}

func (h *BookingFormHandler) respondSession(c *gin.Context, s *models.BookingSession, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		switch err {
		case booking.ErrSessionNotFound:
			status = http.StatusNotFound
		case booking.ErrSessionOwnership:
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":            s,
		"isValid":            s.IsFormValid(),
		"canProceed":         s.CanProceedToNextStep(),
		"canSubmit":          s.CanSubmit(),
		"availableTimeSlots": h.Bookings.AvailableTimeSlots(),
	})
}

// StartSessionHandler handles POST /c/booking-form.
func (h *BookingFormHandler) StartSessionHandler(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	s, err := h.Bookings.StartFormSession(c.Request.Context(), userID)
	if err != nil {
		getLogger(c).Error("form session start failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": s})
}

// GetSessionHandler handles GET /c/booking-form/:sessionId.
func (h *BookingFormHandler) GetSessionHandler(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	s, err := h.Bookings.GetFormSession(c.Request.Context(), userID, c.Param("sessionId"))
	h.respondSession(c, s, err)
}

// UpdateFormHandler handles PATCH /c/booking-form/:sessionId with a
// partial form update.
func (h *BookingFormHandler) UpdateFormHandler(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	var update models.BookingFormUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.Bookings.UpdateForm(c.Request.Context(), userID, c.Param("sessionId"), update)
	h.respondSession(c, s, err)
}

// SetStepHandler handles PUT /c/booking-form/:sessionId/step. Steps
// outside the form's range leave the session unchanged.
func (h *BookingFormHandler) SetStepHandler(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	// No required binding: out-of-range values (including 0) are a
	// state-preserving no-op in the session model, not a request error.
	var req struct {
		Step int `json:"step"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.Bookings.SetStep(c.Request.Context(), userID, c.Param("sessionId"), req.Step)
	h.respondSession(c, s, err)
}

// NextStepHandler handles POST /c/booking-form/:sessionId/next.
func (h *BookingFormHandler) NextStepHandler(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	s, err := h.Bookings.NextStep(c.Request.Context(), userID, c.Param("sessionId"))
	h.respondSession(c, s, err)
}

// PrevStepHandler handles POST /c/booking-form/:sessionId/prev.
func (h *BookingFormHandler) PrevStepHandler(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	s, err := h.Bookings.PrevStep(c.Request.Context(), userID, c.Param("sessionId"))
	h.respondSession(c, s, err)
}

// ResetFormHandler handles POST /c/booking-form/:sessionId/reset.
func (h *BookingFormHandler) ResetFormHandler(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	s, err := h.Bookings.ResetForm(c.Request.Context(), userID, c.Param("sessionId"))
	h.respondSession(c, s, err)
}

// AddPhotoHandler handles POST /c/booking-form/:sessionId/photos. The
// multipart file is staged to a temp path; the upload itself happens on
// submit.
func (h *BookingFormHandler) AddPhotoHandler(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing photo file"})
		return
	}

	stagingDir := filepath.Join(os.TempDir(), "handwerk-photos", userID)
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		logger.Error("photo staging dir creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage photo"})
		return
	}

	localPath := filepath.Join(stagingDir,
		fmt.Sprintf("%s_%s", strconv.FormatInt(time.Now().UnixNano(), 36), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, localPath); err != nil {
		logger.Error("photo staging failed", zap.String("file", file.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage photo"})
		return
	}

	photo := models.PhotoAttachment{FileName: file.Filename, LocalPath: localPath}
	s, err := h.Bookings.AddPhoto(c.Request.Context(), userID, c.Param("sessionId"), photo)
	h.respondSession(c, s, err)
}
