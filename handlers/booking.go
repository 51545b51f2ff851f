package handlers

import (
	"net/http"

	"handwerk/models"
	"handwerk/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lists and actions to both roles.
type BookingHandler struct {
	Bookings booking.BookingService
}

func userIDFrom(c *gin.Context) (string, bool) {
	id := c.GetString("userID")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return "", false
	}
	return id, true
}

// ListCustomerBookingsHandler handles GET /c/bookings. With ?status=
// the list narrows to one of the customer views.
func (h *BookingHandler) ListCustomerBookingsHandler(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	bookings, err := h.Bookings.FetchCustomerBookings(c.Request.Context(), userID)
	if err != nil {
		logger.Error("booking list fetch failed", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch c.Query("status") {
	case "pending":
		bookings = h.Bookings.PendingBookings()
	case "confirmed":
		bookings = h.Bookings.ConfirmedBookings()
	case "completed":
		bookings = h.Bookings.CompletedBookings()
	}
	c.JSON(http.StatusOK, bookings)
}

// ListHandwerkerJobsHandler handles GET /h/jobs with the same optional
// status narrowing, plus "in_progress" and "upcoming".
func (h *BookingHandler) ListHandwerkerJobsHandler(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	jobs, err := h.Bookings.FetchHandwerkerJobs(c.Request.Context(), userID)
	if err != nil {
		logger.Error("job list fetch failed", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch c.Query("status") {
	case "pending":
		jobs = h.Bookings.PendingJobs()
	case "upcoming":
		jobs = h.Bookings.UpcomingJobs()
	case "in_progress":
		jobs = h.Bookings.InProgressJobs()
	case "completed":
		jobs = h.Bookings.CompletedJobs()
	}
	c.JSON(http.StatusOK, jobs)
}

// GetBookingDetailsHandler handles GET /bookings/:id for either
// participant.
func (h *BookingHandler) GetBookingDetailsHandler(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	bookingID := c.Param("id")

	b, err := h.Bookings.FetchBookingDetails(c.Request.Context(), userID, bookingID)
	if err != nil {
		status := http.StatusInternalServerError
		if err == booking.ErrPermissionDenied {
			status = http.StatusForbidden
		}
		logger.Warn("booking details fetch failed",
			zap.String("bookingId", bookingID), zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBookingStatusHandler handles PATCH /bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatusHandler(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	bookingID := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Bookings.UpdateBookingStatus(c.Request.Context(), userID, bookingID, req.Status); err != nil {
		status := http.StatusInternalServerError
		if err == booking.ErrPermissionDenied {
			status = http.StatusForbidden
		}
		logger.Warn("booking status update failed",
			zap.String("bookingId", bookingID), zap.String("status", req.Status), zap.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CancelBookingHandler handles POST /c/bookings/:id/cancel. The optional
// reason is logged, not stored.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	bookingID := c.Param("id")

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.Bookings.CancelBooking(c.Request.Context(), userID, bookingID, req.Reason); err != nil {
		status := http.StatusInternalServerError
		if err == booking.ErrPermissionDenied {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": models.StatusCanceledByCustomer})
}

// CreateBookingHandler handles POST /c/bookings from a completed form
// session. Partial photo failures come back in the 201 payload.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.Bookings.CreateBooking(c.Request.Context(), userID, req.SessionID)
	if !result.Success {
		logger.Warn("booking creation failed",
			zap.String("sessionId", req.SessionID), zap.String("reason", result.Error))
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}
