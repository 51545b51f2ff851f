package handlers

import (
	"errors"
	"net/http"

	"handwerk/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes deposit collection for customers.
type PaymentHandler struct {
	Payments payment.PaymentService
}

// CreateDepositIntentHandler handles POST /c/bookings/:id/deposit.
func (h *PaymentHandler) CreateDepositIntentHandler(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	bookingID := c.Param("id")

	intent, err := h.Payments.CreateDepositIntent(c.Request.Context(), userID, bookingID)
	if err != nil {
		logger.Warn("deposit intent creation failed",
			zap.String("bookingId", bookingID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// ListBookingPaymentsHandler handles GET /bookings/:id/payments for the
// booking's participants.
func (h *PaymentHandler) ListBookingPaymentsHandler(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	payments, err := h.Payments.ListBookingPayments(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, payment.ErrNotParticipant) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payments)
}
