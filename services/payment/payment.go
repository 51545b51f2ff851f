package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"handwerk/config"
	bookingRepo "handwerk/database/repository/booking"
	paymentRepo "handwerk/database/repository/payment"
	profileRepo "handwerk/database/repository/profile"
	"handwerk/models"
	"handwerk/utils"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	PaymentTypeDeposit = "deposit"
	PaymentTypeFinal   = "final"

	// Deposit is a fixed share of the booking total, collected up front.
	depositShare = 0.2
)

// DepositIntent is what the client needs to collect the deposit.
type DepositIntent struct {
	PaymentID    string  `json:"payment_id"`
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// ErrNotParticipant rejects payment access by anyone who is not a party
// to the booking.
var ErrNotParticipant = errors.New("you do not have permission to access this booking's payments")

// PaymentService creates and tracks Stripe payments for bookings.
type PaymentService interface {
	CreateDepositIntent(ctx context.Context, userID, bookingID string) (*DepositIntent, error)
	MarkPaymentStatus(ctx context.Context, paymentID, status string) error
	ListBookingPayments(ctx context.Context, userID, bookingID string) ([]models.Payment, error)
}

type DefaultPaymentService struct {
	Bookings bookingRepo.BookingRepository
	Payments paymentRepo.PaymentRepository
	Profiles profileRepo.ProfileRepository
}

// CreateDepositIntent creates a Stripe PaymentIntent for the booking's
// deposit and records a pending payment row. Only the booking's customer
// may create one.
func (s *DefaultPaymentService) CreateDepositIntent(ctx context.Context, userID, bookingID string) (*DepositIntent, error) {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b.CustomerID != userID {
		return nil, fmt.Errorf("booking does not belong to user")
	}
	if b.TotalPrice <= 0 {
		return nil, fmt.Errorf("booking has no price to collect a deposit on")
	}

	currency := config.AppConfig.StripeCurrency
	amount := math.Round(b.TotalPrice*depositShare*100) / 100
	amountCents := int64(math.Round(amount * 100))

	stripeCustomerID, err := s.ensureStripeCustomer(userID)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		Customer: stripe.String(stripeCustomerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", bookingID)
	params.AddMetadata("payment_type", PaymentTypeDeposit)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	row := models.Payment{
		ID:                    uuid.New().String(),
		BookingID:             bookingID,
		Amount:                amount,
		Currency:              currency,
		PaymentType:           PaymentTypeDeposit,
		StripePaymentIntentID: pi.ID,
		Status:                "pending",
		CreatedAt:             time.Now(),
	}
	if err := s.Payments.Insert(&row); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	utils.GetLogger().Info("deposit intent created",
		zap.String("bookingId", bookingID),
		zap.String("paymentId", row.ID),
		zap.Float64("amount", amount))

	return &DepositIntent{
		PaymentID:    row.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
		Currency:     currency,
	}, nil
}

// ensureStripeCustomer returns the user's Stripe customer ID, creating
// the customer and persisting the ID on first use.
func (s *DefaultPaymentService) ensureStripeCustomer(userID string) (string, error) {
	profile, err := s.Profiles.GetByID(userID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch profile: %w", err)
	}
	if profile == nil {
		return "", fmt.Errorf("profile not found")
	}
	if profile.StripeCustomerID != "" {
		return profile.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(profile.Email),
		Name:  stripe.String(profile.FullName),
	}
	params.AddMetadata("user_id", userID)

	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}

	if err := s.Profiles.UpdatePartial(userID, bson.M{"stripe_customer_id": c.ID}); err != nil {
		return "", fmt.Errorf("failed to persist stripe customer id: %w", err)
	}
	return c.ID, nil
}

func (s *DefaultPaymentService) MarkPaymentStatus(ctx context.Context, paymentID, status string) error {
	if err := s.Payments.UpdateStatus(paymentID, status); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return nil
}

// ListBookingPayments returns the booking's payment rows to its
// participants only.
func (s *DefaultPaymentService) ListBookingPayments(ctx context.Context, userID, bookingID string) ([]models.Payment, error) {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if !b.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return s.Payments.ListByBooking(bookingID)
}
