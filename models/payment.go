package models

import "time"

// Payment records a money movement against a booking. The capture flow
// itself happens on the payment provider's side; this row tracks intent
// and outcome.
type Payment struct {
	ID                    string    `bson:"id" json:"id"`
	BookingID             string    `bson:"booking_id" json:"booking_id"`
	Amount                float64   `bson:"amount" json:"amount"`
	Currency              string    `bson:"currency" json:"currency"`
	PaymentType           string    `bson:"payment_type" json:"payment_type"` // "deposit" or "final"
	StripePaymentIntentID string    `bson:"stripe_payment_intent_id,omitempty" json:"stripe_payment_intent_id,omitempty"`
	Status                string    `bson:"status" json:"status"`
	CreatedAt             time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time `bson:"updated_at" json:"updated_at"`
}
