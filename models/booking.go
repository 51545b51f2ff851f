package models

import "time"

// Booking status values. The client layer accepts any status string on
// update; these constants name the ones the platform knows about.
const (
	StatusPendingConfirmation  = "pending_confirmation"
	StatusConfirmed            = "confirmed"
	StatusInProgress           = "in_progress"
	StatusCompleted            = "completed"
	StatusCanceledByCustomer   = "canceled_by_customer"
	StatusCanceledByHandwerker = "canceled_by_handwerker"
)

// Booking is a scheduled engagement between a customer and a handwerker
// for one of the handwerker's services.
type Booking struct {
	ID                 string         `bson:"id" json:"id"`
	CustomerID         string         `bson:"customer_id" json:"customer_id"`
	HandwerkerID       string         `bson:"handwerker_id" json:"handwerker_id"`
	ServiceID          string         `bson:"handwerker_service_id" json:"handwerker_service_id"`
	BookingTimeStart   string         `bson:"booking_time_start" json:"booking_time_start"`
	BookingTimeEnd     string         `bson:"booking_time_end,omitempty" json:"booking_time_end,omitempty"`
	Status             string         `bson:"status" json:"status"`
	JobDetails         map[string]any `bson:"job_details_customer_input,omitempty" json:"job_details_customer_input,omitempty"`
	CustomerNotes      string         `bson:"customer_notes,omitempty" json:"customer_notes,omitempty"`
	TotalPrice         float64        `bson:"total_price" json:"total_price"`
	DepositAmountPaid  float64        `bson:"deposit_amount_paid,omitempty" json:"deposit_amount_paid,omitempty"`
	FinalAmountPaid    float64        `bson:"final_amount_paid,omitempty" json:"final_amount_paid,omitempty"`
	PlatformFee        float64        `bson:"platform_fee,omitempty" json:"platform_fee,omitempty"`
	CreatedAt          time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `bson:"updated_at" json:"updated_at"`

	// Denormalized counterparties, populated on list/detail fetches.
	Customer   *Profile           `bson:"-" json:"customer,omitempty"`
	Handwerker *Profile           `bson:"-" json:"handwerker,omitempty"`
	Service    *HandwerkerService `bson:"-" json:"service,omitempty"`
	Payments   []Payment          `bson:"-" json:"payments,omitempty"`
}

// IsParticipant reports whether the given user is a party to the booking.
func (b *Booking) IsParticipant(userID string) bool {
	return b.CustomerID == userID || b.HandwerkerID == userID
}

// BookingPhoto links an uploaded photo to a booking.
type BookingPhoto struct {
	ID          string    `bson:"id" json:"id"`
	BookingID   string    `bson:"booking_id" json:"booking_id"`
	StoragePath string    `bson:"storage_path" json:"storage_path"`
	UploadedBy  string    `bson:"uploaded_by" json:"uploaded_by"`
	PhotoType   string    `bson:"photo_type" json:"photo_type"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// PhotoTypeJobDetails tags photos attached during booking creation.
const PhotoTypeJobDetails = "job_details"
