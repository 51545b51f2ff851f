package bookingRepo

import "handwerk/models"

// BookingRepository defines data access for booking rows.
type BookingRepository interface {
	Insert(b *models.Booking) error
	// GetByID returns the plain row without counterparties attached.
	GetByID(id string) (*models.Booking, error)
	// GetByIDDetailed expands customer, handwerker, service and payments.
	GetByIDDetailed(id string) (*models.Booking, error)
	UpdateStatus(id, status string) error
	// ListByCustomer returns the customer's bookings newest first, with
	// the handwerker's and service's public fields attached.
	ListByCustomer(customerID string) ([]models.Booking, error)
	// ListByHandwerker returns the handwerker's jobs in schedule order,
	// with the customer's and service's public fields attached.
	ListByHandwerker(handwerkerID string) ([]models.Booking, error)
}
