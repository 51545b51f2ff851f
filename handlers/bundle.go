package handlers

import (
	profileRepo "handwerk/database/repository/profile"
	serviceRepo "handwerk/database/repository/service"
	userRepo "handwerk/database/repository/user"
	"handwerk/services/booking"
	"handwerk/services/payment"
	"handwerk/services/session"
)

// HandlerBundle groups all endpoint handlers plus the repositories the
// route middleware needs.
type HandlerBundle struct {
	UserRepo    userRepo.UserRepository
	ProfileRepo profileRepo.ProfileRepository

	Auth        *AuthHandler
	Profile     *ProfileHandler
	Booking     *BookingHandler
	BookingForm *BookingFormHandler
	Public      *PublicHandler
	Payment     *PaymentHandler
}

// NewHandlerBundle wires the handlers to their services.
func NewHandlerBundle(
	users userRepo.UserRepository,
	profiles profileRepo.ProfileRepository,
	services serviceRepo.ServiceRepository,
	sessions session.SessionService,
	bookings booking.BookingService,
	payments payment.PaymentService,
) *HandlerBundle {
	return &HandlerBundle{
		UserRepo:    users,
		ProfileRepo: profiles,
		Auth:        &AuthHandler{Sessions: sessions},
		Profile:     &ProfileHandler{Sessions: sessions},
		Booking:     &BookingHandler{Bookings: bookings},
		BookingForm: &BookingFormHandler{Bookings: bookings},
		Public:      &PublicHandler{Profiles: profiles, Services: services},
		Payment:     &PaymentHandler{Payments: payments},
	}
}
