package routes

import (
	"handwerk/handlers"
	"handwerk/models"

	"github.com/gin-gonic/gin"
)

// Route is one declarative endpoint entry. Name exists for programmatic
// lookup; RequiresAuth and Role are carried on the enclosing group and
// repeated here so a single entry is self-describing.
type Route struct {
	Name         string
	Method       string
	Path         string
	Handler      gin.HandlerFunc
	RequiresAuth bool
	Role         models.Role
}

// RouteGroup collects routes under a shared prefix and guard metadata.
type RouteGroup struct {
	Prefix       string
	RequiresAuth bool
	Role         models.Role
	Routes       []Route
}

// BuildRouteTable returns the full declarative table: public pages,
// auth actions, and the role-scoped customer and handwerker areas.
func BuildRouteTable(hb *handlers.HandlerBundle) []RouteGroup {
	public := RouteGroup{
		Prefix: "/",
		Routes: []Route{
			{Name: "ServicesList", Method: "GET", Path: "/services", Handler: hb.Public.ListServicesHandler},
			{Name: "HandwerkersList", Method: "GET", Path: "/handwerkers", Handler: hb.Public.ListHandwerkersHandler},
			{Name: "HandwerkerServices", Method: "GET", Path: "/handwerkers/:id/services", Handler: hb.Public.ListHandwerkerServicesHandler},
		},
	}

	auth := RouteGroup{
		Prefix: "/auth",
		Routes: []Route{
			{Name: "Register", Method: "POST", Path: "/register", Handler: hb.Auth.RegisterHandler},
			{Name: "Login", Method: "POST", Path: "/login", Handler: hb.Auth.LoginHandler},
			{Name: "ForgotPassword", Method: "POST", Path: "/reset-password", Handler: hb.Auth.ResetPasswordHandler},
			// The reset token arrives via the emailed link's ?token= query.
			{Name: "ResetPassword", Method: "POST", Path: "/reset-password/complete", Handler: hb.Auth.CompletePasswordResetHandler},
			{Name: "Logout", Method: "POST", Path: "/logout", Handler: hb.Auth.LogoutHandler, RequiresAuth: true},
			{Name: "SessionState", Method: "GET", Path: "/session", Handler: hb.Profile.SessionStateHandler, RequiresAuth: true},
			{Name: "UpdatePassword", Method: "PUT", Path: "/password", Handler: hb.Auth.UpdatePasswordHandler, RequiresAuth: true},
		},
	}

	customer := RouteGroup{
		Prefix:       "/c",
		RequiresAuth: true,
		Role:         models.RoleCustomer,
		Routes: []Route{
			{Name: "CustomerBookings", Method: "GET", Path: "/bookings", Handler: hb.Booking.ListCustomerBookingsHandler},
			{Name: "CustomerBookingCreate", Method: "POST", Path: "/bookings", Handler: hb.Booking.CreateBookingHandler},
			{Name: "CustomerBookingDetail", Method: "GET", Path: "/bookings/:id", Handler: hb.Booking.GetBookingDetailsHandler},
			{Name: "CustomerBookingCancel", Method: "POST", Path: "/bookings/:id/cancel", Handler: hb.Booking.CancelBookingHandler},
			{Name: "CustomerBookingDeposit", Method: "POST", Path: "/bookings/:id/deposit", Handler: hb.Payment.CreateDepositIntentHandler},
			{Name: "CustomerBookingPayments", Method: "GET", Path: "/bookings/:id/payments", Handler: hb.Payment.ListBookingPaymentsHandler},

			{Name: "BookingFormStart", Method: "POST", Path: "/booking-form", Handler: hb.BookingForm.StartSessionHandler},
			{Name: "BookingFormGet", Method: "GET", Path: "/booking-form/:sessionId", Handler: hb.BookingForm.GetSessionHandler},
			{Name: "BookingFormUpdate", Method: "PATCH", Path: "/booking-form/:sessionId", Handler: hb.BookingForm.UpdateFormHandler},
			{Name: "BookingFormSetStep", Method: "PUT", Path: "/booking-form/:sessionId/step", Handler: hb.BookingForm.SetStepHandler},
			{Name: "BookingFormNext", Method: "POST", Path: "/booking-form/:sessionId/next", Handler: hb.BookingForm.NextStepHandler},
			{Name: "BookingFormPrev", Method: "POST", Path: "/booking-form/:sessionId/prev", Handler: hb.BookingForm.PrevStepHandler},
			{Name: "BookingFormReset", Method: "POST", Path: "/booking-form/:sessionId/reset", Handler: hb.BookingForm.ResetFormHandler},
			{Name: "BookingFormAddPhoto", Method: "POST", Path: "/booking-form/:sessionId/photos", Handler: hb.BookingForm.AddPhotoHandler},

			{Name: "CustomerProfile", Method: "GET", Path: "/profile", Handler: hb.Profile.GetProfileHandler},
			{Name: "CustomerProfileUpdate", Method: "PUT", Path: "/profile", Handler: hb.Profile.UpdateProfileHandler},
		},
	}

	handwerker := RouteGroup{
		Prefix:       "/h",
		RequiresAuth: true,
		Role:         models.RoleHandwerker,
		Routes: []Route{
			{Name: "HandwerkerJobs", Method: "GET", Path: "/jobs", Handler: hb.Booking.ListHandwerkerJobsHandler},
			{Name: "HandwerkerJobDetail", Method: "GET", Path: "/jobs/:id", Handler: hb.Booking.GetBookingDetailsHandler},
			{Name: "HandwerkerJobStatus", Method: "PATCH", Path: "/jobs/:id/status", Handler: hb.Booking.UpdateBookingStatusHandler},

			{Name: "HandwerkerProfile", Method: "GET", Path: "/profile", Handler: hb.Profile.GetProfileHandler},
			{Name: "HandwerkerProfileUpdate", Method: "PUT", Path: "/profile", Handler: hb.Profile.UpdateProfileHandler},
		},
	}

	groups := []RouteGroup{public, auth, customer, handwerker}
	propagateGroupMeta(groups)
	return groups
}

// propagateGroupMeta copies group-level guard metadata onto each entry
// so a route read in isolation still declares its requirements.
func propagateGroupMeta(groups []RouteGroup) {
	for gi := range groups {
		g := &groups[gi]
		for ri := range g.Routes {
			if g.RequiresAuth {
				g.Routes[ri].RequiresAuth = true
			}
			if g.Routes[ri].Role == "" {
				g.Routes[ri].Role = g.Role
			}
		}
	}
}

// FindRoute looks an entry up by name across all groups, nil if absent.
func FindRoute(groups []RouteGroup, name string) *Route {
	for gi := range groups {
		for ri := range groups[gi].Routes {
			if groups[gi].Routes[ri].Name == name {
				return &groups[gi].Routes[ri]
			}
		}
	}
	return nil
}
