package models

// ReminderPayload is the queued payload for a booking reminder task.
type ReminderPayload struct {
	BookingID    string `json:"bookingId"`
	CustomerID   string `json:"customerId"`
	HandwerkerID string `json:"handwerkerId"`
	StartsAt     string `json:"startsAt"`
	ServiceName  string `json:"serviceName,omitempty"`
}
