package booking

import (
	"context"
	"fmt"
	"time"

	"handwerk/models"
	"handwerk/services/tasks"
	"handwerk/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FetchCustomerBookings refreshes and returns the caller's bookings,
// newest activity first.
func (s *DefaultBookingService) FetchCustomerBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		s.setError(ErrNotAuthenticated.Error())
		return nil, ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	bookings, err := s.Repo.ListByCustomer(userID)
	if err != nil {
		s.setError(err.Error())
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	s.mu.Lock()
	s.customerBookings = bookings
	s.lastErr = ""
	s.mu.Unlock()
	return bookings, nil
}

// FetchHandwerkerJobs refreshes and returns the caller's jobs in
// schedule order.
func (s *DefaultBookingService) FetchHandwerkerJobs(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		s.setError(ErrNotAuthenticated.Error())
		return nil, ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	jobs, err := s.Repo.ListByHandwerker(userID)
	if err != nil {
		s.setError(err.Error())
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	s.mu.Lock()
	s.handwerkerJobs = jobs
	s.lastErr = ""
	s.mu.Unlock()
	return jobs, nil
}

// FetchBookingDetails loads one booking with counterparties and payments
// expanded. Callers who are not a participant get a permission error and
// the selected booking stays unchanged.
func (s *DefaultBookingService) FetchBookingDetails(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	if userID == "" {
		s.setError(ErrNotAuthenticated.Error())
		return nil, ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	b, err := s.Repo.GetByIDDetailed(bookingID)
	if err != nil {
		s.setError(err.Error())
		return nil, fmt.Errorf("failed to fetch booking details: %w", err)
	}
	if !b.IsParticipant(userID) {
		s.setError(ErrPermissionDenied.Error())
		return nil, ErrPermissionDenied
	}

	s.mu.Lock()
	s.selectedBooking = b
	s.lastErr = ""
	s.mu.Unlock()
	return b, nil
}

// CreateBooking submits the form session as a new booking. The start
// timestamp is the date and time-slot identifier joined with "T"; the
// submit guard deliberately does not require the time slot. Staged
// photos upload best-effort; their failures ride along in the result.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID, sessionID string) CreateBookingResult {
	if userID == "" {
		return CreateBookingResult{Success: false, Error: ErrNotAuthenticated.Error()}
	}

	session, err := s.GetFormSession(ctx, userID, sessionID)
	if err != nil {
		return CreateBookingResult{Success: false, Error: err.Error()}
	}
	if !session.CanSubmit() {
		return CreateBookingResult{Success: false, Error: ErrIncompleteForm.Error()}
	}

	s.setLoading(true)
	defer s.setLoading(false)

	var totalPrice float64
	if svc, err := s.Services.GetByID(session.Form.ServiceID); err == nil && svc != nil {
		totalPrice = svc.PriceAmount
	}

	jobDetails := session.Form.JobDetails
	if len(session.Form.LocationDetails) > 0 {
		if jobDetails == nil {
			jobDetails = map[string]any{}
		}
		jobDetails["location"] = session.Form.LocationDetails
	}

	b := models.Booking{
		ID:               uuid.New().String(),
		CustomerID:       userID,
		HandwerkerID:     session.Form.HandwerkerID,
		ServiceID:        session.Form.ServiceID,
		BookingTimeStart: session.Form.Date + "T" + session.Form.TimeSlotID,
		Status:           models.StatusPendingConfirmation,
		JobDetails:       jobDetails,
		CustomerNotes:    session.Form.CustomerNotes,
		TotalPrice:       totalPrice,
	}
	if err := s.Repo.Insert(&b); err != nil {
		s.setError(err.Error())
		return CreateBookingResult{Success: false, Error: err.Error()}
	}

	var failures []PhotoUploadFailure
	if len(session.Form.Photos) > 0 {
		failures = s.uploadBookingPhotos(ctx, userID, b.ID, session.Form.Photos)
	}

	session.Reset()
	if err := s.saveSession(ctx, session); err != nil {
		utils.GetLogger().Warn("CreateBooking: form reset save failed", zap.Error(err))
	}

	return CreateBookingResult{Success: true, BookingID: b.ID, PhotoUploadFailures: failures}
}

// UpdateBookingStatus re-fetches the booking, re-validates ownership and
// writes the status. Any status string is accepted; no transition table
// is enforced at this layer. The caller's list is refreshed afterwards
// instead of being patched locally.
func (s *DefaultBookingService) UpdateBookingStatus(ctx context.Context, userID, bookingID, status string) error {
	if userID == "" {
		s.setError(ErrNotAuthenticated.Error())
		return ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	b, err := s.Repo.GetByID(bookingID)
	if err != nil {
		s.setError(err.Error())
		return fmt.Errorf("failed to fetch booking: %w", err)
	}
	if !b.IsParticipant(userID) {
		s.setError(ErrPermissionDenied.Error())
		return ErrPermissionDenied
	}

	if err := s.Repo.UpdateStatus(bookingID, status); err != nil {
		s.setError(err.Error())
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if status == models.StatusConfirmed {
		s.scheduleReminder(b)
	}

	if b.CustomerID == userID {
		_, err = s.FetchCustomerBookings(ctx, userID)
	} else {
		_, err = s.FetchHandwerkerJobs(ctx, userID)
	}
	return err
}

// CancelBooking cancels on behalf of the customer. The reason is logged
// for operators but not persisted on the booking record.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, userID, bookingID, reason string) error {
	if reason != "" {
		utils.GetLogger().Info("booking cancellation requested",
			zap.String("bookingId", bookingID), zap.String("reason", reason))
	}
	return s.UpdateBookingStatus(ctx, userID, bookingID, models.StatusCanceledByCustomer)
}

// scheduleReminder enqueues a reminder a day before the booking starts.
func (s *DefaultBookingService) scheduleReminder(b *models.Booking) {
	if s.Queue == nil {
		return
	}
	start, err := time.ParseInLocation("2006-01-02T15:04", b.BookingTimeStart, time.Local)
	if err != nil {
		utils.GetLogger().Warn("scheduleReminder: unparseable start time",
			zap.String("bookingId", b.ID), zap.String("start", b.BookingTimeStart))
		return
	}
	fireAt := start.Add(-24 * time.Hour)
	if fireAt.Before(time.Now()) {
		return
	}

	payload := models.ReminderPayload{
		BookingID:    b.ID,
		CustomerID:   b.CustomerID,
		HandwerkerID: b.HandwerkerID,
		StartsAt:     b.BookingTimeStart,
	}
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		utils.GetLogger().Warn("scheduleReminder: task build failed", zap.Error(err))
		return
	}
	if _, err := s.Queue.Enqueue(task, opts...); err != nil {
		utils.GetLogger().Warn("scheduleReminder: enqueue failed", zap.Error(err))
	}
}
