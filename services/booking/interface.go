package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "handwerk/database/repository/booking"
	photoRepo "handwerk/database/repository/photo"
	serviceRepo "handwerk/database/repository/service"
	"handwerk/models"
	"handwerk/services/storage"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// PhotoUploadFailure names one staged photo that could not be uploaded
// or recorded. Photo failures never fail the enclosing booking creation.
type PhotoUploadFailure struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// CreateBookingResult reports booking creation including partial photo
// failures (best-effort contract, surfaced instead of only logged).
type CreateBookingResult struct {
	Success             bool                 `json:"success"`
	BookingID           string               `json:"bookingId,omitempty"`
	PhotoUploadFailures []PhotoUploadFailure `json:"photoUploadFailures,omitempty"`
	Error               string               `json:"error,omitempty"`
}

// BookingService is the booking state container: the multi-step form
// session, the cached booking/job lists and the CRUD actions over them.
type BookingService interface {
	// Form session lifecycle.
	StartFormSession(ctx context.Context, userID string) (*models.BookingSession, error)
	GetFormSession(ctx context.Context, userID, sessionID string) (*models.BookingSession, error)
	UpdateForm(ctx context.Context, userID, sessionID string, update models.BookingFormUpdate) (*models.BookingSession, error)
	SetStep(ctx context.Context, userID, sessionID string, step int) (*models.BookingSession, error)
	NextStep(ctx context.Context, userID, sessionID string) (*models.BookingSession, error)
	PrevStep(ctx context.Context, userID, sessionID string) (*models.BookingSession, error)
	AddPhoto(ctx context.Context, userID, sessionID string, photo models.PhotoAttachment) (*models.BookingSession, error)
	ResetForm(ctx context.Context, userID, sessionID string) (*models.BookingSession, error)

	// Remote CRUD.
	FetchCustomerBookings(ctx context.Context, userID string) ([]models.Booking, error)
	FetchHandwerkerJobs(ctx context.Context, userID string) ([]models.Booking, error)
	FetchBookingDetails(ctx context.Context, userID, bookingID string) (*models.Booking, error)
	CreateBooking(ctx context.Context, userID, sessionID string) CreateBookingResult
	UpdateBookingStatus(ctx context.Context, userID, bookingID, status string) error
	CancelBooking(ctx context.Context, userID, bookingID, reason string) error

	// Derived list views over the cached lists.
	PendingBookings() []models.Booking
	ConfirmedBookings() []models.Booking
	CompletedBookings() []models.Booking
	PendingJobs() []models.Booking
	UpcomingJobs() []models.Booking
	InProgressJobs() []models.Booking
	CompletedJobs() []models.Booking

	SelectedBooking() *models.Booking
	AvailableTimeSlots() []string
	LastError() string
}

// ReminderScheduler enqueues deferred reminder tasks. Satisfied by
// *asynq.Client.
type ReminderScheduler interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Photos   photoRepo.PhotoRepository
	Services serviceRepo.ServiceRepository
	Storage  storage.StorageService
	Cache    *redis.Client
	// Queue schedules booking reminders; nil disables scheduling.
	Queue ReminderScheduler
	// SessionTTL bounds form session lifetime; zero falls back to 30m.
	SessionTTL time.Duration

	mu               sync.RWMutex
	customerBookings []models.Booking
	handwerkerJobs   []models.Booking
	selectedBooking  *models.Booking
	loading          bool
	lastErr          string
	// Populated by the availability collaborator, read-only here.
	availableTimeSlots []string
}

// SetAvailableTimeSlots replaces the advertised slot list. No action in
// this container mutates it.
func (s *DefaultBookingService) SetAvailableTimeSlots(slots []string) {
	s.mu.Lock()
	s.availableTimeSlots = slots
	s.mu.Unlock()
}

// AvailableTimeSlots returns the advertised slot list.
func (s *DefaultBookingService) AvailableTimeSlots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.availableTimeSlots
}

func (s *DefaultBookingService) SelectedBooking() *models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedBooking
}

func (s *DefaultBookingService) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *DefaultBookingService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *DefaultBookingService) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}
