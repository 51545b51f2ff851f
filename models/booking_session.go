package models

import "time"

// Form step positions for the booking flow.
const (
	StepSelectService    = 1
	StepSelectHandwerker = 2
	StepPickDateTime     = 3
	StepJobDetails       = 4
	StepReview           = 5
)

// PhotoAttachment is a photo staged on the form before the booking exists.
// The file itself sits in local scratch storage until submission.
type PhotoAttachment struct {
	FileName  string `json:"fileName"`
	LocalPath string `json:"localPath"`
}

// BookingFormData is the transient, incrementally-filled input for a new
// booking. It is never persisted as-is; submission copies it into a
// Booking plus photo uploads.
type BookingFormData struct {
	ServiceID       string            `json:"serviceId"`
	HandwerkerID    string            `json:"handwerkerId"`
	Date            string            `json:"date"`       // "YYYY-MM-DD"
	TimeSlotID      string            `json:"timeSlotId"` // e.g. "09:00"
	JobDetails      map[string]any    `json:"jobDetails"`
	CustomerNotes   string            `json:"customerNotes"`
	Photos          []PhotoAttachment `json:"photos"`
	LocationDetails map[string]any    `json:"locationDetails"`
}

// BookingFormUpdate merges into BookingFormData; nil pointers leave the
// corresponding field untouched.
type BookingFormUpdate struct {
	ServiceID       *string           `json:"serviceId,omitempty"`
	HandwerkerID    *string           `json:"handwerkerId,omitempty"`
	Date            *string           `json:"date,omitempty"`
	TimeSlotID      *string           `json:"timeSlotId,omitempty"`
	JobDetails      map[string]any    `json:"jobDetails,omitempty"`
	CustomerNotes   *string           `json:"customerNotes,omitempty"`
	LocationDetails map[string]any    `json:"locationDetails,omitempty"`
}

// BookingSession is the multi-step form state cached between requests.
type BookingSession struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Form          BookingFormData `json:"form"`
	CurrentStep   int             `json:"currentStep"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// NewBookingSession returns a session with an empty form at step 1.
func NewBookingSession(id, userID string) *BookingSession {
	now := time.Now()
	return &BookingSession{
		ID:            id,
		UserID:        userID,
		Form:          emptyForm(),
		CurrentStep:   1,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
}

func emptyForm() BookingFormData {
	return BookingFormData{
		JobDetails:      map[string]any{},
		LocationDetails: map[string]any{},
	}
}

// IsFormValid reports whether the form satisfies the current step's
// requirements. Steps 4 and 5 always validate here; their content checks
// live in the consuming layer.
func (s *BookingSession) IsFormValid() bool {
	switch s.CurrentStep {
	case StepSelectService:
		return s.Form.ServiceID != ""
	case StepSelectHandwerker:
		return s.Form.HandwerkerID != ""
	case StepPickDateTime:
		return s.Form.Date != "" && s.Form.TimeSlotID != ""
	case StepJobDetails, StepReview:
		return true
	default:
		return false
	}
}

// CanProceedToNextStep aliases IsFormValid for the current step.
func (s *BookingSession) CanProceedToNextStep() bool {
	return s.IsFormValid()
}

// CanSubmit gates booking creation. TimeSlotID is intentionally not part
// of this guard even though it is concatenated into the start timestamp.
func (s *BookingSession) CanSubmit() bool {
	return s.Form.ServiceID != "" && s.Form.HandwerkerID != "" && s.Form.Date != ""
}

// SetStep moves to the given step; values outside [1,5] are ignored.
func (s *BookingSession) SetStep(step int) {
	if step >= StepSelectService && step <= StepReview {
		s.CurrentStep = step
	}
}

// NextStep advances only while below step 5 and the current step is valid.
func (s *BookingSession) NextStep() {
	if s.CurrentStep < StepReview && s.CanProceedToNextStep() {
		s.CurrentStep++
	}
}

// PrevStep moves back, clamped at step 1.
func (s *BookingSession) PrevStep() {
	if s.CurrentStep > StepSelectService {
		s.CurrentStep--
	}
}

// ApplyUpdate merges the update into the form.
func (s *BookingSession) ApplyUpdate(u BookingFormUpdate) {
	if u.ServiceID != nil {
		s.Form.ServiceID = *u.ServiceID
	}
	if u.HandwerkerID != nil {
		s.Form.HandwerkerID = *u.HandwerkerID
	}
	if u.Date != nil {
		s.Form.Date = *u.Date
	}
	if u.TimeSlotID != nil {
		s.Form.TimeSlotID = *u.TimeSlotID
	}
	if u.JobDetails != nil {
		s.Form.JobDetails = u.JobDetails
	}
	if u.CustomerNotes != nil {
		s.Form.CustomerNotes = *u.CustomerNotes
	}
	if u.LocationDetails != nil {
		s.Form.LocationDetails = u.LocationDetails
	}
}

// AddPhoto stages a photo attachment on the form.
func (s *BookingSession) AddPhoto(p PhotoAttachment) {
	s.Form.Photos = append(s.Form.Photos, p)
}

// Reset clears every form field and returns to step 1.
func (s *BookingSession) Reset() {
	s.Form = emptyForm()
	s.CurrentStep = 1
}
