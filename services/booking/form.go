package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"handwerk/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const formSessionPrefix = "bookingForm:"

func (s *DefaultBookingService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 30 * time.Minute
}

// StartFormSession creates an empty form session at step 1 and caches it.
func (s *DefaultBookingService) StartFormSession(ctx context.Context, userID string) (*models.BookingSession, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	session := models.NewBookingSession(uuid.New().String(), userID)
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetFormSession loads a cached form session owned by the caller.
func (s *DefaultBookingService) GetFormSession(ctx context.Context, userID, sessionID string) (*models.BookingSession, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	data, err := s.Cache.Get(ctx, formSessionPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrSessionOwnership
	}
	return &session, nil
}

func (s *DefaultBookingService) saveSession(ctx context.Context, session *models.BookingSession) error {
	session.LastUpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Cache.Set(ctx, formSessionPrefix+session.ID, data, s.sessionTTL()).Err(); err != nil {
		return fmt.Errorf("failed to cache booking session: %w", err)
	}
	return nil
}

// mutateSession loads, mutates and re-saves a form session.
func (s *DefaultBookingService) mutateSession(ctx context.Context, userID, sessionID string, fn func(*models.BookingSession)) (*models.BookingSession, error) {
	session, err := s.GetFormSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	fn(session)
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateForm merges partial form data into the session.
func (s *DefaultBookingService) UpdateForm(ctx context.Context, userID, sessionID string, update models.BookingFormUpdate) (*models.BookingSession, error) {
	return s.mutateSession(ctx, userID, sessionID, func(sess *models.BookingSession) {
		sess.ApplyUpdate(update)
	})
}

// SetStep moves to a step; out-of-range values leave the session as-is.
func (s *DefaultBookingService) SetStep(ctx context.Context, userID, sessionID string, step int) (*models.BookingSession, error) {
	return s.mutateSession(ctx, userID, sessionID, func(sess *models.BookingSession) {
		sess.SetStep(step)
	})
}

// NextStep advances when the current step validates. A blocked advance is
// not an error; callers re-check the returned step.
func (s *DefaultBookingService) NextStep(ctx context.Context, userID, sessionID string) (*models.BookingSession, error) {
	return s.mutateSession(ctx, userID, sessionID, func(sess *models.BookingSession) {
		sess.NextStep()
	})
}

// PrevStep moves back one step, clamped at 1.
func (s *DefaultBookingService) PrevStep(ctx context.Context, userID, sessionID string) (*models.BookingSession, error) {
	return s.mutateSession(ctx, userID, sessionID, func(sess *models.BookingSession) {
		sess.PrevStep()
	})
}

// AddPhoto stages a photo attachment on the form.
func (s *DefaultBookingService) AddPhoto(ctx context.Context, userID, sessionID string, photo models.PhotoAttachment) (*models.BookingSession, error) {
	return s.mutateSession(ctx, userID, sessionID, func(sess *models.BookingSession) {
		sess.AddPhoto(photo)
	})
}

// ResetForm clears the form and returns to step 1. Staged photo files
// are removed from scratch storage along with it.
func (s *DefaultBookingService) ResetForm(ctx context.Context, userID, sessionID string) (*models.BookingSession, error) {
	return s.mutateSession(ctx, userID, sessionID, func(sess *models.BookingSession) {
		removeStagedPhotos(sess.Form.Photos)
		sess.Reset()
	})
}
