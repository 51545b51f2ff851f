package booking

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"handwerk/models"
	"handwerk/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// uploadBookingPhotos pushes each staged file to storage concurrently.
// A failed upload never fails the booking; it is logged and reported
// back in the result.
func (s *DefaultBookingService) uploadBookingPhotos(ctx context.Context, userID, bookingID string, photos []models.PhotoAttachment) []PhotoUploadFailure {
	logger := utils.GetLogger()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []PhotoUploadFailure
	)

	for i, photo := range photos {
		wg.Add(1)
		go func(idx int, p models.PhotoAttachment) {
			defer wg.Done()
			// The scratch copy is spent either way once the attempt is
			// over; the form resets after submission, so no retry reads it.
			defer removeStagedPhoto(p)

			publicID := fmt.Sprintf("bookings/%s/%d_%d_%s",
				bookingID, time.Now().UnixMilli(), idx, sanitizeFileName(p.FileName))

			if _, err := s.Storage.Upload(ctx, p.LocalPath, publicID); err != nil {
				logger.Warn("booking photo upload failed",
					zap.String("bookingId", bookingID),
					zap.String("file", p.FileName),
					zap.Error(err))
				mu.Lock()
				failures = append(failures, PhotoUploadFailure{FileName: p.FileName, Reason: err.Error()})
				mu.Unlock()
				return
			}

			row := models.BookingPhoto{
				ID:          uuid.New().String(),
				BookingID:   bookingID,
				StoragePath: publicID,
				UploadedBy:  userID,
				PhotoType:   models.PhotoTypeJobDetails,
				CreatedAt:   time.Now(),
			}
			if err := s.Photos.Insert(&row); err != nil {
				logger.Warn("booking photo record insert failed",
					zap.String("bookingId", bookingID),
					zap.String("file", p.FileName),
					zap.Error(err))
				mu.Lock()
				failures = append(failures, PhotoUploadFailure{FileName: p.FileName, Reason: err.Error()})
				mu.Unlock()
			}
		}(i, photo)
	}
	wg.Wait()
	return failures
}

func removeStagedPhoto(p models.PhotoAttachment) {
	if p.LocalPath != "" {
		_ = os.Remove(p.LocalPath)
	}
}

// removeStagedPhotos clears scratch copies that can no longer be submitted.
func removeStagedPhotos(photos []models.PhotoAttachment) {
	for _, p := range photos {
		removeStagedPhoto(p)
	}
}

// sanitizeFileName strips path separators and spaces so the name is safe
// inside a storage public ID.
func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', '#', '?', '%':
			return '_'
		}
		return r
	}, base)
}
