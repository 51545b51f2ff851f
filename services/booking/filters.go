package booking

import "handwerk/models"

// Derived views over the cached lists. Each returns a fresh slice so
// callers can't mutate the container state.

func (s *DefaultBookingService) PendingBookings() []models.Booking {
	return s.filterCustomer(models.StatusPendingConfirmation)
}

// ConfirmedBookings covers everything the customer still has ahead of
// them: confirmed and already-started work.
func (s *DefaultBookingService) ConfirmedBookings() []models.Booking {
	return s.filterCustomer(models.StatusConfirmed, models.StatusInProgress)
}

func (s *DefaultBookingService) CompletedBookings() []models.Booking {
	return s.filterCustomer(models.StatusCompleted)
}

func (s *DefaultBookingService) PendingJobs() []models.Booking {
	return s.filterHandwerker(models.StatusPendingConfirmation)
}

func (s *DefaultBookingService) UpcomingJobs() []models.Booking {
	return s.filterHandwerker(models.StatusConfirmed)
}

func (s *DefaultBookingService) InProgressJobs() []models.Booking {
	return s.filterHandwerker(models.StatusInProgress)
}

func (s *DefaultBookingService) CompletedJobs() []models.Booking {
	return s.filterHandwerker(models.StatusCompleted)
}

func (s *DefaultBookingService) filterCustomer(statuses ...string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterByStatus(s.customerBookings, statuses)
}

func (s *DefaultBookingService) filterHandwerker(statuses ...string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterByStatus(s.handwerkerJobs, statuses)
}

func filterByStatus(in []models.Booking, statuses []string) []models.Booking {
	out := make([]models.Booking, 0, len(in))
	for _, b := range in {
		for _, st := range statuses {
			if b.Status == st {
				out = append(out, b)
				break
			}
		}
	}
	return out
}