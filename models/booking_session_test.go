package models

import "testing"

func strPtr(s string) *string { return &s }

func TestNewBookingSessionStartsAtStepOne(t *testing.T) {
	s := NewBookingSession("sess-1", "user-1")
	if s.CurrentStep != StepSelectService {
		t.Fatalf("expected step 1, got %d", s.CurrentStep)
	}
	if s.Form.ServiceID != "" || s.Form.HandwerkerID != "" || len(s.Form.Photos) != 0 {
		t.Fatalf("expected empty form, got %+v", s.Form)
	}
}

func TestStepValidation(t *testing.T) {
	s := NewBookingSession("sess-1", "user-1")

	// Step 1 validity depends only on the service selection.
	if s.IsFormValid() {
		t.Fatal("step 1 should be invalid without a service")
	}
	s.ApplyUpdate(BookingFormUpdate{ServiceID: strPtr("svc-1")})
	if !s.IsFormValid() {
		t.Fatal("step 1 should be valid with a service")
	}

	s.SetStep(StepSelectHandwerker)
	if s.IsFormValid() {
		t.Fatal("step 2 should be invalid without a handwerker")
	}
	s.ApplyUpdate(BookingFormUpdate{HandwerkerID: strPtr("hw-1")})
	if !s.IsFormValid() {
		t.Fatal("step 2 should be valid with a handwerker")
	}

	s.SetStep(StepPickDateTime)
	s.ApplyUpdate(BookingFormUpdate{Date: strPtr("2026-09-15")})
	if s.IsFormValid() {
		t.Fatal("step 3 should require both date and time slot")
	}
	s.ApplyUpdate(BookingFormUpdate{TimeSlotID: strPtr("09:00")})
	if !s.IsFormValid() {
		t.Fatal("step 3 should be valid with date and time slot")
	}

	// Steps 4 and 5 carry no presence requirements here.
	s.SetStep(StepJobDetails)
	if !s.IsFormValid() {
		t.Fatal("step 4 should always be valid")
	}
	s.SetStep(StepReview)
	if !s.IsFormValid() {
		t.Fatal("step 5 should always be valid")
	}
}

func TestSetStepIgnoresOutOfRange(t *testing.T) {
	s := NewBookingSession("sess-1", "user-1")
	s.SetStep(StepPickDateTime)

	s.SetStep(0)
	if s.CurrentStep != StepPickDateTime {
		t.Fatalf("step changed on out-of-range value: %d", s.CurrentStep)
	}
	s.SetStep(6)
	if s.CurrentStep != StepPickDateTime {
		t.Fatalf("step changed on out-of-range value: %d", s.CurrentStep)
	}
}

func TestNextStepRequiresValidity(t *testing.T) {
	s := NewBookingSession("sess-1", "user-1")

	s.NextStep()
	if s.CurrentStep != StepSelectService {
		t.Fatalf("advanced past an invalid step, now at %d", s.CurrentStep)
	}

	s.ApplyUpdate(BookingFormUpdate{ServiceID: strPtr("svc-1")})
	s.NextStep()
	if s.CurrentStep != StepSelectHandwerker {
		t.Fatalf("expected step 2, got %d", s.CurrentStep)
	}

	// Never advances past the last step.
	s.SetStep(StepReview)
	s.NextStep()
	if s.CurrentStep != StepReview {
		t.Fatalf("advanced past the last step, now at %d", s.CurrentStep)
	}
}

func TestPrevStepClampsAtOne(t *testing.T) {
	s := NewBookingSession("sess-1", "user-1")
	s.PrevStep()
	if s.CurrentStep != StepSelectService {
		t.Fatalf("expected clamp at step 1, got %d", s.CurrentStep)
	}

	s.SetStep(StepPickDateTime)
	s.PrevStep()
	if s.CurrentStep != StepSelectHandwerker {
		t.Fatalf("expected step 2, got %d", s.CurrentStep)
	}
}

func TestNextThenPrevRestoresStep(t *testing.T) {
	s := NewBookingSession("sess-1", "user-1")
	s.ApplyUpdate(BookingFormUpdate{ServiceID: strPtr("svc-1")})

	s.NextStep()
	s.PrevStep()
	if s.CurrentStep != StepSelectService {
		t.Fatalf("expected to return to step 1, got %d", s.CurrentStep)
	}
}

func TestCanSubmitDoesNotRequireTimeSlot(t *testing.T) {
	s := NewBookingSession("sess-1", "user-1")
	s.ApplyUpdate(BookingFormUpdate{
		ServiceID:    strPtr("svc-1"),
		HandwerkerID: strPtr("hw-1"),
		Date:         strPtr("2026-09-15"),
	})
	if !s.CanSubmit() {
		t.Fatal("expected submittable without a time slot")
	}

	empty := ""
	s.ApplyUpdate(BookingFormUpdate{Date: &empty})
	if s.CanSubmit() {
		t.Fatal("expected not submittable without a date")
	}
}

func TestResetClearsFormAndStep(t *testing.T) {
	s := NewBookingSession("sess-1", "user-1")
	s.ApplyUpdate(BookingFormUpdate{
		ServiceID:     strPtr("svc-1"),
		HandwerkerID:  strPtr("hw-1"),
		Date:          strPtr("2026-09-15"),
		TimeSlotID:    strPtr("09:00"),
		CustomerNotes: strPtr("ring twice"),
	})
	s.AddPhoto(PhotoAttachment{FileName: "door.jpg", LocalPath: "/tmp/door.jpg"})
	s.SetStep(StepReview)

	s.Reset()
	if s.CurrentStep != StepSelectService {
		t.Fatalf("expected step 1 after reset, got %d", s.CurrentStep)
	}
	if s.Form.ServiceID != "" || s.Form.Date != "" || len(s.Form.Photos) != 0 {
		t.Fatalf("form not cleared: %+v", s.Form)
	}
}

func TestApplyUpdateLeavesUntouchedFields(t *testing.T) {
	s := NewBookingSession("sess-1", "user-1")
	s.ApplyUpdate(BookingFormUpdate{ServiceID: strPtr("svc-1"), Date: strPtr("2026-09-15")})
	s.ApplyUpdate(BookingFormUpdate{HandwerkerID: strPtr("hw-1")})

	if s.Form.ServiceID != "svc-1" || s.Form.Date != "2026-09-15" {
		t.Fatalf("partial update clobbered other fields: %+v", s.Form)
	}
	if s.Form.HandwerkerID != "hw-1" {
		t.Fatalf("update not applied: %+v", s.Form)
	}
}
