package payment

import (
	"context"
	"errors"
	"testing"

	"handwerk/models"
)

type fakeBookingRepo struct {
	byID map[string]*models.Booking
}

func (r *fakeBookingRepo) Insert(b *models.Booking) error { return nil }

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, errors.New("booking not found")
	}
	return b, nil
}

func (r *fakeBookingRepo) GetByIDDetailed(id string) (*models.Booking, error) {
	return r.GetByID(id)
}

func (r *fakeBookingRepo) UpdateStatus(id, status string) error { return nil }

func (r *fakeBookingRepo) ListByCustomer(customerID string) ([]models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) ListByHandwerker(handwerkerID string) ([]models.Booking, error) {
	return nil, nil
}

type fakePaymentRepo struct {
	rows []models.Payment
}

func (r *fakePaymentRepo) Insert(p *models.Payment) error { return nil }

func (r *fakePaymentRepo) ListByBooking(bookingID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.rows {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) UpdateStatus(id, status string) error { return nil }

func TestListBookingPaymentsParticipantsOnly(t *testing.T) {
	bookings := &fakeBookingRepo{byID: map[string]*models.Booking{
		"bk-1": {ID: "bk-1", CustomerID: "cust-1", HandwerkerID: "hw-1"},
	}}
	payments := &fakePaymentRepo{rows: []models.Payment{
		{ID: "pay-1", BookingID: "bk-1", Amount: 24, PaymentType: PaymentTypeDeposit},
	}}
	svc := &DefaultPaymentService{Bookings: bookings, Payments: payments}
	ctx := context.Background()

	got, err := svc.ListBookingPayments(ctx, "cust-1", "bk-1")
	if err != nil {
		t.Fatalf("customer listing failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "pay-1" {
		t.Fatalf("unexpected rows: %+v", got)
	}

	if _, err := svc.ListBookingPayments(ctx, "hw-1", "bk-1"); err != nil {
		t.Fatalf("handwerker listing failed: %v", err)
	}

	// Any other authenticated user is rejected without seeing the rows.
	if _, err := svc.ListBookingPayments(ctx, "cust-9", "bk-1"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected participant rejection, got %v", err)
	}

	if _, err := svc.ListBookingPayments(ctx, "cust-1", "no-such-booking"); err == nil {
		t.Fatal("expected error for unknown booking")
	}
}
