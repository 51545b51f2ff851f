package booking

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"handwerk/models"
	"handwerk/services/tasks"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

type fakeBookingRepo struct {
	inserted   []*models.Booking
	byID       map[string]*models.Booking
	statuses   map[string]string
	customer   []models.Booking
	handwerker []models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: map[string]*models.Booking{}, statuses: map[string]string{}}
}

func (r *fakeBookingRepo) Insert(b *models.Booking) error {
	r.inserted = append(r.inserted, b)
	r.byID[b.ID] = b
	return nil
}

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

func (r *fakeBookingRepo) UpdateStatus(id, status string) error {
	r.statuses[id] = status
	if b, ok := r.byID[id]; ok {
		b.Status = status
	}
	return nil
}

func (r *fakeBookingRepo) ListByCustomer(customerID string) ([]models.Booking, error) {
	return r.customer, nil
}

func (r *fakeBookingRepo) ListByHandwerker(handwerkerID string) ([]models.Booking, error) {
	return r.handwerker, nil
}

type fakePhotoRepo struct {
	inserted  []*models.BookingPhoto
	insertErr error
}

func (r *fakePhotoRepo) Insert(p *models.BookingPhoto) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, p)
	return nil
}

func (r *fakePhotoRepo) ListByBooking(bookingID string) ([]models.BookingPhoto, error) {
	var out []models.BookingPhoto
	for _, p := range r.inserted {
		if p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeServiceRepo struct {
	services map[string]*models.HandwerkerService
}

func (r *fakeServiceRepo) GetByID(id string) (*models.HandwerkerService, error) {
	return r.services[id], nil
}

func (r *fakeServiceRepo) ListActive() ([]models.HandwerkerService, error) { return nil, nil }

func (r *fakeServiceRepo) ListByHandwerker(handwerkerID string) ([]models.HandwerkerService, error) {
	return nil, nil
}

type fakeStorage struct {
	uploaded  []string
	uploadErr error
}

func (s *fakeStorage) Upload(ctx context.Context, localFilePath, publicID string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploaded = append(s.uploaded, publicID)
	return "https://cdn.example.com/" + publicID, nil
}

func (s *fakeStorage) Delete(ctx context.Context, publicID string) error { return nil }

func (s *fakeStorage) URL(publicID string) (string, error) {
	return "https://cdn.example.com/" + publicID, nil
}

func newTestService(t *testing.T) (*DefaultBookingService, *fakeBookingRepo, *fakePhotoRepo, *fakeStorage) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := newFakeBookingRepo()
	photos := &fakePhotoRepo{}
	store := &fakeStorage{}
	svc := &DefaultBookingService{
		Repo:   repo,
		Photos: photos,
		Services: &fakeServiceRepo{services: map[string]*models.HandwerkerService{
			"svc-1": {ID: "svc-1", HandwerkerID: "hw-1", PriceAmount: 120, Active: true},
		}},
		Storage: store,
		Cache:   cache,
	}
	return svc, repo, photos, store
}

func filledSession(t *testing.T, svc *DefaultBookingService, userID string) *models.BookingSession {
	t.Helper()
	ctx := context.Background()
	sess, err := svc.StartFormSession(ctx, userID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	serviceID, handwerkerID := "svc-1", "hw-1"
	date, slot := "2026-09-15", "09:00"
	_, err = svc.UpdateForm(ctx, userID, sess.ID, models.BookingFormUpdate{
		ServiceID:    &serviceID,
		HandwerkerID: &handwerkerID,
		Date:         &date,
		TimeSlotID:   &slot,
	})
	if err != nil {
		t.Fatalf("update form: %v", err)
	}
	return sess
}

func TestCreateBookingComposesStartTime(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()
	sess := filledSession(t, svc, "cust-1")

	result := svc.CreateBooking(ctx, "cust-1", sess.ID)
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected one inserted booking, got %d", len(repo.inserted))
	}

	b := repo.inserted[0]
	if b.BookingTimeStart != "2026-09-15T09:00" {
		t.Fatalf("unexpected start time %q", b.BookingTimeStart)
	}
	if b.Status != models.StatusPendingConfirmation {
		t.Fatalf("unexpected status %q", b.Status)
	}
	if b.TotalPrice != 120 {
		t.Fatalf("expected price from offering, got %v", b.TotalPrice)
	}

	// The form resets after a successful submission.
	after, err := svc.GetFormSession(ctx, "cust-1", sess.ID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if after.Form.ServiceID != "" || after.CurrentStep != models.StepSelectService {
		t.Fatalf("form not reset: %+v", after)
	}
}

func TestCreateBookingRequiresCompleteForm(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartFormSession(ctx, "cust-1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	serviceID := "svc-1"
	if _, err := svc.UpdateForm(ctx, "cust-1", sess.ID, models.BookingFormUpdate{ServiceID: &serviceID}); err != nil {
		t.Fatalf("update form: %v", err)
	}

	result := svc.CreateBooking(ctx, "cust-1", sess.ID)
	if result.Success {
		t.Fatal("expected failure on incomplete form")
	}
	if result.Error != ErrIncompleteForm.Error() {
		t.Fatalf("unexpected error %q", result.Error)
	}
	if len(repo.inserted) != 0 {
		t.Fatal("booking inserted despite incomplete form")
	}
}

func TestCreateBookingSurvivesPhotoFailures(t *testing.T) {
	svc, repo, _, store := newTestService(t)
	store.uploadErr = errors.New("bucket unavailable")
	ctx := context.Background()

	sess := filledSession(t, svc, "cust-1")
	if _, err := svc.AddPhoto(ctx, "cust-1", sess.ID, models.PhotoAttachment{FileName: "a.jpg", LocalPath: "/tmp/a.jpg"}); err != nil {
		t.Fatalf("add photo: %v", err)
	}
	if _, err := svc.AddPhoto(ctx, "cust-1", sess.ID, models.PhotoAttachment{FileName: "b.jpg", LocalPath: "/tmp/b.jpg"}); err != nil {
		t.Fatalf("add photo: %v", err)
	}

	result := svc.CreateBooking(ctx, "cust-1", sess.ID)
	if !result.Success {
		t.Fatalf("photo failures must not fail the booking: %q", result.Error)
	}
	if len(result.PhotoUploadFailures) != 2 {
		t.Fatalf("expected 2 reported failures, got %d", len(result.PhotoUploadFailures))
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected the booking to be inserted, got %d", len(repo.inserted))
	}
}

func TestFormSessionOwnership(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartFormSession(ctx, "cust-1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	if _, err := svc.GetFormSession(ctx, "cust-2", sess.ID); err != ErrSessionOwnership {
		t.Fatalf("expected ownership error, got %v", err)
	}
	if _, err := svc.GetFormSession(ctx, "cust-1", "no-such-session"); err != ErrSessionNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestFetchBookingDetailsPermission(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	own := &models.Booking{ID: "bk-1", CustomerID: "cust-1", HandwerkerID: "hw-1"}
	foreign := &models.Booking{ID: "bk-2", CustomerID: "cust-9", HandwerkerID: "hw-9"}
	repo.byID["bk-1"] = own
	repo.byID["bk-2"] = foreign

	if _, err := svc.FetchBookingDetails(ctx, "cust-1", "bk-1"); err != nil {
		t.Fatalf("participant fetch failed: %v", err)
	}
	selected := svc.SelectedBooking()
	if selected == nil || selected.ID != "bk-1" {
		t.Fatalf("selected booking not set: %+v", selected)
	}

	if _, err := svc.FetchBookingDetails(ctx, "cust-1", "bk-2"); err != ErrPermissionDenied {
		t.Fatalf("expected permission denial, got %v", err)
	}
	// The denied fetch leaves the previous selection in place.
	selected = svc.SelectedBooking()
	if selected == nil || selected.ID != "bk-1" {
		t.Fatalf("selection changed after denied fetch: %+v", selected)
	}
}

func TestCancelBookingNeverPersistsReason(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	repo.byID["bk-1"] = &models.Booking{ID: "bk-1", CustomerID: "cust-1", HandwerkerID: "hw-1", Status: models.StatusConfirmed}

	if err := svc.CancelBooking(ctx, "cust-1", "bk-1", "double booked"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got := repo.statuses["bk-1"]; got != models.StatusCanceledByCustomer {
		t.Fatalf("unexpected status %q", got)
	}

	b := repo.byID["bk-1"]
	if b.CustomerNotes != "" {
		t.Fatalf("reason leaked into record: %q", b.CustomerNotes)
	}
	for k := range b.JobDetails {
		if k == "reason" || k == "cancel_reason" {
			t.Fatalf("reason leaked into job details under %q", k)
		}
	}
}

func TestStatusFilters(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	repo.customer = []models.Booking{
		{ID: "b1", Status: models.StatusPendingConfirmation},
		{ID: "b2", Status: models.StatusConfirmed},
		{ID: "b3", Status: models.StatusInProgress},
		{ID: "b4", Status: models.StatusCompleted},
		{ID: "b5", Status: models.StatusCanceledByCustomer},
	}
	repo.handwerker = repo.customer

	if _, err := svc.FetchCustomerBookings(ctx, "cust-1"); err != nil {
		t.Fatalf("fetch bookings: %v", err)
	}
	if _, err := svc.FetchHandwerkerJobs(ctx, "hw-1"); err != nil {
		t.Fatalf("fetch jobs: %v", err)
	}

	if got := svc.PendingBookings(); len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("pending bookings: %+v", got)
	}
	// Confirmed view folds in in-progress work.
	if got := svc.ConfirmedBookings(); len(got) != 2 {
		t.Fatalf("confirmed bookings: %+v", got)
	}
	if got := svc.CompletedBookings(); len(got) != 1 || got[0].ID != "b4" {
		t.Fatalf("completed bookings: %+v", got)
	}

	if got := svc.UpcomingJobs(); len(got) != 1 || got[0].ID != "b2" {
		t.Fatalf("upcoming jobs: %+v", got)
	}
	if got := svc.InProgressJobs(); len(got) != 1 || got[0].ID != "b3" {
		t.Fatalf("in-progress jobs: %+v", got)
	}
}

type fakeScheduler struct {
	enqueued []*asynq.Task
}

func (f *fakeScheduler) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.enqueued = append(f.enqueued, task)
	return &asynq.TaskInfo{}, nil
}

func stagedFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("jpeg bytes"), 0o600); err != nil {
		t.Fatalf("write staged file: %v", err)
	}
	return path
}

func TestCreateBookingRemovesStagedFiles(t *testing.T) {
	svc, _, photos, _ := newTestService(t)
	ctx := context.Background()
	dir := t.TempDir()

	sess := filledSession(t, svc, "cust-1")
	pathA := stagedFile(t, dir, "a.jpg")
	pathB := stagedFile(t, dir, "b.jpg")
	if _, err := svc.AddPhoto(ctx, "cust-1", sess.ID, models.PhotoAttachment{FileName: "a.jpg", LocalPath: pathA}); err != nil {
		t.Fatalf("add photo: %v", err)
	}
	if _, err := svc.AddPhoto(ctx, "cust-1", sess.ID, models.PhotoAttachment{FileName: "b.jpg", LocalPath: pathB}); err != nil {
		t.Fatalf("add photo: %v", err)
	}

	result := svc.CreateBooking(ctx, "cust-1", sess.ID)
	if !result.Success {
		t.Fatalf("create booking: %q", result.Error)
	}
	if len(photos.inserted) != 2 {
		t.Fatalf("expected 2 photo rows, got %d", len(photos.inserted))
	}

	for _, path := range []string{pathA, pathB} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("staged file %s still present after upload (err=%v)", path, err)
		}
	}
}

func TestCreateBookingRemovesStagedFilesOnUploadFailure(t *testing.T) {
	svc, _, _, store := newTestService(t)
	store.uploadErr = errors.New("bucket unavailable")
	ctx := context.Background()
	dir := t.TempDir()

	sess := filledSession(t, svc, "cust-1")
	path := stagedFile(t, dir, "a.jpg")
	if _, err := svc.AddPhoto(ctx, "cust-1", sess.ID, models.PhotoAttachment{FileName: "a.jpg", LocalPath: path}); err != nil {
		t.Fatalf("add photo: %v", err)
	}

	result := svc.CreateBooking(ctx, "cust-1", sess.ID)
	if !result.Success {
		t.Fatalf("photo failures must not fail the booking: %q", result.Error)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("staged file %s still present after failed upload (err=%v)", path, err)
	}
}

func TestResetFormRemovesStagedFiles(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	dir := t.TempDir()

	sess := filledSession(t, svc, "cust-1")
	path := stagedFile(t, dir, "a.jpg")
	if _, err := svc.AddPhoto(ctx, "cust-1", sess.ID, models.PhotoAttachment{FileName: "a.jpg", LocalPath: path}); err != nil {
		t.Fatalf("add photo: %v", err)
	}

	if _, err := svc.ResetForm(ctx, "cust-1", sess.ID); err != nil {
		t.Fatalf("reset form: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("staged file %s still present after reset (err=%v)", path, err)
	}
}

func TestConfirmationSchedulesReminder(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	sched := &fakeScheduler{}
	svc.Queue = sched
	ctx := context.Background()

	start := time.Now().Add(72 * time.Hour).Format("2006-01-02T15:04")
	repo.byID["bk-1"] = &models.Booking{
		ID: "bk-1", CustomerID: "cust-1", HandwerkerID: "hw-1",
		Status: models.StatusPendingConfirmation, BookingTimeStart: start,
	}

	if err := svc.UpdateBookingStatus(ctx, "hw-1", "bk-1", models.StatusConfirmed); err != nil {
		t.Fatalf("confirm booking: %v", err)
	}
	if len(sched.enqueued) != 1 {
		t.Fatalf("expected one reminder task, got %d", len(sched.enqueued))
	}
	task := sched.enqueued[0]
	if task.Type() != tasks.TypeSendReminder {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	var payload models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.BookingID != "bk-1" || payload.StartsAt != start {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestNoReminderForImminentBooking(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	sched := &fakeScheduler{}
	svc.Queue = sched
	ctx := context.Background()

	// Less than a day out, so the reminder moment has already passed.
	start := time.Now().Add(2 * time.Hour).Format("2006-01-02T15:04")
	repo.byID["bk-1"] = &models.Booking{
		ID: "bk-1", CustomerID: "cust-1", HandwerkerID: "hw-1",
		Status: models.StatusPendingConfirmation, BookingTimeStart: start,
	}

	if err := svc.UpdateBookingStatus(ctx, "hw-1", "bk-1", models.StatusConfirmed); err != nil {
		t.Fatalf("confirm booking: %v", err)
	}
	if len(sched.enqueued) != 0 {
		t.Fatalf("expected no reminder, got %d", len(sched.enqueued))
	}
}

func TestActionsRequireAuthentication(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.FetchCustomerBookings(ctx, ""); err != ErrNotAuthenticated {
		t.Fatalf("expected auth error, got %v", err)
	}
	if _, err := svc.StartFormSession(ctx, ""); err != ErrNotAuthenticated {
		t.Fatalf("expected auth error, got %v", err)
	}
	if result := svc.CreateBooking(ctx, "", "any"); result.Success {
		t.Fatal("expected unauthenticated creation to fail")
	}
}
