package appointments

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/agendly/agendly-platform/internal/availability"
	"github.com/agendly/agendly-platform/internal/blackouts"
	"github.com/agendly/agendly-platform/pkg/logging"
)

func newTestService(t *testing.T) (*Service, *InMemoryRepository, *blackouts.InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	blk := blackouts.NewInMemoryRepository()
	svc := NewService(repo, blk, nil, nil, logging.Default())
	return svc, repo, blk
}

func bookingRequest() *CreateAppointmentRequest {
	return &CreateAppointmentRequest{
		OrgID:          "org-1",
		ProfessionalID: 1,
		Date:           "2025-10-25",
		StartTime:      "09:00",
		EndTime:        "10:00",
		CustomerName:   "Maria Lopez",
	}
}

func TestBook_FreeSlot(t *testing.T) {
	svc, _, _ := newTestService(t)

	appt, err := svc.Book(context.Background(), bookingRequest())
	if err != nil {
		t.Fatalf("expected booking to succeed, got %v", err)
	}
	if appt.Status != availability.StatusPending {
		t.Errorf("expected pending status, got %s", appt.Status)
	}
	if appt.Time.Start != "09:00:00" || appt.Time.End != "10:00:00" {
		t.Errorf("expected normalized times, got %+v", appt.Time)
	}
	if !strings.HasPrefix(appt.Code, "APT-") {
		t.Errorf("expected confirmation code, got %q", appt.Code)
	}
}

func TestBook_BlockedByOrganizationalBlackout(t *testing.T) {
	svc, _, blk := newTestService(t)

	if _, err := blk.Create(context.Background(), &blackouts.CreateBlackoutRequest{
		OrgID:     "org-1",
		DateStart: "2025-10-25",
		DateEnd:   "2025-10-25",
		Title:     "Holiday",
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := svc.Book(context.Background(), bookingRequest())

	var unavailable *SlotUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError, got %v", err)
	}
	if unavailable.Reason != "Organizational block: Holiday" {
		t.Errorf("expected staff-level blackout reason, got %q", unavailable.Reason)
	}
}

func TestBook_BlockedByExistingAppointment(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Book(ctx, bookingRequest())
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	req := bookingRequest()
	req.StartTime = "09:30"
	req.EndTime = "10:30"
	req.CustomerName = "Ana Ruiz"
	_, err = svc.Book(ctx, req)

	var unavailable *SlotUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError, got %v", err)
	}
	if !strings.Contains(unavailable.Reason, first.Code) {
		t.Errorf("staff reason should carry the blocking code, got %q", unavailable.Reason)
	}
	if !strings.Contains(unavailable.Reason, "Maria Lopez") {
		t.Errorf("staff reason should carry the customer name, got %q", unavailable.Reason)
	}
}

func TestBook_BackToBackAllowed(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Book(ctx, bookingRequest()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	req := bookingRequest()
	req.StartTime = "10:00"
	req.EndTime = "11:00"
	if _, err := svc.Book(ctx, req); err != nil {
		t.Fatalf("back-to-back booking should succeed, got %v", err)
	}
}

func TestBook_CancelledAppointmentDoesNotBlock(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Book(ctx, bookingRequest())
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if err := svc.Cancel(ctx, "org-1", first.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := svc.Book(ctx, bookingRequest()); err != nil {
		t.Fatalf("slot freed by cancellation should be bookable, got %v", err)
	}
}

func TestBook_OtherProfessionalUnaffected(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Book(ctx, bookingRequest()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	req := bookingRequest()
	req.ProfessionalID = 2
	if _, err := svc.Book(ctx, req); err != nil {
		t.Fatalf("other professional's identical slot should be free, got %v", err)
	}
}

func TestBook_InvalidRequests(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*CreateAppointmentRequest)
		wantErr error
	}{
		{"missing org", func(r *CreateAppointmentRequest) { r.OrgID = "" }, ErrMissingOrgID},
		{"bad professional", func(r *CreateAppointmentRequest) { r.ProfessionalID = 0 }, ErrInvalidProfessional},
		{"bad date", func(r *CreateAppointmentRequest) { r.Date = "25/10/2025" }, ErrInvalidDate},
		{"inverted times", func(r *CreateAppointmentRequest) { r.StartTime, r.EndTime = "10:00", "09:00" }, ErrInvalidTimeRange},
		{"zero-length slot", func(r *CreateAppointmentRequest) { r.EndTime = r.StartTime }, ErrInvalidTimeRange},
		{"malformed time", func(r *CreateAppointmentRequest) { r.StartTime = "9am" }, ErrInvalidTimeRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bookingRequest()
			tt.mutate(req)
			if _, err := svc.Book(ctx, req); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReschedule_ExcludesSelf(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingRequest())
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	// Shifting half an hour overlaps the appointment's own current range and
	// must not be treated as a conflict.
	moved, err := svc.Reschedule(ctx, "org-1", appt.ID, &RescheduleRequest{
		Date:      "2025-10-25",
		StartTime: "09:30",
		EndTime:   "10:30",
	})
	if err != nil {
		t.Fatalf("reschedule into own range should succeed, got %v", err)
	}
	if moved.Time.Start != "09:30:00" {
		t.Errorf("expected updated start, got %s", moved.Time.Start)
	}
}

func TestReschedule_ConflictWithOtherAppointment(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingRequest())
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	other := bookingRequest()
	other.StartTime = "11:00"
	other.EndTime = "12:00"
	if _, err := svc.Book(ctx, other); err != nil {
		t.Fatalf("second booking failed: %v", err)
	}

	_, err = svc.Reschedule(ctx, "org-1", appt.ID, &RescheduleRequest{
		Date:      "2025-10-25",
		StartTime: "11:30",
		EndTime:   "12:30",
	})
	var unavailable *SlotUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError, got %v", err)
	}
}

func TestSetStatus_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingRequest())
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := svc.SetStatus(ctx, "org-1", appt.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if err := svc.SetStatus(ctx, "org-1", appt.ID, availability.StatusConfirmed); err != nil {
		t.Errorf("expected confirm to succeed, got %v", err)
	}
	if err := svc.SetStatus(ctx, "org-2", appt.ID, availability.StatusConfirmed); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected not-found for foreign org, got %v", err)
	}
}

func TestCancel_InvalidatesCalendarCache(t *testing.T) {
	repo := NewInMemoryRepository()
	blk := blackouts.NewInMemoryRepository()
	inv := &recordingInvalidator{}
	svc := NewService(repo, blk, nil, inv, logging.Default())
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingRequest())
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if err := svc.Cancel(ctx, "org-1", appt.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	want := []string{"org-1/2025-10-25", "org-1/2025-10-25"}
	if len(inv.calls) != len(want) {
		t.Fatalf("expected %d invalidations, got %v", len(want), inv.calls)
	}
	for i, c := range inv.calls {
		if c != want[i] {
			t.Errorf("invalidation %d: expected %s, got %s", i, want[i], c)
		}
	}
}

type recordingInvalidator struct {
	calls []string
}

func (r *recordingInvalidator) InvalidateDay(ctx context.Context, orgID, date string) error {
	r.calls = append(r.calls, orgID+"/"+date)
	return nil
}

func TestBook_RescheduleAcrossDays(t *testing.T) {
	repo := NewInMemoryRepository()
	blk := blackouts.NewInMemoryRepository()
	inv := &recordingInvalidator{}
	svc := NewService(repo, blk, nil, inv, logging.Default())
	ctx := context.Background()

	appt, err := svc.Book(ctx, bookingRequest())
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if _, err := svc.Reschedule(ctx, "org-1", appt.ID, &RescheduleRequest{
		Date:      "2025-10-26",
		StartTime: "09:00",
		EndTime:   "10:00",
	}); err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}

	// Both the old and the new day must be dropped from cache.
	joined := strings.Join(inv.calls, ",")
	if !strings.Contains(joined, "org-1/2025-10-25") || !strings.Contains(joined, "org-1/2025-10-26") {
		t.Errorf("expected both days invalidated, got %v", inv.calls)
	}

	got, err := repo.GetForOrg(ctx, "org-1", appt.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Date != "2025-10-26" {
		t.Errorf("expected stored date moved, got %s", got.Date)
	}
}

func TestValidateSlot_ProfessionalScopedBlackout(t *testing.T) {
	svc, _, blk := newTestService(t)
	ctx := context.Background()

	prof := int64(1)
	hs, he := "14:00", "16:00"
	if _, err := blk.Create(ctx, &blackouts.CreateBlackoutRequest{
		OrgID:          "org-1",
		ProfessionalID: &prof,
		DateStart:      "2025-10-25",
		DateEnd:        "2025-10-25",
		HoursStart:     &hs,
		HoursEnd:       &he,
		Title:          "Training",
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	blocked := availability.CandidateSlot{
		ProfessionalID: 1,
		Date:           "2025-10-25",
		Time:           availability.TimeRange{Start: "15:00:00", End: "15:30:00"},
	}
	err := svc.ValidateSlot(ctx, "org-1", blocked, uuid.Nil)
	var unavailable *SlotUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SlotUnavailableError, got %v", err)
	}
	if unavailable.Reason != "Professional's block: Training" {
		t.Errorf("unexpected reason %q", unavailable.Reason)
	}

	// Same window, different professional: free.
	free := blocked
	free.ProfessionalID = 2
	if err := svc.ValidateSlot(ctx, "org-1", free, uuid.Nil); err != nil {
		t.Errorf("other professional should be free, got %v", err)
	}

	// Same professional, outside the blocked hours: free.
	free = blocked
	free.Time = availability.TimeRange{Start: "16:00:00", End: "17:00:00"}
	if err := svc.ValidateSlot(ctx, "org-1", free, uuid.Nil); err != nil {
		t.Errorf("slot touching the blackout end should be free, got %v", err)
	}
}
