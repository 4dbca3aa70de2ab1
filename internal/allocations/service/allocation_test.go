package service

import (
	"context"
	"io"
	"testing"
	"time"

	"campusalloc/internal/allocations/core"
	allocerrors "campusalloc/internal/allocations/errors"
	"campusalloc/internal/allocations/repository"
	"campusalloc/internal/allocations/validator"
	"campusalloc/pkg/config"
	apperrors "campusalloc/pkg/errors"
	"campusalloc/pkg/kafka"
	"campusalloc/pkg/logger"
	"campusalloc/pkg/model"
)

type mockDirectory struct {
	GetUserFunc     func(ctx context.Context, id string) (*model.User, error)
	GetResourceFunc func(ctx context.Context, id string) (*model.Resource, error)
}

func (m *mockDirectory) GetUser(ctx context.Context, id string) (*model.User, error) {
	return m.GetUserFunc(ctx, id)
}

func (m *mockDirectory) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	return m.GetResourceFunc(ctx, id)
}

type mockSnapshotRepo struct {
	SaveFunc       func(ctx context.Context, snap *model.Snapshot) error
	LoadLatestFunc func(ctx context.Context) (*model.Snapshot, error)
}

func (m *mockSnapshotRepo) Save(ctx context.Context, snap *model.Snapshot) error {
	return m.SaveFunc(ctx, snap)
}

func (m *mockSnapshotRepo) LoadLatest(ctx context.Context) (*model.Snapshot, error) {
	return m.LoadLatestFunc(ctx)
}

type capturingPublisher struct {
	messages []kafka.Message
}

func (p *capturingPublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func knownDirectory() *mockDirectory {
	return &mockDirectory{
		GetUserFunc: func(_ context.Context, id string) (*model.User, error) {
			switch id {
			case "prof-1":
				return &model.User{ID: id, Role: model.RoleFaculty}, nil
			case "student-1", "student-2":
				return &model.User{ID: id, Role: model.RoleStudent}, nil
			default:
				return nil, apperrors.NotFoundWithID("User", id)
			}
		},
		GetResourceFunc: func(_ context.Context, id string) (*model.Resource, error) {
			if id == "lab-1" {
				return &model.Resource{ID: id, Name: "Chemistry Lab"}, nil
			}
			return nil, apperrors.NotFoundWithID("Resource", id)
		},
	}
}

func newTestService(t *testing.T, dir Directory, repo repository.SnapshotRepository, events EventPublisher) AllocationService {
	t.Helper()
	cfg := &config.Config{
		MaxBookingDuration: 12 * time.Hour,
		BookingHorizon:     90 * 24 * time.Hour,
		Log:                logger.New(logger.Config{Output: io.Discard}),
	}
	return NewAllocationService(
		core.NewEngine(nil),
		dir,
		repo,
		validator.NewSubmitValidator(cfg.Log, cfg),
		events,
		cfg,
	)
}

func futureSlot() (time.Time, time.Time) {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	return start, start.Add(2 * time.Hour)
}

func TestSubmitConfirmsAndPublishes(t *testing.T) {
	events := &capturingPublisher{}
	svc := newTestService(t, knownDirectory(), &mockSnapshotRepo{}, events)

	start, end := futureSlot()
	out, err := svc.Submit(context.Background(), &model.SubmitRequest{
		RequesterID: "student-1",
		ResourceID:  "lab-1",
		StartTime:   start,
		EndTime:     end,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Status != model.StatusConfirmed || out.BookingID == "" {
		t.Fatalf("outcome = %+v", out)
	}

	if len(events.messages) != 1 {
		t.Fatalf("published %d events, want 1", len(events.messages))
	}
	msg := events.messages[0]
	if msg.GetEventType() != EventBookingConfirmed {
		t.Errorf("event type = %s, want %s", msg.GetEventType(), EventBookingConfirmed)
	}
	if msg.Key != "lab-1" {
		t.Errorf("event key = %s, want lab-1", msg.Key)
	}

	var event AllocationEvent
	if err := msg.DecodeValue(&event); err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if event.BookingID != out.BookingID || event.RequesterID != "student-1" {
		t.Errorf("event payload = %+v", event)
	}
}

func TestSubmitPreemptionPublishesBothEvents(t *testing.T) {
	events := &capturingPublisher{}
	svc := newTestService(t, knownDirectory(), &mockSnapshotRepo{}, events)

	start, end := futureSlot()
	ctx := context.Background()
	if _, err := svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "student-1", ResourceID: "lab-1", StartTime: start, EndTime: end,
	}); err != nil {
		t.Fatalf("Submit(student): %v", err)
	}

	out, err := svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "prof-1", ResourceID: "lab-1", StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("Submit(faculty): %v", err)
	}
	if len(out.Displaced) != 1 || out.Displaced[0] != "student-1" {
		t.Fatalf("Displaced = %v", out.Displaced)
	}

	var types []string
	for _, msg := range events.messages {
		types = append(types, msg.GetEventType())
	}
	want := []string{EventBookingConfirmed, EventBookingConfirmed, EventBookingPreempted}
	if len(types) != len(want) {
		t.Fatalf("event types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestLifecycleEventsKeyedByResource(t *testing.T) {
	events := &capturingPublisher{}
	svc := newTestService(t, knownDirectory(), &mockSnapshotRepo{}, events)
	ctx := context.Background()

	start, end := futureSlot()
	held, err := svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "student-1", ResourceID: "lab-1", StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("Submit(student-1): %v", err)
	}
	waiting, err := svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "student-2", ResourceID: "lab-1", StartTime: start, EndTime: end,
	})
	if err != nil || waiting.Status != model.StatusWaitlisted {
		t.Fatalf("Submit(student-2) = %+v, %v", waiting, err)
	}

	out, err := svc.CancelBooking(ctx, held.BookingID, "student-1")
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if len(out.Promoted) != 1 {
		t.Fatalf("Promoted = %v, want one request", out.Promoted)
	}

	later, err := svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "student-1", ResourceID: "lab-1", StartTime: start, EndTime: end,
	})
	if err != nil || later.Status != model.StatusWaitlisted {
		t.Fatalf("Submit(student-1 again) = %+v, %v", later, err)
	}
	if err := svc.WithdrawRequest(ctx, later.RequestID, "student-1"); err != nil {
		t.Fatalf("WithdrawRequest: %v", err)
	}

	// A confirm and the later cancel, promotion, or withdrawal for the
	// same resource must share a partition key.
	wantTypes := []string{
		EventBookingConfirmed,
		EventRequestWaitlisted,
		EventBookingCancelled,
		EventRequestPromoted,
		EventRequestWaitlisted,
		EventRequestWithdrawn,
	}
	if len(events.messages) != len(wantTypes) {
		t.Fatalf("published %d events, want %d", len(events.messages), len(wantTypes))
	}
	for i, msg := range events.messages {
		if msg.GetEventType() != wantTypes[i] {
			t.Errorf("event %d type = %s, want %s", i, msg.GetEventType(), wantTypes[i])
		}
		if msg.Key != "lab-1" {
			t.Errorf("event %d (%s) key = %q, want lab-1", i, msg.GetEventType(), msg.Key)
		}
	}
}

func TestSubmitRejectsUnknownIdentities(t *testing.T) {
	svc := newTestService(t, knownDirectory(), &mockSnapshotRepo{}, nil)
	start, end := futureSlot()
	ctx := context.Background()

	_, err := svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "ghost", ResourceID: "lab-1", StartTime: start, EndTime: end,
	})
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("unknown user: err = %v, want NOT_FOUND", err)
	}

	_, err = svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "student-1", ResourceID: "basement", StartTime: start, EndTime: end,
	})
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("unknown resource: err = %v, want NOT_FOUND", err)
	}
}

func TestSubmitRejectsInvalidInterval(t *testing.T) {
	dir := knownDirectory()
	dirCalled := false
	dir.GetUserFunc = func(_ context.Context, id string) (*model.User, error) {
		dirCalled = true
		return &model.User{ID: id, Role: model.RoleStudent}, nil
	}
	svc := newTestService(t, dir, &mockSnapshotRepo{}, nil)

	start, _ := futureSlot()
	_, err := svc.Submit(context.Background(), &model.SubmitRequest{
		RequesterID: "student-1", ResourceID: "lab-1", StartTime: start, EndTime: start.Add(-time.Hour),
	})
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("err = %v, want VALIDATION_ERROR", err)
	}
	if dirCalled {
		t.Error("directory consulted before validation passed")
	}
}

func TestCancelTranslatesEngineErrors(t *testing.T) {
	svc := newTestService(t, knownDirectory(), &mockSnapshotRepo{}, nil)
	ctx := context.Background()

	_, err := svc.CancelBooking(ctx, "missing-booking", "student-1")
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("unknown booking: err = %v, want NOT_FOUND", err)
	}

	start, end := futureSlot()
	out, err := svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "student-1", ResourceID: "lab-1", StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, err = svc.CancelBooking(ctx, out.BookingID, "student-2")
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeOwnership {
		t.Errorf("foreign cancel: err = %v, want OWNERSHIP_VIOLATION", err)
	}

	if _, err := svc.CancelBooking(ctx, out.BookingID, "student-1"); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
}

func TestWithdrawTranslatesEngineErrors(t *testing.T) {
	svc := newTestService(t, knownDirectory(), &mockSnapshotRepo{}, nil)
	ctx := context.Background()

	start, end := futureSlot()
	confirmed, err := svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "student-1", ResourceID: "lab-1", StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	err = svc.WithdrawRequest(ctx, confirmed.RequestID, "student-1")
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("withdraw confirmed: err = %v, want CONFLICT", err)
	}

	waitlisted, err := svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "student-2", ResourceID: "lab-1", StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("Submit(student-2): %v", err)
	}
	if err := svc.WithdrawRequest(ctx, waitlisted.RequestID, "student-2"); err != nil {
		t.Fatalf("WithdrawRequest: %v", err)
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	var saved *model.Snapshot
	repo := &mockSnapshotRepo{
		SaveFunc: func(_ context.Context, snap *model.Snapshot) error {
			saved = snap
			return nil
		},
		LoadLatestFunc: func(_ context.Context) (*model.Snapshot, error) {
			return saved, nil
		},
	}
	svc := newTestService(t, knownDirectory(), repo, nil)
	ctx := context.Background()

	start, end := futureSlot()
	if _, err := svc.Submit(ctx, &model.SubmitRequest{
		RequesterID: "student-1", ResourceID: "lab-1", StartTime: start, EndTime: end,
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap, err := svc.SaveSnapshot(ctx)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if saved == nil || saved.Seq != snap.Seq {
		t.Fatalf("repository received %+v", saved)
	}

	restored := newTestService(t, knownDirectory(), repo, nil)
	loaded, err := restored.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Seq != snap.Seq {
		t.Errorf("loaded seq = %d, want %d", loaded.Seq, snap.Seq)
	}

	bookings, err := restored.ListBookings(ctx, "lab-1")
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("restored bookings = %d, want 1", len(bookings))
	}
}

func TestLoadSnapshotWhenNoneSaved(t *testing.T) {
	repo := &mockSnapshotRepo{
		LoadLatestFunc: func(_ context.Context) (*model.Snapshot, error) {
			return nil, allocerrors.ErrSnapshotNotFound
		},
	}
	svc := newTestService(t, knownDirectory(), repo, nil)

	_, err := svc.LoadSnapshot(context.Background())
	if appErr := apperrors.AsAppError(err); appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
