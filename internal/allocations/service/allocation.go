package service

import (
	"context"
	"errors"

	"campusalloc/internal/allocations/core"
	allocerrors "campusalloc/internal/allocations/errors"
	"campusalloc/internal/allocations/repository"
	"campusalloc/internal/allocations/validator"
	"campusalloc/pkg/config"
	apperrors "campusalloc/pkg/errors"
	"campusalloc/pkg/model"
	"campusalloc/pkg/sanitizer"
)

type AllocationService interface {
	Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmitOutcome, error)
	CancelBooking(ctx context.Context, bookingID, requesterID string) (*model.CancelOutcome, error)
	WithdrawRequest(ctx context.Context, requestID, requesterID string) error
	ListBookings(ctx context.Context, resourceID string) ([]model.Booking, error)
	ListWaitlist(ctx context.Context, resourceID string) ([]model.BookingRequest, error)
	RequesterHistory(ctx context.Context, requesterID string) ([]model.BookingRequest, error)
	ExportSnapshot(ctx context.Context) (*model.Snapshot, error)
	RestoreSnapshot(ctx context.Context, snap *model.Snapshot) error
	SaveSnapshot(ctx context.Context) (*model.Snapshot, error)
	LoadSnapshot(ctx context.Context) (*model.Snapshot, error)
}

// Directory resolves requester and resource identities against the
// directory service. Satisfied by client.DirectoryClient.
type Directory interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetResource(ctx context.Context, id string) (*model.Resource, error)
}

type allocationService struct {
	engine    *core.Engine
	directory Directory
	snapshots repository.SnapshotRepository
	validator *validator.SubmitValidator
	events    EventPublisher
	cfg       *config.Config
}

func NewAllocationService(
	engine *core.Engine,
	directory Directory,
	snapshots repository.SnapshotRepository,
	validator *validator.SubmitValidator,
	events EventPublisher,
	cfg *config.Config,
) AllocationService {
	return &allocationService{
		engine:    engine,
		directory: directory,
		snapshots: snapshots,
		validator: validator,
		events:    events,
		cfg:       cfg,
	}
}

func (s *allocationService) Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmitOutcome, error) {
	s.sanitize(req)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Submission validation failed", "error", err)
		return nil, apperrors.Validation("Submission validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.directory.GetUser(ctx, req.RequesterID)
	if err != nil {
		return nil, err
	}
	class, ok := model.ClassForRole(user.Role)
	if !ok {
		return nil, apperrors.InvalidInput("User role does not map to a priority class: " + user.Role)
	}
	if _, err := s.directory.GetResource(ctx, req.ResourceID); err != nil {
		return nil, err
	}

	outcome, err := s.engine.Submit(req.RequesterID, class, req.ResourceID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, translateEngineError(err)
	}

	switch outcome.Status {
	case model.StatusConfirmed:
		event := eventFromOutcome(req, outcome)
		s.publishEvent(ctx, EventBookingConfirmed, req.ResourceID, event)
		if len(outcome.Displaced) > 0 {
			s.publishEvent(ctx, EventBookingPreempted, req.ResourceID, event)
		}
	case model.StatusWaitlisted:
		s.publishEvent(ctx, EventRequestWaitlisted, req.ResourceID, eventFromOutcome(req, outcome))
	}

	s.cfg.Log.Info("Submission resolved",
		"request_id", outcome.RequestID,
		"requester_id", req.RequesterID,
		"resource_id", req.ResourceID,
		"status", outcome.Status,
		"displaced", len(outcome.Displaced),
	)
	return outcome, nil
}

func (s *allocationService) CancelBooking(ctx context.Context, bookingID, requesterID string) (*model.CancelOutcome, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if requesterID == "" {
		return nil, apperrors.InvalidInput("Requester ID cannot be empty")
	}

	outcome, err := s.engine.Cancel(bookingID, requesterID)
	if err != nil {
		return nil, translateEngineError(err)
	}

	s.publishEvent(ctx, EventBookingCancelled, outcome.ResourceID, AllocationEvent{
		BookingID:   bookingID,
		RequesterID: requesterID,
		ResourceID:  outcome.ResourceID,
		Promoted:    outcome.Promoted,
	})
	for _, promoted := range outcome.Promoted {
		s.publishEvent(ctx, EventRequestPromoted, outcome.ResourceID, AllocationEvent{
			RequestID:  promoted,
			ResourceID: outcome.ResourceID,
		})
	}

	s.cfg.Log.Info("Booking cancelled",
		"booking_id", bookingID,
		"requester_id", requesterID,
		"resource_id", outcome.ResourceID,
		"promoted", len(outcome.Promoted),
	)
	return outcome, nil
}

func (s *allocationService) WithdrawRequest(ctx context.Context, requestID, requesterID string) error {
	if requestID == "" {
		return apperrors.InvalidInput("Request ID cannot be empty")
	}
	if requesterID == "" {
		return apperrors.InvalidInput("Requester ID cannot be empty")
	}

	withdrawn, err := s.engine.Withdraw(requestID, requesterID)
	if err != nil {
		return translateEngineError(err)
	}

	s.publishEvent(ctx, EventRequestWithdrawn, withdrawn.ResourceID, AllocationEvent{
		RequestID:   requestID,
		RequesterID: requesterID,
		ResourceID:  withdrawn.ResourceID,
	})

	s.cfg.Log.Info("Request withdrawn", "request_id", requestID, "requester_id", requesterID)
	return nil
}

func (s *allocationService) ListBookings(ctx context.Context, resourceID string) ([]model.Booking, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if _, err := s.directory.GetResource(ctx, resourceID); err != nil {
		return nil, err
	}
	return s.engine.ListBookings(resourceID), nil
}

func (s *allocationService) ListWaitlist(ctx context.Context, resourceID string) ([]model.BookingRequest, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if _, err := s.directory.GetResource(ctx, resourceID); err != nil {
		return nil, err
	}
	return s.engine.ListWaitlist(resourceID), nil
}

func (s *allocationService) RequesterHistory(ctx context.Context, requesterID string) ([]model.BookingRequest, error) {
	if requesterID == "" {
		return nil, apperrors.InvalidInput("Requester ID cannot be empty")
	}
	if _, err := s.directory.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}
	return s.engine.History(requesterID), nil
}

func (s *allocationService) ExportSnapshot(ctx context.Context) (*model.Snapshot, error) {
	return s.engine.Snapshot(), nil
}

func (s *allocationService) RestoreSnapshot(ctx context.Context, snap *model.Snapshot) error {
	if snap == nil {
		return apperrors.InvalidInput("Snapshot cannot be empty")
	}
	if err := s.engine.Restore(snap); err != nil {
		return translateEngineError(err)
	}

	s.publishEvent(ctx, EventSnapshotRestored, eventSource, AllocationEvent{SnapshotSeq: snap.Seq})
	s.cfg.Log.Info("Snapshot restored", "seq", snap.Seq, "resources", len(snap.Resources))
	return nil
}

func (s *allocationService) SaveSnapshot(ctx context.Context) (*model.Snapshot, error) {
	snap := s.engine.Snapshot()
	if err := s.snapshots.Save(ctx, snap); err != nil {
		s.cfg.Log.Error("Failed to persist snapshot", "error", err)
		return nil, apperrors.Internal("Failed to persist snapshot", err)
	}

	s.publishEvent(ctx, EventSnapshotSaved, eventSource, AllocationEvent{SnapshotSeq: snap.Seq})
	s.cfg.Log.Info("Snapshot persisted", "id", snap.ID, "seq", snap.Seq, "resources", len(snap.Resources))
	return snap, nil
}

func (s *allocationService) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	snap, err := s.snapshots.LoadLatest(ctx)
	if err != nil {
		if errors.Is(err, allocerrors.ErrSnapshotNotFound) {
			return nil, apperrors.NotFound("Snapshot")
		}
		s.cfg.Log.Error("Failed to load snapshot", "error", err)
		return nil, apperrors.Internal("Failed to load snapshot", err)
	}

	if err := s.engine.Restore(snap); err != nil {
		return nil, translateEngineError(err)
	}

	s.publishEvent(ctx, EventSnapshotRestored, eventSource, AllocationEvent{SnapshotSeq: snap.Seq})
	s.cfg.Log.Info("Snapshot loaded and restored", "id", snap.ID, "seq", snap.Seq)
	return snap, nil
}

func (s *allocationService) sanitize(req *model.SubmitRequest) {
	req.RequesterID = sanitizer.TrimAndNormalize(req.RequesterID)
	req.ResourceID = sanitizer.TrimAndNormalize(req.ResourceID)
}

func translateEngineError(err error) error {
	switch {
	case errors.Is(err, allocerrors.ErrInvalidInterval), errors.Is(err, allocerrors.ErrStartInPast):
		return apperrors.Validation("Invalid booking interval", map[string]any{"error": err.Error()})
	case errors.Is(err, allocerrors.ErrBookingNotFound):
		return apperrors.NotFound("Booking")
	case errors.Is(err, allocerrors.ErrRequestNotFound):
		return apperrors.NotFound("Request")
	case errors.Is(err, allocerrors.ErrRequestNotWaitlisted):
		return apperrors.Conflict("Request is not on the waitlist")
	case errors.Is(err, allocerrors.ErrNotOwner):
		return apperrors.Ownership("Only the owner may perform this operation")
	case errors.Is(err, allocerrors.ErrCorruptSnapshot):
		return apperrors.Validation("Snapshot failed validation", map[string]any{"error": err.Error()})
	default:
		return apperrors.Internal("Allocation engine failure", err)
	}
}
