package service

import (
	"context"
	"time"

	"campusalloc/pkg/kafka"
	"campusalloc/pkg/model"
)

// Allocation lifecycle event types. One event is published per state
// transition, keyed by resource id so events for a resource stay in
// partition order. Snapshot events concern the whole engine and are
// keyed by the service source instead.
const (
	EventBookingConfirmed  = "allocation.booking.confirmed"
	EventRequestWaitlisted = "allocation.request.waitlisted"
	EventBookingPreempted  = "allocation.booking.preempted"
	EventRequestPromoted   = "allocation.request.promoted"
	EventBookingCancelled  = "allocation.booking.cancelled"
	EventRequestWithdrawn  = "allocation.request.withdrawn"
	EventSnapshotSaved     = "allocation.snapshot.saved"
	EventSnapshotRestored  = "allocation.snapshot.restored"
)

const eventSource = "allocations"

// EventPublisher is the producer surface the service needs. Satisfied
// by kafka.Producer; nil disables event publishing.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type AllocationEvent struct {
	RequestID   string    `json:"request_id,omitempty"`
	BookingID   string    `json:"booking_id,omitempty"`
	RequesterID string    `json:"requester_id,omitempty"`
	ResourceID  string    `json:"resource_id,omitempty"`
	StartTime   time.Time `json:"start_time,omitempty"`
	EndTime     time.Time `json:"end_time,omitempty"`
	Displaced   []string  `json:"displaced_requester_ids,omitempty"`
	Promoted    []string  `json:"promoted_request_ids,omitempty"`
	SnapshotSeq uint64    `json:"snapshot_seq,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (s *allocationService) publishEvent(ctx context.Context, eventType, key string, event AllocationEvent) {
	if s.events == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()

	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(event).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()
	if err != nil {
		s.cfg.Log.Warn("Failed to build allocation event", "event_type", eventType, "error", err)
		return
	}

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish allocation event",
			"event_type", eventType,
			"resource_id", event.ResourceID,
			"error", err,
		)
	}
}

func eventFromOutcome(req *model.SubmitRequest, out *model.SubmitOutcome) AllocationEvent {
	return AllocationEvent{
		RequestID:   out.RequestID,
		BookingID:   out.BookingID,
		RequesterID: req.RequesterID,
		ResourceID:  req.ResourceID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Displaced:   out.Displaced,
	}
}
