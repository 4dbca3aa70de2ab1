package model

import "time"

type RequestStatus string

const (
	StatusConfirmed  RequestStatus = "confirmed"
	StatusWaitlisted RequestStatus = "waitlisted"
	StatusCancelled  RequestStatus = "cancelled"
)

// BookingRequest is the unit the allocation engine reasons about. Seq is a
// process-wide monotonic counter assigned at submission time; it is the sole
// tie-breaker between requests of equal priority class and survives
// preemption (a displaced request keeps its original Seq).
type BookingRequest struct {
	ID          string        `json:"id" bson:"_id"`
	RequesterID string        `json:"requester_id" bson:"requester_id"`
	Class       PriorityClass `json:"priority_class" bson:"priority_class"`
	ResourceID  string        `json:"resource_id" bson:"resource_id"`
	StartTime   time.Time     `json:"start_time" bson:"start_time"`
	EndTime     time.Time     `json:"end_time" bson:"end_time"`
	Seq         uint64        `json:"seq" bson:"seq"`
	Status      RequestStatus `json:"status" bson:"status"`
	BookingID   string        `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at" bson:"submitted_at"`
}

// Booking is a confirmed request materialized on a resource timeline.
type Booking struct {
	ID          string    `json:"id" bson:"_id"`
	RequestID   string    `json:"request_id" bson:"request_id"`
	RequesterID string    `json:"requester_id" bson:"requester_id"`
	ResourceID  string    `json:"resource_id" bson:"resource_id"`
	StartTime   time.Time `json:"start_time" bson:"start_time"`
	EndTime     time.Time `json:"end_time" bson:"end_time"`
	ConfirmedAt time.Time `json:"confirmed_at" bson:"confirmed_at"`
}

// SubmitRequest is the inbound payload for a booking submission.
type SubmitRequest struct {
	RequesterID string    `json:"requester_id" validate:"required,min=1,max=64"`
	ResourceID  string    `json:"resource_id" validate:"required,min=1,max=64"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// SubmitOutcome reports how a submission resolved. Exactly one of BookingID
// (confirmed) or RequestID-with-waitlisted-status applies; Displaced lists the
// requester ids whose bookings were preempted.
type SubmitOutcome struct {
	Status    RequestStatus `json:"status"`
	RequestID string        `json:"request_id"`
	BookingID string        `json:"booking_id,omitempty"`
	Displaced []string      `json:"displaced_requester_ids,omitempty"`
}

// CancelOutcome reports a successful cancellation and any waitlisted requests
// promoted into the freed interval, in promotion order.
type CancelOutcome struct {
	BookingID  string   `json:"booking_id"`
	ResourceID string   `json:"resource_id"`
	Promoted   []string `json:"promoted_request_ids,omitempty"`
}
