package core

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	apperrors "campusalloc/internal/allocations/errors"
	"campusalloc/pkg/model"
)

// Engine admits booking requests onto exclusive resource timelines.
// Each resource is serialized behind its own mutex, so bookings on
// distinct resources proceed concurrently while conflict detection,
// preemption and promotion for one resource are atomic. The engine
// mutex only guards the routing maps and is always acquired after a
// resource mutex, never before.
type Engine struct {
	clock func() time.Time

	mu         sync.RWMutex
	resources  map[string]*resourceState
	bookingRes map[string]string
	requestRes map[string]string

	seq atomic.Uint64
}

type resourceState struct {
	mu       sync.Mutex
	id       string
	timeline Timeline
	waitlist *Waitlist
	requests map[string]*model.BookingRequest
}

// NewEngine returns an empty engine. A nil clock defaults to time.Now;
// tests inject a fixed clock.
func NewEngine(clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		clock:      clock,
		resources:  make(map[string]*resourceState),
		bookingRes: make(map[string]string),
		requestRes: make(map[string]string),
	}
}

// Submit runs the admission decision for one request: confirm when the
// interval is free, preempt when the requester's class strictly
// outranks every overlapping holder, waitlist otherwise. Displaced
// holders keep their original submission sequence and re-enter the
// waitlist.
func (e *Engine) Submit(requesterID string, class model.PriorityClass, resourceID string, start, end time.Time) (*model.SubmitOutcome, error) {
	iv := Interval{Start: start, End: end}
	if !iv.Valid() {
		return nil, apperrors.ErrInvalidInterval
	}
	if start.Before(e.clock()) {
		return nil, apperrors.ErrStartInPast
	}

	rs := e.state(resourceID)
	rs.mu.Lock()
	defer rs.mu.Unlock()

	req := &model.BookingRequest{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		Class:       class,
		ResourceID:  resourceID,
		StartTime:   start,
		EndTime:     end,
		Seq:         e.seq.Add(1),
		SubmittedAt: e.clock(),
	}
	rs.requests[req.ID] = req
	e.indexRequest(req.ID, resourceID)

	overlaps := rs.timeline.FindOverlaps(iv)
	if len(overlaps) == 0 {
		booking := e.confirmLocked(rs, req)
		return &model.SubmitOutcome{
			Status:    model.StatusConfirmed,
			RequestID: req.ID,
			BookingID: booking.ID,
		}, nil
	}

	for _, held := range overlaps {
		holder := rs.requests[held.RequestID]
		if !Outranks(class, holder.Class) {
			req.Status = model.StatusWaitlisted
			rs.waitlist.Enqueue(req)
			return &model.SubmitOutcome{
				Status:    model.StatusWaitlisted,
				RequestID: req.ID,
			}, nil
		}
	}

	displaced := make([]string, 0, len(overlaps))
	for _, held := range overlaps {
		rs.timeline.Remove(held.ID)
		e.dropBooking(held.ID)
		holder := rs.requests[held.RequestID]
		holder.Status = model.StatusWaitlisted
		holder.BookingID = ""
		rs.waitlist.Enqueue(holder)
		displaced = append(displaced, held.RequesterID)
	}

	booking := e.confirmLocked(rs, req)
	return &model.SubmitOutcome{
		Status:    model.StatusConfirmed,
		RequestID: req.ID,
		BookingID: booking.ID,
		Displaced: displaced,
	}, nil
}

// Cancel releases a confirmed booking on behalf of its owner and
// promotes whatever waitlisted requests now fit, in precedence order.
func (e *Engine) Cancel(bookingID, requesterID string) (*model.CancelOutcome, error) {
	rs := e.stateForBooking(bookingID)
	if rs == nil {
		return nil, apperrors.ErrBookingNotFound
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	booking := rs.timeline.Get(bookingID)
	if booking == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	if booking.RequesterID != requesterID {
		return nil, apperrors.ErrNotOwner
	}

	rs.timeline.Remove(bookingID)
	e.dropBooking(bookingID)
	req := rs.requests[booking.RequestID]
	req.Status = model.StatusCancelled
	req.BookingID = ""

	return &model.CancelOutcome{
		BookingID:  bookingID,
		ResourceID: rs.id,
		Promoted:   e.promoteLocked(rs),
	}, nil
}

// Withdraw removes the owner's waitlisted request and returns a copy of
// it. Confirmed and already-terminal requests are rejected; cancelling a
// booking is the Cancel path.
func (e *Engine) Withdraw(requestID, requesterID string) (*model.BookingRequest, error) {
	rs := e.stateForRequest(requestID)
	if rs == nil {
		return nil, apperrors.ErrRequestNotFound
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	req, ok := rs.requests[requestID]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	if req.RequesterID != requesterID {
		return nil, apperrors.ErrNotOwner
	}
	if req.Status != model.StatusWaitlisted {
		return nil, apperrors.ErrRequestNotWaitlisted
	}

	rs.waitlist.Remove(requestID)
	req.Status = model.StatusCancelled
	withdrawn := *req
	return &withdrawn, nil
}

// ListBookings returns the resource's confirmed bookings in start
// order. Unknown resources yield an empty list.
func (e *Engine) ListBookings(resourceID string) []model.Booking {
	rs := e.stateIfExists(resourceID)
	if rs == nil {
		return []model.Booking{}
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.timeline.Bookings()
}

// ListWaitlist returns the resource's waiting requests in promotion
// precedence order.
func (e *Engine) ListWaitlist(resourceID string) []model.BookingRequest {
	rs := e.stateIfExists(resourceID)
	if rs == nil {
		return []model.BookingRequest{}
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	waiting := rs.waitlist.Ordered()
	out := make([]model.BookingRequest, len(waiting))
	for i, req := range waiting {
		out[i] = *req
	}
	return out
}

// History returns every request a requester ever submitted, across all
// resources, in submission order.
func (e *Engine) History(requesterID string) []model.BookingRequest {
	states := e.allStates()

	out := []model.BookingRequest{}
	for _, rs := range states {
		rs.mu.Lock()
		for _, req := range rs.requests {
			if req.RequesterID == requesterID {
				out = append(out, *req)
			}
		}
		rs.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// Snapshot exports the full engine state, including the submission
// sequence counter, so a restored engine continues numbering where
// this one left off.
func (e *Engine) Snapshot() *model.Snapshot {
	states := e.allStates()

	snap := &model.Snapshot{
		Seq:       e.seq.Load(),
		Resources: make([]model.ResourceSnapshot, 0, len(states)),
		SavedAt:   e.clock(),
	}
	for _, rs := range states {
		rs.mu.Lock()
		reqs := make([]model.BookingRequest, 0, len(rs.requests))
		for _, req := range rs.requests {
			reqs = append(reqs, *req)
		}
		sort.Slice(reqs, func(i, j int) bool { return reqs[i].Seq < reqs[j].Seq })
		snap.Resources = append(snap.Resources, model.ResourceSnapshot{
			ResourceID: rs.id,
			Bookings:   rs.timeline.Bookings(),
			Requests:   reqs,
		})
		rs.mu.Unlock()
	}
	return snap
}

// Restore replaces all engine state with the snapshot's. The snapshot
// is validated first; on any inconsistency the current state is left
// untouched and ErrCorruptSnapshot is returned. Restore must not run
// concurrently with other engine operations: an operation already
// holding a resource mutex would mutate state the swap has orphaned.
// Callers restore before serving traffic.
func (e *Engine) Restore(snap *model.Snapshot) error {
	resources := make(map[string]*resourceState, len(snap.Resources))
	bookingRes := make(map[string]string)
	requestRes := make(map[string]string)
	maxSeq := snap.Seq

	for _, rsnap := range snap.Resources {
		if rsnap.ResourceID == "" {
			return apperrors.ErrCorruptSnapshot
		}
		if _, dup := resources[rsnap.ResourceID]; dup {
			return apperrors.ErrCorruptSnapshot
		}
		rs := &resourceState{
			id:       rsnap.ResourceID,
			waitlist: NewWaitlist(),
			requests: make(map[string]*model.BookingRequest, len(rsnap.Requests)),
		}

		for i := range rsnap.Requests {
			req := rsnap.Requests[i]
			if req.ID == "" || req.ResourceID != rsnap.ResourceID {
				return apperrors.ErrCorruptSnapshot
			}
			if _, dup := requestRes[req.ID]; dup {
				return apperrors.ErrCorruptSnapshot
			}
			rs.requests[req.ID] = &req
			requestRes[req.ID] = rsnap.ResourceID
			if req.Seq > maxSeq {
				maxSeq = req.Seq
			}
			switch req.Status {
			case model.StatusWaitlisted:
				if req.BookingID != "" {
					return apperrors.ErrCorruptSnapshot
				}
				rs.waitlist.Enqueue(&req)
			case model.StatusConfirmed, model.StatusCancelled:
			default:
				return apperrors.ErrCorruptSnapshot
			}
		}

		for i := range rsnap.Bookings {
			b := rsnap.Bookings[i]
			iv := Interval{Start: b.StartTime, End: b.EndTime}
			if b.ID == "" || !iv.Valid() || b.ResourceID != rsnap.ResourceID {
				return apperrors.ErrCorruptSnapshot
			}
			if len(rs.timeline.FindOverlaps(iv)) > 0 {
				return apperrors.ErrCorruptSnapshot
			}
			req, ok := rs.requests[b.RequestID]
			if !ok || req.Status != model.StatusConfirmed || req.BookingID != b.ID {
				return apperrors.ErrCorruptSnapshot
			}
			if _, dup := bookingRes[b.ID]; dup {
				return apperrors.ErrCorruptSnapshot
			}
			rs.timeline.Insert(&b)
			bookingRes[b.ID] = rsnap.ResourceID
		}

		resources[rsnap.ResourceID] = rs
	}

	e.mu.Lock()
	e.resources = resources
	e.bookingRes = bookingRes
	e.requestRes = requestRes
	e.mu.Unlock()
	e.seq.Store(maxSeq)
	return nil
}

// promoteLocked runs one promotion pass over the waitlist: pop every
// candidate in precedence order and confirm those whose interval is
// now free, inserting each as it is admitted so later candidates see
// the shrunken availability. Called with rs.mu held.
func (e *Engine) promoteLocked(rs *resourceState) []string {
	var promoted []string
	for _, req := range rs.waitlist.Drain() {
		iv := Interval{Start: req.StartTime, End: req.EndTime}
		if len(rs.timeline.FindOverlaps(iv)) == 0 {
			e.confirmLocked(rs, req)
			promoted = append(promoted, req.ID)
		} else {
			rs.waitlist.Enqueue(req)
		}
	}
	return promoted
}

// confirmLocked materializes a booking for req. Called with rs.mu held.
func (e *Engine) confirmLocked(rs *resourceState, req *model.BookingRequest) *model.Booking {
	booking := &model.Booking{
		ID:          uuid.NewString(),
		RequestID:   req.ID,
		RequesterID: req.RequesterID,
		ResourceID:  rs.id,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ConfirmedAt: e.clock(),
	}
	rs.timeline.Insert(booking)
	req.Status = model.StatusConfirmed
	req.BookingID = booking.ID

	e.mu.Lock()
	e.bookingRes[booking.ID] = rs.id
	e.mu.Unlock()
	return booking
}

func (e *Engine) state(resourceID string) *resourceState {
	e.mu.RLock()
	rs, ok := e.resources[resourceID]
	e.mu.RUnlock()
	if ok {
		return rs
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if rs, ok := e.resources[resourceID]; ok {
		return rs
	}
	rs = &resourceState{
		id:       resourceID,
		waitlist: NewWaitlist(),
		requests: make(map[string]*model.BookingRequest),
	}
	e.resources[resourceID] = rs
	return rs
}

func (e *Engine) stateIfExists(resourceID string) *resourceState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resources[resourceID]
}

func (e *Engine) stateForBooking(bookingID string) *resourceState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	resID, ok := e.bookingRes[bookingID]
	if !ok {
		return nil
	}
	return e.resources[resID]
}

func (e *Engine) stateForRequest(requestID string) *resourceState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	resID, ok := e.requestRes[requestID]
	if !ok {
		return nil
	}
	return e.resources[resID]
}

func (e *Engine) allStates() []*resourceState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.resources))
	for id := range e.resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	states := make([]*resourceState, 0, len(ids))
	for _, id := range ids {
		states = append(states, e.resources[id])
	}
	return states
}

func (e *Engine) indexRequest(requestID, resourceID string) {
	e.mu.Lock()
	e.requestRes[requestID] = resourceID
	e.mu.Unlock()
}

func (e *Engine) dropBooking(bookingID string) {
	e.mu.Lock()
	delete(e.bookingRes, bookingID)
	e.mu.Unlock()
}
