package core

import (
	"container/heap"

	"campusalloc/pkg/model"
)

type waitlistItem struct {
	req   *model.BookingRequest
	index int
}

type waitlistHeap []*waitlistItem

func (h waitlistHeap) Len() int { return len(h) }

func (h waitlistHeap) Less(i, j int) bool { return Less(h[i].req, h[j].req) }

func (h waitlistHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *waitlistHeap) Push(x any) {
	item := x.(*waitlistItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *waitlistHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Waitlist keeps deferred requests ordered by admission precedence.
// A side index by request id allows withdrawal from the middle of the
// heap without a linear scan.
type Waitlist struct {
	items waitlistHeap
	byID  map[string]*waitlistItem
}

func NewWaitlist() *Waitlist {
	return &Waitlist{byID: make(map[string]*waitlistItem)}
}

// Len returns the number of waiting requests.
func (w *Waitlist) Len() int {
	return len(w.items)
}

// Enqueue adds a request to the waitlist. Re-enqueuing an id that is
// already waiting is a no-op.
func (w *Waitlist) Enqueue(req *model.BookingRequest) {
	if _, ok := w.byID[req.ID]; ok {
		return
	}
	item := &waitlistItem{req: req}
	w.byID[req.ID] = item
	heap.Push(&w.items, item)
}

// Remove takes the request with the given id off the waitlist and
// returns it, or nil when the id is not waiting.
func (w *Waitlist) Remove(requestID string) *model.BookingRequest {
	item, ok := w.byID[requestID]
	if !ok {
		return nil
	}
	delete(w.byID, requestID)
	heap.Remove(&w.items, item.index)
	return item.req
}

// Drain pops every waiting request in precedence order, leaving the
// waitlist empty. Callers re-enqueue whatever they do not admit.
func (w *Waitlist) Drain() []*model.BookingRequest {
	out := make([]*model.BookingRequest, 0, len(w.items))
	for w.items.Len() > 0 {
		item := heap.Pop(&w.items).(*waitlistItem)
		delete(w.byID, item.req.ID)
		out = append(out, item.req)
	}
	return out
}

// Ordered returns the waiting requests in precedence order without
// mutating the waitlist.
func (w *Waitlist) Ordered() []*model.BookingRequest {
	reqs := w.Drain()
	for _, req := range reqs {
		w.Enqueue(req)
	}
	out := make([]*model.BookingRequest, len(reqs))
	copy(out, reqs)
	return out
}
