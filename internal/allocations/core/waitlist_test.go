package core

import (
	"testing"

	"campusalloc/pkg/model"
)

func mkRequest(id string, class model.PriorityClass, seq uint64) *model.BookingRequest {
	return &model.BookingRequest{
		ID:          id,
		RequesterID: "u-" + id,
		Class:       class,
		ResourceID:  "lab-1",
		Seq:         seq,
		Status:      model.StatusWaitlisted,
	}
}

func TestWaitlistOrdering(t *testing.T) {
	w := NewWaitlist()
	w.Enqueue(mkRequest("r1", model.ClassStudent, 1))
	w.Enqueue(mkRequest("r2", model.ClassFaculty, 5))
	w.Enqueue(mkRequest("r3", model.ClassStudent, 3))
	w.Enqueue(mkRequest("r4", model.ClassStaff, 4))
	w.Enqueue(mkRequest("r5", model.ClassFaculty, 2))

	want := []string{"r5", "r2", "r4", "r1", "r3"}
	got := w.Ordered()
	if len(got) != len(want) {
		t.Fatalf("got %d requests, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
	if w.Len() != 5 {
		t.Errorf("Ordered drained the waitlist: len = %d", w.Len())
	}
}

func TestWaitlistDrain(t *testing.T) {
	w := NewWaitlist()
	w.Enqueue(mkRequest("r1", model.ClassStudent, 2))
	w.Enqueue(mkRequest("r2", model.ClassFaculty, 3))
	w.Enqueue(mkRequest("r3", model.ClassStudent, 1))

	drained := w.Drain()
	if w.Len() != 0 {
		t.Fatalf("waitlist not empty after Drain: len = %d", w.Len())
	}
	want := []string{"r2", "r3", "r1"}
	for i, id := range want {
		if drained[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, drained[i].ID, id)
		}
	}
}

func TestWaitlistRemoveFromMiddle(t *testing.T) {
	w := NewWaitlist()
	w.Enqueue(mkRequest("r1", model.ClassFaculty, 1))
	w.Enqueue(mkRequest("r2", model.ClassStaff, 2))
	w.Enqueue(mkRequest("r3", model.ClassStudent, 3))

	if removed := w.Remove("r2"); removed == nil || removed.ID != "r2" {
		t.Fatalf("Remove(r2) = %v", removed)
	}
	if removed := w.Remove("r2"); removed != nil {
		t.Errorf("second Remove(r2) = %v, want nil", removed)
	}

	got := w.Ordered()
	want := []string{"r1", "r3"}
	if len(got) != len(want) {
		t.Fatalf("got %d requests, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestWaitlistDuplicateEnqueue(t *testing.T) {
	w := NewWaitlist()
	req := mkRequest("r1", model.ClassStudent, 1)
	w.Enqueue(req)
	w.Enqueue(req)
	if w.Len() != 1 {
		t.Errorf("duplicate enqueue grew the waitlist: len = %d", w.Len())
	}
}
