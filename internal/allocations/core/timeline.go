package core

import (
	"sort"

	"campusalloc/pkg/model"
)

// Timeline holds the confirmed bookings of a single resource, ordered
// by start time. Confirmed bookings never overlap, so their end times
// are ordered as well, which keeps overlap lookups logarithmic in the
// number of bookings plus the number of hits.
type Timeline struct {
	bookings []*model.Booking
}

// Len returns the number of confirmed bookings.
func (t *Timeline) Len() int {
	return len(t.bookings)
}

// FindOverlaps returns the bookings whose spans intersect iv, in start
// order. The returned slice aliases the timeline's entries and must not
// be retained across mutations.
func (t *Timeline) FindOverlaps(iv Interval) []*model.Booking {
	first := sort.Search(len(t.bookings), func(i int) bool {
		return t.bookings[i].EndTime.After(iv.Start)
	})

	var hits []*model.Booking
	for i := first; i < len(t.bookings); i++ {
		if !t.bookings[i].StartTime.Before(iv.End) {
			break
		}
		hits = append(hits, t.bookings[i])
	}
	return hits
}

// Insert adds a booking, keeping start order. The caller guarantees the
// booking does not overlap any existing entry.
func (t *Timeline) Insert(b *model.Booking) {
	at := sort.Search(len(t.bookings), func(i int) bool {
		return t.bookings[i].StartTime.After(b.StartTime)
	})
	t.bookings = append(t.bookings, nil)
	copy(t.bookings[at+1:], t.bookings[at:])
	t.bookings[at] = b
}

// Get returns the booking with the given id, or nil when the timeline
// does not hold it.
func (t *Timeline) Get(bookingID string) *model.Booking {
	for _, b := range t.bookings {
		if b.ID == bookingID {
			return b
		}
	}
	return nil
}

// Remove deletes the booking with the given id and returns it, or nil
// when no such booking is held.
func (t *Timeline) Remove(bookingID string) *model.Booking {
	for i, b := range t.bookings {
		if b.ID == bookingID {
			t.bookings = append(t.bookings[:i], t.bookings[i+1:]...)
			return b
		}
	}
	return nil
}

// Bookings returns a copy of all confirmed bookings in start order.
func (t *Timeline) Bookings() []model.Booking {
	out := make([]model.Booking, len(t.bookings))
	for i, b := range t.bookings {
		out[i] = *b
	}
	return out
}
