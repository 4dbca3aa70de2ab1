package core

import "campusalloc/pkg/model"

// Less reports whether request a takes precedence over request b.
// Lower priority class wins; within a class the earlier submission
// wins. The requester and resource ids only break ties between
// restored snapshots that carry duplicate sequence numbers, keeping
// the order total and deterministic.
func Less(a, b *model.BookingRequest) bool {
	if a.Class != b.Class {
		return a.Class < b.Class
	}
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	if a.RequesterID != b.RequesterID {
		return a.RequesterID < b.RequesterID
	}
	return a.ResourceID < b.ResourceID
}

// Outranks reports whether class a strictly outranks class b.
func Outranks(a, b model.PriorityClass) bool {
	return a < b
}
