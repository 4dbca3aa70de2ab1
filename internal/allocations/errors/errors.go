package errors

import "errors"

var (
	ErrInvalidInterval = errors.New("end time must be after start time")

	ErrStartInPast = errors.New("start time cannot be in the past")

	ErrBookingNotFound = errors.New("booking not found")

	ErrRequestNotFound = errors.New("request not found")

	ErrRequestNotWaitlisted = errors.New("request is not waitlisted")

	ErrNotOwner = errors.New("operation is permitted only for the owner")

	ErrCorruptSnapshot = errors.New("snapshot state is inconsistent")

	ErrSnapshotNotFound = errors.New("no saved snapshot")
)
