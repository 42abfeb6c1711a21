package timeclock

import "errors"

var (
	// ErrAlreadyClockedIn rejects a clock-in for a worker that still has
	// an open entry. The prior entry must be clocked out first.
	ErrAlreadyClockedIn = errors.New("worker already clocked in")

	// ErrNotActive rejects a clock-out against an entry that is already
	// closed or does not exist.
	ErrNotActive = errors.New("active time entry not found")

	// ErrInvalidReference reports a missing worker or job, or a clock-in
	// against a job that is not active.
	ErrInvalidReference = errors.New("referenced record not found")
)
