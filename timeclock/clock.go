// Package timeclock owns the per-worker clock-in/clock-out state machine
// and its single-active-entry invariant: at most one time entry per worker
// may have a null clock-out at any instant.
package timeclock

import (
	"fmt"
	"time"

	"TimeTrackBackend/models"
	"TimeTrackBackend/timemath"
)

// Store is the persistence collaborator. Lookups return (nil, nil) when
// the record does not exist. InsertEntry must be atomic with respect to
// the active-entry invariant: when a concurrent insert already opened an
// entry for the same worker it returns ErrAlreadyClockedIn, so a race
// between two near-simultaneous clock-ins cannot produce two open entries.
type Store interface {
	GetWorker(workerID string) (*models.Worker, error)
	GetJob(jobID string) (*models.Job, error)
	GetEntry(entryID string) (*models.TimeEntry, error)
	FindActiveEntry(workerID string) (*models.TimeEntry, error)
	InsertEntry(entry *models.TimeEntry) error
	UpdateEntry(entry *models.TimeEntry) error
}

type Clock struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Clock {
	return &Clock{store: store, now: time.Now}
}

// ClockIn opens a new entry for the worker: the sole transition into the
// clocked-in state. The job must exist, be active and not archived, and
// the worker must currently be idle. The location fix may be nil; absent
// location never blocks a clock event.
func (c *Clock) ClockIn(workerID, jobID string, fix *models.GPSLocation, notes string) (*models.TimeEntry, error) {
	worker, err := c.store.GetWorker(workerID)
	if err != nil {
		return nil, fmt.Errorf("look up worker: %w", err)
	}
	if worker == nil {
		return nil, fmt.Errorf("worker %s: %w", workerID, ErrInvalidReference)
	}

	job, err := c.store.GetJob(jobID)
	if err != nil {
		return nil, fmt.Errorf("look up job: %w", err)
	}
	if job == nil || job.Archived || job.Status != models.JobActive {
		return nil, fmt.Errorf("job %s is not active: %w", jobID, ErrInvalidReference)
	}

	active, err := c.store.FindActiveEntry(workerID)
	if err != nil {
		return nil, fmt.Errorf("look up active entry: %w", err)
	}
	if active != nil {
		return nil, ErrAlreadyClockedIn
	}

	entry := models.NewTimeEntry(workerID, jobID, c.now().UTC(), fix, notes)
	if err := c.store.InsertEntry(entry); err != nil {
		// The store loses the check-then-act race here; surface it the
		// same way as the guard above.
		return nil, err
	}
	return entry, nil
}

// ClockOut closes an open entry, stamping the clock-out instant and the
// derived duration in whole truncated minutes. Non-empty notes replace the
// entry's notes, matching the clock-out form behaviour.
func (c *Clock) ClockOut(entryID string, fix *models.GPSLocation, notes string) (*models.TimeEntry, error) {
	entry, err := c.store.GetEntry(entryID)
	if err != nil {
		return nil, fmt.Errorf("look up entry: %w", err)
	}
	if entry == nil || entry.ClockOut != nil {
		return nil, ErrNotActive
	}

	out := c.now().UTC()
	duration := timemath.DurationMinutes(entry.ClockIn, out)

	entry.ClockOut = &out
	entry.DurationMinutes = &duration
	entry.GPSLocationOut = fix
	if notes != "" {
		entry.Notes = notes
	}

	if err := c.store.UpdateEntry(entry); err != nil {
		return nil, fmt.Errorf("close entry: %w", err)
	}
	return entry, nil
}

// ActiveEntry returns the worker's single open entry, or nil when the
// worker is idle. Session resume uses this to rehydrate the clock state.
func (c *Clock) ActiveEntry(workerID string) (*models.TimeEntry, error) {
	return c.store.FindActiveEntry(workerID)
}

// AdminUpdate applies an admin edit to an existing entry, bypassing the
// clock-in/clock-out guards. Timestamps arrive as local wall-clock input
// and resolve through timemath. Duration is recomputed whenever both
// timestamps are present and nulled when the clock-out is cleared, so the
// derived value can never drift from the timestamps.
func (c *Clock) AdminUpdate(entryID string, upd models.TimeEntryUpdate) (*models.TimeEntry, error) {
	entry, err := c.store.GetEntry(entryID)
	if err != nil {
		return nil, fmt.Errorf("look up entry: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("time entry %s: %w", entryID, ErrInvalidReference)
	}

	if upd.WorkerID != nil && *upd.WorkerID != "" {
		entry.WorkerID = *upd.WorkerID
	}
	if upd.JobID != nil && *upd.JobID != "" {
		entry.JobID = *upd.JobID
	}
	if upd.Notes != nil {
		entry.Notes = *upd.Notes
	}

	if upd.ClockIn != nil && *upd.ClockIn != "" {
		in, err := timemath.LocalInputToUTC(*upd.ClockIn)
		if err != nil {
			return nil, fmt.Errorf("clock in: %w", err)
		}
		entry.ClockIn = in
	}

	if upd.ClockOut != nil {
		if *upd.ClockOut == "" {
			// Clearing the clock-out reopens the entry.
			entry.ClockOut = nil
			entry.DurationMinutes = nil
		} else {
			out, err := timemath.LocalInputToUTC(*upd.ClockOut)
			if err != nil {
				return nil, fmt.Errorf("clock out: %w", err)
			}
			entry.ClockOut = &out
		}
	}

	if entry.ClockOut != nil {
		duration := timemath.DurationMinutes(entry.ClockIn, *entry.ClockOut)
		entry.DurationMinutes = &duration
	}

	if err := c.store.UpdateEntry(entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}
