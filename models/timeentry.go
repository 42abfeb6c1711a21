package models

import (
	"time"

	"github.com/google/uuid"
)

// GPSLocation is a device location fix, optionally enriched with a
// reverse-geocoded address. Always best-effort: entries carry nil when
// the device could not provide one.
type GPSLocation struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Address   string   `json:"address,omitempty"`
}

// TimeEntry records one shift. ClockOut and DurationMinutes are nil while
// the entry is active. All timestamps are UTC; DurationMinutes is derived
// and recomputed from the timestamps on report surfaces.
type TimeEntry struct {
	ID              int          `json:"id" db:"id"`
	EntryID         string       `json:"entry_id" db:"entry_id"`
	WorkerID        string       `json:"worker_id" db:"worker_id"`
	JobID           string       `json:"job_id" db:"job_id"`
	ClockIn         time.Time    `json:"clock_in" db:"clock_in"`
	ClockOut        *time.Time   `json:"clock_out" db:"clock_out"`
	DurationMinutes *int         `json:"duration_minutes" db:"duration_minutes"`
	GPSLocationIn   *GPSLocation `json:"gps_location_in" db:"gps_location_in"`
	GPSLocationOut  *GPSLocation `json:"gps_location_out" db:"gps_location_out"`
	Notes           string       `json:"notes" db:"notes"`
	Archived        bool         `json:"archived" db:"archived"`
	CreatedDate     time.Time    `json:"created_date" db:"created_date"`
}

// Active reports whether the entry has not been clocked out yet.
func (e *TimeEntry) Active() bool {
	return e.ClockOut == nil
}

type ClockInRequest struct {
	WorkerID    string       `json:"worker_id"`
	JobID       string       `json:"job_id"`
	GPSLocation *GPSLocation `json:"gps_location"`
	Notes       string       `json:"notes"`
}

type ClockOutRequest struct {
	GPSLocation *GPSLocation `json:"gps_location"`
	Notes       string       `json:"notes"`
}

// TimeEntryUpdate is the admin edit payload. Clock timestamps arrive as
// local wall-clock strings and are resolved to UTC by the handler.
// A present-but-empty ClockOut clears the clock-out and reopens the entry.
type TimeEntryUpdate struct {
	WorkerID *string `json:"worker_id"`
	JobID    *string `json:"job_id"`
	ClockIn  *string `json:"clock_in"`
	ClockOut *string `json:"clock_out"`
	Notes    *string `json:"notes"`
}

func NewTimeEntry(workerID, jobID string, clockIn time.Time, loc *GPSLocation, notes string) *TimeEntry {
	return &TimeEntry{
		EntryID:       "ENT-" + uuid.New().String(),
		WorkerID:      workerID,
		JobID:         jobID,
		ClockIn:       clockIn.UTC(),
		GPSLocationIn: loc,
		Notes:         notes,
		CreatedDate:   time.Now().UTC(),
	}
}
