package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"TimeTrackBackend/models"
	"TimeTrackBackend/timeclock"
)

const entryColumns = `id, entry_id, worker_id, job_id, clock_in, clock_out, duration_minutes,
	gps_location_in, gps_location_out, notes, archived, created_date`

func scanEntry(row interface{ Scan(...interface{}) error }) (*models.TimeEntry, error) {
	var e models.TimeEntry
	var clockOut sql.NullTime
	var duration sql.NullInt64
	var gpsIn, gpsOut []byte

	err := row.Scan(&e.ID, &e.EntryID, &e.WorkerID, &e.JobID, &e.ClockIn, &clockOut,
		&duration, &gpsIn, &gpsOut, &e.Notes, &e.Archived, &e.CreatedDate)
	if err != nil {
		return nil, err
	}

	e.ClockIn = e.ClockIn.UTC()
	if clockOut.Valid {
		t := clockOut.Time.UTC()
		e.ClockOut = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		e.DurationMinutes = &d
	}
	if len(gpsIn) > 0 {
		var loc models.GPSLocation
		if err := json.Unmarshal(gpsIn, &loc); err == nil {
			e.GPSLocationIn = &loc
		}
	}
	if len(gpsOut) > 0 {
		var loc models.GPSLocation
		if err := json.Unmarshal(gpsOut, &loc); err == nil {
			e.GPSLocationOut = &loc
		}
	}
	return &e, nil
}

func marshalLocation(loc *models.GPSLocation) (interface{}, error) {
	if loc == nil {
		return nil, nil
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return nil, fmt.Errorf("marshal gps location: %w", err)
	}
	return data, nil
}

// isActiveEntryConflict reports whether err is the partial unique index on
// open entries rejecting a second active entry for the same worker.
func isActiveEntryConflict(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "uniq_active_entry"
}

// InsertEntry persists a new time entry. Losing the clock-in race to a
// concurrent insert surfaces as timeclock.ErrAlreadyClockedIn.
func InsertEntry(e *models.TimeEntry) error {
	gpsIn, err := marshalLocation(e.GPSLocationIn)
	if err != nil {
		return err
	}
	gpsOut, err := marshalLocation(e.GPSLocationOut)
	if err != nil {
		return err
	}

	err = DB.QueryRow(
		`INSERT INTO time_entries (entry_id, worker_id, job_id, clock_in, clock_out, duration_minutes,
		 gps_location_in, gps_location_out, notes, archived, created_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		e.EntryID, e.WorkerID, e.JobID, e.ClockIn, e.ClockOut, e.DurationMinutes,
		gpsIn, gpsOut, e.Notes, e.Archived, e.CreatedDate,
	).Scan(&e.ID)
	if isActiveEntryConflict(err) {
		return timeclock.ErrAlreadyClockedIn
	}
	if err != nil {
		return fmt.Errorf("insert time entry: %w", err)
	}
	return nil
}

// GetEntryByID returns (nil, nil) when no entry matches.
func GetEntryByID(entryID string) (*models.TimeEntry, error) {
	e, err := scanEntry(DB.QueryRow(
		`SELECT `+entryColumns+` FROM time_entries WHERE entry_id = $1`, entryID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get time entry %s: %w", entryID, err)
	}
	return e, nil
}

// FindActiveEntry returns the worker's open entry or (nil, nil). The
// partial unique index guarantees there is at most one.
func FindActiveEntry(workerID string) (*models.TimeEntry, error) {
	e, err := scanEntry(DB.QueryRow(
		`SELECT `+entryColumns+` FROM time_entries WHERE worker_id = $1 AND clock_out IS NULL`, workerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active entry for %s: %w", workerID, err)
	}
	return e, nil
}

type EntryFilter struct {
	WorkerID        string
	JobID           string
	Start           *time.Time // clock_in >= Start
	End             *time.Time // clock_in <= End
	IncludeArchived bool
}

func ListEntries(f EntryFilter) ([]models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE 1=1`
	args := []interface{}{}

	if f.WorkerID != "" {
		args = append(args, f.WorkerID)
		query += fmt.Sprintf(` AND worker_id = $%d`, len(args))
	}
	if f.JobID != "" {
		args = append(args, f.JobID)
		query += fmt.Sprintf(` AND job_id = $%d`, len(args))
	}
	if f.Start != nil {
		args = append(args, *f.Start)
		query += fmt.Sprintf(` AND clock_in >= $%d`, len(args))
	}
	if f.End != nil {
		args = append(args, *f.End)
		query += fmt.Sprintf(` AND clock_in <= $%d`, len(args))
	}
	if !f.IncludeArchived {
		query += ` AND archived = false`
	}
	query += ` ORDER BY clock_in DESC`

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	entries := []models.TimeEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// UpdateEntry writes the full entry row. Reopening an entry (clearing its
// clock-out) while the worker already has another open entry violates the
// active-entry index and surfaces as timeclock.ErrAlreadyClockedIn.
func UpdateEntry(e *models.TimeEntry) error {
	gpsIn, err := marshalLocation(e.GPSLocationIn)
	if err != nil {
		return err
	}
	gpsOut, err := marshalLocation(e.GPSLocationOut)
	if err != nil {
		return err
	}

	_, err = DB.Exec(
		`UPDATE time_entries SET worker_id = $1, job_id = $2, clock_in = $3, clock_out = $4,
		 duration_minutes = $5, gps_location_in = $6, gps_location_out = $7, notes = $8, archived = $9
		 WHERE entry_id = $10`,
		e.WorkerID, e.JobID, e.ClockIn, e.ClockOut, e.DurationMinutes,
		gpsIn, gpsOut, e.Notes, e.Archived, e.EntryID,
	)
	if isActiveEntryConflict(err) {
		return timeclock.ErrAlreadyClockedIn
	}
	if err != nil {
		return fmt.Errorf("update time entry %s: %w", e.EntryID, err)
	}
	return nil
}

func SetEntryArchived(entryID string, archived bool) (bool, error) {
	result, err := DB.Exec(`UPDATE time_entries SET archived = $1 WHERE entry_id = $2`, archived, entryID)
	if err != nil {
		return false, fmt.Errorf("archive time entry %s: %w", entryID, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func DeleteEntry(entryID string) (bool, error) {
	result, err := DB.Exec(`DELETE FROM time_entries WHERE entry_id = $1`, entryID)
	if err != nil {
		return false, fmt.Errorf("delete time entry %s: %w", entryID, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// ClockStore adapts the package-level store functions to timeclock.Store.
type ClockStore struct{}

func (ClockStore) GetWorker(workerID string) (*models.Worker, error) { return GetWorkerByID(workerID) }
func (ClockStore) GetJob(jobID string) (*models.Job, error)         { return GetJobByID(jobID) }
func (ClockStore) GetEntry(entryID string) (*models.TimeEntry, error) {
	return GetEntryByID(entryID)
}
func (ClockStore) FindActiveEntry(workerID string) (*models.TimeEntry, error) {
	return FindActiveEntry(workerID)
}
func (ClockStore) InsertEntry(e *models.TimeEntry) error { return InsertEntry(e) }
func (ClockStore) UpdateEntry(e *models.TimeEntry) error { return UpdateEntry(e) }
