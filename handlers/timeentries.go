package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"TimeTrackBackend/database"
	"TimeTrackBackend/models"
	"TimeTrackBackend/timemath"
)

// ClockIn opens a time entry for a worker on an active job. The device's
// GPS fix, when present, is enriched with an address best-effort; location
// problems never block the clock event.
func ClockIn(w http.ResponseWriter, r *http.Request) {
	var payload models.ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if payload.WorkerID == "" || payload.JobID == "" {
		respondWithError(w, http.StatusBadRequest, "Worker ID and job ID are required")
		return
	}

	fix := geo.Capture(r.Context(), payload.GPSLocation)

	entry, err := clock.ClockIn(payload.WorkerID, payload.JobID, fix, payload.Notes)
	if err != nil {
		respondWithClockError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

func ClockOut(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["id"]

	var payload models.ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	fix := geo.Capture(r.Context(), payload.GPSLocation)

	entry, err := clock.ClockOut(entryID, fix, payload.Notes)
	if err != nil {
		respondWithClockError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

// GetActiveEntry rehydrates the clock state at session resume: the
// worker's single open entry, or null when idle.
func GetActiveEntry(w http.ResponseWriter, r *http.Request) {
	workerID := mux.Vars(r)["id"]

	entry, err := clock.ActiveEntry(workerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]*models.TimeEntry{"active_entry": entry})
}

func GetTimeEntries(w http.ResponseWriter, r *http.Request) {
	filter := database.EntryFilter{
		WorkerID: r.URL.Query().Get("worker_id"),
		JobID:    r.URL.Query().Get("job_id"),
	}

	var ok bool
	if filter.Start, ok = parseTimeParam(w, r, "start_date"); !ok {
		return
	}
	if filter.End, ok = parseTimeParam(w, r, "end_date"); !ok {
		return
	}

	entries, err := database.ListEntries(filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

// UpdateTimeEntry is the admin override: it may rewrite any field of an
// entry, including force-closing an open one, with duration recomputed or
// cleared to match the timestamps.
func UpdateTimeEntry(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["id"]

	var upd models.TimeEntryUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	entry, err := clock.AdminUpdate(entryID, upd)
	if err != nil {
		respondWithClockError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

func DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["id"]

	deleted, err := database.DeleteEntry(entryID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error deleting time entry")
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "Time entry not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Time entry deleted successfully"})
}

func ArchiveTimeEntry(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["id"]

	found, err := database.SetEntryArchived(entryID, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error archiving time entry")
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "Time entry not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Time entry archived successfully"})
}

// parseTimeParam resolves an optional timestamp query parameter, writing
// a 400 and returning ok=false when it is present but malformed.
func parseTimeParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, true
	}

	t, err := timemath.LocalInputToUTC(value)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return nil, false
	}
	return &t, true
}
