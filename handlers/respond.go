package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"TimeTrackBackend/database"
	"TimeTrackBackend/geocapture"
	"TimeTrackBackend/timeclock"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	clock *timeclock.Clock
	geo   *geocapture.Resolver
)

// Init wires the handler package's collaborators. Called once at startup.
func Init() {
	clock = timeclock.New(database.ClockStore{})
	geo = geocapture.New()
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithClockError maps the state-machine error taxonomy onto HTTP
// statuses. These are user-visible, recoverable conditions; stored state
// is never corrupted by them.
func respondWithClockError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timeclock.ErrAlreadyClockedIn):
		respondWithError(w, http.StatusConflict, "Worker already clocked in. Must clock out first.")
	case errors.Is(err, timeclock.ErrNotActive):
		respondWithError(w, http.StatusNotFound, "Active time entry not found")
	case errors.Is(err, timeclock.ErrInvalidReference):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "Database error")
	}
}

// respondWithCSV serializes pre-built rows. A failure here is fatal to
// this export only; the underlying data is untouched.
func respondWithCSV(w http.ResponseWriter, filename string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			log.Printf("Error writing CSV export %s: %v", filename, err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("Error flushing CSV export %s: %v", filename, err)
	}
}
