package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"TimeTrackBackend/database"
	"TimeTrackBackend/models"
)

func CreateJob(w http.ResponseWriter, r *http.Request) {
	var payload models.JobCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	job, err := models.NewJob(payload.Name, payload.Description, payload.Location, payload.Client, payload.QuotedCost)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.InsertJob(job); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error creating job: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, job)
}

func GetJobs(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	jobs, err := database.ListJobs(activeOnly, includeArchived)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondWithJSON(w, http.StatusOK, jobs)
}

func GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	job, err := database.GetJobByID(jobID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if job == nil {
		respondWithError(w, http.StatusNotFound, "Job not found")
		return
	}

	respondWithJSON(w, http.StatusOK, job)
}

func UpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	var upd models.JobUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	job, err := database.UpdateJob(jobID, upd)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error updating job")
		return
	}
	if job == nil {
		respondWithError(w, http.StatusNotFound, "Job not found")
		return
	}

	respondWithJSON(w, http.StatusOK, job)
}

// DeleteJob removes a job outright. History referencing it is retained;
// archiving is the non-destructive alternative.
func DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	deleted, err := database.DeleteJob(jobID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error deleting job")
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "Job not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Job deleted successfully"})
}

func ArchiveJob(w http.ResponseWriter, r *http.Request) {
	setJobArchived(w, r, true, "Job archived successfully")
}

func UnarchiveJob(w http.ResponseWriter, r *http.Request) {
	setJobArchived(w, r, false, "Job unarchived successfully")
}

func setJobArchived(w http.ResponseWriter, r *http.Request, archived bool, message string) {
	jobID := mux.Vars(r)["id"]

	found, err := database.SetJobArchived(jobID, archived)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error archiving job")
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "Job not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}
