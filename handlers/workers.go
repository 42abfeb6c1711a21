package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"TimeTrackBackend/database"
	"TimeTrackBackend/models"
)

func CreateWorker(w http.ResponseWriter, r *http.Request) {
	var payload models.WorkerCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	worker, err := models.NewWorker(payload.Name, payload.Email, payload.Phone, payload.Role, payload.HourlyRate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Only admin workers log in with a password.
	if payload.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error processing password")
			return
		}
		worker.Password = string(hashed)
	}

	if err := database.InsertWorker(worker); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error creating worker: "+err.Error())
		return
	}

	worker.Password = ""
	respondWithJSON(w, http.StatusCreated, worker)
}

func GetWorkers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") != "false"
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	workers, err := database.ListWorkers(activeOnly, includeArchived)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	for i := range workers {
		workers[i].Password = ""
	}
	respondWithJSON(w, http.StatusOK, workers)
}

func GetWorker(w http.ResponseWriter, r *http.Request) {
	workerID := mux.Vars(r)["id"]

	worker, err := database.GetWorkerByID(workerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if worker == nil {
		respondWithError(w, http.StatusNotFound, "Worker not found")
		return
	}

	worker.Password = ""
	respondWithJSON(w, http.StatusOK, worker)
}

func UpdateWorker(w http.ResponseWriter, r *http.Request) {
	workerID := mux.Vars(r)["id"]

	var upd models.WorkerUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if upd.Password != nil && *upd.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Error processing password")
			return
		}
		hashedStr := string(hashed)
		upd.Password = &hashedStr
	}

	worker, err := database.UpdateWorker(workerID, upd)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error updating worker")
		return
	}
	if worker == nil {
		respondWithError(w, http.StatusNotFound, "Worker not found")
		return
	}

	worker.Password = ""
	respondWithJSON(w, http.StatusOK, worker)
}

func DeleteWorker(w http.ResponseWriter, r *http.Request) {
	workerID := mux.Vars(r)["id"]

	deleted, err := database.DeleteWorker(workerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error deleting worker")
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "Worker not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Worker deleted successfully"})
}

func ArchiveWorker(w http.ResponseWriter, r *http.Request) {
	setWorkerArchived(w, r, true, "Worker archived successfully")
}

func UnarchiveWorker(w http.ResponseWriter, r *http.Request) {
	setWorkerArchived(w, r, false, "Worker unarchived successfully")
}

func setWorkerArchived(w http.ResponseWriter, r *http.Request, archived bool, message string) {
	workerID := mux.Vars(r)["id"]

	found, err := database.SetWorkerArchived(workerID, archived)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error archiving worker")
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "Worker not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}
