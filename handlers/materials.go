package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"TimeTrackBackend/database"
	"TimeTrackBackend/models"
)

// CreateMaterial records a purchase against a job. Workers log materials
// from site while clocked in; admins may add them retrospectively for any
// job, so only the job reference is validated here.
func CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var payload models.MaterialCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	job, err := database.GetJobByID(payload.JobID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if job == nil {
		respondWithError(w, http.StatusBadRequest, "Job not found")
		return
	}

	material, err := models.NewMaterial(payload.JobID, payload.Name, payload.Cost,
		payload.Quantity, payload.Supplier, payload.Reference, payload.Notes)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.InsertMaterial(material); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error creating material: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, material)
}

func GetMaterials(w http.ResponseWriter, r *http.Request) {
	filter := database.MaterialFilter{
		JobID:    r.URL.Query().Get("job_id"),
		Supplier: r.URL.Query().Get("supplier"),
	}

	var ok bool
	if filter.Start, ok = parseTimeParam(w, r, "start_date"); !ok {
		return
	}
	if filter.End, ok = parseTimeParam(w, r, "end_date"); !ok {
		return
	}

	materials, err := database.ListMaterials(filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondWithJSON(w, http.StatusOK, materials)
}

func UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	materialID := mux.Vars(r)["id"]

	var upd models.MaterialUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	material, err := database.UpdateMaterial(materialID, upd)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error updating material")
		return
	}
	if material == nil {
		respondWithError(w, http.StatusNotFound, "Material not found")
		return
	}

	respondWithJSON(w, http.StatusOK, material)
}

func DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	materialID := mux.Vars(r)["id"]

	deleted, err := database.DeleteMaterial(materialID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error deleting material")
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "Material not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Material deleted successfully"})
}

func ArchiveMaterial(w http.ResponseWriter, r *http.Request) {
	setMaterialArchived(w, r, true, "Material archived successfully")
}

func UnarchiveMaterial(w http.ResponseWriter, r *http.Request) {
	setMaterialArchived(w, r, false, "Material unarchived successfully")
}

func setMaterialArchived(w http.ResponseWriter, r *http.Request, archived bool, message string) {
	materialID := mux.Vars(r)["id"]

	found, err := database.SetMaterialArchived(materialID, archived)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error archiving material")
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "Material not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}
