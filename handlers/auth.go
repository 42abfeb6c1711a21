package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"os"

	"golang.org/x/crypto/bcrypt"

	"TimeTrackBackend/database"
	"TimeTrackBackend/middleware"
	"TimeTrackBackend/models"
)

type AdminLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type WorkerLogin struct {
	WorkerID string `json:"worker_id"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token    string         `json:"token"`
	WorkerID string         `json:"worker_id,omitempty"`
	Role     string         `json:"role"`
	Worker   *models.Worker `json:"worker,omitempty"`
}

// Login authenticates an admin: either the bootstrap credentials from the
// environment or an active, unarchived admin worker with a bcrypt password.
func Login(w http.ResponseWriter, r *http.Request) {
	var login AdminLogin
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if login.Username == "" || login.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	envUser := os.Getenv("ADMIN_USERNAME")
	envPass := os.Getenv("ADMIN_PASSWORD")
	if envUser != "" && envPass != "" {
		userOK := subtle.ConstantTimeCompare([]byte(login.Username), []byte(envUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(login.Password), []byte(envPass)) == 1
		if userOK && passOK {
			token, err := middleware.GenerateToken("bootstrap-admin", string(models.RoleAdmin))
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "Error generating token")
				return
			}
			respondWithJSON(w, http.StatusOK, AuthResponse{Token: token, Role: string(models.RoleAdmin)})
			return
		}
	}

	worker, err := database.GetWorkerByEmail(login.Username)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if worker == nil || worker.Role != models.RoleAdmin || !worker.Active || worker.Archived {
		respondWithError(w, http.StatusUnauthorized, "Invalid admin credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(worker.Password), []byte(login.Password)) != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid admin credentials")
		return
	}

	token, err := middleware.GenerateToken(worker.WorkerID, string(models.RoleAdmin))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	worker.Password = ""
	respondWithJSON(w, http.StatusOK, AuthResponse{
		Token:    token,
		WorkerID: worker.WorkerID,
		Role:     string(models.RoleAdmin),
		Worker:   worker,
	})
}

// WorkerAppLogin establishes a field-worker session from the site device.
// Workers with the admin role must also present their password.
func WorkerAppLogin(w http.ResponseWriter, r *http.Request) {
	var login WorkerLogin
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if login.WorkerID == "" {
		respondWithError(w, http.StatusBadRequest, "Worker ID is required")
		return
	}

	worker, err := database.GetWorkerByID(login.WorkerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if worker == nil || !worker.Active || worker.Archived {
		respondWithError(w, http.StatusUnauthorized, "Invalid worker")
		return
	}

	if worker.Role == models.RoleAdmin {
		if bcrypt.CompareHashAndPassword([]byte(worker.Password), []byte(login.Password)) != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid worker credentials")
			return
		}
	}

	token, err := middleware.GenerateToken(worker.WorkerID, string(worker.Role))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	worker.Password = ""
	respondWithJSON(w, http.StatusOK, AuthResponse{
		Token:    token,
		WorkerID: worker.WorkerID,
		Role:     string(worker.Role),
		Worker:   worker,
	})
}
