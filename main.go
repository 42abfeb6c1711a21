package main

import (
	"TimeTrackBackend/database"
	"TimeTrackBackend/handlers"
	"TimeTrackBackend/middleware"
	"TimeTrackBackend/timemath"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Initialize business timezone (BUSINESS_TIMEZONE, defaults to Europe/London)
	if err := timemath.Init(); err != nil {
		log.Fatal("Failed to load business timezone:", err)
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.CloseDB()

	// Initialize JWT
	middleware.InitJWT()

	// Initialize rate limiter (100 requests per minute)
	middleware.InitRateLimiter(100)

	// Wire the clock engine and geocoder onto the handlers
	handlers.Init()

	// Create router
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/api/health", healthCheck).Methods("GET")
	router.HandleFunc("/api/auth/login", handlers.Login).Methods("POST")
	router.HandleFunc("/api/auth/worker-login", handlers.WorkerAppLogin).Methods("POST")

	// Protected routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware)

	// ==================== TIME CLOCK ====================
	// POST /api/time-entries/clock-in - Start a shift (rejects double clock-in)
	api.HandleFunc("/time-entries/clock-in", handlers.ClockIn).Methods("POST")
	// POST /api/time-entries/{id}/clock-out - Close an open entry
	api.HandleFunc("/time-entries/{id}/clock-out", handlers.ClockOut).Methods("POST")
	// GET /api/time-entries/active/{id} - Poll a worker's active entry, if any
	api.HandleFunc("/time-entries/active/{id}", handlers.GetActiveEntry).Methods("GET")
	// GET /api/time-entries?worker_id=&job_id=&start_date=&end_date= - Filtered history
	api.HandleFunc("/time-entries", handlers.GetTimeEntries).Methods("GET")

	// Worker-visible reads
	api.HandleFunc("/workers", handlers.GetWorkers).Methods("GET")
	api.HandleFunc("/workers/{id}", handlers.GetWorker).Methods("GET")
	api.HandleFunc("/jobs", handlers.GetJobs).Methods("GET")
	api.HandleFunc("/jobs/{id}", handlers.GetJob).Methods("GET")
	api.HandleFunc("/materials", handlers.GetMaterials).Methods("GET")
	api.HandleFunc("/materials", handlers.CreateMaterial).Methods("POST")

	// Worker management routes (admin only)
	workerRoutes := api.PathPrefix("/workers").Subrouter()
	workerRoutes.Use(middleware.AdminOnly)
	workerRoutes.HandleFunc("", handlers.CreateWorker).Methods("POST")
	workerRoutes.HandleFunc("/{id}", handlers.UpdateWorker).Methods("PUT")
	workerRoutes.HandleFunc("/{id}", handlers.DeleteWorker).Methods("DELETE")
	workerRoutes.HandleFunc("/{id}/archive", handlers.ArchiveWorker).Methods("POST")
	workerRoutes.HandleFunc("/{id}/unarchive", handlers.UnarchiveWorker).Methods("POST")

	// Job management routes (admin only)
	jobRoutes := api.PathPrefix("/jobs").Subrouter()
	jobRoutes.Use(middleware.AdminOnly)
	jobRoutes.HandleFunc("", handlers.CreateJob).Methods("POST")
	jobRoutes.HandleFunc("/{id}", handlers.UpdateJob).Methods("PUT")
	jobRoutes.HandleFunc("/{id}", handlers.DeleteJob).Methods("DELETE")
	jobRoutes.HandleFunc("/{id}/archive", handlers.ArchiveJob).Methods("POST")
	jobRoutes.HandleFunc("/{id}/unarchive", handlers.UnarchiveJob).Methods("POST")

	// Time entry corrections (admin only)
	entryRoutes := api.PathPrefix("/time-entries").Subrouter()
	entryRoutes.Use(middleware.AdminOnly)
	entryRoutes.HandleFunc("/{id}", handlers.UpdateTimeEntry).Methods("PUT")
	entryRoutes.HandleFunc("/{id}", handlers.DeleteTimeEntry).Methods("DELETE")
	entryRoutes.HandleFunc("/{id}/archive", handlers.ArchiveTimeEntry).Methods("POST")

	// Material management routes (admin only)
	materialRoutes := api.PathPrefix("/materials").Subrouter()
	materialRoutes.Use(middleware.AdminOnly)
	materialRoutes.HandleFunc("/{id}", handlers.UpdateMaterial).Methods("PUT")
	materialRoutes.HandleFunc("/{id}", handlers.DeleteMaterial).Methods("DELETE")
	materialRoutes.HandleFunc("/{id}/archive", handlers.ArchiveMaterial).Methods("POST")
	materialRoutes.HandleFunc("/{id}/unarchive", handlers.UnarchiveMaterial).Methods("POST")

	// Reports and exports (admin only)
	reportRoutes := api.PathPrefix("/reports").Subrouter()
	reportRoutes.Use(middleware.AdminOnly)
	reportRoutes.HandleFunc("/dashboard", handlers.GetDashboardStats).Methods("GET")
	reportRoutes.HandleFunc("/job-costs/{id}", handlers.GetJobCostReport).Methods("GET")
	reportRoutes.HandleFunc("/materials", handlers.GetMaterialsReport).Methods("GET")

	exportRoutes := api.PathPrefix("/exports").Subrouter()
	exportRoutes.Use(middleware.AdminOnly)
	exportRoutes.HandleFunc("/job-report/{id}", handlers.ExportJobReport).Methods("GET")
	exportRoutes.HandleFunc("/time-entries", handlers.ExportTimeEntries).Methods("GET")
	exportRoutes.HandleFunc("/jobs", handlers.ExportJobs).Methods("GET")
	exportRoutes.HandleFunc("/materials", handlers.ExportMaterials).Methods("GET")
	exportRoutes.HandleFunc("/attendance-alerts", handlers.ExportAttendanceAlerts).Methods("GET")

	// Apply logging middleware
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RateLimitMiddleware)

	// Configure CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: getAllowedOrigins(),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Link",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})

	handler := corsHandler.Handler(router)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"TimeTrack Backend"}`))
}

func getAllowedOrigins() []string {
	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		// Default allowed origins for development
		return []string{
			"*",
		}
	}

	// Parse comma-separated origins from environment
	return parseCommaSeparated(origins)
}

func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}

	var result []string
	current := ""
	for _, char := range s {
		if char == ',' {
			if current != "" {
				result = append(result, current)
				current = ""
			}
		} else if char != ' ' {
			current += string(char)
		}
	}
	if current != "" {
		result = append(result, current)
	}
	return result
}
