package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"TimeTrackBackend/models"
)

var DB *sql.DB

func InitDB() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	var psqlInfo string

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL != "" {
		psqlInfo = databaseURL
	} else {
		host := os.Getenv("DB_HOST")
		portstr := os.Getenv("DB_PORT")
		port, err := strconv.Atoi(portstr)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT, must be a number: %w", err)
		}
		user := os.Getenv("DB_USER")
		password := os.Getenv("DB_PASSWORD")
		dbname := os.Getenv("DB_NAME")
		sslmode := os.Getenv("DB_SSLMODE")

		if sslmode == "" {
			sslmode = "disable"
		}

		psqlInfo = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	var err error
	DB, err = sql.Open("postgres", psqlInfo)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	log.Println("Successfully connected to database")

	if err := runMigrations(); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	if err := seedDefaultAdmin(); err != nil {
		log.Printf("Warning: Failed to seed default admin: %v", err)
	}

	return nil
}

func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

func runMigrations() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS workers (
			id SERIAL PRIMARY KEY,
			worker_id VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			phone VARCHAR(50) DEFAULT '',
			role VARCHAR(50) NOT NULL DEFAULT 'worker',
			hourly_rate DOUBLE PRECISION NOT NULL DEFAULT 15.0,
			password VARCHAR(255) DEFAULT '',
			active BOOLEAN DEFAULT true,
			archived BOOLEAN DEFAULT false,
			created_date TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id SERIAL PRIMARY KEY,
			job_id VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT DEFAULT '',
			location VARCHAR(255) DEFAULT '',
			client VARCHAR(255) DEFAULT '',
			quoted_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			status VARCHAR(50) NOT NULL DEFAULT 'active',
			archived BOOLEAN DEFAULT false,
			created_date TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS time_entries (
			id SERIAL PRIMARY KEY,
			entry_id VARCHAR(255) UNIQUE NOT NULL,
			worker_id VARCHAR(255) NOT NULL,
			job_id VARCHAR(255) NOT NULL,
			clock_in TIMESTAMPTZ NOT NULL,
			clock_out TIMESTAMPTZ,
			duration_minutes INTEGER,
			gps_location_in JSONB,
			gps_location_out JSONB,
			notes TEXT DEFAULT '',
			archived BOOLEAN DEFAULT false,
			created_date TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS materials (
			id SERIAL PRIMARY KEY,
			material_id VARCHAR(255) UNIQUE NOT NULL,
			job_id VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL DEFAULT 1,
			supplier VARCHAR(255) DEFAULT '',
			reference VARCHAR(255) DEFAULT '',
			notes TEXT DEFAULT '',
			archived BOOLEAN DEFAULT false,
			purchase_date TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			created_date TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		// The active-entry invariant: at most one open entry per worker.
		// Concurrent clock-ins race on this index, not in application code.
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_entry
			ON time_entries(worker_id) WHERE clock_out IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_worker ON time_entries(worker_id)`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_job ON time_entries(job_id)`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_clock_in ON time_entries(clock_in)`,
		`CREATE INDEX IF NOT EXISTS idx_materials_job ON materials(job_id)`,
		`CREATE INDEX IF NOT EXISTS idx_materials_purchase_date ON materials(purchase_date)`,
		`CREATE INDEX IF NOT EXISTS idx_workers_email ON workers(email)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
	}

	for _, migration := range migrations {
		if _, err := DB.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}

	log.Println("Migrations completed successfully")
	return nil
}

// seedDefaultAdmin creates a bootstrap admin worker from ADMIN_EMAIL and
// ADMIN_PASSWORD when no admin exists yet, so a fresh deployment can log in.
func seedDefaultAdmin() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int
	if err := DB.QueryRow("SELECT COUNT(*) FROM workers WHERE role = 'admin'").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin, err := models.NewWorker("Administrator", email, "", models.RoleAdmin, models.DefaultHourlyRate)
	if err != nil {
		return err
	}
	admin.Password = string(hashed)

	if err := InsertWorker(admin); err != nil {
		return err
	}
	log.Printf("Seeded default admin worker %s", admin.WorkerID)
	return nil
}
