package database

import (
	"database/sql"
	"errors"
	"fmt"

	"TimeTrackBackend/models"
)

const workerColumns = `id, worker_id, name, email, phone, role, hourly_rate, password, active, archived, created_date`

func scanWorker(row interface{ Scan(...interface{}) error }) (*models.Worker, error) {
	var w models.Worker
	err := row.Scan(&w.ID, &w.WorkerID, &w.Name, &w.Email, &w.Phone, &w.Role,
		&w.HourlyRate, &w.Password, &w.Active, &w.Archived, &w.CreatedDate)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func InsertWorker(w *models.Worker) error {
	err := DB.QueryRow(
		`INSERT INTO workers (worker_id, name, email, phone, role, hourly_rate, password, active, archived, created_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		w.WorkerID, w.Name, w.Email, w.Phone, w.Role, w.HourlyRate, w.Password,
		w.Active, w.Archived, w.CreatedDate,
	).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("insert worker: %w", err)
	}
	return nil
}

// GetWorkerByID returns (nil, nil) when no worker matches.
func GetWorkerByID(workerID string) (*models.Worker, error) {
	w, err := scanWorker(DB.QueryRow(
		`SELECT `+workerColumns+` FROM workers WHERE worker_id = $1`, workerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get worker %s: %w", workerID, err)
	}
	return w, nil
}

func GetWorkerByEmail(email string) (*models.Worker, error) {
	w, err := scanWorker(DB.QueryRow(
		`SELECT `+workerColumns+` FROM workers WHERE LOWER(email) = LOWER($1)`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get worker by email: %w", err)
	}
	return w, nil
}

// ListWorkers returns the roster. activeOnly excludes deactivated workers;
// archived workers are excluded unless includeArchived is set, so old
// entries still cost correctly while pickers stay clean.
func ListWorkers(activeOnly, includeArchived bool) ([]models.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE 1=1`
	if activeOnly {
		query += ` AND active = true`
	}
	if !includeArchived {
		query += ` AND archived = false`
	}
	query += ` ORDER BY created_date DESC`

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	workers := []models.Worker{}
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

// UpdateWorker applies a partial update and returns the stored record.
func UpdateWorker(workerID string, upd models.WorkerUpdate) (*models.Worker, error) {
	w, err := GetWorkerByID(workerID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}

	if upd.Name != nil {
		w.Name = *upd.Name
	}
	if upd.Email != nil {
		w.Email = *upd.Email
	}
	if upd.Phone != nil {
		w.Phone = *upd.Phone
	}
	if upd.Role != nil {
		w.Role = *upd.Role
	}
	if upd.HourlyRate != nil {
		w.HourlyRate = *upd.HourlyRate
	}
	if upd.Password != nil {
		w.Password = *upd.Password
	}
	if upd.Active != nil {
		w.Active = *upd.Active
	}
	if upd.Archived != nil {
		w.Archived = *upd.Archived
	}

	_, err = DB.Exec(
		`UPDATE workers SET name = $1, email = $2, phone = $3, role = $4, hourly_rate = $5,
		 password = $6, active = $7, archived = $8 WHERE worker_id = $9`,
		w.Name, w.Email, w.Phone, w.Role, w.HourlyRate, w.Password, w.Active, w.Archived, w.WorkerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update worker %s: %w", workerID, err)
	}
	return w, nil
}

func SetWorkerArchived(workerID string, archived bool) (bool, error) {
	result, err := DB.Exec(`UPDATE workers SET archived = $1 WHERE worker_id = $2`, archived, workerID)
	if err != nil {
		return false, fmt.Errorf("archive worker %s: %w", workerID, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func DeleteWorker(workerID string) (bool, error) {
	result, err := DB.Exec(`DELETE FROM workers WHERE worker_id = $1`, workerID)
	if err != nil {
		return false, fmt.Errorf("delete worker %s: %w", workerID, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
