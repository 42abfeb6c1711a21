package database

import (
	"database/sql"
	"errors"
	"fmt"

	"TimeTrackBackend/models"
)

const jobColumns = `id, job_id, name, description, location, client, quoted_cost, status, archived, created_date`

func scanJob(row interface{ Scan(...interface{}) error }) (*models.Job, error) {
	var j models.Job
	err := row.Scan(&j.ID, &j.JobID, &j.Name, &j.Description, &j.Location, &j.Client,
		&j.QuotedCost, &j.Status, &j.Archived, &j.CreatedDate)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func InsertJob(j *models.Job) error {
	err := DB.QueryRow(
		`INSERT INTO jobs (job_id, name, description, location, client, quoted_cost, status, archived, created_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		j.JobID, j.Name, j.Description, j.Location, j.Client, j.QuotedCost, j.Status,
		j.Archived, j.CreatedDate,
	).Scan(&j.ID)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetJobByID returns (nil, nil) when no job matches.
func GetJobByID(jobID string) (*models.Job, error) {
	j, err := scanJob(DB.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE job_id = $1`, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return j, nil
}

// ListJobs returns jobs for pickers and reports. activeOnly hides cancelled
// jobs; archived jobs are hidden unless includeArchived is set.
func ListJobs(activeOnly, includeArchived bool) ([]models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	if activeOnly {
		query += ` AND status != 'cancelled' AND archived = false`
	} else if !includeArchived {
		query += ` AND archived = false`
	}
	query += ` ORDER BY created_date DESC`

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func UpdateJob(jobID string, upd models.JobUpdate) (*models.Job, error) {
	j, err := GetJobByID(jobID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, nil
	}

	if upd.Name != nil {
		j.Name = *upd.Name
	}
	if upd.Description != nil {
		j.Description = *upd.Description
	}
	if upd.Location != nil {
		j.Location = *upd.Location
	}
	if upd.Client != nil {
		j.Client = *upd.Client
	}
	if upd.QuotedCost != nil {
		j.QuotedCost = *upd.QuotedCost
	}
	if upd.Status != nil {
		j.Status = *upd.Status
	}
	if upd.Archived != nil {
		j.Archived = *upd.Archived
	}

	_, err = DB.Exec(
		`UPDATE jobs SET name = $1, description = $2, location = $3, client = $4,
		 quoted_cost = $5, status = $6, archived = $7 WHERE job_id = $8`,
		j.Name, j.Description, j.Location, j.Client, j.QuotedCost, j.Status, j.Archived, j.JobID,
	)
	if err != nil {
		return nil, fmt.Errorf("update job %s: %w", jobID, err)
	}
	return j, nil
}

func SetJobArchived(jobID string, archived bool) (bool, error) {
	result, err := DB.Exec(`UPDATE jobs SET archived = $1 WHERE job_id = $2`, archived, jobID)
	if err != nil {
		return false, fmt.Errorf("archive job %s: %w", jobID, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// DeleteJob removes the job record only. Time entries and materials that
// reference it are history and stay queryable by filter.
func DeleteJob(jobID string) (bool, error) {
	result, err := DB.Exec(`DELETE FROM jobs WHERE job_id = $1`, jobID)
	if err != nil {
		return false, fmt.Errorf("delete job %s: %w", jobID, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
