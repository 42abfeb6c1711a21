package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobActive    JobStatus = "active"
	JobCompleted JobStatus = "completed"
	JobCancelled JobStatus = "cancelled"
)

type Job struct {
	ID          int       `json:"id" db:"id"`
	JobID       string    `json:"job_id" db:"job_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	Client      string    `json:"client" db:"client"`
	QuotedCost  float64   `json:"quoted_cost" db:"quoted_cost"`
	Status      JobStatus `json:"status" db:"status"`
	Archived    bool      `json:"archived" db:"archived"`
	CreatedDate time.Time `json:"created_date" db:"created_date"`
}

type JobCreate struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Client      string  `json:"client"`
	QuotedCost  float64 `json:"quoted_cost"`
}

type JobUpdate struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Client      *string    `json:"client"`
	QuotedCost  *float64   `json:"quoted_cost"`
	Status      *JobStatus `json:"status"`
	Archived    *bool      `json:"archived"`
}

func NewJob(name, description, location, client string, quotedCost float64) (*Job, error) {
	if name == "" {
		return nil, errors.New("invalid job details: name is required")
	}
	if quotedCost < 0 {
		return nil, errors.New("invalid job details: quoted cost cannot be negative")
	}

	return &Job{
		JobID:       "JOB-" + uuid.New().String(),
		Name:        name,
		Description: description,
		Location:    location,
		Client:      client,
		QuotedCost:  quotedCost,
		Status:      JobActive,
		Archived:    false,
		CreatedDate: time.Now().UTC(),
	}, nil
}
