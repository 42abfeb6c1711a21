package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleWorker     Role = "worker"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// DefaultHourlyRate applies when a worker has no explicit rate, and when a
// time entry references a worker that no longer exists.
const DefaultHourlyRate = 15.0

type Worker struct {
	ID          int       `json:"id" db:"id"`
	WorkerID    string    `json:"worker_id" db:"worker_id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	Role        Role      `json:"role" db:"role"`
	HourlyRate  float64   `json:"hourly_rate" db:"hourly_rate"`
	Password    string    `json:"-" db:"password"`
	Active      bool      `json:"active" db:"active"`
	Archived    bool      `json:"archived" db:"archived"`
	CreatedDate time.Time `json:"created_date" db:"created_date"`
}

type WorkerCreate struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Role       Role    `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
	Password   string  `json:"password"`
}

type WorkerUpdate struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Phone      *string  `json:"phone"`
	Role       *Role    `json:"role"`
	HourlyRate *float64 `json:"hourly_rate"`
	Password   *string  `json:"password"`
	Active     *bool    `json:"active"`
	Archived   *bool    `json:"archived"`
}

func NewWorker(name, email, phone string, role Role, hourlyRate float64) (*Worker, error) {
	if name == "" || email == "" {
		return nil, errors.New("invalid worker details: name and email are required")
	}

	switch role {
	case RoleWorker, RoleSupervisor, RoleAdmin:
	case "":
		role = RoleWorker
	default:
		return nil, errors.New("invalid role")
	}

	if hourlyRate <= 0 {
		hourlyRate = DefaultHourlyRate
	}

	return &Worker{
		WorkerID:    "WRK-" + uuid.New().String(),
		Name:        name,
		Email:       email,
		Phone:       phone,
		Role:        role,
		HourlyRate:  hourlyRate,
		Active:      true,
		Archived:    false,
		CreatedDate: time.Now().UTC(),
	}, nil
}
