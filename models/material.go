package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Material struct {
	ID           int       `json:"id" db:"id"`
	MaterialID   string    `json:"material_id" db:"material_id"`
	JobID        string    `json:"job_id" db:"job_id"`
	Name         string    `json:"name" db:"name"`
	Cost         float64   `json:"cost" db:"cost"` // unit cost
	Quantity     int       `json:"quantity" db:"quantity"`
	Supplier     string    `json:"supplier" db:"supplier"`
	Reference    string    `json:"reference" db:"reference"` // receipt number
	Notes        string    `json:"notes" db:"notes"`
	Archived     bool      `json:"archived" db:"archived"`
	PurchaseDate time.Time `json:"purchase_date" db:"purchase_date"`
	CreatedDate  time.Time `json:"created_date" db:"created_date"`
}

// TotalValue is the material's contribution to job cost.
func (m *Material) TotalValue() float64 {
	return m.Cost * float64(m.Quantity)
}

type MaterialCreate struct {
	JobID     string  `json:"job_id"`
	Name      string  `json:"name"`
	Cost      float64 `json:"cost"`
	Quantity  int     `json:"quantity"`
	Supplier  string  `json:"supplier"`
	Reference string  `json:"reference"`
	Notes     string  `json:"notes"`
}

type MaterialUpdate struct {
	Name         *string    `json:"name"`
	Cost         *float64   `json:"cost"`
	Quantity     *int       `json:"quantity"`
	Supplier     *string    `json:"supplier"`
	Reference    *string    `json:"reference"`
	Notes        *string    `json:"notes"`
	PurchaseDate *time.Time `json:"purchase_date"`
}

func NewMaterial(jobID, name string, cost float64, quantity int, supplier, reference, notes string) (*Material, error) {
	if jobID == "" || name == "" {
		return nil, errors.New("invalid material details: job and name are required")
	}
	if cost < 0 {
		return nil, errors.New("invalid material details: unit cost cannot be negative")
	}
	if quantity < 1 {
		return nil, errors.New("invalid material details: quantity must be at least 1")
	}

	now := time.Now().UTC()
	return &Material{
		MaterialID:   "MAT-" + uuid.New().String(),
		JobID:        jobID,
		Name:         name,
		Cost:         cost,
		Quantity:     quantity,
		Supplier:     supplier,
		Reference:    reference,
		Notes:        notes,
		PurchaseDate: now,
		CreatedDate:  now,
	}, nil
}
