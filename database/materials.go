package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"TimeTrackBackend/models"
)

const materialColumns = `id, material_id, job_id, name, cost, quantity, supplier, reference, notes, archived, purchase_date, created_date`

func scanMaterial(row interface{ Scan(...interface{}) error }) (*models.Material, error) {
	var m models.Material
	err := row.Scan(&m.ID, &m.MaterialID, &m.JobID, &m.Name, &m.Cost, &m.Quantity,
		&m.Supplier, &m.Reference, &m.Notes, &m.Archived, &m.PurchaseDate, &m.CreatedDate)
	if err != nil {
		return nil, err
	}
	m.PurchaseDate = m.PurchaseDate.UTC()
	return &m, nil
}

func InsertMaterial(m *models.Material) error {
	err := DB.QueryRow(
		`INSERT INTO materials (material_id, job_id, name, cost, quantity, supplier, reference, notes, archived, purchase_date, created_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		m.MaterialID, m.JobID, m.Name, m.Cost, m.Quantity, m.Supplier, m.Reference,
		m.Notes, m.Archived, m.PurchaseDate, m.CreatedDate,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetMaterialByID returns (nil, nil) when no material matches.
func GetMaterialByID(materialID string) (*models.Material, error) {
	m, err := scanMaterial(DB.QueryRow(
		`SELECT `+materialColumns+` FROM materials WHERE material_id = $1`, materialID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get material %s: %w", materialID, err)
	}
	return m, nil
}

type MaterialFilter struct {
	JobID           string
	Supplier        string // case-insensitive substring
	Start           *time.Time
	End             *time.Time
	IncludeArchived bool
}

func ListMaterials(f MaterialFilter) ([]models.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE 1=1`
	args := []interface{}{}

	if f.JobID != "" {
		args = append(args, f.JobID)
		query += fmt.Sprintf(` AND job_id = $%d`, len(args))
	}
	if f.Supplier != "" {
		args = append(args, "%"+f.Supplier+"%")
		query += fmt.Sprintf(` AND supplier ILIKE $%d`, len(args))
	}
	if f.Start != nil {
		args = append(args, *f.Start)
		query += fmt.Sprintf(` AND purchase_date >= $%d`, len(args))
	}
	if f.End != nil {
		args = append(args, *f.End)
		query += fmt.Sprintf(` AND purchase_date <= $%d`, len(args))
	}
	if !f.IncludeArchived {
		query += ` AND archived = false`
	}
	query += ` ORDER BY purchase_date DESC`

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	materials := []models.Material{}
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}

func UpdateMaterial(materialID string, upd models.MaterialUpdate) (*models.Material, error) {
	m, err := GetMaterialByID(materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	if upd.Name != nil {
		m.Name = *upd.Name
	}
	if upd.Cost != nil {
		m.Cost = *upd.Cost
	}
	if upd.Quantity != nil {
		m.Quantity = *upd.Quantity
	}
	if upd.Supplier != nil {
		m.Supplier = *upd.Supplier
	}
	if upd.Reference != nil {
		m.Reference = *upd.Reference
	}
	if upd.Notes != nil {
		m.Notes = *upd.Notes
	}
	if upd.PurchaseDate != nil {
		m.PurchaseDate = upd.PurchaseDate.UTC()
	}

	_, err = DB.Exec(
		`UPDATE materials SET name = $1, cost = $2, quantity = $3, supplier = $4,
		 reference = $5, notes = $6, purchase_date = $7 WHERE material_id = $8`,
		m.Name, m.Cost, m.Quantity, m.Supplier, m.Reference, m.Notes, m.PurchaseDate, m.MaterialID,
	)
	if err != nil {
		return nil, fmt.Errorf("update material %s: %w", materialID, err)
	}
	return m, nil
}

func SetMaterialArchived(materialID string, archived bool) (bool, error) {
	result, err := DB.Exec(`UPDATE materials SET archived = $1 WHERE material_id = $2`, archived, materialID)
	if err != nil {
		return false, fmt.Errorf("archive material %s: %w", materialID, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func DeleteMaterial(materialID string) (bool, error) {
	result, err := DB.Exec(`DELETE FROM materials WHERE material_id = $1`, materialID)
	if err != nil {
		return false, fmt.Errorf("delete material %s: %w", materialID, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
