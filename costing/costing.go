// Package costing computes labor and materials cost over already-fetched
// collections. Every function is pure: no I/O, no mutation of inputs, and
// no errors. A missing worker record degrades to the default hourly rate
// so one bad reference never breaks a whole report.
package costing

import (
	"TimeTrackBackend/models"
	"TimeTrackBackend/timemath"
)

// JobTotals aggregates one job's cost picture.
type Totals struct {
	JobID         string  `json:"job_id"`
	TotalMinutes  int     `json:"total_minutes"`
	TotalHours    float64 `json:"total_hours"`
	LaborCost     float64 `json:"labor_cost"`
	MaterialsCost float64 `json:"materials_cost"`
	TotalCost     float64 `json:"total_cost"`
}

// RateFor returns a worker's hourly rate from the fetched roster, falling
// back to the default rate when the worker is missing or has no rate set.
func RateFor(workerID string, workers []models.Worker) float64 {
	for i := range workers {
		if workers[i].WorkerID == workerID {
			if workers[i].HourlyRate > 0 {
				return workers[i].HourlyRate
			}
			return models.DefaultHourlyRate
		}
	}
	return models.DefaultHourlyRate
}

// EntryMinutes is the billable duration of an entry in whole minutes.
// Closed entries recompute from the timestamps rather than trusting the
// stored derived value; active entries are not yet billable and count zero.
func EntryMinutes(e *models.TimeEntry) int {
	if e.ClockOut == nil {
		return 0
	}
	return timemath.DurationMinutes(e.ClockIn, *e.ClockOut)
}

// EntryLaborCost is the cost of a single entry at the given hourly rate.
func EntryLaborCost(e *models.TimeEntry, hourlyRate float64) float64 {
	return float64(EntryMinutes(e)) / 60 * hourlyRate
}

// LaborCost sums duration × rate across the entries. Entries still active
// contribute nothing until clocked out.
func LaborCost(entries []models.TimeEntry, workers []models.Worker) float64 {
	var total float64
	for i := range entries {
		total += EntryLaborCost(&entries[i], RateFor(entries[i].WorkerID, workers))
	}
	return total
}

// MaterialsCost sums unit cost × quantity. No intermediate rounding;
// amounts round only when formatted for display.
func MaterialsCost(materials []models.Material) float64 {
	var total float64
	for i := range materials {
		total += materials[i].TotalValue()
	}
	return total
}

// JobTotals filters the collections to one job and aggregates.
func JobTotals(jobID string, entries []models.TimeEntry, materials []models.Material, workers []models.Worker) Totals {
	t := Totals{JobID: jobID}

	for i := range entries {
		if entries[i].JobID != jobID {
			continue
		}
		minutes := EntryMinutes(&entries[i])
		t.TotalMinutes += minutes
		t.LaborCost += float64(minutes) / 60 * RateFor(entries[i].WorkerID, workers)
	}

	for i := range materials {
		if materials[i].JobID != jobID {
			continue
		}
		t.MaterialsCost += materials[i].TotalValue()
	}

	t.TotalHours = float64(t.TotalMinutes) / 60
	t.TotalCost = t.LaborCost + t.MaterialsCost
	return t
}

// Variance is quoted cost minus actual total cost. Positive means under
// budget, negative means over; every report surface preserves this sign.
func Variance(job *models.Job, totals Totals) float64 {
	return job.QuotedCost - totals.TotalCost
}
