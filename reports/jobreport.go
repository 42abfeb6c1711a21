package reports

import (
	"TimeTrackBackend/costing"
	"TimeTrackBackend/models"
)

// EntryLine is a time entry enriched with the owning worker's name, rate
// and the entry's labor cost, ready for display or export.
type EntryLine struct {
	models.TimeEntry
	WorkerName string  `json:"worker_name"`
	JobName    string  `json:"job_name"`
	HourlyRate float64 `json:"hourly_rate"`
	LaborCost  float64 `json:"labor_cost"`
}

// MaterialLine is a material with its computed total contribution.
type MaterialLine struct {
	models.Material
	JobName    string  `json:"job_name"`
	JobClient  string  `json:"job_client"`
	TotalValue float64 `json:"total_value"`
}

type JobReport struct {
	Job              models.Job     `json:"job"`
	Totals           costing.Totals `json:"totals"`
	QuotedCost       float64        `json:"quoted_cost"`
	CostVariance     float64        `json:"cost_variance"`
	TimeEntries      []EntryLine    `json:"time_entries"`
	Materials        []MaterialLine `json:"materials"`
	TimeEntriesCount int            `json:"time_entries_count"`
	MaterialsCount   int            `json:"materials_count"`
}

func workerName(workerID string, workers []models.Worker) string {
	for i := range workers {
		if workers[i].WorkerID == workerID {
			return workers[i].Name
		}
	}
	return "Unknown"
}

func jobByID(jobID string, jobs []models.Job) *models.Job {
	for i := range jobs {
		if jobs[i].JobID == jobID {
			return &jobs[i]
		}
	}
	return nil
}

// EntryLines enriches entries with worker and job lookups. Missing
// references render as "Unknown" with the default rate; they never fail.
func EntryLines(entries []models.TimeEntry, workers []models.Worker, jobs []models.Job) []EntryLine {
	lines := make([]EntryLine, 0, len(entries))
	for i := range entries {
		e := entries[i]
		rate := costing.RateFor(e.WorkerID, workers)
		jobName := "Unknown"
		if j := jobByID(e.JobID, jobs); j != nil {
			jobName = j.Name
		}
		lines = append(lines, EntryLine{
			TimeEntry:  e,
			WorkerName: workerName(e.WorkerID, workers),
			JobName:    jobName,
			HourlyRate: rate,
			LaborCost:  costing.EntryLaborCost(&e, rate),
		})
	}
	return lines
}

// MaterialLines enriches materials with job lookups and total values.
func MaterialLines(materials []models.Material, jobs []models.Job) []MaterialLine {
	lines := make([]MaterialLine, 0, len(materials))
	for i := range materials {
		m := materials[i]
		jobName, jobClient := "Unknown", ""
		if j := jobByID(m.JobID, jobs); j != nil {
			jobName, jobClient = j.Name, j.Client
		}
		lines = append(lines, MaterialLine{
			Material:   m,
			JobName:    jobName,
			JobClient:  jobClient,
			TotalValue: m.TotalValue(),
		})
	}
	return lines
}

// BuildJobReport composes the read-only cost picture for one job: totals,
// variance against the quote, and the raw entry and material rows.
func BuildJobReport(job *models.Job, entries []models.TimeEntry,
	materials []models.Material, workers []models.Worker) *JobReport {

	jobEntries := make([]models.TimeEntry, 0, len(entries))
	for i := range entries {
		if entries[i].JobID == job.JobID {
			jobEntries = append(jobEntries, entries[i])
		}
	}
	jobMaterials := make([]models.Material, 0, len(materials))
	for i := range materials {
		if materials[i].JobID == job.JobID {
			jobMaterials = append(jobMaterials, materials[i])
		}
	}

	totals := costing.JobTotals(job.JobID, jobEntries, jobMaterials, workers)
	jobs := []models.Job{*job}

	return &JobReport{
		Job:              *job,
		Totals:           totals,
		QuotedCost:       job.QuotedCost,
		CostVariance:     costing.Variance(job, totals),
		TimeEntries:      EntryLines(jobEntries, workers, jobs),
		Materials:        MaterialLines(jobMaterials, jobs),
		TimeEntriesCount: len(jobEntries),
		MaterialsCount:   len(jobMaterials),
	}
}
