package costing

import (
	"math"
	"testing"
	"time"

	"TimeTrackBackend/models"
)

func closedEntry(workerID, jobID string, clockIn time.Time, minutes int) models.TimeEntry {
	out := clockIn.Add(time.Duration(minutes) * time.Minute)
	return models.TimeEntry{
		EntryID:         "ENT-" + workerID + jobID,
		WorkerID:        workerID,
		JobID:           jobID,
		ClockIn:         clockIn,
		ClockOut:        &out,
		DurationMinutes: &minutes,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestJobTotalsLabor(t *testing.T) {
	in := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	workers := []models.Worker{{WorkerID: "WRK-1", Name: "Ana", HourlyRate: 20}}
	entries := []models.TimeEntry{closedEntry("WRK-1", "JOB-1", in, 150)}

	totals := JobTotals("JOB-1", entries, nil, workers)

	if totals.TotalMinutes != 150 {
		t.Fatalf("TotalMinutes = %d, want 150", totals.TotalMinutes)
	}
	if !approx(totals.TotalHours, 2.5) {
		t.Fatalf("TotalHours = %v, want 2.5", totals.TotalHours)
	}
	if !approx(totals.LaborCost, 50) {
		t.Fatalf("LaborCost = %v, want 50", totals.LaborCost)
	}
	if !approx(totals.TotalCost, 50) {
		t.Fatalf("TotalCost = %v, want 50", totals.TotalCost)
	}
}

func TestJobTotalsFiltersOtherJobs(t *testing.T) {
	in := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	workers := []models.Worker{{WorkerID: "WRK-1", HourlyRate: 20}}
	entries := []models.TimeEntry{
		closedEntry("WRK-1", "JOB-1", in, 60),
		closedEntry("WRK-1", "JOB-2", in, 600),
	}
	materials := []models.Material{
		{MaterialID: "MAT-1", JobID: "JOB-1", Cost: 10, Quantity: 2},
		{MaterialID: "MAT-2", JobID: "JOB-2", Cost: 99, Quantity: 9},
	}

	totals := JobTotals("JOB-1", entries, materials, workers)

	if totals.TotalMinutes != 60 {
		t.Fatalf("TotalMinutes = %d, want 60", totals.TotalMinutes)
	}
	if !approx(totals.MaterialsCost, 20) {
		t.Fatalf("MaterialsCost = %v, want 20", totals.MaterialsCost)
	}
}

func TestActiveEntryContributesZero(t *testing.T) {
	workers := []models.Worker{{WorkerID: "WRK-1", HourlyRate: 20}}
	entries := []models.TimeEntry{{
		EntryID:  "ENT-open",
		WorkerID: "WRK-1",
		JobID:    "JOB-1",
		ClockIn:  time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
	}}

	totals := JobTotals("JOB-1", entries, nil, workers)
	if totals.TotalMinutes != 0 || totals.LaborCost != 0 {
		t.Fatalf("active entry billed: minutes=%d cost=%v", totals.TotalMinutes, totals.LaborCost)
	}
}

func TestEntryMinutesRecomputesFromTimestamps(t *testing.T) {
	// A stale stored duration must not leak into cost figures.
	e := closedEntry("WRK-1", "JOB-1", time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC), 60)
	wrong := 999
	e.DurationMinutes = &wrong

	if got := EntryMinutes(&e); got != 60 {
		t.Fatalf("EntryMinutes = %d, want 60", got)
	}
}

func TestRateForFallsBackToDefault(t *testing.T) {
	workers := []models.Worker{
		{WorkerID: "WRK-1", HourlyRate: 22.5},
		{WorkerID: "WRK-zero", HourlyRate: 0},
	}

	if got := RateFor("WRK-1", workers); !approx(got, 22.5) {
		t.Fatalf("RateFor known = %v, want 22.5", got)
	}
	if got := RateFor("WRK-zero", workers); !approx(got, models.DefaultHourlyRate) {
		t.Fatalf("RateFor zero-rate = %v, want default", got)
	}
	if got := RateFor("WRK-missing", workers); !approx(got, models.DefaultHourlyRate) {
		t.Fatalf("RateFor missing = %v, want default", got)
	}
}

func TestMaterialsCost(t *testing.T) {
	materials := []models.Material{
		{MaterialID: "MAT-1", JobID: "JOB-1", Cost: 12.5, Quantity: 3},
		{MaterialID: "MAT-2", JobID: "JOB-1", Cost: 5, Quantity: 1},
	}

	if got := MaterialsCost(materials); !approx(got, 42.5) {
		t.Fatalf("MaterialsCost = %v, want 42.5", got)
	}

	// Aggregation is read-only; repeating it cannot drift.
	if got := MaterialsCost(materials); !approx(got, 42.5) {
		t.Fatalf("repeated MaterialsCost = %v, want 42.5", got)
	}
}

func TestLaborCostIsLinearInEntries(t *testing.T) {
	in := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	workers := []models.Worker{{WorkerID: "WRK-1", HourlyRate: 20}}

	single := LaborCost([]models.TimeEntry{closedEntry("WRK-1", "JOB-1", in, 90)}, workers)
	double := LaborCost([]models.TimeEntry{
		closedEntry("WRK-1", "JOB-1", in, 90),
		closedEntry("WRK-1", "JOB-1", in.Add(3*time.Hour), 90),
	}, workers)

	if !approx(double, 2*single) {
		t.Fatalf("LaborCost not additive: single=%v double=%v", single, double)
	}
}

func TestVarianceSign(t *testing.T) {
	in := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	job := &models.Job{JobID: "JOB-1", QuotedCost: 1000}
	workers := []models.Worker{{WorkerID: "WRK-1", HourlyRate: 20}}
	entries := []models.TimeEntry{closedEntry("WRK-1", "JOB-1", in, 1800)} // 30h -> 600
	materials := []models.Material{{MaterialID: "MAT-1", JobID: "JOB-1", Cost: 150, Quantity: 1}}

	totals := JobTotals("JOB-1", entries, materials, workers)
	if got := Variance(job, totals); !approx(got, 250) {
		t.Fatalf("under-budget variance = %v, want 250", got)
	}

	job.QuotedCost = 500
	if got := Variance(job, totals); !approx(got, -250) {
		t.Fatalf("over-budget variance = %v, want -250", got)
	}
}
