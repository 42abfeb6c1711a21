package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"TimeTrackBackend/database"
	"TimeTrackBackend/reports"
	"TimeTrackBackend/timemath"
)

// GetDashboardStats serves the admin landing view: roster and job counts,
// hours this week, materials spend this month, attendance alerts.
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	policy := reports.DefaultAlertPolicy()

	workers, err := database.ListWorkers(false, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	jobs, err := database.ListJobs(false, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// One fetch covers both the week window and the alert window.
	weekStart, _ := timemath.WeekWindow(asOf)
	alertStart, _ := timemath.DayWindow(asOf, policy.TrailingDays-1)
	start := weekStart
	if alertStart.Before(start) {
		start = alertStart
	}
	entries, err := database.ListEntries(database.EntryFilter{Start: &start})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	monthStart, _ := timemath.MonthWindow(asOf)
	materials, err := database.ListMaterials(database.MaterialFilter{Start: &monthStart})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	summary := reports.BuildDashboardSummary(asOf, workers, jobs, entries, materials, policy)
	respondWithJSON(w, http.StatusOK, summary)
}

func fetchJobReport(w http.ResponseWriter, jobID string) *reports.JobReport {
	job, err := database.GetJobByID(jobID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return nil
	}
	if job == nil {
		respondWithError(w, http.StatusNotFound, "Job not found")
		return nil
	}

	entries, err := database.ListEntries(database.EntryFilter{JobID: jobID})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return nil
	}
	materials, err := database.ListMaterials(database.MaterialFilter{JobID: jobID})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return nil
	}
	// Archived workers stay in the lookup so their historical entries
	// still cost at the right rate.
	workers, err := database.ListWorkers(false, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return nil
	}

	return reports.BuildJobReport(job, entries, materials, workers)
}

func GetJobCostReport(w http.ResponseWriter, r *http.Request) {
	report := fetchJobReport(w, mux.Vars(r)["id"])
	if report == nil {
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func ExportJobReport(w http.ResponseWriter, r *http.Request) {
	report := fetchJobReport(w, mux.Vars(r)["id"])
	if report == nil {
		return
	}

	filename := fmt.Sprintf("job_report_%s.csv", strings.ReplaceAll(report.Job.Name, " ", "_"))
	respondWithCSV(w, filename, reports.JobReportRows(report))
}

func ExportTimeEntries(w http.ResponseWriter, r *http.Request) {
	filter := database.EntryFilter{
		WorkerID: r.URL.Query().Get("worker_id"),
		JobID:    r.URL.Query().Get("job_id"),
	}
	var ok bool
	if filter.Start, ok = parseTimeParam(w, r, "start_date"); !ok {
		return
	}
	if filter.End, ok = parseTimeParam(w, r, "end_date"); !ok {
		return
	}

	entries, err := database.ListEntries(filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	workers, err := database.ListWorkers(false, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	jobs, err := database.ListJobs(false, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	lines := reports.EntryLines(entries, workers, jobs)
	respondWithCSV(w, "time_entries.csv", reports.TimeEntryRows(lines))
}

func ExportJobs(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	jobs, err := database.ListJobs(false, includeArchived)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondWithCSV(w, "jobs.csv", reports.JobRows(jobs))
}

func materialLinesFromQuery(w http.ResponseWriter, r *http.Request) ([]reports.MaterialLine, bool) {
	filter := database.MaterialFilter{
		JobID:    r.URL.Query().Get("job_id"),
		Supplier: r.URL.Query().Get("supplier"),
	}
	var ok bool
	if filter.Start, ok = parseTimeParam(w, r, "start_date"); !ok {
		return nil, false
	}
	if filter.End, ok = parseTimeParam(w, r, "end_date"); !ok {
		return nil, false
	}

	materials, err := database.ListMaterials(filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	jobs, err := database.ListJobs(false, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}

	lines := reports.MaterialLines(materials, jobs)

	// Client is a property of the owning job, so it filters after the join.
	if client := r.URL.Query().Get("client"); client != "" {
		filtered := lines[:0]
		for _, l := range lines {
			if strings.Contains(strings.ToLower(l.JobClient), strings.ToLower(client)) {
				filtered = append(filtered, l)
			}
		}
		lines = filtered
	}
	return lines, true
}

func GetMaterialsReport(w http.ResponseWriter, r *http.Request) {
	lines, ok := materialLinesFromQuery(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, lines)
}

func ExportMaterials(w http.ResponseWriter, r *http.Request) {
	lines, ok := materialLinesFromQuery(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("materials_report_%s.csv", time.Now().UTC().Format("20060102"))
	respondWithCSV(w, filename, reports.MaterialRows(lines))
}

func ExportAttendanceAlerts(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	policy := reports.DefaultAlertPolicy()

	workers, err := database.ListWorkers(false, true)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	start, _ := timemath.DayWindow(asOf, policy.TrailingDays-1)
	entries, err := database.ListEntries(database.EntryFilter{Start: &start})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	alerts := reports.BuildAttendanceAlerts(asOf, workers, entries, policy)

	filename := fmt.Sprintf("attendance_alerts_%s.csv", asOf.Format("20060102"))
	respondWithCSV(w, filename, reports.AttendanceAlertRows(alerts))
}
