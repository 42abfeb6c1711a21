package reports

import (
	"fmt"
	"strconv"

	"TimeTrackBackend/models"
	"TimeTrackBackend/timemath"
)

// Column order and header names below are a compatibility contract for
// consumers of exported files. Do not reorder or rename.

var timeEntryHeader = []string{"Worker", "Job", "Clock In", "Clock Out", "Duration", "Hourly Rate", "Cost"}

var jobHeader = []string{"Job Name", "Client", "Location", "Status", "Quoted Cost", "Created Date"}

var materialHeader = []string{"Date", "Job", "Client", "Material", "Supplier", "Receipt No", "Quantity", "Unit Cost", "Total Value", "Notes"}

var attendanceHeader = []string{"Worker Name", "Alert Type", "Date", "Time", "Details"}

// TimeEntryRows renders one header row plus one row per entry. Timestamps
// render in local display format; active entries leave Clock Out, Duration
// and Cost blank since unfinished time is not yet billable.
func TimeEntryRows(lines []EntryLine) [][]string {
	rows := [][]string{timeEntryHeader}
	for i := range lines {
		l := &lines[i]

		clockOut, duration, cost := "", "", ""
		if l.ClockOut != nil {
			minutes := timemath.DurationMinutes(l.ClockIn, *l.ClockOut)
			clockOut = timemath.ToLocalDisplay(*l.ClockOut)
			duration = timemath.FormatMinutes(minutes)
			cost = timemath.FormatCurrency(float64(minutes) / 60 * l.HourlyRate)
		}

		rows = append(rows, []string{
			l.WorkerName,
			l.JobName,
			timemath.ToLocalDisplay(l.ClockIn),
			clockOut,
			duration,
			timemath.FormatCurrency(l.HourlyRate),
			cost,
		})
	}
	return rows
}

// JobRows renders the jobs export.
func JobRows(jobs []models.Job) [][]string {
	rows := [][]string{jobHeader}
	for i := range jobs {
		j := &jobs[i]
		rows = append(rows, []string{
			j.Name,
			j.Client,
			j.Location,
			string(j.Status),
			timemath.FormatCurrency(j.QuotedCost),
			j.CreatedDate.In(timemath.Zone()).Format("2006-01-02"),
		})
	}
	return rows
}

// MaterialRows renders the materials export.
func MaterialRows(lines []MaterialLine) [][]string {
	rows := [][]string{materialHeader}
	for i := range lines {
		m := &lines[i]
		rows = append(rows, []string{
			m.PurchaseDate.In(timemath.Zone()).Format("2006-01-02 15:04"),
			m.JobName,
			m.JobClient,
			m.Name,
			m.Supplier,
			m.Reference,
			strconv.Itoa(m.Quantity),
			timemath.FormatCurrency(m.Cost),
			timemath.FormatCurrency(m.TotalValue),
			m.Notes,
		})
	}
	return rows
}

// AttendanceAlertRows renders the attendance alerts export.
func AttendanceAlertRows(alerts []AttendanceAlert) [][]string {
	rows := [][]string{attendanceHeader}
	for i := range alerts {
		a := &alerts[i]
		rows = append(rows, []string{a.WorkerName, a.Type, a.Date, a.Time, a.Message})
	}
	return rows
}

// JobReportRows renders the sectioned per-job export: a summary block, the
// time entries, then the materials, with section totals.
func JobReportRows(r *JobReport) [][]string {
	rows := [][]string{
		{"JOB REPORT - " + r.Job.Name},
		{"Client", r.Job.Client},
		{"Location", r.Job.Location},
		{"Quoted Cost", timemath.FormatCurrency(r.QuotedCost)},
		{"Actual Cost", timemath.FormatCurrency(r.Totals.TotalCost)},
		{"Variance", timemath.FormatCurrency(r.CostVariance)},
		{},
		{"TIME ENTRIES"},
	}

	rows = append(rows, TimeEntryRows(r.TimeEntries)...)
	rows = append(rows,
		[]string{"TOTAL LABOR", "", "", "", fmt.Sprintf("%.1f hours", r.Totals.TotalHours), "", timemath.FormatCurrency(r.Totals.LaborCost)},
		[]string{},
		[]string{"MATERIALS"},
	)

	rows = append(rows, MaterialRows(r.Materials)...)
	rows = append(rows,
		[]string{"TOTAL MATERIALS", "", "", "", "", "", "", "", timemath.FormatCurrency(r.Totals.MaterialsCost), ""},
	)
	return rows
}
