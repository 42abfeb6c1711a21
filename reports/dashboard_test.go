package reports

import (
	"testing"
	"time"

	"TimeTrackBackend/models"
)

// Winter dates throughout, so local wall clock equals UTC and the
// assertions read naturally.

func entry(workerID, jobID string, in time.Time, minutes int) models.TimeEntry {
	out := in.Add(time.Duration(minutes) * time.Minute)
	return models.TimeEntry{
		EntryID:         "ENT-" + in.Format("20060102t1504"),
		WorkerID:        workerID,
		JobID:           jobID,
		ClockIn:         in,
		ClockOut:        &out,
		DurationMinutes: &minutes,
	}
}

func TestBuildDashboardSummary(t *testing.T) {
	asOf := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) // Wednesday

	workers := []models.Worker{
		{WorkerID: "WRK-1", Name: "Ana", Role: models.RoleWorker, Active: true, HourlyRate: 20},
		{WorkerID: "WRK-2", Name: "Bob", Role: models.RoleAdmin, Active: true},
		{WorkerID: "WRK-3", Name: "Carol", Role: models.RoleWorker, Active: true, Archived: true},
		{WorkerID: "WRK-4", Name: "Dan", Role: models.RoleWorker, Active: false},
	}
	jobs := []models.Job{
		{JobID: "JOB-1", Status: models.JobActive},
		{JobID: "JOB-2", Status: models.JobCompleted},
		{JobID: "JOB-3", Status: models.JobCancelled},
		{JobID: "JOB-4", Status: models.JobActive, Archived: true},
	}
	entries := []models.TimeEntry{
		// Monday of the current week, 2h30m.
		entry("WRK-1", "JOB-1", time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC), 150),
		// Previous week, must not count.
		entry("WRK-1", "JOB-1", time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), 480),
	}
	materials := []models.Material{
		{MaterialID: "MAT-1", JobID: "JOB-1", Cost: 12.5, Quantity: 3,
			PurchaseDate: time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)},
		// Last month, must not count.
		{MaterialID: "MAT-2", JobID: "JOB-1", Cost: 100, Quantity: 1,
			PurchaseDate: time.Date(2024, 12, 20, 14, 0, 0, 0, time.UTC)},
	}

	s := BuildDashboardSummary(asOf, workers, jobs, entries, materials, DefaultAlertPolicy())

	if s.TotalWorkers != 2 {
		t.Fatalf("TotalWorkers = %d, want 2", s.TotalWorkers)
	}
	if s.TotalJobs != 2 {
		t.Fatalf("TotalJobs = %d, want 2", s.TotalJobs)
	}
	if s.ActiveJobs != 1 {
		t.Fatalf("ActiveJobs = %d, want 1", s.ActiveJobs)
	}
	if s.HoursThisWeek != 2.5 {
		t.Fatalf("HoursThisWeek = %v, want 2.5", s.HoursThisWeek)
	}
	if s.MaterialsCostThisMonth != 37.5 {
		t.Fatalf("MaterialsCostThisMonth = %v, want 37.5", s.MaterialsCostThisMonth)
	}

	// Ana clocked in only on Monday; Thursday, Friday and Tuesday of the
	// trailing window are weekday absences. Today never counts as one.
	if len(s.AttendanceAlerts) != 3 {
		t.Fatalf("alerts = %d, want 3: %+v", len(s.AttendanceAlerts), s.AttendanceAlerts)
	}
	for _, a := range s.AttendanceAlerts {
		if a.Type != AlertNoClockIn || a.WorkerID != "WRK-1" {
			t.Fatalf("unexpected alert %+v", a)
		}
	}
}

func TestAttendanceAlertsLateClockInAndOut(t *testing.T) {
	asOf := time.Date(2025, 1, 15, 19, 0, 0, 0, time.UTC)
	policy := AlertPolicy{LateClockInHour: 9, LateClockOutHour: 17, TrailingDays: 1}
	workers := []models.Worker{{WorkerID: "WRK-1", Name: "Ana", Role: models.RoleWorker, Active: true}}
	entries := []models.TimeEntry{
		entry("WRK-1", "JOB-1", time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC), 495), // out 17:45
	}

	alerts := BuildAttendanceAlerts(asOf, workers, entries, policy)
	if len(alerts) != 2 {
		t.Fatalf("alerts = %d, want 2: %+v", len(alerts), alerts)
	}
	if alerts[0].Type != AlertLateClockIn || alerts[0].Time != "09:30" {
		t.Fatalf("first alert = %+v, want late clock-in at 09:30", alerts[0])
	}
	if alerts[1].Type != AlertLateClockOut || alerts[1].Time != "17:45" {
		t.Fatalf("second alert = %+v, want late clock-out at 17:45", alerts[1])
	}
	if alerts[0].Date != "2025-01-15" {
		t.Fatalf("alert date = %q", alerts[0].Date)
	}
}

func TestAttendanceAlertsOnTimeIsQuiet(t *testing.T) {
	asOf := time.Date(2025, 1, 15, 19, 0, 0, 0, time.UTC)
	policy := AlertPolicy{LateClockInHour: 9, LateClockOutHour: 17, TrailingDays: 1}
	workers := []models.Worker{{WorkerID: "WRK-1", Name: "Ana", Role: models.RoleWorker, Active: true}}
	entries := []models.TimeEntry{
		entry("WRK-1", "JOB-1", time.Date(2025, 1, 15, 8, 55, 0, 0, time.UTC), 455), // out 16:30
	}

	if alerts := BuildAttendanceAlerts(asOf, workers, entries, policy); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %+v", alerts)
	}
}

func TestAttendanceAlertsTooEarlyToJudgeToday(t *testing.T) {
	// 08:00 local is before the late threshold; today's attendance is not
	// judged yet, even with no entries at all.
	asOf := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	policy := AlertPolicy{LateClockInHour: 9, LateClockOutHour: 17, TrailingDays: 1}
	workers := []models.Worker{{WorkerID: "WRK-1", Name: "Ana", Role: models.RoleWorker, Active: true}}

	if alerts := BuildAttendanceAlerts(asOf, workers, nil, policy); len(alerts) != 0 {
		t.Fatalf("expected no alerts before threshold, got %+v", alerts)
	}
}

func TestAttendanceAlertsWeekendNotAnAbsence(t *testing.T) {
	// Monday noon looking back three days: Sunday and Saturday are skipped
	// and today is never an absence.
	asOf := time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC)
	policy := AlertPolicy{LateClockInHour: 9, LateClockOutHour: 17, TrailingDays: 3}
	workers := []models.Worker{{WorkerID: "WRK-1", Name: "Ana", Role: models.RoleWorker, Active: true}}

	if alerts := BuildAttendanceAlerts(asOf, workers, nil, policy); len(alerts) != 0 {
		t.Fatalf("expected no alerts over the weekend, got %+v", alerts)
	}
}

func TestAttendanceAlertsSkipAdminAndInactive(t *testing.T) {
	asOf := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	policy := AlertPolicy{LateClockInHour: 9, LateClockOutHour: 17, TrailingDays: 3}
	workers := []models.Worker{
		{WorkerID: "WRK-admin", Name: "Bob", Role: models.RoleAdmin, Active: true},
		{WorkerID: "WRK-gone", Name: "Carol", Role: models.RoleWorker, Active: false},
		{WorkerID: "WRK-arch", Name: "Dan", Role: models.RoleWorker, Active: true, Archived: true},
	}

	if alerts := BuildAttendanceAlerts(asOf, workers, nil, policy); len(alerts) != 0 {
		t.Fatalf("expected no alerts for exempt workers, got %+v", alerts)
	}
}

func TestAttendanceAlertsOrdering(t *testing.T) {
	asOf := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	policy := AlertPolicy{LateClockInHour: 9, LateClockOutHour: 17, TrailingDays: 3}
	workers := []models.Worker{
		{WorkerID: "WRK-z", Name: "Zoe", Role: models.RoleWorker, Active: true},
		{WorkerID: "WRK-a", Name: "Ana", Role: models.RoleWorker, Active: true},
	}
	// Both absent Monday and Tuesday.
	alerts := BuildAttendanceAlerts(asOf, workers, nil, policy)

	if len(alerts) != 4 {
		t.Fatalf("alerts = %d, want 4: %+v", len(alerts), alerts)
	}
	// Date descending, then worker name ascending.
	want := []struct{ date, name string }{
		{"2025-01-14", "Ana"},
		{"2025-01-14", "Zoe"},
		{"2025-01-13", "Ana"},
		{"2025-01-13", "Zoe"},
	}
	for i, w := range want {
		if alerts[i].Date != w.date || alerts[i].WorkerName != w.name {
			t.Fatalf("alerts[%d] = %s/%s, want %s/%s", i, alerts[i].Date, alerts[i].WorkerName, w.date, w.name)
		}
	}
}

func TestAttendanceAlertsIgnoreArchivedEntries(t *testing.T) {
	asOf := time.Date(2025, 1, 15, 19, 0, 0, 0, time.UTC)
	policy := AlertPolicy{LateClockInHour: 9, LateClockOutHour: 17, TrailingDays: 1}
	workers := []models.Worker{{WorkerID: "WRK-1", Name: "Ana", Role: models.RoleWorker, Active: true}}

	late := entry("WRK-1", "JOB-1", time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC), 60)
	late.Archived = true

	// With the only entry archived, today registers no clock events at all;
	// since it is today, there is no absence alert either.
	if alerts := BuildAttendanceAlerts(asOf, workers, []models.TimeEntry{late}, policy); len(alerts) != 0 {
		t.Fatalf("expected archived entries ignored, got %+v", alerts)
	}
}
