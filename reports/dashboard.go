// Package reports composes dashboard summaries, per-job cost reports and
// export rows from already-fetched snapshots. Everything here is pure and
// read-only; missing lookups degrade to placeholders instead of failing,
// since a partial report beats no report.
package reports

import (
	"fmt"
	"math"
	"sort"
	"time"

	"TimeTrackBackend/costing"
	"TimeTrackBackend/models"
	"TimeTrackBackend/timemath"
)

const (
	AlertLateClockIn  = "late_clock_in"
	AlertLateClockOut = "late_clock_out"
	AlertNoClockIn    = "no_clock_in"
)

// AlertPolicy holds the attendance thresholds. They are business policy,
// so they live in data rather than scattered constants.
type AlertPolicy struct {
	LateClockInHour  int // local hour after which a clock-in is late
	LateClockOutHour int // local hour after which a clock-out is late
	TrailingDays     int
}

func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{
		LateClockInHour:  9,
		LateClockOutHour: 17,
		TrailingDays:     7,
	}
}

type AttendanceAlert struct {
	WorkerID   string `json:"worker_id"`
	WorkerName string `json:"worker_name"`
	Type       string `json:"type"`
	Date       string `json:"date"` // local calendar date
	Time       string `json:"time"` // local wall clock, empty for absences
	Message    string `json:"message"`
}

type DashboardSummary struct {
	TotalWorkers           int               `json:"total_workers"`
	TotalJobs              int               `json:"total_jobs"`
	ActiveJobs             int               `json:"active_jobs"`
	HoursThisWeek          float64           `json:"total_hours_this_week"`
	MaterialsCostThisMonth float64           `json:"total_materials_cost_this_month"`
	AttendanceAlerts       []AttendanceAlert `json:"attendance_alerts"`
}

// BuildDashboardSummary aggregates the business-wide view as of the given
// instant. Week and month windows follow the local operating calendar, so
// a shift starting 23:30 local on a Sunday counts in that Sunday's week
// regardless of its UTC date.
func BuildDashboardSummary(asOf time.Time, workers []models.Worker, jobs []models.Job,
	entries []models.TimeEntry, materials []models.Material, policy AlertPolicy) DashboardSummary {

	var s DashboardSummary

	for i := range workers {
		if workers[i].Active && !workers[i].Archived {
			s.TotalWorkers++
		}
	}

	for i := range jobs {
		if jobs[i].Archived {
			continue
		}
		if jobs[i].Status != models.JobCancelled {
			s.TotalJobs++
		}
		if jobs[i].Status == models.JobActive {
			s.ActiveJobs++
		}
	}

	weekStart, weekEnd := timemath.WeekWindow(asOf)
	var weekMinutes int
	for i := range entries {
		e := &entries[i]
		if e.Archived || e.ClockIn.Before(weekStart) || !e.ClockIn.Before(weekEnd) {
			continue
		}
		weekMinutes += costing.EntryMinutes(e)
	}
	s.HoursThisWeek = math.Round(float64(weekMinutes)/60*10) / 10

	monthStart, monthEnd := timemath.MonthWindow(asOf)
	for i := range materials {
		m := &materials[i]
		if m.Archived || m.PurchaseDate.Before(monthStart) || !m.PurchaseDate.Before(monthEnd) {
			continue
		}
		s.MaterialsCostThisMonth += m.TotalValue()
	}

	s.AttendanceAlerts = BuildAttendanceAlerts(asOf, workers, entries, policy)
	return s
}

// BuildAttendanceAlerts scans the trailing window for late clock-ins, late
// clock-outs and weekday absences. Deterministic for a given entry set and
// asOf instant: alerts sort by date descending, then worker name, then type.
func BuildAttendanceAlerts(asOf time.Time, workers []models.Worker,
	entries []models.TimeEntry, policy AlertPolicy) []AttendanceAlert {

	zone := timemath.Zone()
	asOfLocal := asOf.In(zone)
	alerts := []AttendanceAlert{}

	byWorker := make(map[string][]*models.TimeEntry)
	for i := range entries {
		if entries[i].Archived {
			continue
		}
		byWorker[entries[i].WorkerID] = append(byWorker[entries[i].WorkerID], &entries[i])
	}

	for i := range workers {
		w := &workers[i]
		if w.Role == models.RoleAdmin || !w.Active || w.Archived {
			continue
		}

		for day := 0; day < policy.TrailingDays; day++ {
			dayStart, dayEnd := timemath.DayWindow(asOf, day)
			dayLocal := dayStart.In(zone)
			isToday := day == 0

			// Too early to judge today's attendance.
			if isToday && asOfLocal.Hour() < policy.LateClockInHour {
				continue
			}

			var dayEntries []*models.TimeEntry
			for _, e := range byWorker[w.WorkerID] {
				if !e.ClockIn.Before(dayStart) && e.ClockIn.Before(dayEnd) {
					dayEntries = append(dayEntries, e)
				}
			}

			if len(dayEntries) == 0 {
				// Absences only count on completed weekdays.
				wd := dayLocal.Weekday()
				if !isToday && wd != time.Saturday && wd != time.Sunday {
					alerts = append(alerts, AttendanceAlert{
						WorkerID:   w.WorkerID,
						WorkerName: w.Name,
						Type:       AlertNoClockIn,
						Date:       dayLocal.Format("2006-01-02"),
						Message:    fmt.Sprintf("No clock in recorded on %s", dayLocal.Format("Monday, 02 January 2006")),
					})
				}
				continue
			}

			// Thresholds are local wall-clock hours; build them on the
			// calendar so a DST transition earlier in the day cannot
			// shift them.
			lateIn := time.Date(dayLocal.Year(), dayLocal.Month(), dayLocal.Day(),
				policy.LateClockInHour, 0, 0, 0, zone)
			lateOut := time.Date(dayLocal.Year(), dayLocal.Month(), dayLocal.Day(),
				policy.LateClockOutHour, 0, 0, 0, zone)

			for _, e := range dayEntries {
				inLocal := e.ClockIn.In(zone)
				if inLocal.After(lateIn) {
					alerts = append(alerts, AttendanceAlert{
						WorkerID:   w.WorkerID,
						WorkerName: w.Name,
						Type:       AlertLateClockIn,
						Date:       dayLocal.Format("2006-01-02"),
						Time:       inLocal.Format("15:04"),
						Message: fmt.Sprintf("Clocked in late at %s on %s",
							inLocal.Format("15:04"), dayLocal.Format("Monday, 02 January 2006")),
					})
				}
				if e.ClockOut != nil {
					outLocal := e.ClockOut.In(zone)
					if outLocal.After(lateOut) {
						alerts = append(alerts, AttendanceAlert{
							WorkerID:   w.WorkerID,
							WorkerName: w.Name,
							Type:       AlertLateClockOut,
							Date:       dayLocal.Format("2006-01-02"),
							Time:       outLocal.Format("15:04"),
							Message: fmt.Sprintf("Clocked out late at %s on %s",
								outLocal.Format("15:04"), dayLocal.Format("Monday, 02 January 2006")),
						})
					}
				}
			}
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Date != alerts[j].Date {
			return alerts[i].Date > alerts[j].Date
		}
		if alerts[i].WorkerName != alerts[j].WorkerName {
			return alerts[i].WorkerName < alerts[j].WorkerName
		}
		return alerts[i].Type < alerts[j].Type
	})
	return alerts
}
