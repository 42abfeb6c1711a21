package timeclock

import (
	"errors"
	"testing"
	"time"

	"TimeTrackBackend/models"
)

// fakeStore keeps everything in maps and enforces the same single-active-
// entry conflict on insert that the database's partial unique index does.
type fakeStore struct {
	workers   map[string]*models.Worker
	jobs      map[string]*models.Job
	entries   map[string]*models.TimeEntry
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		workers: map[string]*models.Worker{
			"WRK-1": {WorkerID: "WRK-1", Name: "Ana", Role: models.RoleWorker, Active: true, HourlyRate: 20},
		},
		jobs: map[string]*models.Job{
			"JOB-1": {JobID: "JOB-1", Name: "Loft conversion", Status: models.JobActive},
		},
		entries: map[string]*models.TimeEntry{},
	}
}

func (s *fakeStore) GetWorker(workerID string) (*models.Worker, error) {
	return s.workers[workerID], nil
}

func (s *fakeStore) GetJob(jobID string) (*models.Job, error) {
	return s.jobs[jobID], nil
}

func (s *fakeStore) GetEntry(entryID string) (*models.TimeEntry, error) {
	return s.entries[entryID], nil
}

func (s *fakeStore) FindActiveEntry(workerID string) (*models.TimeEntry, error) {
	for _, e := range s.entries {
		if e.WorkerID == workerID && e.ClockOut == nil && !e.Archived {
			return e, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) InsertEntry(entry *models.TimeEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if active, _ := s.FindActiveEntry(entry.WorkerID); active != nil {
		return ErrAlreadyClockedIn
	}
	copied := *entry
	s.entries[entry.EntryID] = &copied
	return nil
}

func (s *fakeStore) UpdateEntry(entry *models.TimeEntry) error {
	copied := *entry
	s.entries[entry.EntryID] = &copied
	return nil
}

func newTestClock(store *fakeStore, now time.Time) *Clock {
	c := New(store)
	c.now = func() time.Time { return now }
	return c
}

func TestClockIn(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	c := newTestClock(store, now)

	fix := &models.GPSLocation{Latitude: 51.5, Longitude: -0.12}
	entry, err := c.ClockIn("WRK-1", "JOB-1", fix, "starting early")
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	if entry.EntryID == "" {
		t.Fatal("entry should have an ID")
	}
	if !entry.ClockIn.Equal(now) {
		t.Fatalf("ClockIn stamp = %v, want %v", entry.ClockIn, now)
	}
	if !entry.Active() {
		t.Fatal("new entry should be active")
	}
	if entry.GPSLocationIn == nil || entry.GPSLocationIn.Latitude != 51.5 {
		t.Fatal("clock-in location not recorded")
	}
	if stored := store.entries[entry.EntryID]; stored == nil {
		t.Fatal("entry not persisted")
	}
}

func TestClockInWhileActiveRejected(t *testing.T) {
	store := newFakeStore()
	c := newTestClock(store, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	first, err := c.ClockIn("WRK-1", "JOB-1", nil, "")
	if err != nil {
		t.Fatalf("first ClockIn: %v", err)
	}

	// A second clock-in is rejected even against a different job, and the
	// first entry is untouched.
	store.jobs["JOB-2"] = &models.Job{JobID: "JOB-2", Name: "Extension", Status: models.JobActive}
	if _, err := c.ClockIn("WRK-1", "JOB-2", nil, ""); !errors.Is(err, ErrAlreadyClockedIn) {
		t.Fatalf("second ClockIn err = %v, want ErrAlreadyClockedIn", err)
	}

	if len(store.entries) != 1 {
		t.Fatalf("entry count = %d, want 1", len(store.entries))
	}
	if stored := store.entries[first.EntryID]; !stored.Active() || stored.JobID != "JOB-1" {
		t.Fatal("original entry was modified by the rejected clock-in")
	}
}

func TestClockInRaceSurfacesConflict(t *testing.T) {
	// The idle check passes but the insert loses the race to a concurrent
	// clock-in. The storage conflict surfaces as the same error.
	store := newFakeStore()
	store.insertErr = ErrAlreadyClockedIn
	c := newTestClock(store, time.Now())

	if _, err := c.ClockIn("WRK-1", "JOB-1", nil, ""); !errors.Is(err, ErrAlreadyClockedIn) {
		t.Fatalf("err = %v, want ErrAlreadyClockedIn", err)
	}
}

func TestClockInUnknownWorker(t *testing.T) {
	c := newTestClock(newFakeStore(), time.Now())
	if _, err := c.ClockIn("WRK-missing", "JOB-1", nil, ""); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("err = %v, want ErrInvalidReference", err)
	}
}

func TestClockInRejectsInactiveJob(t *testing.T) {
	store := newFakeStore()
	store.jobs["JOB-done"] = &models.Job{JobID: "JOB-done", Status: models.JobCompleted}
	store.jobs["JOB-gone"] = &models.Job{JobID: "JOB-gone", Status: models.JobActive, Archived: true}
	c := newTestClock(store, time.Now())

	for _, jobID := range []string{"JOB-done", "JOB-gone", "JOB-missing"} {
		if _, err := c.ClockIn("WRK-1", jobID, nil, ""); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("ClockIn(%s) err = %v, want ErrInvalidReference", jobID, err)
		}
	}
}

func TestClockOut(t *testing.T) {
	store := newFakeStore()
	start := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	c := newTestClock(store, start)

	entry, err := c.ClockIn("WRK-1", "JOB-1", nil, "morning shift")
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	// 2h30m and change; partial minutes truncate.
	c.now = func() time.Time { return start.Add(150*time.Minute + 45*time.Second) }
	fix := &models.GPSLocation{Latitude: 51.5, Longitude: -0.12}
	closed, err := c.ClockOut(entry.EntryID, fix, "done for today")
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	if closed.ClockOut == nil {
		t.Fatal("entry still active after clock-out")
	}
	if closed.DurationMinutes == nil || *closed.DurationMinutes != 150 {
		t.Fatalf("DurationMinutes = %v, want 150", closed.DurationMinutes)
	}
	if closed.Notes != "done for today" {
		t.Fatalf("Notes = %q, want clock-out notes", closed.Notes)
	}
	if closed.GPSLocationOut == nil {
		t.Fatal("clock-out location not recorded")
	}
}

func TestClockOutKeepsNotesWhenEmpty(t *testing.T) {
	store := newFakeStore()
	c := newTestClock(store, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	entry, _ := c.ClockIn("WRK-1", "JOB-1", nil, "morning shift")
	closed, err := c.ClockOut(entry.EntryID, nil, "")
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	if closed.Notes != "morning shift" {
		t.Fatalf("Notes = %q, want original notes preserved", closed.Notes)
	}
}

func TestClockOutNotActive(t *testing.T) {
	store := newFakeStore()
	c := newTestClock(store, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	entry, _ := c.ClockIn("WRK-1", "JOB-1", nil, "")
	if _, err := c.ClockOut(entry.EntryID, nil, ""); err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	// Already closed.
	if _, err := c.ClockOut(entry.EntryID, nil, ""); !errors.Is(err, ErrNotActive) {
		t.Fatalf("double clock-out err = %v, want ErrNotActive", err)
	}
	// Never existed.
	if _, err := c.ClockOut("ENT-missing", nil, ""); !errors.Is(err, ErrNotActive) {
		t.Fatalf("missing entry err = %v, want ErrNotActive", err)
	}
}

func TestActiveEntry(t *testing.T) {
	store := newFakeStore()
	c := newTestClock(store, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	if active, _ := c.ActiveEntry("WRK-1"); active != nil {
		t.Fatal("idle worker should have no active entry")
	}

	entry, _ := c.ClockIn("WRK-1", "JOB-1", nil, "")
	active, err := c.ActiveEntry("WRK-1")
	if err != nil {
		t.Fatalf("ActiveEntry: %v", err)
	}
	if active == nil || active.EntryID != entry.EntryID {
		t.Fatal("active entry not found after clock-in")
	}
}

func strptr(s string) *string { return &s }

func TestAdminUpdateRecomputesDuration(t *testing.T) {
	store := newFakeStore()
	c := newTestClock(store, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	entry, _ := c.ClockIn("WRK-1", "JOB-1", nil, "")
	if _, err := c.ClockOut(entry.EntryID, nil, ""); err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	// Winter dates, so local wall clock equals UTC.
	updated, err := c.AdminUpdate(entry.EntryID, models.TimeEntryUpdate{
		ClockIn:  strptr("2025-01-15 08:00:00"),
		ClockOut: strptr("2025-01-15 12:30:00"),
	})
	if err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}

	if !updated.ClockIn.Equal(time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("ClockIn = %v", updated.ClockIn)
	}
	if updated.DurationMinutes == nil || *updated.DurationMinutes != 270 {
		t.Fatalf("DurationMinutes = %v, want 270", updated.DurationMinutes)
	}
}

func TestAdminUpdateClearsClockOut(t *testing.T) {
	store := newFakeStore()
	c := newTestClock(store, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	entry, _ := c.ClockIn("WRK-1", "JOB-1", nil, "")
	if _, err := c.ClockOut(entry.EntryID, nil, ""); err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	// An empty clock-out string reopens the entry and nulls the derived
	// duration with it.
	updated, err := c.AdminUpdate(entry.EntryID, models.TimeEntryUpdate{ClockOut: strptr("")})
	if err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}
	if updated.ClockOut != nil || updated.DurationMinutes != nil {
		t.Fatalf("entry not reopened: out=%v duration=%v", updated.ClockOut, updated.DurationMinutes)
	}
	if !updated.Active() {
		t.Fatal("reopened entry should report active")
	}
}

func TestAdminUpdateUnknownEntry(t *testing.T) {
	c := newTestClock(newFakeStore(), time.Now())
	if _, err := c.AdminUpdate("ENT-missing", models.TimeEntryUpdate{}); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("err = %v, want ErrInvalidReference", err)
	}
}

func TestAdminUpdateRejectsBadTimestamp(t *testing.T) {
	store := newFakeStore()
	c := newTestClock(store, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))

	entry, _ := c.ClockIn("WRK-1", "JOB-1", nil, "")
	if _, err := c.AdminUpdate(entry.EntryID, models.TimeEntryUpdate{ClockIn: strptr("yesterday")}); err == nil {
		t.Fatal("expected error for unparseable timestamp")
	}
}
