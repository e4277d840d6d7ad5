package extract

import (
	"encoding/json"
	"testing"
	"time"

	"shopPlanner/internal/schedule"
)

var t0 = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func testProblem(t *testing.T) *schedule.Problem {
	t.Helper()
	start := t0
	due := t0.Add(time.Hour)
	jobs := []schedule.Job{
		{ID: 30, Priority: 1, Duration: 10 * time.Minute, StartTime: &start, DueDate: &due, MachineTypeID: 1, Status: schedule.JobPending},
		{ID: 10, Priority: 2, Duration: 20 * time.Minute, StartTime: &start, MachineTypeID: 1, Status: schedule.JobPending},
		{ID: 20, Priority: 3, Duration: 5 * time.Minute, StartTime: &start, MachineTypeID: 1, Status: schedule.JobPending},
		{ID: 5, Priority: 3, Duration: 5 * time.Minute, StartTime: &start, MachineTypeID: 1, Status: schedule.JobPending},
	}
	machines := []schedule.Machine{
		{ID: 100, Name: "lathe", MachineTypeID: 1, Status: schedule.MachineAvailable},
		{ID: 101, Name: "lathe-2", MachineTypeID: 1, Status: schedule.MachineAvailable},
	}
	w, _ := schedule.NewTimeWindow(jobs, t0)
	cfg, _ := schedule.Configure(schedule.CriterionPriority)
	p, err := schedule.NewProblem(jobs, machines, w, schedule.GenerateGrains(w), cfg)
	if err != nil {
		t.Fatalf("problem: %v", err)
	}
	return p
}

func TestExtract(t *testing.T) {
	p := testProblem(t)
	as := []schedule.Assignment{
		{Job: 0, Machine: 1, Grain: 5},
		{Job: 1, Machine: 0, Grain: 5},
		{Job: 2, Machine: schedule.Unassigned, Grain: schedule.Unassigned},
		{Job: 3, Machine: schedule.Unassigned, Grain: schedule.Unassigned},
	}
	out := Extract(p, as)

	if len(out.Resolved) != 2 {
		t.Fatalf("resolved = %d, want 2", len(out.Resolved))
	}
	if len(out.Unresolved) != 2 || out.Unresolved[0] != 5 || out.Unresolved[1] != 20 {
		t.Fatalf("unresolved = %v, want [5 20]", out.Unresolved)
	}

	// одинаковый старт — порядок по ID работы
	first, second := out.Resolved[0], out.Resolved[1]
	if first.Job.ID != 10 || second.Job.ID != 30 {
		t.Fatalf("order = %d, %d; want 10, 30", first.Job.ID, second.Job.ID)
	}
	wantStart := t0.Add(5 * time.Minute)
	if !first.ScheduledStart.Equal(wantStart) || !first.Job.StartTime.Equal(wantStart) {
		t.Errorf("start = %s, want %s", first.ScheduledStart, wantStart)
	}
	if first.Job.MachineID == nil || *first.Job.MachineID != 100 {
		t.Errorf("machine id = %v", first.Job.MachineID)
	}
	if first.Job.Status != schedule.JobScheduled {
		t.Errorf("status = %s", first.Job.Status)
	}

	// исходные записи не тронуты
	if p.Jobs[1].MachineID != nil || p.Jobs[1].Status != schedule.JobPending || !p.Jobs[1].StartTime.Equal(t0) {
		t.Errorf("input job mutated: %+v", p.Jobs[1])
	}
}

func TestRecords(t *testing.T) {
	p := testProblem(t)
	as := []schedule.Assignment{
		{Job: 0, Machine: 1, Grain: 0},
		{Job: 1, Machine: 0, Grain: 0},
		{Job: 2, Machine: 1, Grain: 10},
		{Job: 3, Machine: 0, Grain: 20},
	}
	recs := Extract(p, as).Records()
	if len(recs) != 4 {
		t.Fatalf("records = %d", len(recs))
	}
	wantIDs := []int64{10, 30, 20, 5}
	for i, r := range recs {
		if r.JobID != wantIDs[i] {
			t.Errorf("record %d job = %d, want %d", i, r.JobID, wantIDs[i])
		}
		if i > 0 && r.ScheduledStartTime.Before(recs[i-1].ScheduledStartTime) {
			t.Errorf("records not ordered by start")
		}
	}
	if recs[1].MachineName != "lathe-2" || recs[1].DurationSeconds != 600 || recs[1].DueDate == nil {
		t.Errorf("record for job 30 = %+v", recs[1])
	}

	data, err := json.Marshal(recs[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"jobId", "machineTypeId", "machineId", "scheduledStartTime", "status"} {
		if _, ok := m[key]; !ok {
			t.Errorf("json record misses %q: %s", key, data)
		}
	}
	if _, ok := m["dueDate"]; ok {
		t.Errorf("job without due date should omit dueDate: %s", data)
	}
}
