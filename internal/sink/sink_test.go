package sink

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shopPlanner/internal/extract"
	"shopPlanner/internal/schedule"
)

func records() []extract.Record {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	due := start.Add(time.Hour)
	m := int64(12)
	return []extract.Record{
		{JobID: 1, MachineTypeID: 2, MachineID: &m, MachineName: "lathe", ScheduledStartTime: start, DueDate: &due, DurationSeconds: 1800, Status: "SCHEDULED"},
		{JobID: 2, MachineTypeID: 2, MachineID: &m, MachineName: "lathe", ScheduledStartTime: start.Add(30 * time.Minute), DurationSeconds: 600, Status: "SCHEDULED"},
	}
}

func TestJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := JSONFile{Dir: dir}
	if err := s.Write(context.Background(), schedule.CriterionDueDate, records()); err != nil {
		t.Fatalf("write: %v", err)
	}
	path := filepath.Join(dir, "job-scheduled-by-due-date.json")
	if s.Path(schedule.CriterionDueDate) != path {
		t.Fatalf("path = %s", s.Path(schedule.CriterionDueDate))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got []extract.Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].JobID != 1 || got[1].DueDate != nil {
		t.Fatalf("records = %+v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind")
	}
}

func TestCSVFile(t *testing.T) {
	dir := t.TempDir()
	s := CSVFile{Dir: dir}
	if err := s.Write(context.Background(), schedule.CriterionPriority, records()); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, "job-scheduled-by-priority.csv"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "job_id" || rows[1][0] != "1" || rows[1][2] != "12" || rows[1][4] != "2024-03-04T08:00:00Z" {
		t.Errorf("rows = %v", rows)
	}
	if rows[2][5] != "" || rows[2][6] != "600" {
		t.Errorf("second row = %v", rows[2])
	}
}

func TestFileSinks_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	for _, w := range []Writer{JSONFile{Dir: dir}, CSVFile{Dir: dir}} {
		if err := w.Write(ctx, schedule.CriterionPriority, records()); !errors.Is(err, context.Canceled) {
			t.Errorf("%T: expected context.Canceled, got %v", w, err)
		}
	}
}

type brokenWriter struct{}

func (brokenWriter) Write(context.Context, schedule.Criterion, []extract.Record) error {
	return errors.New("broken")
}

func TestMemoryAndMulti(t *testing.T) {
	mem := NewMemory()
	multi := Multi{mem, brokenWriter{}}
	err := multi.Write(context.Background(), schedule.CriterionDuration, records())
	if err == nil {
		t.Fatalf("expected joined error")
	}
	got := mem.Records(schedule.CriterionDuration)
	if len(got) != 2 || mem.Writes() != 1 {
		t.Fatalf("memory sink got %d records in %d writes", len(got), mem.Writes())
	}
	got[0].JobID = 99
	if mem.Records(schedule.CriterionDuration)[0].JobID != 1 {
		t.Fatalf("memory sink leaked its slice")
	}
	if len(mem.Records(schedule.CriterionPriority)) != 0 {
		t.Fatalf("unexpected records for another criterion")
	}
}
