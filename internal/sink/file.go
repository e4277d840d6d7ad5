package sink

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"shopPlanner/internal/extract"
	"shopPlanner/internal/schedule"
)

// FileName — имя файла результата для критерия без расширения.
func FileName(c schedule.Criterion) string {
	return "job-scheduled-by-" + string(c)
}

// JSONFile пишет job-scheduled-by-<criterion>.json в каталог Dir.
type JSONFile struct {
	Dir string
}

func (s JSONFile) Path(c schedule.Criterion) string {
	return filepath.Join(s.Dir, FileName(c)+".json")
}

func (s JSONFile) Write(ctx context.Context, c schedule.Criterion, records []extract.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(s.Path(c), append(data, '\n'))
}

// CSVFile пишет job-scheduled-by-<criterion>.csv в каталог Dir.
type CSVFile struct {
	Dir string
}

func (s CSVFile) Path(c schedule.Criterion) string {
	return filepath.Join(s.Dir, FileName(c)+".csv")
}

func (s CSVFile) Write(ctx context.Context, c schedule.Criterion, records []extract.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(s.Path(c))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"job_id", "machine_type_id", "machine_id", "machine_name",
		"scheduled_start_time", "due_date", "duration_seconds", "status",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		machineID := ""
		if r.MachineID != nil {
			machineID = i64toa(*r.MachineID)
		}
		due := ""
		if r.DueDate != nil {
			due = r.DueDate.UTC().Format(time.RFC3339)
		}
		row := []string{
			i64toa(r.JobID),
			i64toa(r.MachineTypeID),
			machineID,
			r.MachineName,
			r.ScheduledStartTime.UTC().Format(time.RFC3339),
			due,
			i64toa(r.DurationSeconds),
			r.Status,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func i64toa(v int64) string { return strconv.FormatInt(v, 10) }
