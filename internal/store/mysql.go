package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"shopPlanner/internal/schedule"
)

// MySQLStore читает работы и станки из схемы исходной системы:
// schedules (строка планирования работы), jobs (приоритет), machines.
type MySQLStore struct {
	db     *sqlx.DB
	schema string
}

// OpenMySQL открывает соединение. parseTime и UTC включаются принудительно,
// иначе DATETIME не сканируется в time.Time.
func OpenMySQL(ctx context.Context, dsn, schema string) (*MySQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if schema == "" {
		schema = cfg.DBName
	}

	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return NewMySQLStore(db, schema), nil
}

func NewMySQLStore(db *sqlx.DB, schema string) *MySQLStore {
	return &MySQLStore{db: db, schema: schema}
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func (s *MySQLStore) table(name string) string {
	if s.schema == "" {
		return name
	}
	return s.schema + "." + name
}

type jobRow struct {
	ID              int64          `db:"id"`
	Priority        sql.NullString `db:"priority"`
	DurationSeconds sql.NullInt64  `db:"duration"`
	DueDate         sql.NullTime   `db:"due_date"`
	StartTime       sql.NullTime   `db:"start_time"`
	MachineTypeID   sql.NullInt64  `db:"machine_type_id"`
	MachineID       sql.NullInt64  `db:"machine_id"`
	Status          sql.NullString `db:"status"`
}

type machineRow struct {
	ID            int64          `db:"id"`
	Name          sql.NullString `db:"name"`
	MachineTypeID sql.NullInt64  `db:"machine_type_id"`
	Status        sql.NullString `db:"status"`
}

// ListJobs читает все строки планирования в порядке ID.
func (s *MySQLStore) ListJobs(ctx context.Context) ([]schedule.Job, error) {
	query := `
		SELECT
		  s.job_id AS id,
		  j.priority AS priority,
		  s.duration AS duration,
		  s.due_date AS due_date,
		  s.start_time AS start_time,
		  s.machine_type_id AS machine_type_id,
		  s.machine_id AS machine_id,
		  s.status AS status
		FROM ` + s.table("schedules") + ` s
		JOIN ` + s.table("jobs") + ` j ON j.id = s.job_id
		ORDER BY s.id`

	var rows []jobRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select jobs: %w", err)
	}
	jobs := make([]schedule.Job, 0, len(rows))
	for _, r := range rows {
		j, err := r.job()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (s *MySQLStore) ListMachines(ctx context.Context) ([]schedule.Machine, error) {
	query := `SELECT id, name, machine_type_id, status FROM ` + s.table("machines") + ` ORDER BY id`

	var rows []machineRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select machines: %w", err)
	}
	machines := make([]schedule.Machine, len(rows))
	for i, r := range rows {
		machines[i] = r.machine()
	}
	return machines, nil
}

func (r jobRow) job() (schedule.Job, error) {
	prio, err := parsePriority(r.Priority.String)
	if err != nil {
		return schedule.Job{}, fmt.Errorf("job %d: %w", r.ID, err)
	}
	j := schedule.Job{
		ID:            r.ID,
		Priority:      prio,
		Duration:      time.Duration(r.DurationSeconds.Int64) * time.Second,
		MachineTypeID: r.MachineTypeID.Int64,
		Status:        schedule.JobStatus(strings.ToUpper(r.Status.String)),
	}
	if r.DueDate.Valid {
		t := r.DueDate.Time.UTC()
		j.DueDate = &t
	}
	if r.StartTime.Valid {
		t := r.StartTime.Time.UTC()
		j.StartTime = &t
	}
	if r.MachineID.Valid {
		id := r.MachineID.Int64
		j.MachineID = &id
	}
	return j, nil
}

func (r machineRow) machine() schedule.Machine {
	return schedule.Machine{
		ID:            r.ID,
		Name:          r.Name.String,
		MachineTypeID: r.MachineTypeID.Int64,
		Status:        schedule.MachineStatus(strings.ToUpper(r.Status.String)),
	}
}

func parsePriority(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if v, ok := namedPriorities[strings.ToUpper(s)]; ok {
		return int(v), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unknown priority %q", s)
	}
	return n, nil
}
