package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"shopPlanner/internal/schedule"
)

// Fixture — формат JSON-импорта работ и станков.
type Fixture struct {
	Machines []MachineDTO `json:"machines"`
	Jobs     []JobDTO     `json:"jobs"`
}

type MachineDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	MachineTypeID int64  `json:"machineTypeId"`
	Status        string `json:"status"`
}

type JobDTO struct {
	ID              int64      `json:"id"`
	Priority        Priority   `json:"priority"`
	DurationSeconds int64      `json:"duration"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	StartTime       *time.Time `json:"startTime,omitempty"`
	MachineTypeID   int64      `json:"machineTypeId"`
	MachineID       *int64     `json:"machineId,omitempty"`
	Status          string     `json:"status"`
}

// Priority принимает число или одно из LOW, MEDIUM, HIGH.
type Priority int

var namedPriorities = map[string]Priority{"LOW": 1, "MEDIUM": 2, "HIGH": 3}

func (p *Priority) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		n, err := parsePriority(name)
		if err != nil {
			return err
		}
		*p = Priority(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	*p = Priority(n)
	return nil
}

func (d JobDTO) Job() schedule.Job {
	status := schedule.JobStatus(strings.ToUpper(d.Status))
	if status == "" {
		status = schedule.JobPending
	}
	return schedule.Job{
		ID:            d.ID,
		Priority:      int(d.Priority),
		Duration:      time.Duration(d.DurationSeconds) * time.Second,
		DueDate:       d.DueDate,
		StartTime:     d.StartTime,
		MachineTypeID: d.MachineTypeID,
		MachineID:     d.MachineID,
		Status:        status,
	}
}

func (d MachineDTO) Machine() schedule.Machine {
	status := schedule.MachineStatus(strings.ToUpper(d.Status))
	if status == "" {
		status = schedule.MachineAvailable
	}
	return schedule.Machine{
		ID:            d.ID,
		Name:          d.Name,
		MachineTypeID: d.MachineTypeID,
		Status:        status,
	}
}

// LoadFixture читает JSON-файл и возвращает заполненное хранилище в памяти.
func LoadFixture(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture file: %w", err)
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture file: %w", err)
	}
	jobs := make([]schedule.Job, len(fx.Jobs))
	for i, d := range fx.Jobs {
		jobs[i] = d.Job()
	}
	machines := make([]schedule.Machine, len(fx.Machines))
	for i, d := range fx.Machines {
		machines[i] = d.Machine()
	}
	return NewMemoryStore(jobs, machines), nil
}
