package schedule

import (
	"fmt"
	"time"
)

// JobStatus — состояние работы во внешнем хранилище.
type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobScheduled  JobStatus = "SCHEDULED"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobCancelled  JobStatus = "CANCELLED"
)

// MachineStatus — состояние станка.
type MachineStatus string

const (
	MachineAvailable MachineStatus = "AVAILABLE"
	MachineBusy      MachineStatus = "BUSY"
)

// Job — запись о работе. Для движка она только читается,
// изменённая копия появляется лишь на этапе извлечения решения.
type Job struct {
	ID       int64
	Priority int // чем больше, тем важнее
	Duration time.Duration
	// DueDate и StartTime необязательны.
	DueDate       *time.Time
	StartTime     *time.Time
	MachineTypeID int64
	MachineID     *int64
	Status        JobStatus
}

// Machine — станок определённого типа.
type Machine struct {
	ID            int64
	Name          string
	MachineTypeID int64
	Status        MachineStatus
}

func (j Job) Validate() error {
	if j.Duration < 0 {
		return fmt.Errorf("job %d: duration must be >= 0 (got %s)", j.ID, j.Duration)
	}
	return nil
}

// Eligible сообщает, участвует ли работа в планировании.
func (j Job) Eligible() bool {
	return j.Status == JobPending && j.StartTime != nil
}

func (m Machine) Eligible() bool {
	return m.Status == MachineAvailable
}

// EligibleJobs фильтрует работы, сохраняя исходный порядок.
func EligibleJobs(jobs []Job) []Job {
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Eligible() {
			out = append(out, j)
		}
	}
	return out
}

// AvailableMachines фильтрует станки, сохраняя исходный порядок.
func AvailableMachines(machines []Machine) []Machine {
	out := make([]Machine, 0, len(machines))
	for _, m := range machines {
		if m.Eligible() {
			out = append(out, m)
		}
	}
	return out
}

// MissingMachineTypes возвращает типы станков, которые нужны работам,
// но не представлены ни одним доступным станком. Порядок — как у работ.
func MissingMachineTypes(jobs []Job, machines []Machine) []int64 {
	have := make(map[int64]bool, len(machines))
	for _, m := range machines {
		have[m.MachineTypeID] = true
	}
	seen := make(map[int64]bool)
	var out []int64
	for _, j := range jobs {
		if have[j.MachineTypeID] || seen[j.MachineTypeID] {
			continue
		}
		seen[j.MachineTypeID] = true
		out = append(out, j.MachineTypeID)
	}
	return out
}
