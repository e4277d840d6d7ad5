// Package extract переносит итоговые назначения обратно на записи работ.
package extract

import (
	"slices"
	"time"

	"shopPlanner/internal/schedule"
)

// Decision — разрешённое назначение одной работы.
type Decision struct {
	Job            schedule.Job // копия с заполненными StartTime, MachineID и статусом SCHEDULED
	Machine        schedule.Machine
	ScheduledStart time.Time
}

// Record — строка результата для внешнего приёмника.
type Record struct {
	JobID              int64      `json:"jobId"`
	MachineTypeID      int64      `json:"machineTypeId"`
	MachineID          *int64     `json:"machineId,omitempty"`
	MachineName        string     `json:"machineName,omitempty"`
	ScheduledStartTime time.Time  `json:"scheduledStartTime"`
	DueDate            *time.Time `json:"dueDate,omitempty"`
	DurationSeconds    int64      `json:"duration"`
	Status             string     `json:"status"`
}

type Outcome struct {
	Resolved   []Decision
	Unresolved []int64 // ID работ без станка или слота
}

// Extract не меняет входные записи: решения строятся на копиях работ.
func Extract(p *schedule.Problem, as []schedule.Assignment) Outcome {
	var out Outcome
	for _, a := range as {
		job := p.Jobs[a.Job]
		if !a.Resolved() {
			out.Unresolved = append(out.Unresolved, job.ID)
			continue
		}
		m := p.Machines[a.Machine]
		start := p.Grains[a.Grain].Time()

		machineID := m.ID
		job.StartTime = &start
		job.MachineID = &machineID
		job.MachineTypeID = m.MachineTypeID
		job.Status = schedule.JobScheduled

		out.Resolved = append(out.Resolved, Decision{Job: job, Machine: m, ScheduledStart: start})
	}

	slices.SortStableFunc(out.Resolved, func(x, y Decision) int {
		if c := x.ScheduledStart.Compare(y.ScheduledStart); c != 0 {
			return c
		}
		switch {
		case x.Job.ID < y.Job.ID:
			return -1
		case x.Job.ID > y.Job.ID:
			return 1
		}
		return 0
	})
	slices.Sort(out.Unresolved)
	return out
}

// Records — упорядоченный список строк для приёмника.
func (o Outcome) Records() []Record {
	recs := make([]Record, 0, len(o.Resolved))
	for _, d := range o.Resolved {
		recs = append(recs, Record{
			JobID:              d.Job.ID,
			MachineTypeID:      d.Job.MachineTypeID,
			MachineID:          d.Job.MachineID,
			MachineName:        d.Machine.Name,
			ScheduledStartTime: d.ScheduledStart,
			DueDate:            d.Job.DueDate,
			DurationSeconds:    int64(d.Job.Duration / time.Second),
			Status:             string(d.Job.Status),
		})
	}
	return recs
}
