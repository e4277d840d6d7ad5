package bench

import (
	"math/rand"
	"time"

	"shopPlanner/internal/schedule"
)

// RandomSnapshot генерирует работы и станки для бенчмарка.
// Станки распределяются по типам по кругу, поэтому при machines >= types
// у каждого типа есть хотя бы один станок.
func RandomSnapshot(nJobs, nMachines, nTypes int, base time.Time, rng *rand.Rand) ([]schedule.Job, []schedule.Machine) {
	if nTypes <= 0 {
		nTypes = 1
	}
	base = base.UTC().Truncate(schedule.GrainLength)

	machines := make([]schedule.Machine, nMachines)
	for i := range machines {
		machines[i] = schedule.Machine{
			ID:            int64(i + 1),
			Name:          "M" + itoa(i+1),
			MachineTypeID: int64(i%nTypes + 1),
			Status:        schedule.MachineAvailable,
		}
	}

	jobs := make([]schedule.Job, nJobs)
	for i := range jobs {
		dur := time.Duration(5+rng.Intn(116)) * time.Minute
		start := base.Add(time.Duration(rng.Intn(4*60)) * time.Minute)

		j := schedule.Job{
			ID:            int64(i + 1),
			Priority:      1 + rng.Intn(5),
			Duration:      dur,
			StartTime:     &start,
			MachineTypeID: int64(rng.Intn(nTypes) + 1),
			Status:        schedule.JobPending,
		}
		// ~10% работ без срока
		if rng.Intn(10) != 0 {
			due := start.Add(dur + time.Duration(rng.Intn(8*60))*time.Minute)
			j.DueDate = &due
		}
		jobs[i] = j
	}
	return jobs, machines
}
