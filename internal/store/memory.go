package store

import (
	"context"
	"slices"
	"sync"

	"shopPlanner/internal/schedule"
)

// MemoryStore — хранилище в памяти для тестов и запуска из файла.
// Чтения возвращают копии, поэтому движок работает со снимком.
type MemoryStore struct {
	mu       sync.RWMutex
	jobs     []schedule.Job
	machines []schedule.Machine
}

func NewMemoryStore(jobs []schedule.Job, machines []schedule.Machine) *MemoryStore {
	return &MemoryStore{jobs: slices.Clone(jobs), machines: slices.Clone(machines)}
}

func (s *MemoryStore) ListJobs(ctx context.Context) ([]schedule.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.jobs), nil
}

func (s *MemoryStore) ListMachines(ctx context.Context) ([]schedule.Machine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.machines), nil
}

// PutJob добавляет или заменяет работу по ID.
func (s *MemoryStore) PutJob(j schedule.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == j.ID {
			s.jobs[i] = j
			return
		}
	}
	s.jobs = append(s.jobs, j)
}

func (s *MemoryStore) PutMachine(m schedule.Machine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.machines {
		if s.machines[i].ID == m.ID {
			s.machines[i] = m
			return
		}
	}
	s.machines = append(s.machines, m)
}
