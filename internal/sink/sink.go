// Package sink содержит приёмники результатов планирования.
package sink

import (
	"context"
	"errors"
	"slices"
	"sync"

	"shopPlanner/internal/extract"
	"shopPlanner/internal/schedule"
)

// Writer совпадает с engine.OutputSink.
type Writer interface {
	Write(ctx context.Context, c schedule.Criterion, records []extract.Record) error
}

// Memory хранит последние записи по каждому критерию.
type Memory struct {
	mu      sync.Mutex
	records map[schedule.Criterion][]extract.Record
	writes  int
}

func NewMemory() *Memory {
	return &Memory{records: make(map[schedule.Criterion][]extract.Record)}
}

func (m *Memory) Write(_ context.Context, c schedule.Criterion, records []extract.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[c] = slices.Clone(records)
	m.writes++
	return nil
}

func (m *Memory) Records(c schedule.Criterion) []extract.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records[c])
}

func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Multi пишет во все приёмники и собирает ошибки.
type Multi []Writer

func (ms Multi) Write(ctx context.Context, c schedule.Criterion, records []extract.Record) error {
	var errs []error
	for _, w := range ms {
		if err := w.Write(ctx, c, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
