package opt

import (
	"context"
	"time"

	"shopPlanner/internal/schedule"
)

// Optimizer улучшает начальное состояние назначений для задачи.
type Optimizer interface {
	Solve(ctx context.Context, p *schedule.Problem, initial []schedule.Assignment) (Result, error)
}

// State — состояние автомата поиска.
type State int

const (
	Running State = iota
	Converged
	BudgetExhausted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case BudgetExhausted:
		return "budget-exhausted"
	}
	return "unknown"
}

// Improvement — момент, когда лучшее решение улучшилось.
type Improvement struct {
	Iteration int
	Elapsed   time.Duration
	Score     schedule.Score
}

type Result struct {
	Assignments  []schedule.Assignment
	Score        schedule.Score
	State        State
	Evaluations  int
	Iterations   int
	Duration     time.Duration
	Improvements []Improvement
	Meta         map[string]any
}
