// Package ls — локальный поиск по назначениям: табу по сущностям
// плюс поздняя приёмка, форажер с ограничением принятых ходов.
package ls

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"shopPlanner/internal/opt"
	"shopPlanner/internal/schedule"
)

type Solver struct {
	Cfg Config
	Rng *rand.Rand

	now func() time.Time
}

// New возвращает новый солвер с валидацией конфигурации.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng, now: time.Now}, nil
}

func (s *Solver) reachedTarget(best schedule.Score) bool {
	if !best.Feasible() {
		return false
	}
	return s.Cfg.BestSoftTarget == nil || best.Soft >= *s.Cfg.BestSoftTarget
}

// Solve — основной цикл. Паника внутри поиска превращается в SolverFailure
// и не затрагивает другие запуски.
func (s *Solver) Solve(ctx context.Context, p *schedule.Problem, initial []schedule.Assignment) (res opt.Result, err error) {
	if p == nil {
		return opt.Result{}, fmt.Errorf("nil problem")
	}
	defer func() {
		if r := recover(); r != nil {
			res = opt.Result{}
			err = &schedule.SolverFailure{Criterion: p.Config.Criterion, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	now := s.now
	if now == nil {
		now = time.Now
	}
	start := now()
	deadline := start.Add(s.Cfg.TimeLimit)

	scorer, err := schedule.NewScorer(p)
	if err != nil {
		return opt.Result{}, err
	}

	curr := make([]schedule.Assignment, len(initial))
	copy(curr, initial)
	currScore, err := scorer.Score(curr)
	if err != nil {
		return opt.Result{}, fmt.Errorf("initial assignments: %w", err)
	}
	evals := 1

	best := make([]schedule.Assignment, len(curr))
	copy(best, curr)
	bestScore := currScore
	improvements := []opt.Improvement{{Iteration: 0, Elapsed: 0, Score: bestScore}}

	sel := newSelector(p, s.Rng, curr)
	tabu := newTabuList(max(32, s.Cfg.TabuSize*4))
	late := make([]schedule.Score, s.Cfg.LateAcceptanceSize)
	for i := range late {
		late[i] = currScore
	}

	state := opt.Running
	var stopErr error
	iter := 0
	for {
		switch {
		case s.reachedTarget(bestScore), len(sel.resolved) == 0:
			state = opt.Converged
		case s.Cfg.MaxIterations > 0 && iter >= s.Cfg.MaxIterations:
			state = opt.BudgetExhausted
		case !now().Before(deadline):
			state = opt.BudgetExhausted
		case ctx.Err() != nil:
			state = opt.BudgetExhausted
			stopErr = ctx.Err()
		}
		if state != opt.Running {
			break
		}

		lateScore := late[iter%len(late)]

		// Форажер: собираем до AcceptedCountLimit принятых ходов и берём лучший.
		var chosen Move
		var chosenScore schedule.Score
		found, accepted := false, 0
		for k := 0; k < s.Cfg.SelectionLimit && accepted < s.Cfg.AcceptedCountLimit; k++ {
			mv, ok := sel.next(curr)
			if !ok {
				continue
			}
			u := mv.apply(curr)
			sc, err := scorer.Score(curr)
			u.revert(curr)
			if err != nil {
				return opt.Result{}, &schedule.SolverFailure{
					Criterion: p.Config.Criterion,
					Cause:     fmt.Errorf("iteration %d, move %s: %w", iter, mv, err),
				}
			}
			evals++

			if !accept(sc, currScore, lateScore, bestScore, tabu.IsTabu(mv, iter)) {
				continue
			}
			accepted++
			if !found || sc.BetterThan(chosenScore) {
				chosen, chosenScore, found = mv, sc, true
			}
		}

		if found {
			chosen.apply(curr)
			currScore = chosenScore
			if s.Cfg.TabuSize > 0 {
				tabu.Add(chosen, iter+s.Cfg.TabuSize)
			}
			if currScore.BetterThan(bestScore) {
				bestScore = currScore
				copy(best, curr)
				improvements = append(improvements, opt.Improvement{
					Iteration: iter + 1,
					Elapsed:   now().Sub(start),
					Score:     bestScore,
				})
			}
		}
		late[iter%len(late)] = currScore
		iter++
	}

	return opt.Result{
		Assignments:  best,
		Score:        bestScore,
		State:        state,
		Evaluations:  evals,
		Iterations:   iter,
		Duration:     now().Sub(start),
		Improvements: improvements,
		Meta: map[string]any{
			"tabu_size":            s.Cfg.TabuSize,
			"late_acceptance_size": s.Cfg.LateAcceptanceSize,
			"accepted_count_limit": s.Cfg.AcceptedCountLimit,
			"selection_limit":      s.Cfg.SelectionLimit,
			"time_limit":           s.Cfg.TimeLimit.String(),
		},
	}, stopErr
}
