// Package engine связывает чтение снимка, построение, локальный поиск,
// извлечение решения и передачу результата во внешний приёмник.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"shopPlanner/internal/construct"
	"shopPlanner/internal/extract"
	"shopPlanner/internal/ls"
	"shopPlanner/internal/observability"
	"shopPlanner/internal/opt"
	"shopPlanner/internal/schedule"
)

type JobReader interface {
	ListJobs(ctx context.Context) ([]schedule.Job, error)
}

type MachineReader interface {
	ListMachines(ctx context.Context) ([]schedule.Machine, error)
}

// OutputSink получает результат запуска ровно один раз, после извлечения.
type OutputSink interface {
	Write(ctx context.Context, criterion schedule.Criterion, records []extract.Record) error
}

// OptimizerFactory создаёт независимый оптимизатор на каждый запуск.
type OptimizerFactory func(seed int64) (opt.Optimizer, error)

type Config struct {
	Solver   ls.Config
	Seed     int64
	Parallel bool // RunAll запускает критерии одновременно
}

func DefaultConfig() Config {
	return Config{Solver: ls.DefaultConfig(), Seed: 1}
}

type Deps struct {
	Jobs     JobReader
	Machines MachineReader
	Sink     OutputSink // nil — результат не передаётся
	Logger   *zap.Logger
	Now      func() time.Time

	NewOptimizer OptimizerFactory // nil — ls.Solver с Config.Solver
}

type Engine struct {
	deps Deps
	cfg  Config
	log  *zap.Logger
}

func New(deps Deps, cfg Config) (*Engine, error) {
	if deps.Jobs == nil {
		return nil, errors.New("engine: job reader is required")
	}
	if deps.Machines == nil {
		return nil, errors.New("engine: machine reader is required")
	}
	if deps.NewOptimizer == nil {
		if err := cfg.Solver.Validate(); err != nil {
			return nil, fmt.Errorf("engine: solver config: %w", err)
		}
		solverCfg := cfg.Solver
		deps.NewOptimizer = func(seed int64) (opt.Optimizer, error) {
			return ls.New(solverCfg, rand.New(rand.NewSource(seed)))
		}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{deps: deps, cfg: cfg, log: log}, nil
}

type RunResult struct {
	RunID       uuid.UUID
	Criterion   schedule.Criterion
	Outcome     extract.Outcome
	Score       schedule.Score
	State       opt.State
	Iterations  int
	Evaluations int
	Duration    time.Duration
	Warnings    []error
}

func (e *Engine) RunByPriority(ctx context.Context) (RunResult, error) {
	return e.Run(ctx, schedule.CriterionPriority)
}

func (e *Engine) RunByDueDate(ctx context.Context) (RunResult, error) {
	return e.Run(ctx, schedule.CriterionDueDate)
}

func (e *Engine) RunByDuration(ctx context.Context) (RunResult, error) {
	return e.Run(ctx, schedule.CriterionDuration)
}

// Run выполняет один изолированный запуск по критерию.
func (e *Engine) Run(ctx context.Context, criterion schedule.Criterion) (RunResult, error) {
	started := time.Now()
	res := RunResult{RunID: uuid.New(), Criterion: criterion}
	log := e.log.With(zap.String("run_id", res.RunID.String()), zap.String("criterion", string(criterion)))

	ctx, span := observability.StartSpan(ctx, "schedule.run",
		attribute.String("run_id", res.RunID.String()),
		attribute.String("criterion", string(criterion)),
	)
	defer span.End()

	fail := func(err error) (RunResult, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("scheduling run failed", zap.Error(err))
		res.Duration = time.Since(started)
		return res, err
	}

	cfg, err := schedule.Configure(criterion)
	if err != nil {
		return fail(err)
	}

	jobs, err := e.deps.Jobs.ListJobs(ctx)
	if err != nil {
		return fail(fmt.Errorf("read jobs: %w", err))
	}
	machines, err := e.deps.Machines.ListMachines(ctx)
	if err != nil {
		return fail(fmt.Errorf("read machines: %w", err))
	}

	eligible := schedule.EligibleJobs(jobs)
	available := schedule.AvailableMachines(machines)
	log.Debug("snapshot loaded",
		zap.Int("jobs", len(jobs)), zap.Int("eligible_jobs", len(eligible)),
		zap.Int("machines", len(machines)), zap.Int("available_machines", len(available)),
	)

	window, err := schedule.NewTimeWindow(eligible, e.deps.Now())
	if err != nil {
		return fail(err)
	}

	if missing := schedule.MissingMachineTypes(eligible, available); len(missing) > 0 && len(missing) == distinctTypes(eligible) {
		warn := &schedule.NoAvailableMachinesError{MachineTypes: missing}
		log.Warn("no available machines for any needed machine type", zap.Error(warn))
		res.Warnings = append(res.Warnings, warn)
		res.Outcome = extract.Outcome{Unresolved: jobIDs(eligible)}
		res.State = opt.Converged
		res.Duration = time.Since(started)
		return res, nil
	}

	grains := schedule.GenerateGrains(window)
	problem, err := schedule.NewProblem(eligible, available, window, grains, cfg)
	if err != nil {
		return fail(err)
	}
	log.Info("time window computed",
		zap.Time("start", time.Unix(window.StartSeconds, 0).UTC()),
		zap.Time("end", time.Unix(window.EndSeconds, 0).UTC()),
		zap.Int("grains", len(grains)),
	)

	initial := construct.Build(problem)

	optimizer, err := e.deps.NewOptimizer(e.cfg.Seed)
	if err != nil {
		return fail(fmt.Errorf("build optimizer: %w", err))
	}
	result, err := solve(ctx, optimizer, problem, initial)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return fail(fmt.Errorf("search interrupted: %w", err))
		}
		if !errors.Is(err, schedule.ErrSolverFailure) {
			err = &schedule.SolverFailure{Criterion: criterion, Cause: err}
		}
		return fail(err)
	}

	res.Outcome = extract.Extract(problem, result.Assignments)
	res.Score = result.Score
	res.State = result.State
	res.Iterations = result.Iterations
	res.Evaluations = result.Evaluations
	span.SetAttributes(
		attribute.String("score", result.Score.String()),
		attribute.Int("resolved", len(res.Outcome.Resolved)),
		attribute.Int("unresolved", len(res.Outcome.Unresolved)),
	)
	log.Info("solver finished",
		zap.Stringer("score", result.Score),
		zap.Stringer("state", result.State),
		zap.Int("iterations", result.Iterations),
		zap.Int("evaluations", result.Evaluations),
		zap.Duration("elapsed", result.Duration),
	)
	for _, id := range res.Outcome.Unresolved {
		log.Warn("job left unscheduled", zap.Int64("job_id", id))
	}

	if err := e.write(ctx, criterion, res.Outcome, log); err != nil {
		return fail(err)
	}
	res.Duration = time.Since(started)
	return res, nil
}

func (e *Engine) write(ctx context.Context, criterion schedule.Criterion, out extract.Outcome, log *zap.Logger) error {
	if e.deps.Sink == nil {
		return nil
	}
	if len(out.Resolved) == 0 {
		log.Warn("no schedules to save")
		return nil
	}
	if err := e.deps.Sink.Write(ctx, criterion, out.Records()); err != nil {
		return fmt.Errorf("write %s results: %w", criterion, err)
	}
	log.Info("schedules saved", zap.Int("records", len(out.Resolved)))
	return nil
}

// Summary — результаты RunAll. Ошибка одного критерия не мешает остальным.
type Summary struct {
	Results map[schedule.Criterion]RunResult
	Errors  map[schedule.Criterion]error
}

func (s Summary) Err() error {
	var errs []error
	for _, c := range schedule.Criteria() {
		if err, ok := s.Errors[c]; ok {
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
		}
	}
	return errors.Join(errs...)
}

// RunAll запускает три критерия: по умолчанию последовательно,
// при Config.Parallel — одновременно.
func (e *Engine) RunAll(ctx context.Context) Summary {
	criteria := schedule.Criteria()
	sum := Summary{
		Results: make(map[schedule.Criterion]RunResult, len(criteria)),
		Errors:  make(map[schedule.Criterion]error),
	}
	var mu sync.Mutex
	record := func(c schedule.Criterion, res RunResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		sum.Results[c] = res
		if err != nil {
			sum.Errors[c] = err
		}
	}

	if !e.cfg.Parallel {
		for _, c := range criteria {
			res, err := e.Run(ctx, c)
			record(c, res, err)
		}
		return sum
	}

	var wg sync.WaitGroup
	for _, c := range criteria {
		wg.Add(1)
		go func(c schedule.Criterion) {
			defer wg.Done()
			res, err := e.Run(ctx, c)
			record(c, res, err)
		}(c)
	}
	wg.Wait()
	return sum
}

// solve изолирует панику оптимизатора в рамках одного запуска.
func solve(ctx context.Context, o opt.Optimizer, p *schedule.Problem, initial []schedule.Assignment) (res opt.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &schedule.SolverFailure{Criterion: p.Config.Criterion, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	return o.Solve(ctx, p, initial)
}

func distinctTypes(jobs []schedule.Job) int {
	seen := make(map[int64]struct{}, len(jobs))
	for _, j := range jobs {
		seen[j.MachineTypeID] = struct{}{}
	}
	return len(seen)
}

func jobIDs(jobs []schedule.Job) []int64 {
	ids := make([]int64, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	slices.Sort(ids)
	return ids
}
