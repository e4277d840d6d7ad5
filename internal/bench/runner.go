// Package bench повторяет запуски планировщика на случайных снимках
// с разными сидами и собирает статистику по оценке и времени.
package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"shopPlanner/internal/engine"
	"shopPlanner/internal/ls"
	"shopPlanner/internal/schedule"
	"shopPlanner/internal/store"
)

type Case struct {
	Jobs         int
	Machines     int
	Types        int
	InstanceSeed int64
}

type Record struct {
	Criterion schedule.Criterion
	Jobs      int
	Machines  int
	Types     int
	Runs      int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	HardBest int64
	HardMean float64
	HardStd  float64

	SoftBest int64
	SoftMean float64
	SoftStd  float64

	UnresolvedMean float64
	Feasible       int
}

type Runner struct {
	Runs     int
	BaseSeed int64
	Solver   ls.Config
	// PerRunTimeout заменяет Solver.TimeLimit; 0 — берётся Solver.TimeLimit.
	PerRunTimeout time.Duration
	Base          time.Time
	Logger        *zap.Logger
}

func (r Runner) RunCase(ctx context.Context, c Case, criterion schedule.Criterion) (Record, error) {
	if r.Runs <= 0 {
		return Record{}, fmt.Errorf("Runs должно быть > 0 (получено %d)", r.Runs)
	}
	base := r.Base
	if base.IsZero() {
		base = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	}
	jobs, machines := RandomSnapshot(c.Jobs, c.Machines, c.Types, base, randForSeed(c.InstanceSeed))
	st := store.NewMemoryStore(jobs, machines)

	solverCfg := r.Solver
	if r.PerRunTimeout > 0 {
		solverCfg.TimeLimit = r.PerRunTimeout
	}

	hard := make([]int64, 0, r.Runs)
	soft := make([]int64, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	unresolved := 0
	feasible := 0

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		eng, err := engine.New(engine.Deps{
			Jobs:     st,
			Machines: st,
			Logger:   r.Logger,
			Now:      func() time.Time { return base },
		}, engine.Config{Solver: solverCfg, Seed: runSeed})
		if err != nil {
			return Record{}, err
		}

		start := time.Now()
		res, err := eng.Run(ctx, criterion)
		dur := time.Since(start)
		if err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}

		hard = append(hard, res.Score.Hard)
		soft = append(soft, res.Score.Soft)
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		unresolved += len(res.Outcome.Unresolved)
		if res.Score.Feasible() {
			feasible++
		}
	}

	hStats := CalcScoreStats(hard)
	sStats := CalcScoreStats(soft)
	tStats := CalcFloatStats(timesMs)

	return Record{
		Criterion: criterion,
		Jobs:      c.Jobs,
		Machines:  c.Machines,
		Types:     c.Types,
		Runs:      r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		HardBest: hStats.Best,
		HardMean: hStats.Mean,
		HardStd:  hStats.Std,

		SoftBest: sStats.Best,
		SoftMean: sStats.Mean,
		SoftStd:  sStats.Std,

		UnresolvedMean: float64(unresolved) / float64(r.Runs),
		Feasible:       feasible,
	}, nil
}

func WriteCSV(path string, records []Record) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"criterion", "jobs", "machines", "types", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"hard_best", "hard_mean", "hard_std",
		"soft_best", "soft_mean", "soft_std",
		"unresolved_mean", "feasible_runs",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			string(r.Criterion),
			itoa(r.Jobs),
			itoa(r.Machines),
			itoa(r.Types),
			itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			i64toa(r.HardBest),
			ftoa(r.HardMean),
			ftoa(r.HardStd),

			i64toa(r.SoftBest),
			ftoa(r.SoftMean),
			ftoa(r.SoftStd),

			ftoa(r.UnresolvedMean),
			itoa(r.Feasible),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
