package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"shopPlanner/internal/bench"
	"shopPlanner/internal/ls"
	"shopPlanner/internal/observability"
	"shopPlanner/internal/schedule"
)

func main() {
	// CLI флаги для настройки локального поиска и политики запуска
	var (
		out          = flag.String("out", "artifacts/results.csv", "путь к выходному CSV-файлу")
		cases        = flag.String("cases", "20x4x2,50x8x3,100x16x4", "конфигурации: работы X станки X типы станков (через запятую)")
		criteria     = flag.String("criteria", "priority,due-date,duration", "критерии: priority, due-date, duration (через запятую)")
		runs         = flag.Int("runs", 10, "количество запусков каждого критерия (с разными сидами)")
		baseSeed     = flag.Int64("seed", 1000, "базовый сид для запусков")
		instanceSeed = flag.Int64("instance_seed", 777, "базовый сид для генерации снимков (фиксирован для конфигурации)")
		perRunTO     = flag.Duration("per_run_timeout", 2*time.Second, "лимит времени локального поиска на один запуск")
		logLevel     = flag.String("log_level", "warn", "уровень логирования: debug | info | warn | error")

		// --- Локальный поиск ---
		tabu      = flag.Int("tabu", 10, "размер табу-списка сущностей (в итерациях)")
		late      = flag.Int("late", 1000, "длина очереди позднего принятия")
		accepted  = flag.Int("accepted", 8, "сколько принятых ходов собирает форажер")
		selection = flag.Int("selection", 128, "максимум просматриваемых ходов за итерацию")
		maxIter   = flag.Int("max_iter", 0, "ограничение числа итераций (0 — без ограничения)")
	)
	flag.Parse()

	ctx := context.Background()

	log, err := observability.NewLogger(*logLevel, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка логгера:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	parsed, err := parseCases(*cases, *instanceSeed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт:", err)
		os.Exit(2)
	}

	var selected []schedule.Criterion
	for _, s := range splitCSV(*criteria) {
		c, err := schedule.ParseCriterion(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Критерий не поддерживается %q; доступные: %v\n", s, schedule.Criteria())
			os.Exit(2)
		}
		selected = append(selected, c)
	}

	lsCfg := ls.Config{
		TabuSize:           *tabu,
		LateAcceptanceSize: *late,
		AcceptedCountLimit: *accepted,
		SelectionLimit:     *selection,
		TimeLimit:          *perRunTO,
		MaxIterations:      *maxIter,
	}
	if err := lsCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации локального поиска:", err)
		os.Exit(2)
	}

	runner := bench.Runner{
		Runs:     *runs,
		BaseSeed: *baseSeed,
		Solver:   lsCfg,
		Logger:   log,
	}

	var records []bench.Record
	for _, c := range parsed {
		for _, crit := range selected {
			fmt.Printf("Критерий %s; %d работ %d станков %d типов (общее кол-во запусков=%d)...\n", crit, c.Jobs, c.Machines, c.Types, runner.Runs)

			rec, err := runner.RunCase(ctx, c, crit)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Ошибка:", err)
				os.Exit(1)
			}
			records = append(records, rec)

			fmt.Printf("  Оценка: hard лучшее=%d среднее=%.2f | soft лучшее=%d среднее=%.2f ст.откл.=%.2f | допустимых=%d | Время: среднее=%.2fms\n",
				rec.HardBest, rec.HardMean,
				rec.SoftBest, rec.SoftMean, rec.SoftStd,
				rec.Feasible, rec.TimeMeanMs,
			)
		}
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка при записи в CSV:", err)
		os.Exit(1)
	}
	fmt.Println("Saved:", *out)
}

// helpers

func parseCases(s string, baseInstanceSeed int64) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		f := strings.Split(p, "x")
		if len(f) != 3 {
			return nil, fmt.Errorf("конфигурация %q невалидной схемы, пример: 50x8x3", p)
		}
		var v [3]int
		for k := range f {
			n, err := atoiStrict(f[k])
			if err != nil {
				return nil, fmt.Errorf("конфигурация %q: ошибка парсинга: %w", p, err)
			}
			if n <= 0 {
				return nil, fmt.Errorf("конфигурация %q: все значения должны быть > 0", p)
			}
			v[k] = n
		}

		seed := baseInstanceSeed + int64(i)*10_000 + int64(v[0])*100 + int64(v[1])

		cases = append(cases, bench.Case{
			Jobs:         v[0],
			Machines:     v[1],
			Types:        v[2],
			InstanceSeed: seed,
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
