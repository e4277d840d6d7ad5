package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shopPlanner/internal/config"
	"shopPlanner/internal/engine"
	"shopPlanner/internal/observability"
	"shopPlanner/internal/schedule"
	"shopPlanner/internal/sink"
	"shopPlanner/internal/store"
)

type reader interface {
	engine.JobReader
	engine.MachineReader
}

func main() {
	var (
		configPath = flag.String("config", "", "путь к YAML-конфигурации (пусто — умолчания и SHOP_PLANNER_*)")
		criterion  = flag.String("criterion", "all", "критерий: all | priority | due-date | duration")
		fixture    = flag.String("fixture", "", "JSON-файл с работами и станками (заменяет store из конфигурации)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка конфигурации:", err)
		os.Exit(2)
	}
	if *fixture != "" {
		cfg.Store.Driver = "fixture"
		cfg.Store.Path = *fixture
	}

	log, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка логгера:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.InitTracing(cfg.Tracing.Service, cfg.Tracing.Exporter)
	if err != nil {
		log.Fatal("tracing init failed", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	src, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Error("store open failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
		os.Exit(1)
	}
	defer closeStore()

	eng, err := engine.New(engine.Deps{
		Jobs:     src,
		Machines: src,
		Sink:     buildSink(cfg.Output),
		Logger:   log,
	}, cfg.EngineConfig())
	if err != nil {
		log.Error("engine init failed", zap.Error(err))
		os.Exit(2)
	}

	if *criterion == "all" {
		sum := eng.RunAll(ctx)
		for _, c := range schedule.Criteria() {
			report(log, sum.Results[c])
		}
		if err := sum.Err(); err != nil {
			log.Error("some scheduling runs failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	c, err := schedule.ParseCriterion(*criterion)
	if err != nil {
		log.Error("bad criterion", zap.Error(err))
		os.Exit(2)
	}
	res, err := eng.Run(ctx, c)
	if err != nil {
		os.Exit(1)
	}
	report(log, res)
}

func openStore(ctx context.Context, sc config.StoreConfig) (reader, func(), error) {
	switch sc.Driver {
	case "fixture":
		st, err := store.LoadFixture(sc.Path)
		return st, func() {}, err
	case "mysql":
		st, err := store.OpenMySQL(ctx, sc.MySQL.DSN, sc.MySQL.Schema)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return store.NewMemoryStore(nil, nil), func() {}, nil
	}
}

func buildSink(oc config.OutputConfig) engine.OutputSink {
	var ms sink.Multi
	for _, f := range oc.Formats {
		switch f {
		case "json":
			ms = append(ms, sink.JSONFile{Dir: oc.Dir})
		case "csv":
			ms = append(ms, sink.CSVFile{Dir: oc.Dir})
		}
	}
	if len(ms) == 0 {
		return nil
	}
	return ms
}

func report(log *zap.Logger, res engine.RunResult) {
	log.Info("run summary",
		zap.String("run_id", res.RunID.String()),
		zap.String("criterion", string(res.Criterion)),
		zap.Stringer("score", res.Score),
		zap.Stringer("state", res.State),
		zap.Int("resolved", len(res.Outcome.Resolved)),
		zap.Int("unresolved", len(res.Outcome.Unresolved)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("duration", res.Duration),
	)
}
