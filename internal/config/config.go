// Package config загружает настройки планировщика из YAML и окружения.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"shopPlanner/internal/engine"
	"shopPlanner/internal/ls"
)

const envPrefix = "SHOP_PLANNER_"

type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Run     RunConfig     `yaml:"run"`
	Store   StoreConfig   `yaml:"store"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	Tracing TracingConfig `yaml:"tracing"`
}

type SolverConfig struct {
	TabuSize           int           `yaml:"tabu_size" validate:"gte=0"`
	LateAcceptanceSize int           `yaml:"late_acceptance_size" validate:"gt=0"`
	AcceptedCountLimit int           `yaml:"accepted_count_limit" validate:"gt=0"`
	SelectionLimit     int           `yaml:"selection_limit" validate:"gtefield=AcceptedCountLimit"`
	TimeLimit          time.Duration `yaml:"time_limit" validate:"gt=0"`
	MaxIterations      int           `yaml:"max_iterations" validate:"gte=0"`
	BestSoftTarget     *int64        `yaml:"best_soft_target"`
}

type RunConfig struct {
	Seed     int64 `yaml:"seed"`
	Parallel bool  `yaml:"parallel"`
}

type StoreConfig struct {
	Driver string      `yaml:"driver" validate:"oneof=memory fixture mysql"`
	Path   string      `yaml:"path" validate:"required_if=Driver fixture"`
	MySQL  MySQLConfig `yaml:"mysql"`
}

type MySQLConfig struct {
	DSN    string `yaml:"dsn"`
	Schema string `yaml:"schema"`
}

type OutputConfig struct {
	Dir     string   `yaml:"dir" validate:"required"`
	Formats []string `yaml:"formats" validate:"dive,oneof=json csv"`
}

type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

type TracingConfig struct {
	Exporter string `yaml:"exporter" validate:"oneof=none stdout"`
	Service  string `yaml:"service" validate:"required"`
}

func Default() Config {
	sc := ls.DefaultConfig()
	return Config{
		Solver: SolverConfig{
			TabuSize:           sc.TabuSize,
			LateAcceptanceSize: sc.LateAcceptanceSize,
			AcceptedCountLimit: sc.AcceptedCountLimit,
			SelectionLimit:     sc.SelectionLimit,
			TimeLimit:          sc.TimeLimit,
		},
		Run:     RunConfig{Seed: 1},
		Store:   StoreConfig{Driver: "memory"},
		Output:  OutputConfig{Dir: "./data", Formats: []string{"json"}},
		Log:     LogConfig{Level: "info"},
		Tracing: TracingConfig{Exporter: "none", Service: "shop-planner"},
	}
}

// Load читает YAML поверх значений по умолчанию, затем применяет
// переменные окружения SHOP_PLANNER_*. Пустой path — только умолчания и окружение.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Store.Driver == "mysql" && c.Store.MySQL.DSN == "" {
		return errors.New("invalid config: store.mysql.dsn is required for the mysql driver")
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Store.Driver = getenv("STORE_DRIVER", c.Store.Driver)
	c.Store.Path = getenv("STORE_PATH", c.Store.Path)
	c.Store.MySQL.DSN = getenv("MYSQL_DSN", c.Store.MySQL.DSN)
	c.Store.MySQL.Schema = getenv("MYSQL_SCHEMA", c.Store.MySQL.Schema)
	c.Output.Dir = getenv("OUTPUT_DIR", c.Output.Dir)
	c.Log.Level = getenv("LOG_LEVEL", c.Log.Level)
	c.Log.Development = getenvBool("LOG_DEVELOPMENT", c.Log.Development)
	c.Tracing.Exporter = getenv("TRACE_EXPORTER", c.Tracing.Exporter)
	c.Run.Parallel = getenvBool("PARALLEL", c.Run.Parallel)

	if v := os.Getenv(envPrefix + "SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", envPrefix, err)
		}
		c.Run.Seed = n
	}
	if v := os.Getenv(envPrefix + "TIME_LIMIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIME_LIMIT: %w", envPrefix, err)
		}
		c.Solver.TimeLimit = d
	}
	return nil
}

// SolverConfig переводит секцию solver в параметры локального поиска.
func (c *Config) SolverConfig() ls.Config {
	return ls.Config{
		TabuSize:           c.Solver.TabuSize,
		LateAcceptanceSize: c.Solver.LateAcceptanceSize,
		AcceptedCountLimit: c.Solver.AcceptedCountLimit,
		SelectionLimit:     c.Solver.SelectionLimit,
		TimeLimit:          c.Solver.TimeLimit,
		MaxIterations:      c.Solver.MaxIterations,
		BestSoftTarget:     c.Solver.BestSoftTarget,
	}
}

func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		Solver:   c.SolverConfig(),
		Seed:     c.Run.Seed,
		Parallel: c.Run.Parallel,
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}
