package ls

import (
	"fmt"
	"time"
)

type Config struct {
	// TabuSize — сколько итераций изменённая сущность остаётся табу.
	TabuSize int

	// LateAcceptanceSize — длина очереди поздних оценок.
	LateAcceptanceSize int

	// AcceptedCountLimit — сколько принятых ходов собирает форажер за итерацию.
	AcceptedCountLimit int

	// SelectionLimit — сколько ходов максимум просматривается за итерацию.
	SelectionLimit int

	TimeLimit time.Duration

	// MaxIterations — 0 значит без ограничения.
	MaxIterations int

	// BestSoftTarget — nil означает «любой soft»: остановка по достижении 0hard.
	BestSoftTarget *int64
}

func DefaultConfig() Config {
	return Config{
		TabuSize:           10,
		LateAcceptanceSize: 1000,
		AcceptedCountLimit: 8,
		SelectionLimit:     8 * 16,

		TimeLimit: 120 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.TabuSize < 0 {
		return fmt.Errorf(
			"TabuSize должно быть >= 0 (получено %d)",
			c.TabuSize,
		)
	}
	if c.LateAcceptanceSize <= 0 {
		return fmt.Errorf(
			"LateAcceptanceSize должно быть > 0 (получено %d)",
			c.LateAcceptanceSize,
		)
	}
	if c.AcceptedCountLimit <= 0 {
		return fmt.Errorf(
			"AcceptedCountLimit должно быть > 0 (получено %d)",
			c.AcceptedCountLimit,
		)
	}
	if c.SelectionLimit < c.AcceptedCountLimit {
		return fmt.Errorf(
			"SelectionLimit должно быть >= AcceptedCountLimit (получено %d < %d)",
			c.SelectionLimit,
			c.AcceptedCountLimit,
		)
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf(
			"TimeLimit должно быть > 0 (получено %s)",
			c.TimeLimit,
		)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf(
			"MaxIterations должно быть >= 0 (получено %d)",
			c.MaxIterations,
		)
	}
	return nil
}
