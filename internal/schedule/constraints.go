package schedule

import "fmt"

// Criterion — активная цель планирования.
type Criterion string

const (
	CriterionPriority Criterion = "priority"
	CriterionDueDate  Criterion = "due-date"
	CriterionDuration Criterion = "duration"
)

// Criteria — все критерии в порядке запуска runAll.
func Criteria() []Criterion {
	return []Criterion{CriterionPriority, CriterionDueDate, CriterionDuration}
}

func ParseCriterion(s string) (Criterion, error) {
	switch c := Criterion(s); c {
	case CriterionPriority, CriterionDueDate, CriterionDuration:
		return c, nil
	default:
		return "", &UnknownCriterionError{Criterion: s}
	}
}

// Level — жёсткое или мягкое ограничение.
type Level int

const (
	Hard Level = iota
	Soft
)

func (l Level) String() string {
	if l == Hard {
		return "hard"
	}
	return "soft"
}

const (
	DominantWeight = 1000
	NominalWeight  = 1
)

type Weight struct {
	Level     Level
	Magnitude int64
}

func HardWeight(m int64) Weight { return Weight{Level: Hard, Magnitude: m} }
func SoftWeight(m int64) Weight { return Weight{Level: Soft, Magnitude: m} }

func (w Weight) String() string {
	return fmt.Sprintf("%d%s", w.Magnitude, w.Level)
}

// ConstraintConfiguration — набор весов для одного запуска.
type ConstraintConfiguration struct {
	Criterion          Criterion
	HighPriorityFirst  Weight
	DueDateCompliance  Weight
	MachineConflict    Weight
	ShortDurationFirst Weight
	BalanceMachineLoad Weight
}

// Configure — единственное место, где задаётся политика весов по критериям.
// Конфликт станков всегда жёсткий; срок тоже проверяется жёстко во всех режимах,
// а доминирующий вес 1000 получает ровно одно ограничение.
func Configure(c Criterion) (ConstraintConfiguration, error) {
	cfg := ConstraintConfiguration{
		Criterion:          c,
		HighPriorityFirst:  SoftWeight(NominalWeight),
		DueDateCompliance:  HardWeight(NominalWeight),
		MachineConflict:    HardWeight(NominalWeight),
		ShortDurationFirst: SoftWeight(NominalWeight),
		BalanceMachineLoad: SoftWeight(NominalWeight),
	}
	switch c {
	case CriterionPriority:
		cfg.HighPriorityFirst = SoftWeight(DominantWeight)
	case CriterionDueDate:
		cfg.DueDateCompliance = HardWeight(DominantWeight)
	case CriterionDuration:
		cfg.ShortDurationFirst = SoftWeight(DominantWeight)
	default:
		return ConstraintConfiguration{}, &UnknownCriterionError{Criterion: string(c)}
	}
	return cfg, nil
}

func (c ConstraintConfiguration) Validate() error {
	if c.MachineConflict.Level != Hard {
		return fmt.Errorf("machineConflict must be hard")
	}
	for name, w := range map[string]Weight{
		"highPriorityFirst":  c.HighPriorityFirst,
		"dueDateCompliance":  c.DueDateCompliance,
		"machineConflict":    c.MachineConflict,
		"shortDurationFirst": c.ShortDurationFirst,
		"balanceMachineLoad": c.BalanceMachineLoad,
	} {
		if w.Magnitude < 0 {
			return fmt.Errorf("%s magnitude must be >= 0 (got %d)", name, w.Magnitude)
		}
	}
	return nil
}
