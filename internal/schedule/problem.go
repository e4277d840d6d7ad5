package schedule

import (
	"errors"
	"fmt"
	"math"
)

// Unassigned кодирует отсутствие станка или слота в Assignment.
const Unassigned = -1

// Assignment — переменная решения: индексы в Problem.Jobs, Problem.Machines и Problem.Grains.
type Assignment struct {
	Job     int
	Machine int
	Grain   int
}

func (a Assignment) Resolved() bool {
	return a.Machine != Unassigned && a.Grain != Unassigned
}

// Problem — неизменяемый снимок одного запуска с предвычисленными
// величинами, которые нужны оценщику и эвристикам.
type Problem struct {
	Jobs     []Job
	Machines []Machine
	Grains   []TimeGrain
	Window   TimeWindow
	Config   ConstraintConfiguration

	// Предвычисления по работам (индекс совпадает с Jobs).
	span        []int
	latestStart []int // последний слот старта без нарушения срока
	prioWeight  []int64
	durWeight   []int64
	candidates  [][]int // совместимые станки

	// Группировка станков по типу для баланса загрузки.
	machineGroup []int
	groupSizes   []int
}

func NewProblem(jobs []Job, machines []Machine, window TimeWindow, grains []TimeGrain, cfg ConstraintConfiguration) (*Problem, error) {
	p := &Problem{
		Jobs:     jobs,
		Machines: machines,
		Grains:   grains,
		Window:   window,
		Config:   cfg,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.precompute()
	return p, nil
}

func (p *Problem) Validate() error {
	if p == nil {
		return errors.New("problem is nil")
	}
	if len(p.Jobs) == 0 {
		return &InvalidInputError{Reason: "problem has no jobs"}
	}
	seen := make(map[int64]bool, len(p.Jobs))
	for _, j := range p.Jobs {
		if err := j.Validate(); err != nil {
			return err
		}
		if seen[j.ID] {
			return fmt.Errorf("duplicate job id %d", j.ID)
		}
		seen[j.ID] = true
	}
	for i, g := range p.Grains {
		if g.Index != i {
			return fmt.Errorf("grains[%d] has index %d", i, g.Index)
		}
	}
	return p.Config.Validate()
}

func (p *Problem) precompute() {
	n := len(p.Jobs)
	p.span = make([]int, n)
	p.latestStart = make([]int, n)
	p.prioWeight = make([]int64, n)
	p.durWeight = make([]int64, n)
	p.candidates = make([][]int, n)

	minPrio, maxSpan := math.MaxInt, 0
	for i, j := range p.Jobs {
		p.span[i] = SpanGrains(j.Duration)
		if j.Priority < minPrio {
			minPrio = j.Priority
		}
		if p.span[i] > maxSpan {
			maxSpan = p.span[i]
		}
	}

	groups := make(map[int64]int)
	p.machineGroup = make([]int, len(p.Machines))
	for m, mc := range p.Machines {
		g, ok := groups[mc.MachineTypeID]
		if !ok {
			g = len(p.groupSizes)
			groups[mc.MachineTypeID] = g
			p.groupSizes = append(p.groupSizes, 0)
		}
		p.machineGroup[m] = g
		p.groupSizes[g]++
	}

	for i, j := range p.Jobs {
		p.prioWeight[i] = int64(j.Priority-minPrio) + 1
		p.durWeight[i] = int64(maxSpan-p.span[i]) + 1
		p.latestStart[i] = math.MaxInt
		if j.DueDate != nil {
			slack := j.DueDate.Unix() - ceilSeconds(j.Duration) - p.Window.StartSeconds
			p.latestStart[i] = floorDiv(slack, grainSeconds)
		}
		for m, mc := range p.Machines {
			if mc.MachineTypeID == j.MachineTypeID {
				p.candidates[i] = append(p.candidates[i], m)
			}
		}
	}
}

// Span — длительность работы в слотах.
func (p *Problem) Span(job int) int { return p.span[job] }

// Candidates — индексы станков, совместимых с работой. Срез не изменять.
func (p *Problem) Candidates(job int) []int { return p.candidates[job] }

// LatestStart — последний слот, с которого работа успевает к сроку.
// Отрицательное значение значит, что срок нарушается при любом старте.
func (p *Problem) LatestStart(job int) int { return p.latestStart[job] }

// Compatible проверяет инвариант типа станка.
func (p *Problem) Compatible(job, machine int) bool {
	return p.Machines[machine].MachineTypeID == p.Jobs[job].MachineTypeID
}

// NewAssignments создаёт по одному неразрешённому назначению на работу.
func (p *Problem) NewAssignments() []Assignment {
	as := make([]Assignment, len(p.Jobs))
	for i := range as {
		as[i] = Assignment{Job: i, Machine: Unassigned, Grain: Unassigned}
	}
	return as
}

// CheckAssignments проверяет форму состояния решения.
func (p *Problem) CheckAssignments(as []Assignment) error {
	if len(as) != len(p.Jobs) {
		return fmt.Errorf("assignments length must be %d (got %d)", len(p.Jobs), len(as))
	}
	for i, a := range as {
		if a.Job != i {
			return fmt.Errorf("assignments[%d] refers to job %d", i, a.Job)
		}
		if (a.Machine == Unassigned) != (a.Grain == Unassigned) {
			return fmt.Errorf("assignments[%d] is half resolved (machine=%d grain=%d)", i, a.Machine, a.Grain)
		}
		if !a.Resolved() {
			continue
		}
		if a.Machine < 0 || a.Machine >= len(p.Machines) {
			return fmt.Errorf("assignments[%d]: machine %d out of range [0,%d)", i, a.Machine, len(p.Machines))
		}
		if a.Grain < 0 || a.Grain >= len(p.Grains) {
			return fmt.Errorf("assignments[%d]: grain %d out of range [0,%d)", i, a.Grain, len(p.Grains))
		}
		if !p.Compatible(i, a.Machine) {
			return fmt.Errorf("assignments[%d]: machine %d has type %d, job needs %d",
				i, p.Machines[a.Machine].ID, p.Machines[a.Machine].MachineTypeID, p.Jobs[i].MachineTypeID)
		}
	}
	return nil
}

func floorDiv(a, b int64) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return int(q)
}
