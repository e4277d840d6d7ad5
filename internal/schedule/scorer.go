package schedule

import (
	"fmt"
	"slices"
)

// Breakdown — сырые значения ограничений до умножения на веса.
type Breakdown struct {
	Conflicts       int64 // пары пересекающихся работ на одном станке
	DueViolations   int64
	PriorityPenalty int64 // Σ вес приоритета × слот старта
	DurationPenalty int64 // Σ вес краткости × слот старта
	LoadImbalance   int64 // Σ по типам M·Σc² − (Σc)²
	Resolved        int
}

type interval struct {
	start, end int
}

// Scorer оценивает состояние назначений. Буферы переиспользуются,
// поэтому один Scorer нельзя делить между горутинами.
type Scorer struct {
	p         *Problem
	byMachine [][]interval
	counts    []int64
	sums      []int64
	squares   []int64
}

func NewScorer(p *Problem) (*Scorer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.span == nil {
		p.precompute()
	}
	return &Scorer{
		p:         p,
		byMachine: make([][]interval, len(p.Machines)),
		counts:    make([]int64, len(p.Machines)),
		sums:      make([]int64, len(p.groupSizes)),
		squares:   make([]int64, len(p.groupSizes)),
	}, nil
}

func (s *Scorer) Score(as []Assignment) (Score, error) {
	b, err := s.Breakdown(as)
	if err != nil {
		return Score{}, err
	}
	return s.Weigh(b), nil
}

func (s *Scorer) MustScore(as []Assignment) Score {
	sc, err := s.Score(as)
	if err != nil {
		panic(err)
	}
	return sc
}

// Weigh превращает Breakdown в Score по весам конфигурации.
func (s *Scorer) Weigh(b Breakdown) Score {
	cfg := s.p.Config
	var sc Score
	add := func(w Weight, v int64) {
		if w.Level == Hard {
			sc.Hard -= w.Magnitude * v
		} else {
			sc.Soft -= w.Magnitude * v
		}
	}
	add(cfg.MachineConflict, b.Conflicts)
	add(cfg.DueDateCompliance, b.DueViolations)
	add(cfg.HighPriorityFirst, b.PriorityPenalty)
	add(cfg.ShortDurationFirst, b.DurationPenalty)
	add(cfg.BalanceMachineLoad, b.LoadImbalance)
	return sc
}

func (s *Scorer) Breakdown(as []Assignment) (Breakdown, error) {
	if s == nil || s.p == nil {
		return Breakdown{}, fmt.Errorf("nil scorer")
	}
	p := s.p
	if err := p.CheckAssignments(as); err != nil {
		return Breakdown{}, err
	}

	for m := range s.byMachine {
		s.byMachine[m] = s.byMachine[m][:0]
		s.counts[m] = 0
	}

	var b Breakdown
	for i, a := range as {
		if !a.Resolved() {
			continue
		}
		b.Resolved++
		g := int64(a.Grain)
		b.PriorityPenalty += p.prioWeight[i] * g
		b.DurationPenalty += p.durWeight[i] * g
		if a.Grain > p.latestStart[i] {
			b.DueViolations++
		}
		s.counts[a.Machine]++
		if span := p.span[i]; span > 0 {
			s.byMachine[a.Machine] = append(s.byMachine[a.Machine], interval{start: a.Grain, end: a.Grain + span})
		}
	}

	for m, ivs := range s.byMachine {
		if len(ivs) < 2 {
			continue
		}
		slices.SortFunc(ivs, func(x, y interval) int { return x.start - y.start })
		for i := range ivs {
			for k := i + 1; k < len(ivs) && ivs[k].start < ivs[i].end; k++ {
				b.Conflicts++
			}
		}
		s.byMachine[m] = ivs
	}

	for g := range s.sums {
		s.sums[g], s.squares[g] = 0, 0
	}
	for m, c := range s.counts {
		g := p.machineGroup[m]
		s.sums[g] += c
		s.squares[g] += c * c
	}
	for g, size := range p.groupSizes {
		b.LoadImbalance += int64(size)*s.squares[g] - s.sums[g]*s.sums[g]
	}
	return b, nil
}
