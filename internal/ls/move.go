package ls

import (
	"fmt"
	"math/rand"

	"shopPlanner/internal/schedule"
)

// MoveKind — тег варианта хода.
type MoveKind int

const (
	// ReassignMachine переводит назначение A на станок Machine того же типа.
	ReassignMachine MoveKind = iota
	// ShiftGrain переносит старт назначения A в слот Grain.
	ShiftGrain
	// SwapAssignments меняет местами станок и слот назначений A и B.
	SwapAssignments
)

func (k MoveKind) String() string {
	switch k {
	case ReassignMachine:
		return "reassign-machine"
	case ShiftGrain:
		return "shift-grain"
	case SwapAssignments:
		return "swap-assignments"
	}
	return "unknown"
}

// Move — ход локального поиска. Какие поля значимы, определяет Kind.
type Move struct {
	Kind    MoveKind
	A, B    int
	Machine int
	Grain   int
}

func (m Move) String() string {
	switch m.Kind {
	case ReassignMachine:
		return fmt.Sprintf("%s(%d -> machine %d)", m.Kind, m.A, m.Machine)
	case ShiftGrain:
		return fmt.Sprintf("%s(%d -> grain %d)", m.Kind, m.A, m.Grain)
	default:
		return fmt.Sprintf("%s(%d <-> %d)", m.Kind, m.A, m.B)
	}
}

// undo хранит прежние значения затронутых назначений.
type undo struct {
	a, b schedule.Assignment
	swap bool
}

func (m Move) apply(as []schedule.Assignment) undo {
	u := undo{a: as[m.A]}
	switch m.Kind {
	case ReassignMachine:
		as[m.A].Machine = m.Machine
	case ShiftGrain:
		as[m.A].Grain = m.Grain
	case SwapAssignments:
		u.b, u.swap = as[m.B], true
		as[m.A].Machine, as[m.B].Machine = as[m.B].Machine, as[m.A].Machine
		as[m.A].Grain, as[m.B].Grain = as[m.B].Grain, as[m.A].Grain
	}
	return u
}

func (u undo) revert(as []schedule.Assignment) {
	as[u.a.Job] = u.a
	if u.swap {
		as[u.b.Job] = u.b
	}
}

// selector генерирует случайные допустимые ходы. Ходы не меняют
// множество разрешённых назначений и не нарушают совместимость типов.
type selector struct {
	p        *schedule.Problem
	rng      *rand.Rand
	resolved []int
}

func newSelector(p *schedule.Problem, rng *rand.Rand, as []schedule.Assignment) *selector {
	s := &selector{p: p, rng: rng}
	for i, a := range as {
		if a.Resolved() {
			s.resolved = append(s.resolved, i)
		}
	}
	return s
}

// next возвращает ход или false, если выбранный вариант неприменим.
func (s *selector) next(as []schedule.Assignment) (Move, bool) {
	if len(s.resolved) == 0 {
		return Move{}, false
	}
	ia := s.rng.Intn(len(s.resolved))
	a := s.resolved[ia]

	switch MoveKind(s.rng.Intn(3)) {
	case ReassignMachine:
		cands := s.p.Candidates(a)
		if len(cands) < 2 {
			return Move{}, false
		}
		m := cands[s.rng.Intn(len(cands))]
		if m == as[a].Machine {
			return Move{}, false
		}
		return Move{Kind: ReassignMachine, A: a, Machine: m}, true

	case ShiftGrain:
		n := len(s.p.Grains)
		if n < 2 {
			return Move{}, false
		}
		cur := as[a].Grain
		var g int
		if s.rng.Intn(2) == 0 {
			g = s.rng.Intn(n)
		} else {
			// Локальный сдвиг в пределах длительности работы.
			w := max(1, s.p.Span(a))
			g = cur + s.rng.Intn(2*w+1) - w
			g = min(max(g, 0), n-1)
		}
		if g == cur {
			return Move{}, false
		}
		return Move{Kind: ShiftGrain, A: a, Grain: g}, true

	default:
		if len(s.resolved) < 2 {
			return Move{}, false
		}
		ib := s.rng.Intn(len(s.resolved) - 1)
		if ib >= ia {
			ib++
		}
		b := s.resolved[ib]
		if !s.p.Compatible(a, as[b].Machine) || !s.p.Compatible(b, as[a].Machine) {
			return Move{}, false
		}
		if as[a].Machine == as[b].Machine && as[a].Grain == as[b].Grain {
			return Move{}, false
		}
		return Move{Kind: SwapAssignments, A: a, B: b}, true
	}
}
