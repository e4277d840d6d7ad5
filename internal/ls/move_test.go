package ls

import (
	"math/rand"
	"testing"

	"shopPlanner/internal/schedule"
)

func TestAccept(t *testing.T) {
	s := func(h, soft int64) schedule.Score { return schedule.Score{Hard: h, Soft: soft} }
	cases := []struct {
		name                   string
		cand, curr, late, best schedule.Score
		tabu                   bool
		want                   bool
	}{
		{"better than current", s(0, -5), s(0, -10), s(0, -1), s(0, -1), false, true},
		{"equal to current", s(0, -10), s(0, -10), s(0, -1), s(0, -1), false, true},
		{"worse than current but beats late", s(0, -12), s(0, -10), s(0, -20), s(0, -1), false, true},
		{"worse than both", s(0, -30), s(0, -10), s(0, -20), s(0, -1), false, false},
		{"hard dominates soft", s(-1, 0), s(0, -100), s(0, -100), s(0, -1), false, false},
		{"tabu without new best", s(0, -5), s(0, -10), s(0, -20), s(0, -1), true, false},
		{"tabu with new best", s(0, 0), s(0, -10), s(0, -20), s(0, -1), true, true},
	}
	for _, c := range cases {
		if got := accept(c.cand, c.curr, c.late, c.best, c.tabu); got != c.want {
			t.Errorf("%s: accept = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTabuList_Expiry(t *testing.T) {
	tl := newTabuList(8)
	tl.Add(Move{Kind: ShiftGrain, A: 3}, 5)
	if !tl.IsTabu(Move{Kind: ReassignMachine, A: 3}, 4) {
		t.Errorf("entity 3 should be tabu at iteration 4")
	}
	if tl.IsTabu(Move{Kind: ReassignMachine, A: 3}, 5) {
		t.Errorf("entity 3 should expire at iteration 5")
	}

	tl.Add(Move{Kind: SwapAssignments, A: 1, B: 2}, 10)
	if !tl.IsTabu(Move{Kind: SwapAssignments, A: 7, B: 2}, 0) {
		t.Errorf("swap touching tabu entity B must be tabu")
	}
	if tl.IsTabu(Move{Kind: ShiftGrain, A: 7, B: 2}, 0) {
		t.Errorf("non-swap move only looks at A")
	}
}

func TestTabuList_RingEviction(t *testing.T) {
	tl := newTabuList(8)
	for e := 0; e < 9; e++ {
		tl.Add(Move{Kind: ShiftGrain, A: e}, 100)
	}
	if tl.IsTabu(Move{A: 0}, 0) {
		t.Errorf("oldest entity should be evicted from a full ring")
	}
	if !tl.IsTabu(Move{A: 8}, 0) {
		t.Errorf("newest entity must be tabu")
	}

	// повторное добавление не должно удаляться вытеснением старой записи
	tl = newTabuList(8)
	tl.Add(Move{A: 1}, 50)
	for e := 10; e < 17; e++ {
		tl.Add(Move{A: e}, 50)
	}
	tl.Add(Move{A: 1}, 60) // перезаписывает слот со старой записью 1
	if !tl.IsTabu(Move{A: 1}, 55) {
		t.Errorf("re-added entity must stay tabu until its new expiry")
	}
}

func TestMoveApplyRevert(t *testing.T) {
	as := []schedule.Assignment{{Job: 0, Machine: 0, Grain: 3}, {Job: 1, Machine: 1, Grain: 7}}
	orig := append([]schedule.Assignment(nil), as...)

	for _, mv := range []Move{
		{Kind: ReassignMachine, A: 0, Machine: 1},
		{Kind: ShiftGrain, A: 1, Grain: 0},
		{Kind: SwapAssignments, A: 0, B: 1},
	} {
		u := mv.apply(as)
		if as[0] == orig[0] && as[1] == orig[1] {
			t.Errorf("%s did not change anything", mv)
		}
		u.revert(as)
		if as[0] != orig[0] || as[1] != orig[1] {
			t.Fatalf("%s: revert gave %+v", mv, as)
		}
	}

	(Move{Kind: SwapAssignments, A: 0, B: 1}).apply(as)
	if as[0].Machine != 1 || as[0].Grain != 7 || as[1].Machine != 0 || as[1].Grain != 3 {
		t.Fatalf("swap result %+v", as)
	}
}

func TestSelector_MovesKeepInvariants(t *testing.T) {
	p := testProblem(t, 8, schedule.CriterionPriority)
	as := piledUp(p)
	as[2].Machine, as[2].Grain = schedule.Unassigned, schedule.Unassigned

	sel := newSelector(p, rand.New(rand.NewSource(1)), as)
	if len(sel.resolved) != 7 {
		t.Fatalf("resolved = %d, want 7", len(sel.resolved))
	}
	kinds := map[MoveKind]int{}
	for i := 0; i < 2000; i++ {
		mv, ok := sel.next(as)
		if !ok {
			continue
		}
		kinds[mv.Kind]++
		mv.apply(as)
		if err := p.CheckAssignments(as); err != nil {
			t.Fatalf("move %s broke assignments: %v", mv, err)
		}
		if as[2].Resolved() {
			t.Fatalf("move %s resolved an unresolved assignment", mv)
		}
	}
	for _, k := range []MoveKind{ReassignMachine, ShiftGrain, SwapAssignments} {
		if kinds[k] == 0 {
			t.Errorf("no %s moves generated", k)
		}
	}
}
