package ls

import "shopPlanner/internal/schedule"

// tabuList — табу по сущностям: кольцевой буфер фиксированного размера
// и map для быстрой проверки.
type tabuList struct {
	m   map[int]int // назначение → итерация истечения табу
	key []int       // кольцевой буфер ключей, -1 — пусто
	exp []int
	i   int
}

func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	t := &tabuList{
		m:   make(map[int]int, capacity*2),
		key: make([]int, capacity),
		exp: make([]int, capacity),
	}
	for i := range t.key {
		t.key[i] = -1
	}
	return t
}

func (t *tabuList) isTabu(entity, iter int) bool {
	exp, ok := t.m[entity]
	return ok && exp > iter
}

// IsTabu — ход табуирован, если затрагивает недавно изменённую сущность.
func (t *tabuList) IsTabu(m Move, iter int) bool {
	if t.isTabu(m.A, iter) {
		return true
	}
	return m.Kind == SwapAssignments && t.isTabu(m.B, iter)
}

func (t *tabuList) add(entity, expiry int) {
	// Вытесняем старый элемент кольца, если map всё ещё ссылается на него.
	if old := t.key[t.i]; old >= 0 {
		if cur, ok := t.m[old]; ok && cur == t.exp[t.i] {
			delete(t.m, old)
		}
	}
	t.key[t.i] = entity
	t.exp[t.i] = expiry
	t.m[entity] = expiry

	t.i++
	if t.i >= len(t.key) {
		t.i = 0
	}
}

// Add помечает сущности хода как табу до итерации expiry.
func (t *tabuList) Add(m Move, expiry int) {
	t.add(m.A, expiry)
	if m.Kind == SwapAssignments {
		t.add(m.B, expiry)
	}
}

// accept — правило принятия: табу-ход проходит только если даёт
// новый глобальный рекорд; иначе ход принимается, если он не хуже
// оценки L итераций назад или текущей оценки.
func accept(cand, curr, late, best schedule.Score, tabu bool) bool {
	if tabu {
		return cand.BetterThan(best)
	}
	return cand.AtLeast(late) || cand.AtLeast(curr)
}
