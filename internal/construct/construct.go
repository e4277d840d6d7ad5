// Package construct строит начальное решение жадным first-fit проходом.
package construct

import (
	"slices"
	"sort"

	"shopPlanner/internal/schedule"
)

// Order возвращает индексы работ в порядке обхода для активного критерия:
// приоритет по убыванию, срок по возрастанию (без срока — в конце),
// длительность по возрастанию. Равные ключи упорядочиваются по ID работы.
func Order(p *schedule.Problem) []int {
	order := make([]int, len(p.Jobs))
	for i := range order {
		order[i] = i
	}
	jobs := p.Jobs
	var key func(a, b schedule.Job) int
	switch p.Config.Criterion {
	case schedule.CriterionPriority:
		key = func(a, b schedule.Job) int { return b.Priority - a.Priority }
	case schedule.CriterionDueDate:
		key = compareDue
	case schedule.CriterionDuration:
		key = compareDuration
	default:
		key = func(a, b schedule.Job) int { return 0 }
	}
	sort.SliceStable(order, func(i, k int) bool {
		a, b := jobs[order[i]], jobs[order[k]]
		if c := key(a, b); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return order
}

func compareDue(a, b schedule.Job) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	}
	return a.DueDate.Compare(*b.DueDate)
}

func compareDuration(a, b schedule.Job) int {
	switch {
	case a.Duration < b.Duration:
		return -1
	case a.Duration > b.Duration:
		return 1
	}
	return 0
}

type interval struct {
	start, end int
}

// Build — эвристика построения. Каждая работа получает самый ранний слот
// среди совместимых станков, не пересекающийся с уже принятыми в этом проходе.
// Возвратов нет; работа без свободного слота остаётся неразрешённой.
func Build(p *schedule.Problem) []schedule.Assignment {
	as := p.NewAssignments()
	busy := make([][]interval, len(p.Machines))
	grains := len(p.Grains)

	for _, j := range Order(p) {
		span := p.Span(j)
		bestMachine, bestGrain := schedule.Unassigned, grains
		for _, m := range p.Candidates(j) {
			g := earliestFit(busy[m], span)
			if g < bestGrain {
				bestMachine, bestGrain = m, g
			}
		}
		if bestMachine == schedule.Unassigned {
			continue
		}
		as[j].Machine, as[j].Grain = bestMachine, bestGrain
		if span > 0 {
			busy[bestMachine] = insertSorted(busy[bestMachine], interval{start: bestGrain, end: bestGrain + span})
		}
	}
	return as
}

// earliestFit ищет первый слот, с которого span слотов не задевают занятые интервалы.
func earliestFit(busy []interval, span int) int {
	if span == 0 {
		return 0
	}
	g := 0
	for _, iv := range busy {
		if g+span <= iv.start {
			break
		}
		if iv.end > g {
			g = iv.end
		}
	}
	return g
}

func insertSorted(busy []interval, iv interval) []interval {
	i, _ := slices.BinarySearchFunc(busy, iv, func(x, y interval) int { return x.start - y.start })
	return slices.Insert(busy, i, iv)
}
