package schedule

import "fmt"

// Score — пара (hard, soft). Оба компонента неположительны, больше — лучше.
type Score struct {
	Hard int64
	Soft int64
}

func (s Score) Feasible() bool { return s.Hard == 0 }

// Compare сравнивает сначала hard, затем soft: -1, 0 или 1.
func (s Score) Compare(o Score) int {
	switch {
	case s.Hard != o.Hard:
		if s.Hard < o.Hard {
			return -1
		}
		return 1
	case s.Soft != o.Soft:
		if s.Soft < o.Soft {
			return -1
		}
		return 1
	}
	return 0
}

func (s Score) BetterThan(o Score) bool { return s.Compare(o) > 0 }

func (s Score) AtLeast(o Score) bool { return s.Compare(o) >= 0 }

func (s Score) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}
