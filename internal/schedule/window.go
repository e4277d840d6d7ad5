package schedule

import "time"

// GrainLength — длина одного временного слота.
const GrainLength = 60 * time.Second

// grainSeconds — GrainLength в секундах.
const grainSeconds = int64(GrainLength / time.Second)

// DefaultHorizon используется, если ни у одной работы нет срока.
const DefaultHorizon = 7 * 24 * time.Hour

// TimeWindow — горизонт планирования в секундах Unix.
type TimeWindow struct {
	StartSeconds int64
	EndSeconds   int64
}

// TimeGrain — неизменяемый слот. StartOffsetSeconds отсчитывается от эпохи Unix.
type TimeGrain struct {
	Index              int
	StartOffsetSeconds int64
}

func (g TimeGrain) Time() time.Time {
	return time.Unix(g.StartOffsetSeconds, 0).UTC()
}

// NewTimeWindow вычисляет горизонт по допустимым работам:
// начало — самый ранний StartTime (иначе now), конец — самый поздний DueDate
// (иначе начало плюс DefaultHorizon).
func NewTimeWindow(jobs []Job, now time.Time) (TimeWindow, error) {
	if len(jobs) == 0 {
		return TimeWindow{}, &InvalidInputError{Reason: "no eligible jobs to derive a time window from"}
	}

	var earliest, latest *time.Time
	for i := range jobs {
		if st := jobs[i].StartTime; st != nil && (earliest == nil || st.Before(*earliest)) {
			earliest = st
		}
		if dd := jobs[i].DueDate; dd != nil && (latest == nil || dd.After(*latest)) {
			latest = dd
		}
	}

	start := now
	if earliest != nil {
		start = *earliest
	}
	end := start.Add(DefaultHorizon)
	if latest != nil {
		end = *latest
	}
	return TimeWindow{StartSeconds: start.Unix(), EndSeconds: end.Unix()}, nil
}

// GrainCount — ⌊(end−start)/60⌋+1, либо 0 для вырожденного окна.
func (w TimeWindow) GrainCount() int {
	if w.EndSeconds < w.StartSeconds {
		return 0
	}
	return int((w.EndSeconds-w.StartSeconds)/grainSeconds) + 1
}

// GenerateGrains нарезает окно [start, end] на слоты по 60 секунд.
// Для одного и того же окна результат всегда одинаков.
func GenerateGrains(w TimeWindow) []TimeGrain {
	n := w.GrainCount()
	grains := make([]TimeGrain, n)
	for i := range grains {
		grains[i] = TimeGrain{Index: i, StartOffsetSeconds: w.StartSeconds + int64(i)*grainSeconds}
	}
	return grains
}

// SpanGrains — сколько слотов занимает работа заданной длительности (с округлением вверх).
func SpanGrains(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + GrainLength - 1) / GrainLength)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Second - 1) / time.Second)
}
