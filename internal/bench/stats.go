package bench

import "math"

// ScoreStats — статистика по одной компоненте оценки; Best — максимум,
// так как оценки неположительны и больше значит лучше.
type ScoreStats struct {
	N    int
	Best int64
	Mean float64
	Std  float64
}

func CalcScoreStats(values []int64) ScoreStats {
	s := ScoreStats{N: len(values)}
	if s.N == 0 {
		return s
	}

	best := values[0]
	sum := 0.0
	for _, v := range values {
		if v > best {
			best = v
		}
		sum += float64(v)
	}
	mean := sum / float64(s.N)

	s.Best = best
	s.Mean = mean
	s.Std = sampleStd(len(values), mean, func(i int) float64 { return float64(values[i]) })
	return s
}

// FloatStats — статистика по времени; Best — минимум.
type FloatStats struct {
	N    int
	Best float64
	Mean float64
	Std  float64
}

func CalcFloatStats(values []float64) FloatStats {
	s := FloatStats{N: len(values)}
	if s.N == 0 {
		return s
	}

	best := values[0]
	sum := 0.0
	for _, v := range values {
		if v < best {
			best = v
		}
		sum += v
	}
	mean := sum / float64(s.N)

	s.Best = best
	s.Mean = mean
	s.Std = sampleStd(len(values), mean, func(i int) float64 { return values[i] })
	return s
}

func sampleStd(n int, mean float64, at func(i int) float64) float64 {
	if n < 2 {
		return 0
	}
	variance := 0.0
	for i := 0; i < n; i++ {
		d := at(i) - mean
		variance += d * d
	}
	variance /= float64(n - 1)
	return math.Sqrt(variance)
}
