package rfm

import (
	"math"
	"sort"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
)

// Перцентили, по которым строятся границы оценочных интервалов
var scoringQuantiles = [4]float64{0.2, 0.4, 0.6, 0.8}

// QuantileEstimator вычисляет квантильные границы распределения метрики
// Обе реализации соблюдают один и тот же контракт: значение на границе
// относится к нижнему интервалу, вырожденное распределение даёт равные границы
type QuantileEstimator interface {
	// Boundaries возвращает границы на 20/40/60/80 перцентилях распределения
	Boundaries(values []float64) models.MetricBoundaries
}

// ExactQuantileEstimator вычисляет точные перцентили
// сортировкой значений и линейной интерполяцией между соседними точками
type ExactQuantileEstimator struct{}

// Boundaries возвращает точные квантильные границы
func (e ExactQuantileEstimator) Boundaries(values []float64) models.MetricBoundaries {
	var boundaries models.MetricBoundaries
	if len(values) == 0 {
		return boundaries
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	for i, q := range scoringQuantiles {
		boundaries[i] = interpolatedPercentile(sorted, q)
	}
	return boundaries
}

// interpolatedPercentile возвращает перцентиль q отсортированного списка
// по формуле h = (n-1)*q с линейной интерполяцией между соседними значениями
func interpolatedPercentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	h := float64(n-1) * q
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}

	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// SampledQuantileEstimator вычисляет приближенные перцентили по
// систематической выборке фиксированного размера из популяции.
// Выборка детерминирована (фиксированный шаг), поэтому повторный запуск
// на тех же данных даёт те же границы.
// Ранговая погрешность границ при размере выборки k составляет ~1/sqrt(k):
// при k = 10000 это ~0.01
type SampledQuantileEstimator struct {
	SampleSize int
}

// Boundaries возвращает приближенные квантильные границы
func (e SampledQuantileEstimator) Boundaries(values []float64) models.MetricBoundaries {
	k := e.SampleSize
	if k <= 0 || len(values) <= k {
		// Выборка не нужна, считаем точно
		return ExactQuantileEstimator{}.Boundaries(values)
	}

	stride := float64(len(values)) / float64(k)
	sample := make([]float64, 0, k)
	for i := 0; i < k; i++ {
		sample = append(sample, values[int(float64(i)*stride)])
	}

	return ExactQuantileEstimator{}.Boundaries(sample)
}
