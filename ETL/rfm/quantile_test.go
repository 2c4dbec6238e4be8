package rfm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
)

func TestExactQuantileEstimatorBoundaries(t *testing.T) {
	estimator := ExactQuantileEstimator{}

	// Для [1..5] границы считаются по формуле h = (n-1)*q с интерполяцией
	boundaries := estimator.Boundaries([]float64{5, 3, 1, 4, 2})

	assert.InDelta(t, 1.8, boundaries[0], 1e-9)
	assert.InDelta(t, 2.6, boundaries[1], 1e-9)
	assert.InDelta(t, 3.4, boundaries[2], 1e-9)
	assert.InDelta(t, 4.2, boundaries[3], 1e-9)
}

func TestExactQuantileEstimatorSingleValue(t *testing.T) {
	estimator := ExactQuantileEstimator{}

	boundaries := estimator.Boundaries([]float64{42})

	assert.Equal(t, models.MetricBoundaries{42, 42, 42, 42}, boundaries)
	assert.True(t, boundaries.Degenerate())
}

func TestExactQuantileEstimatorEmpty(t *testing.T) {
	estimator := ExactQuantileEstimator{}

	boundaries := estimator.Boundaries(nil)

	assert.Equal(t, models.MetricBoundaries{}, boundaries)
}

func TestExactQuantileEstimatorIdenticalValues(t *testing.T) {
	estimator := ExactQuantileEstimator{}

	// Вырожденное распределение: все значения совпадают
	boundaries := estimator.Boundaries([]float64{7, 7, 7, 7, 7, 7})

	assert.True(t, boundaries.Degenerate())
	assert.Equal(t, 7.0, boundaries[0])
	assert.Equal(t, 7.0, boundaries[3])
}

func TestSampledQuantileEstimatorFallsBackToExact(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}

	exact := ExactQuantileEstimator{}.Boundaries(values)
	sampled := SampledQuantileEstimator{SampleSize: 100}.Boundaries(values)

	// Популяция меньше размера выборки, границы совпадают с точными
	assert.Equal(t, exact, sampled)
}

func TestSampledQuantileEstimatorDeterministic(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64(i)
	}

	estimator := SampledQuantileEstimator{SampleSize: 100}

	first := estimator.Boundaries(values)
	second := estimator.Boundaries(values)

	// Систематическая выборка детерминирована, повторный расчет дает те же границы
	assert.Equal(t, first, second)
}

func TestSampledQuantileEstimatorApproximatesExact(t *testing.T) {
	values := make([]float64, 10000)
	for i := range values {
		values[i] = float64(i)
	}

	exact := ExactQuantileEstimator{}.Boundaries(values)
	sampled := SampledQuantileEstimator{SampleSize: 1000}.Boundaries(values)

	// Ранговая погрешность при k = 1000 не превышает нескольких процентов популяции
	for i := range exact {
		assert.InDelta(t, exact[i], sampled[i], 500)
	}
}
