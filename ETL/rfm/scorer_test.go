package rfm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LilVoxy/coursework_analytics/ETL/config"
	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

func newTestScorer() *Scorer {
	return NewScorer(config.QuantileConfig{
		MaxExactPopulation: 100000,
		SampleSize:         10000,
	}, utils.NewSilentLogger())
}

func TestScoreValue(t *testing.T) {
	boundaries := models.MetricBoundaries{10, 20, 30, 40}

	// Единица плюс число границ строго ниже значения
	assert.Equal(t, 1, scoreValue(5, boundaries))
	assert.Equal(t, 2, scoreValue(15, boundaries))
	assert.Equal(t, 3, scoreValue(25, boundaries))
	assert.Equal(t, 4, scoreValue(35, boundaries))
	assert.Equal(t, 5, scoreValue(45, boundaries))
}

func TestScoreValueTieGoesToLowerBucket(t *testing.T) {
	boundaries := models.MetricBoundaries{10, 20, 30, 40}

	// Значение на границе относится к нижнему интервалу
	assert.Equal(t, 1, scoreValue(10, boundaries))
	assert.Equal(t, 2, scoreValue(20, boundaries))
	assert.Equal(t, 4, scoreValue(40, boundaries))
}

func TestScoreValueDegenerateDistribution(t *testing.T) {
	boundaries := models.MetricBoundaries{7, 7, 7, 7}

	// При вырожденном распределении все получают нейтральную оценку
	assert.Equal(t, NeutralScore, scoreValue(1, boundaries))
	assert.Equal(t, NeutralScore, scoreValue(7, boundaries))
	assert.Equal(t, NeutralScore, scoreValue(100, boundaries))
}

func TestInvertScore(t *testing.T) {
	assert.Equal(t, 5, invertScore(1))
	assert.Equal(t, 4, invertScore(2))
	assert.Equal(t, 3, invertScore(3))
	assert.Equal(t, 2, invertScore(4))
	assert.Equal(t, 1, invertScore(5))
}

func TestCombineScores(t *testing.T) {
	assert.Equal(t, 555, CombineScores(5, 5, 5))
	assert.Equal(t, 111, CombineScores(1, 1, 1))
	assert.Equal(t, 543, CombineScores(5, 4, 3))
}

func TestScoreFivePopulation(t *testing.T) {
	scorer := newTestScorer()
	runCtx := models.NewRunContext(time.Now())

	metrics := []models.UserMetrics{
		{UserID: 1, RecencyDays: 10, Frequency: 1, Monetary: 100},
		{UserID: 2, RecencyDays: 20, Frequency: 2, Monetary: 200},
		{UserID: 3, RecencyDays: 30, Frequency: 3, Monetary: 300},
		{UserID: 4, RecencyDays: 40, Frequency: 4, Monetary: 400},
		{UserID: 5, RecencyDays: 50, Frequency: 5, Monetary: 500},
	}

	facts := scorer.Score(runCtx, metrics)
	assert.Len(t, facts, 5)

	// Самый свежий, частый и доходный покупатель получает максимум по всем осям
	assert.Equal(t, 5, facts[0].R)
	assert.Equal(t, 1, facts[0].F)
	assert.Equal(t, 1, facts[0].M)
	assert.Equal(t, 511, facts[0].RFM)

	// Самый давний покупатель: recency инвертируется в единицу
	assert.Equal(t, 1, facts[4].R)
	assert.Equal(t, 5, facts[4].F)
	assert.Equal(t, 5, facts[4].M)
	assert.Equal(t, 155, facts[4].RFM)

	// Все оценки в допустимых пределах, составной код согласован
	for _, fact := range facts {
		assert.GreaterOrEqual(t, fact.R, MinScore)
		assert.LessOrEqual(t, fact.R, MaxScore)
		assert.GreaterOrEqual(t, fact.F, MinScore)
		assert.LessOrEqual(t, fact.F, MaxScore)
		assert.GreaterOrEqual(t, fact.M, MinScore)
		assert.LessOrEqual(t, fact.M, MaxScore)
		assert.Equal(t, CombineScores(fact.R, fact.F, fact.M), fact.RFM)
	}
}

func TestScoreSingleUser(t *testing.T) {
	scorer := newTestScorer()
	runCtx := models.NewRunContext(time.Now())

	metrics := []models.UserMetrics{
		{UserID: 42, RecencyDays: 7, Frequency: 3, Monetary: 250},
	}

	facts := scorer.Score(runCtx, metrics)

	// Единственный покупатель: все распределения вырождены, оценка нейтральная
	assert.Len(t, facts, 1)
	assert.Equal(t, 3, facts[0].R)
	assert.Equal(t, 3, facts[0].F)
	assert.Equal(t, 3, facts[0].M)
	assert.Equal(t, 333, facts[0].RFM)
}

func TestScoreEmptyPopulation(t *testing.T) {
	scorer := newTestScorer()
	runCtx := models.NewRunContext(time.Now())

	facts := scorer.Score(runCtx, nil)

	assert.Empty(t, facts)
}

func TestScoreSortsByUserID(t *testing.T) {
	scorer := newTestScorer()
	runCtx := models.NewRunContext(time.Now())

	metrics := []models.UserMetrics{
		{UserID: 30, RecencyDays: 3, Frequency: 3, Monetary: 300},
		{UserID: 10, RecencyDays: 1, Frequency: 1, Monetary: 100},
		{UserID: 20, RecencyDays: 2, Frequency: 2, Monetary: 200},
	}

	facts := scorer.Score(runCtx, metrics)

	assert.Len(t, facts, 3)
	assert.Equal(t, int64(10), facts[0].UserID)
	assert.Equal(t, int64(20), facts[1].UserID)
	assert.Equal(t, int64(30), facts[2].UserID)
}

func TestScoreFillsRunContextBoundaries(t *testing.T) {
	scorer := newTestScorer()
	runCtx := models.NewRunContext(time.Now())

	metrics := []models.UserMetrics{
		{UserID: 1, RecencyDays: 1, Frequency: 1, Monetary: 100},
		{UserID: 2, RecencyDays: 9, Frequency: 9, Monetary: 900},
	}

	scorer.Score(runCtx, metrics)

	// Границы запуска заполнены и не вырождены
	assert.False(t, runCtx.RecencyBoundaries.Degenerate())
	assert.False(t, runCtx.FrequencyBoundaries.Degenerate())
	assert.False(t, runCtx.MonetaryBoundaries.Degenerate())
}
