package rfm

import (
	"sort"

	"github.com/LilVoxy/coursework_analytics/ETL/config"
	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// Границы шкалы оценок
const (
	MinScore     = 1
	MaxScore     = 5
	NeutralScore = 3 // присваивается при вырожденном распределении метрики
)

// Scorer присваивает покупателям RFM-оценки 1–5 относительно
// эмпирического распределения метрик в текущей популяции
type Scorer struct {
	quantileConfig config.QuantileConfig
	logger         *utils.ETLLogger
}

// NewScorer создает новый экземпляр Scorer
func NewScorer(quantileConfig config.QuantileConfig, logger *utils.ETLLogger) *Scorer {
	return &Scorer{
		quantileConfig: quantileConfig,
		logger:         logger,
	}
}

// Score вычисляет RFM-оценки для всех покупателей
// Требует полную таблицу метрик: границы считаются по всей популяции,
// потоковая оценка по частичным данным не допускается.
// Вычисленные границы сохраняются в RunContext
func (s *Scorer) Score(runCtx *models.RunContext, metrics []models.UserMetrics) []models.UserRFMFact {
	facts := make([]models.UserRFMFact, 0, len(metrics))
	if len(metrics) == 0 {
		return facts
	}

	s.logger.Info("Начинаем расчет RFM-оценок для %d покупателей", len(metrics))

	// Собираем значения каждой метрики по всей популяции
	recency := make([]float64, len(metrics))
	frequency := make([]float64, len(metrics))
	monetary := make([]float64, len(metrics))
	for i, m := range metrics {
		recency[i] = float64(m.RecencyDays)
		frequency[i] = float64(m.Frequency)
		monetary[i] = m.Monetary
	}

	estimator := s.estimatorFor(len(metrics))
	runCtx.RecencyBoundaries = estimator.Boundaries(recency)
	runCtx.FrequencyBoundaries = estimator.Boundaries(frequency)
	runCtx.MonetaryBoundaries = estimator.Boundaries(monetary)

	s.logger.Debug("Границы recency: %v", runCtx.RecencyBoundaries)
	s.logger.Debug("Границы frequency: %v", runCtx.FrequencyBoundaries)
	s.logger.Debug("Границы monetary: %v", runCtx.MonetaryBoundaries)

	for _, m := range metrics {
		// Recency инвертируется: чем меньше дней с последнего заказа, тем выше оценка
		r := invertScore(scoreValue(float64(m.RecencyDays), runCtx.RecencyBoundaries))
		f := scoreValue(float64(m.Frequency), runCtx.FrequencyBoundaries)
		mScore := scoreValue(m.Monetary, runCtx.MonetaryBoundaries)

		facts = append(facts, models.UserRFMFact{
			UserID:      m.UserID,
			RecencyDays: m.RecencyDays,
			Frequency:   m.Frequency,
			Monetary:    m.Monetary,
			R:           r,
			F:           f,
			M:           mScore,
			RFM:         CombineScores(r, f, mScore),
		})
	}

	// Сортируем по ID покупателя для детерминированного результата
	sort.Slice(facts, func(i, j int) bool {
		return facts[i].UserID < facts[j].UserID
	})

	s.logger.Info("Расчет RFM-оценок завершен: оценено %d покупателей", len(facts))
	return facts
}

// estimatorFor выбирает реализацию оценки квантилей по размеру популяции
func (s *Scorer) estimatorFor(populationSize int) QuantileEstimator {
	if s.quantileConfig.MaxExactPopulation > 0 && populationSize > s.quantileConfig.MaxExactPopulation {
		s.logger.Debug("Популяция %d превышает порог %d, используем приближенную оценку квантилей",
			populationSize, s.quantileConfig.MaxExactPopulation)
		return SampledQuantileEstimator{SampleSize: s.quantileConfig.SampleSize}
	}
	return ExactQuantileEstimator{}
}

// scoreValue присваивает базовую оценку 1–5: единица плюс число границ строго ниже значения
// Значение, совпавшее с границей, относится к нижнему интервалу (value <= boundary)
func scoreValue(value float64, boundaries models.MetricBoundaries) int {
	// Вырожденное распределение: все границы совпадают, всем нейтральная оценка
	if boundaries.Degenerate() {
		return NeutralScore
	}

	score := MinScore
	for _, boundary := range boundaries {
		if value > boundary {
			score++
		}
	}
	return score
}

// invertScore инвертирует оценку для метрик, где меньшее значение лучше
func invertScore(score int) int {
	return MinScore + MaxScore - score
}

// CombineScores собирает составной RFM-код из трёх оценок
func CombineScores(r, f, m int) int {
	return r*100 + f*10 + m
}
