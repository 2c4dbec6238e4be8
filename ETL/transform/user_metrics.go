package transform

import (
	"sort"
	"time"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// Сдвиг точки отсчёта recency относительно самого свежего заказа в наборе.
// Сутки сверху гарантируют recency_days >= 1 даже для заказа, совпавшего
// с максимальной временной меткой
const snapshotOffset = 24 * time.Hour

// UserMetricsProcessor отвечает за расчет сырых метрик покупателей
// (recency/frequency/monetary) до квантильной оценки
type UserMetricsProcessor struct {
	logger *utils.ETLLogger
}

// NewUserMetricsProcessor создает новый экземпляр UserMetricsProcessor
func NewUserMetricsProcessor(logger *utils.ETLLogger) *UserMetricsProcessor {
	return &UserMetricsProcessor{
		logger: logger,
	}
}

// ProcessUserMetrics группирует заказы по покупателям и считает их метрики
// Точка отсчёта recency (snapshot) едина для всего набора:
// максимальная временная метка по всем заказам плюс сутки
func (p *UserMetricsProcessor) ProcessUserMetrics(orders []models.OrderRecord) ([]models.UserMetrics, time.Time) {
	p.logger.Debug("Обработка метрик покупателей (%d заказов)...", len(orders))

	if len(orders) == 0 {
		return []models.UserMetrics{}, time.Time{}
	}

	// Группируем заказы по покупателям и находим максимальную метку набора
	type userAccumulator struct {
		lastOrderAt time.Time
		frequency   int
		monetary    float64
	}

	userData := make(map[int64]userAccumulator)
	var maxTimestamp time.Time

	for _, order := range orders {
		acc := userData[order.UserID]
		acc.frequency++
		acc.monetary += order.Amount
		if order.Timestamp.After(acc.lastOrderAt) {
			acc.lastOrderAt = order.Timestamp
		}
		userData[order.UserID] = acc

		if order.Timestamp.After(maxTimestamp) {
			maxTimestamp = order.Timestamp
		}
	}

	snapshotTime := maxTimestamp.Add(snapshotOffset)

	// Формируем метрики покупателей
	metrics := make([]models.UserMetrics, 0, len(userData))
	for userID, acc := range userData {
		recencyDays := int(snapshotTime.Sub(acc.lastOrderAt).Hours() / 24)

		metrics = append(metrics, models.UserMetrics{
			UserID:      userID,
			LastOrderAt: acc.lastOrderAt,
			RecencyDays: recencyDays,
			Frequency:   acc.frequency,
			Monetary:    acc.monetary,
		})
	}

	// Сортируем по ID покупателя для детерминированного результата
	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].UserID < metrics[j].UserID
	})

	p.logger.Info("Обработка метрик покупателей завершена. Покупателей: %d, snapshot: %v",
		len(metrics), snapshotTime)
	return metrics, snapshotTime
}
