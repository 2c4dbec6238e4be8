package transform

import (
	"fmt"
	"sync"
	"time"

	"github.com/LilVoxy/coursework_analytics/ETL/config"
	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/rfm"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// Transformer координирует расчет трёх аналитических таблиц по
// провалидированным заказам
type Transformer struct {
	logger            *utils.ETLLogger
	dailyKPIProcessor *DailyKPIProcessor
	categoryProcessor *CategoryDailyProcessor
	metricsProcessor  *UserMetricsProcessor
	scorer            *rfm.Scorer
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(cfg config.ETLConfig, logger *utils.ETLLogger) (*Transformer, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("неизвестный часовой пояс %q: %w", cfg.Timezone, err)
	}

	return &Transformer{
		logger:            logger,
		dailyKPIProcessor: NewDailyKPIProcessor(location, logger),
		categoryProcessor: NewCategoryDailyProcessor(location, logger),
		metricsProcessor:  NewUserMetricsProcessor(logger),
		scorer:            rfm.NewScorer(cfg.Quantile, logger),
	}, nil
}

// Transform выполняет полный расчет аналитических таблиц одного запуска.
// Чистая функция провалидированного набора: тот же вход даёт тот же результат.
// Три ветки агрегации читают один неизменяемый набор и выполняются параллельно;
// RFM-оценка начинается только после полного расчёта метрик покупателей,
// так как квантильные границы требуют всей популяции
func (t *Transformer) Transform(runCtx *models.RunContext, orders []models.OrderRecord) (*models.TransformedData, error) {
	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (Расчет аналитики)")

	transformedData := &models.TransformedData{}

	var (
		wg           sync.WaitGroup
		userMetrics  []models.UserMetrics
		snapshotTime time.Time
	)

	// 1. Ежедневные KPI
	wg.Add(1)
	go func() {
		defer wg.Done()
		transformedData.DailyKPIs = t.dailyKPIProcessor.ProcessDailyKPIs(orders)
	}()

	// 2. Агрегаты по категориям
	wg.Add(1)
	go func() {
		defer wg.Done()
		transformedData.CategoryDaily = t.categoryProcessor.ProcessCategoryDaily(orders)
	}()

	// 3. Метрики покупателей
	wg.Add(1)
	go func() {
		defer wg.Done()
		userMetrics, snapshotTime = t.metricsProcessor.ProcessUserMetrics(orders)
	}()

	wg.Wait()

	// 4. Квантильная RFM-оценка по полной таблице метрик
	runCtx.SnapshotTime = snapshotTime
	transformedData.RFMScores = t.scorer.Score(runCtx, userMetrics)

	// Заполняем метаданные запуска
	transformedData.Metadata = models.RunMetadata{
		RunID:           runCtx.RunID.String(),
		SnapshotTime:    snapshotTime,
		OrdersProcessed: len(orders),
		UsersScored:     len(transformedData.RFMScores),
	}

	for _, order := range orders {
		if order.OrderID > transformedData.Metadata.LastProcessedOrder {
			transformedData.Metadata.LastProcessedOrder = order.OrderID
		}
	}

	duration := time.Since(startTime)
	t.logger.Info("Фаза Transform завершена. Длительность: %v", duration)

	return transformedData, nil
}
