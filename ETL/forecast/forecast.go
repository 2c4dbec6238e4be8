package forecast

import (
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// Горизонт прогноза по умолчанию
const DefaultHorizonDays = 7

// RevenueTrendProcessor строит прогноз дневной выручки по ежедневным KPI
type RevenueTrendProcessor struct {
	logger *utils.ETLLogger
}

// NewRevenueTrendProcessor создает новый экземпляр RevenueTrendProcessor
func NewRevenueTrendProcessor(logger *utils.ETLLogger) *RevenueTrendProcessor {
	return &RevenueTrendProcessor{
		logger: logger,
	}
}

// ForecastRevenue строит линейный прогноз выручки на horizonDays дней вперед
// по фактам ежедневных KPI. Требуется минимум 2 дня с заказами
func (p *RevenueTrendProcessor) ForecastRevenue(kpis []models.DailyKPIFact, horizonDays int) (*RevenueForecast, error) {
	if len(kpis) < 2 {
		return nil, fmt.Errorf("для прогноза выручки требуется минимум 2 дня с заказами, получено: %d", len(kpis))
	}

	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	// Формируем точки: X — число дней от первой даты, Y — выручка
	firstDate := kpis[0].Date
	points := make([]DataPoint, 0, len(kpis))
	for _, fact := range kpis {
		points = append(points, DataPoint{
			X:    fact.Date.Sub(firstDate).Hours() / 24,
			Y:    fact.Revenue,
			Date: fact.Date,
		})
	}

	result, err := LinearRegression(points)
	if err != nil {
		return nil, fmt.Errorf("ошибка при расчете регрессии выручки: %w", err)
	}

	p.logger.Debug("Регрессия выручки: наклон %.3f, сдвиг %.3f, R2 %.3f", result.A, result.B, result.R2)

	// Строим точки прогноза от последней фактической даты
	lastDate := kpis[len(kpis)-1].Date
	lastX := lastDate.Sub(firstDate).Hours() / 24

	forecastPoints := make([]ForecastPoint, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		forecastPoints = append(forecastPoints, ForecastPoint{
			Date:            lastDate.AddDate(0, 0, i),
			ForecastRevenue: Predict(result, lastX+float64(i)),
		})
	}

	forecast := &RevenueForecast{
		ComputedAt:  time.Now(),
		Slope:       result.A,
		Intercept:   result.B,
		R2:          result.R2,
		PeriodStart: result.PeriodStart,
		PeriodEnd:   result.PeriodEnd,
		Points:      forecastPoints,
	}

	p.logger.Info("Прогноз выручки построен на %d дней (R2 = %.3f)", horizonDays, result.R2)
	return forecast, nil
}
