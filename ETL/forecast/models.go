package forecast

import (
	"time"
)

// DataPoint представляет точку данных для линейной регрессии
type DataPoint struct {
	X    float64   // Порядковый номер дня (относительно начала периода)
	Y    float64   // Выручка за день
	Date time.Time // Фактическая дата
}

// RegressionResult содержит результаты линейной регрессии
type RegressionResult struct {
	A           float64   // Коэффициент наклона
	B           float64   // Сдвиг
	R           float64   // Коэффициент корреляции Пирсона
	R2          float64   // Коэффициент детерминации
	PeriodStart time.Time // Начало анализируемого периода
	PeriodEnd   time.Time // Конец анализируемого периода
}

// ForecastPoint представляет точку прогноза выручки
type ForecastPoint struct {
	Date            time.Time `json:"date"`
	ForecastRevenue float64   `json:"forecast_revenue"`
}

// RevenueForecast содержит прогноз выручки на ближайшие дни
type RevenueForecast struct {
	ComputedAt  time.Time       `json:"computed_at"`
	Slope       float64         `json:"slope"`
	Intercept   float64         `json:"intercept"`
	R2          float64         `json:"r2"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Points      []ForecastPoint `json:"points"`
}
