package transform

import (
	"math"
	"sort"
	"time"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// Формат ключа календарной даты
const dateKeyLayout = "2006-01-02"

// RoundToHundredth округляет число до сотых (2 знака после запятой)
func RoundToHundredth(value float64) float64 {
	return math.Round(value*100) / 100
}

// DailyKPIProcessor отвечает за расчет ежедневных KPI по заказам
type DailyKPIProcessor struct {
	location *time.Location
	logger   *utils.ETLLogger
}

// NewDailyKPIProcessor создает новый экземпляр DailyKPIProcessor
func NewDailyKPIProcessor(location *time.Location, logger *utils.ETLLogger) *DailyKPIProcessor {
	return &DailyKPIProcessor{
		location: location,
		logger:   logger,
	}
}

// ProcessDailyKPIs группирует заказы по календарным датам и считает KPI
// Дата существует в результате только если на неё пришёлся хотя бы один заказ,
// пропуски дат не заполняются
func (p *DailyKPIProcessor) ProcessDailyKPIs(orders []models.OrderRecord) []models.DailyKPIFact {
	p.logger.Debug("Обработка ежедневных KPI (%d заказов)...", len(orders))

	// Группируем заказы по датам
	dailyData := make(map[string]struct {
		revenue     float64
		orders      int
		activeUsers map[int64]bool
	})

	for _, order := range orders {
		dateStr := order.Timestamp.In(p.location).Format(dateKeyLayout)

		data, exists := dailyData[dateStr]
		if !exists {
			data.activeUsers = make(map[int64]bool)
		}

		data.revenue += order.Amount
		data.orders++
		data.activeUsers[order.UserID] = true
		dailyData[dateStr] = data
	}

	// Сортируем даты по возрастанию
	dates := make([]string, 0, len(dailyData))
	for dateStr := range dailyData {
		dates = append(dates, dateStr)
	}
	sort.Strings(dates)

	// Формируем факты ежедневных KPI
	dailyFacts := make([]models.DailyKPIFact, 0, len(dates))
	for _, dateStr := range dates {
		data := dailyData[dateStr]
		date, _ := time.ParseInLocation(dateKeyLayout, dateStr, p.location)

		dailyFacts = append(dailyFacts, models.DailyKPIFact{
			Date:        date,
			Revenue:     data.revenue,
			Orders:      data.orders,
			ActiveUsers: len(data.activeUsers),
			AOV:         RoundToHundredth(data.revenue / float64(data.orders)),
		})
	}

	p.logger.Info("Обработка ежедневных KPI завершена. Сформировано фактов: %d", len(dailyFacts))
	return dailyFacts
}
