package transform

import (
	"sort"
	"time"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// Ключ группы (дата, категория)
type categoryDayKey struct {
	dateStr  string
	category string
}

// CategoryDailyProcessor отвечает за расчет ежедневных агрегатов по категориям
type CategoryDailyProcessor struct {
	location *time.Location
	logger   *utils.ETLLogger
}

// NewCategoryDailyProcessor создает новый экземпляр CategoryDailyProcessor
func NewCategoryDailyProcessor(location *time.Location, logger *utils.ETLLogger) *CategoryDailyProcessor {
	return &CategoryDailyProcessor{
		location: location,
		logger:   logger,
	}
}

// ProcessCategoryDaily группирует заказы по парам (дата, категория)
// Пара существует в результате только если по ней был хотя бы один заказ.
// Сумма выручки всех категорий за дату равна дневной выручке из ежедневных KPI
func (p *CategoryDailyProcessor) ProcessCategoryDaily(orders []models.OrderRecord) []models.CategoryDailyFact {
	p.logger.Debug("Обработка агрегатов по категориям (%d заказов)...", len(orders))

	// Группируем заказы по парам (дата, категория)
	categoryData := make(map[categoryDayKey]struct {
		revenue float64
		orders  int
	})

	for _, order := range orders {
		key := categoryDayKey{
			dateStr:  order.Timestamp.In(p.location).Format(dateKeyLayout),
			category: order.Category,
		}

		data := categoryData[key]
		data.revenue += order.Amount
		data.orders++
		categoryData[key] = data
	}

	// Сортируем ключи по (дата, категория)
	keys := make([]categoryDayKey, 0, len(categoryData))
	for key := range categoryData {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dateStr != keys[j].dateStr {
			return keys[i].dateStr < keys[j].dateStr
		}
		return keys[i].category < keys[j].category
	})

	// Формируем факты по категориям
	categoryFacts := make([]models.CategoryDailyFact, 0, len(keys))
	for _, key := range keys {
		data := categoryData[key]
		date, _ := time.ParseInLocation(dateKeyLayout, key.dateStr, p.location)

		categoryFacts = append(categoryFacts, models.CategoryDailyFact{
			Date:     date,
			Category: key.category,
			Revenue:  data.revenue,
			Orders:   data.orders,
		})
	}

	p.logger.Info("Обработка агрегатов по категориям завершена. Сформировано фактов: %d", len(categoryFacts))
	return categoryFacts
}
