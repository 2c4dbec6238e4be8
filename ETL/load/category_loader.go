package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// CategoryLoader отвечает за загрузку ежедневных агрегатов по категориям
type CategoryLoader struct {
	logger *utils.ETLLogger
}

// NewCategoryLoader создает новый экземпляр CategoryLoader
func NewCategoryLoader(logger *utils.ETLLogger) *CategoryLoader {
	return &CategoryLoader{
		logger: logger,
	}
}

// Load заменяет содержимое таблицы category_daily в рамках переданной транзакции
func (l *CategoryLoader) Load(tx *sql.Tx, facts []models.CategoryDailyFact) error {
	startTime := time.Now()
	l.logger.Info("Начало загрузки агрегатов по категориям (всего: %d)", len(facts))

	// Предыдущий снимок полностью заменяется
	if _, err := tx.Exec("DELETE FROM sales_analytics.category_daily"); err != nil {
		return fmt.Errorf("ошибка при очистке category_daily: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sales_analytics.category_daily (date, category, revenue, orders)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	// Вставляем каждый факт по категории
	for _, fact := range facts {
		_, err := stmt.Exec(
			fact.Date.Format("2006-01-02"),
			fact.Category,
			fact.Revenue,
			fact.Orders,
		)
		if err != nil {
			return fmt.Errorf("ошибка при вставке агрегата категории %s за дату %v: %w", fact.Category, fact.Date, err)
		}
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка агрегатов по категориям завершена. Загружено записей: %d. Длительность: %v", len(facts), duration)

	return nil
}
