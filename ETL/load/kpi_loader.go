package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// KPILoader отвечает за загрузку ежедневных KPI
type KPILoader struct {
	logger *utils.ETLLogger
}

// NewKPILoader создает новый экземпляр KPILoader
func NewKPILoader(logger *utils.ETLLogger) *KPILoader {
	return &KPILoader{
		logger: logger,
	}
}

// Load заменяет содержимое таблицы kpis_by_day в рамках переданной транзакции
func (l *KPILoader) Load(tx *sql.Tx, facts []models.DailyKPIFact) error {
	startTime := time.Now()
	l.logger.Info("Начало загрузки ежедневных KPI (всего: %d)", len(facts))

	// Предыдущий снимок полностью заменяется
	if _, err := tx.Exec("DELETE FROM sales_analytics.kpis_by_day"); err != nil {
		return fmt.Errorf("ошибка при очистке kpis_by_day: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sales_analytics.kpis_by_day (date, revenue, orders, active_users, aov)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	// Вставляем каждый факт ежедневных KPI
	for _, fact := range facts {
		_, err := stmt.Exec(
			fact.Date.Format("2006-01-02"),
			fact.Revenue,
			fact.Orders,
			fact.ActiveUsers,
			fact.AOV,
		)
		if err != nil {
			return fmt.Errorf("ошибка при вставке KPI за дату %v: %w", fact.Date, err)
		}
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка ежедневных KPI завершена. Загружено записей: %d. Длительность: %v", len(facts), duration)

	return nil
}
