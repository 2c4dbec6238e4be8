package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// RFMLoader отвечает за загрузку RFM-оценок покупателей
type RFMLoader struct {
	logger *utils.ETLLogger
}

// NewRFMLoader создает новый экземпляр RFMLoader
func NewRFMLoader(logger *utils.ETLLogger) *RFMLoader {
	return &RFMLoader{
		logger: logger,
	}
}

// Load заменяет содержимое таблицы rfm_scores в рамках переданной транзакции
func (l *RFMLoader) Load(tx *sql.Tx, facts []models.UserRFMFact) error {
	startTime := time.Now()
	l.logger.Info("Начало загрузки RFM-оценок (всего: %d)", len(facts))

	// Предыдущий снимок полностью заменяется
	if _, err := tx.Exec("DELETE FROM sales_analytics.rfm_scores"); err != nil {
		return fmt.Errorf("ошибка при очистке rfm_scores: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sales_analytics.rfm_scores
			(user_id, recency_days, frequency, monetary, r, f, m, rfm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	// Вставляем оценку каждого покупателя
	for _, fact := range facts {
		_, err := stmt.Exec(
			fact.UserID,
			fact.RecencyDays,
			fact.Frequency,
			fact.Monetary,
			fact.R,
			fact.F,
			fact.M,
			fact.RFM,
		)
		if err != nil {
			return fmt.Errorf("ошибка при вставке RFM-оценки покупателя %d: %w", fact.UserID, err)
		}
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка RFM-оценок завершена. Загружено записей: %d. Длительность: %v", len(facts), duration)

	return nil
}
