package load

import (
	"database/sql"
	"fmt"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// Loader интерфейс для загрузки результатов пайплайна в OLAP
type Loader interface {
	// EnsureTables создает результирующие таблицы, если они не существуют
	EnsureTables() error

	// Load атомарно загружает три результирующие таблицы запуска
	// Либо записываются все три таблицы, либо ни одна
	Load(data *models.TransformedData) error
}

// OLAPLoader реализация Loader для OLAP базы данных
type OLAPLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger

	// Загрузчики для отдельных таблиц
	kpiLoader      *KPILoader
	categoryLoader *CategoryLoader
	rfmLoader      *RFMLoader
}

// NewOLAPLoader создает новый экземпляр OLAPLoader
func NewOLAPLoader(db *sql.DB, logger *utils.ETLLogger) *OLAPLoader {
	loader := &OLAPLoader{
		db:     db,
		logger: logger,
	}

	// Инициализация загрузчиков для отдельных таблиц
	loader.kpiLoader = NewKPILoader(logger)
	loader.categoryLoader = NewCategoryLoader(logger)
	loader.rfmLoader = NewRFMLoader(logger)

	return loader
}

// EnsureTables создает результирующие таблицы, если они не существуют
func (l *OLAPLoader) EnsureTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sales_analytics.kpis_by_day (
			date DATE PRIMARY KEY,
			revenue DOUBLE NOT NULL,
			orders INT NOT NULL,
			active_users INT NOT NULL,
			aov DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sales_analytics.category_daily (
			date DATE NOT NULL,
			category VARCHAR(100) NOT NULL,
			revenue DOUBLE NOT NULL,
			orders INT NOT NULL,
			PRIMARY KEY (date, category)
		)`,
		`CREATE TABLE IF NOT EXISTS sales_analytics.rfm_scores (
			user_id BIGINT PRIMARY KEY,
			recency_days INT NOT NULL,
			frequency INT NOT NULL,
			monetary DOUBLE NOT NULL,
			r TINYINT NOT NULL,
			f TINYINT NOT NULL,
			m TINYINT NOT NULL,
			rfm SMALLINT NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := l.db.Exec(query); err != nil {
			return fmt.Errorf("ошибка при создании результирующих таблиц: %w", err)
		}
	}

	return nil
}

// Load атомарно загружает три результирующие таблицы запуска
// Каждый запуск полностью заменяет предыдущий снимок: таблицы очищаются
// и заполняются заново в одной транзакции
func (l *OLAPLoader) Load(data *models.TransformedData) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции загрузки: %w", err)
	}

	// Загружаем все три таблицы внутри одной транзакции
	if err := l.kpiLoader.Load(tx, data.DailyKPIs); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при загрузке ежедневных KPI: %w", err)
	}

	if err := l.categoryLoader.Load(tx, data.CategoryDaily); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при загрузке агрегатов по категориям: %w", err)
	}

	if err := l.rfmLoader.Load(tx, data.RFMScores); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при загрузке RFM-оценок: %w", err)
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции загрузки: %w", err)
	}

	return nil
}
