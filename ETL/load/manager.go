package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// LoadManager отвечает за управление процессом загрузки результатов в OLAP
type LoadManager struct {
	db     *sql.DB
	logger *utils.ETLLogger
	loader Loader
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(db *sql.DB, logger *utils.ETLLogger) *LoadManager {
	return &LoadManager{
		db:     db,
		logger: logger,
		loader: NewOLAPLoader(db, logger),
	}
}

// EnsureTables создает результирующие таблицы, если они не существуют
func (m *LoadManager) EnsureTables() error {
	return m.loader.EnsureTables()
}

// Load выполняет фазу загрузки результатов пайплайна
// Принимает рассчитанные таблицы из фазы Transform; загрузка атомарна,
// частично записанный снимок невозможен
func (m *LoadManager) Load(transformedData *models.TransformedData) error {
	startTime := time.Now()
	m.logger.Info("Начало фазы Load (Загрузка результатов)")

	if err := m.loader.Load(transformedData); err != nil {
		m.logger.Error("Ошибка при загрузке результатов: %v", err)
		return fmt.Errorf("ошибка при загрузке результатов: %w", err)
	}

	duration := time.Since(startTime)
	m.logger.Info("Фаза Load завершена. Длительность: %v", duration)

	return nil
}
