package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// Строки parquet-файлов: схема фиксирована и встроена в файл
type kpiParquetRow struct {
	Date        string  `parquet:"date"`
	Revenue     float64 `parquet:"revenue"`
	Orders      int32   `parquet:"orders"`
	ActiveUsers int32   `parquet:"active_users"`
	AOV         float64 `parquet:"aov"`
}

type categoryParquetRow struct {
	Date     string  `parquet:"date"`
	Category string  `parquet:"category"`
	Revenue  float64 `parquet:"revenue"`
	Orders   int32   `parquet:"orders"`
}

type rfmParquetRow struct {
	UserID      int64   `parquet:"user_id"`
	RecencyDays int32   `parquet:"recency_days"`
	Frequency   int32   `parquet:"frequency"`
	Monetary    float64 `parquet:"monetary"`
	R           int32   `parquet:"r"`
	F           int32   `parquet:"f"`
	M           int32   `parquet:"m"`
	RFM         int32   `parquet:"rfm"`
}

// ParquetExporter выгружает три результирующие таблицы в parquet-файлы
// (kpis_by_day.parquet, category_daily.parquet, rfm_scores.parquet)
type ParquetExporter struct {
	exportDir string
	logger    *utils.ETLLogger
}

// NewParquetExporter создает новый экземпляр ParquetExporter
func NewParquetExporter(exportDir string, logger *utils.ETLLogger) *ParquetExporter {
	return &ParquetExporter{
		exportDir: exportDir,
		logger:    logger,
	}
}

// Export записывает три таблицы запуска в parquet-файлы
func (e *ParquetExporter) Export(data *models.TransformedData) error {
	if err := os.MkdirAll(e.exportDir, 0755); err != nil {
		return fmt.Errorf("ошибка создания каталога экспорта: %w", err)
	}

	kpiRows := make([]kpiParquetRow, 0, len(data.DailyKPIs))
	for _, fact := range data.DailyKPIs {
		kpiRows = append(kpiRows, kpiParquetRow{
			Date:        fact.Date.Format("2006-01-02"),
			Revenue:     fact.Revenue,
			Orders:      int32(fact.Orders),
			ActiveUsers: int32(fact.ActiveUsers),
			AOV:         fact.AOV,
		})
	}
	if err := writeParquet(filepath.Join(e.exportDir, "kpis_by_day.parquet"), kpiRows); err != nil {
		return err
	}

	categoryRows := make([]categoryParquetRow, 0, len(data.CategoryDaily))
	for _, fact := range data.CategoryDaily {
		categoryRows = append(categoryRows, categoryParquetRow{
			Date:     fact.Date.Format("2006-01-02"),
			Category: fact.Category,
			Revenue:  fact.Revenue,
			Orders:   int32(fact.Orders),
		})
	}
	if err := writeParquet(filepath.Join(e.exportDir, "category_daily.parquet"), categoryRows); err != nil {
		return err
	}

	rfmRows := make([]rfmParquetRow, 0, len(data.RFMScores))
	for _, fact := range data.RFMScores {
		rfmRows = append(rfmRows, rfmParquetRow{
			UserID:      fact.UserID,
			RecencyDays: int32(fact.RecencyDays),
			Frequency:   int32(fact.Frequency),
			Monetary:    fact.Monetary,
			R:           int32(fact.R),
			F:           int32(fact.F),
			M:           int32(fact.M),
			RFM:         int32(fact.RFM),
		})
	}
	if err := writeParquet(filepath.Join(e.exportDir, "rfm_scores.parquet"), rfmRows); err != nil {
		return err
	}

	e.logger.Info("Экспорт parquet завершен: %d KPI, %d агрегатов категорий, %d RFM-оценок (каталог %s)",
		len(kpiRows), len(categoryRows), len(rfmRows), e.exportDir)
	return nil
}

// writeParquet записывает строки одной таблицы в parquet-файл
func writeParquet[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ошибка создания parquet-файла %s: %w", path, err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[T](file, parquet.Compression(&parquet.Snappy))

	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			writer.Close()
			return fmt.Errorf("ошибка записи строк в %s: %w", path, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия parquet-файла %s: %w", path, err)
	}

	return nil
}
