package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/snappy"

	"github.com/LilVoxy/coursework_analytics/ETL/forecast"
	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// ReportBundle содержит полный отчет одного запуска пайплайна
type ReportBundle struct {
	RunID           string                     `json:"run_id"`
	GeneratedAt     time.Time                  `json:"generated_at"`
	SnapshotTime    time.Time                  `json:"snapshot_time"`
	KPIsByDay       []models.DailyKPIFact      `json:"kpis_by_day"`
	CategoryDay     []models.CategoryDailyFact `json:"category_daily"`
	RFMScores       []models.UserRFMFact       `json:"rfm_scores"`
	RevenueForecast *forecast.RevenueForecast  `json:"revenue_forecast,omitempty"`
}

// ReportExporter выгружает отчет запуска в snappy-сжатый JSON-файл
type ReportExporter struct {
	exportDir string
	logger    *utils.ETLLogger
}

// NewReportExporter создает новый экземпляр ReportExporter
func NewReportExporter(exportDir string, logger *utils.ETLLogger) *ReportExporter {
	return &ReportExporter{
		exportDir: exportDir,
		logger:    logger,
	}
}

// Export записывает отчет запуска в файл вида sales_report_20060102_150405.json.sz
// Прогноз выручки опционален и может быть nil
func (e *ReportExporter) Export(data *models.TransformedData, revForecast *forecast.RevenueForecast) (string, error) {
	if err := os.MkdirAll(e.exportDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания каталога отчетов: %w", err)
	}

	bundle := ReportBundle{
		RunID:           data.Metadata.RunID,
		GeneratedAt:     time.Now(),
		SnapshotTime:    data.Metadata.SnapshotTime,
		KPIsByDay:       data.DailyKPIs,
		CategoryDay:     data.CategoryDaily,
		RFMScores:       data.RFMScores,
		RevenueForecast: revForecast,
	}

	encoded, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации отчета: %w", err)
	}

	// Сжимаем отчет перед записью
	compressed := snappy.Encode(nil, encoded)

	filename := TimestampedFilename(e.exportDir, "sales_report")
	if err := os.WriteFile(filename, compressed, 0644); err != nil {
		return "", fmt.Errorf("ошибка записи отчета: %w", err)
	}

	e.logger.Info("Отчет сохранен: %s (%d байт, сжато из %d)", filename, len(compressed), len(encoded))
	return filename, nil
}

// ReadReport читает и распаковывает ранее сохраненный отчет
func ReadReport(path string) (*ReportBundle, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения отчета: %w", err)
	}

	decoded, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки отчета: %w", err)
	}

	var bundle ReportBundle
	if err := json.Unmarshal(decoded, &bundle); err != nil {
		return nil, fmt.Errorf("ошибка разбора отчета: %w", err)
	}

	return &bundle, nil
}

// TimestampedFilename возвращает имя файла отчета с временной меткой
func TimestampedFilename(baseDir, name string) string {
	t := time.Now().Format("20060102_150405")
	return filepath.Join(baseDir, fmt.Sprintf("%s_%s.json.sz", name, t))
}
