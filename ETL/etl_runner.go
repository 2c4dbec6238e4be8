package etl

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/LilVoxy/coursework_analytics/ETL/config"
	"github.com/LilVoxy/coursework_analytics/ETL/export"
	"github.com/LilVoxy/coursework_analytics/ETL/extractors"
	"github.com/LilVoxy/coursework_analytics/ETL/forecast"
	"github.com/LilVoxy/coursework_analytics/ETL/load"
	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/transform"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
	"github.com/LilVoxy/coursework_analytics/ETL/validate"
)

// RunNotifier получает уведомления о смене статуса запуска пайплайна
type RunNotifier interface {
	NotifyRunStatus(update models.RunStatusUpdate)
}

// ETLRunner координирует полный цикл пайплайна аналитики:
// Extract -> Validate -> Transform -> Load -> Export
type ETLRunner struct {
	config          config.ETLConfig
	dbConnections   *config.DBConnections
	logger          *utils.ETLLogger
	source          extractors.OrderSource
	validator       *validate.Validator
	transformer     *transform.Transformer
	loadManager     *load.LoadManager
	parquetExporter *export.ParquetExporter
	reportExporter  *export.ReportExporter
	forecaster      *forecast.RevenueTrendProcessor
	etlLogRepo      models.ETLLogRepository
	notifier        RunNotifier
}

// NewETLRunner создает новый экземпляр ETLRunner
func NewETLRunner() (*ETLRunner, error) {
	// Получаем конфигурацию
	etlConfig := config.GetConfig()

	// Инициализируем логгер
	logger := utils.NewETLLogger(etlConfig.EnableDetailedLogging)
	logger.Info("Инициализация ETL Runner")

	// Подключаемся к базам данных
	connections, err := config.ConnectDatabases(etlConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базам данных: %w", err)
	}

	// Инициализируем репозиторий журнала запусков
	logRepo := models.NewMySQLETLLogRepository(connections.OLAPDB)

	// Создаем таблицу журнала, если она еще не существует
	if err := logRepo.CreateETLLogTable(); err != nil {
		return nil, fmt.Errorf("ошибка при создании таблицы журнала запусков: %w", err)
	}

	// Выбираем источник заказов: CSV-файл или OLTP БД
	var source extractors.OrderSource
	if etlConfig.OrdersCSVPath != "" {
		logger.Info("Источник заказов: CSV-файл %s", etlConfig.OrdersCSVPath)
		source = extractors.NewCSVOrderExtractor(etlConfig.OrdersCSVPath, logger)
	} else {
		logger.Info("Источник заказов: OLTP база данных")
		source = extractors.NewOrderExtractor(connections.OLTPDB, logger)
	}

	// Создаем трансформатор
	transformer, err := transform.NewTransformer(etlConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании трансформатора: %w", err)
	}

	// Создаем загрузчик и готовим результирующие таблицы
	loadManager := load.NewLoadManager(connections.OLAPDB, logger)
	if err := loadManager.EnsureTables(); err != nil {
		return nil, fmt.Errorf("ошибка при создании результирующих таблиц: %w", err)
	}

	return &ETLRunner{
		config:          etlConfig,
		dbConnections:   connections,
		logger:          logger,
		source:          source,
		validator:       validate.NewValidator(logger),
		transformer:     transformer,
		loadManager:     loadManager,
		parquetExporter: export.NewParquetExporter(etlConfig.ExportDir, logger),
		reportExporter:  export.NewReportExporter(etlConfig.ExportDir, logger),
		forecaster:      forecast.NewRevenueTrendProcessor(logger),
		etlLogRepo:      logRepo,
	}, nil
}

// SetNotifier подключает получателя уведомлений о статусе запусков
func (r *ETLRunner) SetNotifier(notifier RunNotifier) {
	r.notifier = notifier
}

// OLAPDB возвращает подключение к OLAP базе данных (для API витрин)
func (r *ETLRunner) OLAPDB() *sql.DB {
	return r.dbConnections.OLAPDB
}

// Close закрывает соединения с базами данных
func (r *ETLRunner) Close() {
	r.logger.Info("Завершение работы ETL Runner")
	config.CloseDatabases(r.dbConnections)
}

// ExecuteETL выполняет полный цикл пайплайна аналитики
// Каждый запуск пересчитывает все три таблицы с нуля по полному набору заказов
func (r *ETLRunner) ExecuteETL() error {
	startTime := time.Now()
	runCtx := models.NewRunContext(startTime)
	runID := runCtx.RunID.String()

	r.logger.LogRunStart(runID)

	// Создаем запись в журнале запусков
	if err := r.etlLogRepo.CreateLogEntry(runID, startTime); err != nil {
		r.logger.Error("Ошибка при создании записи в журнале запусков: %v", err)
		return fmt.Errorf("ошибка при создании записи в журнале запусков: %w", err)
	}

	r.notifyStatus(models.RunStatusUpdate{
		RunID:     runID,
		Status:    "in_progress",
		StartedAt: startTime,
	})

	// 1. Фаза извлечения данных (Extract)
	extractStart := time.Now()
	r.logger.LogExtractStart()

	rawOrders, err := r.source.FetchOrders(0, r.config.BatchSize)
	if err != nil {
		return r.failRun(runCtx, fmt.Errorf("ошибка в фазе Extract: %w", err))
	}
	r.logger.LogExtractComplete(len(rawOrders), time.Since(extractStart))

	// 2. Валидация записей: дефектные строки отбрасываются, запуск продолжается
	validation := r.validator.Validate(rawOrders)

	// 3. Фаза трансформации данных (Transform)
	// Пустой набор не ошибка: запуск даст три пустые таблицы
	transformedData, err := r.transformer.Transform(runCtx, validation.Orders)
	if err != nil {
		return r.failRun(runCtx, fmt.Errorf("ошибка в фазе Transform: %w", err))
	}

	// 4. Фаза загрузки результатов (Load) — атомарно, все три таблицы или ни одной
	if err := r.loadManager.Load(transformedData); err != nil {
		return r.failRun(runCtx, fmt.Errorf("ошибка в фазе Load: %w", err))
	}

	// 5. Экспорт parquet-файлов и отчета
	if err := r.parquetExporter.Export(transformedData); err != nil {
		return r.failRun(runCtx, fmt.Errorf("ошибка при экспорте parquet: %w", err))
	}

	// Прогноз выручки дополняет отчет, но его отсутствие не прерывает запуск
	revForecast, err := r.forecaster.ForecastRevenue(transformedData.DailyKPIs, forecast.DefaultHorizonDays)
	if err != nil {
		r.logger.Error("Ошибка при расчете прогноза выручки: %v", err)
		revForecast = nil
	}

	if _, err := r.reportExporter.Export(transformedData, revForecast); err != nil {
		return r.failRun(runCtx, fmt.Errorf("ошибка при экспорте отчета: %w", err))
	}

	// Обновляем запись в журнале с информацией об успешном выполнении
	endTime := time.Now()
	if err := r.etlLogRepo.UpdateLogEntrySuccess(
		runID,
		endTime,
		len(rawOrders),
		len(validation.Orders),
		validation.Dropped,
		transformedData.Metadata.UsersScored,
		transformedData.Metadata.LastProcessedOrder); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале запусков: %v", err)
	}

	r.notifyStatus(models.RunStatusUpdate{
		RunID:           runID,
		Status:          "success",
		StartedAt:       startTime,
		FinishedAt:      endTime,
		OrdersProcessed: transformedData.Metadata.OrdersProcessed,
		UsersScored:     transformedData.Metadata.UsersScored,
	})

	r.logger.LogRunComplete(startTime, transformedData.Metadata.OrdersProcessed,
		transformedData.Metadata.UsersScored, validation.Dropped)
	return nil
}

// failRun фиксирует неудачное завершение запуска в журнале и уведомлениях
func (r *ETLRunner) failRun(runCtx *models.RunContext, runErr error) error {
	r.logger.Error("%v", runErr)

	endTime := time.Now()
	runID := runCtx.RunID.String()

	if err := r.etlLogRepo.UpdateLogEntryFailure(runID, endTime, runErr.Error()); err != nil {
		r.logger.Error("Ошибка при обновлении записи о неудачном запуске: %v", err)
	}

	r.notifyStatus(models.RunStatusUpdate{
		RunID:        runID,
		Status:       "failed",
		StartedAt:    runCtx.StartedAt,
		FinishedAt:   endTime,
		ErrorMessage: runErr.Error(),
	})

	return runErr
}

// notifyStatus отправляет уведомление о статусе запуска, если подключен получатель
func (r *ETLRunner) notifyStatus(update models.RunStatusUpdate) {
	if r.notifier != nil {
		r.notifier.NotifyRunStatus(update)
	}
}

// StartScheduler запускает планировщик для регулярного выполнения пайплайна
func (r *ETLRunner) StartScheduler(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)

	r.logger.Info("Запуск планировщика пайплайна с интервалом %v", r.config.RunInterval)

	_, err := scheduler.Every(r.config.RunInterval).Do(func() {
		r.logger.Info("Запланированный запуск пайплайна")
		if err := r.ExecuteETL(); err != nil {
			r.logger.Error("Ошибка при выполнении запланированного запуска: %v", err)
		}
	})

	if err != nil {
		r.logger.Error("Ошибка при настройке планировщика: %v", err)
		return
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	// Останавливаем планировщик
	scheduler.Stop()
	r.logger.Info("Планировщик пайплайна остановлен")
}

// RunOnce запускает пайплайн один раз
func RunOnce() {
	runner, err := NewETLRunner()
	if err != nil {
		log.Fatalf("Ошибка при создании ETL Runner: %v", err)
	}
	defer runner.Close()

	if err := runner.ExecuteETL(); err != nil {
		log.Fatalf("Ошибка при выполнении пайплайна: %v", err)
	}
}
