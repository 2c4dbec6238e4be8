package models

import (
	"time"
)

// ETLRunLog представляет запись о запуске пайплайна аналитики
type ETLRunLog struct {
	RunID                string    `json:"run_id"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"` // "success", "failed", "in_progress"
	OrdersRead           int       `json:"orders_read"`
	OrdersValidated      int       `json:"orders_validated"`
	OrdersDropped        int       `json:"orders_dropped"`
	UsersScored          int       `json:"users_scored"`
	LastProcessedOrderID int64     `json:"last_processed_order_id"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// RunStatusUpdate представляет уведомление о смене статуса запуска пайплайна
// Рассылается подписчикам (например, дашбордам через WebSocket)
type RunStatusUpdate struct {
	RunID           string    `json:"run_id"`
	Status          string    `json:"status"` // "in_progress", "success", "failed"
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at,omitempty"`
	OrdersProcessed int       `json:"orders_processed"`
	UsersScored     int       `json:"users_scored"`
	ErrorMessage    string    `json:"error_message,omitempty"`
}

// ETLLogRepository представляет репозиторий для работы с журналом запусков
type ETLLogRepository interface {
	// CreateLogEntry создает новую запись о запуске пайплайна
	CreateLogEntry(runID string, startTime time.Time) error

	// UpdateLogEntrySuccess обновляет запись при успешном завершении запуска
	UpdateLogEntrySuccess(
		runID string,
		endTime time.Time,
		ordersRead,
		ordersValidated,
		ordersDropped,
		usersScored int,
		lastProcessedOrderID int64) error

	// UpdateLogEntryFailure обновляет запись при неудачном завершении запуска
	UpdateLogEntryFailure(runID string, endTime time.Time, errorMessage string) error

	// GetLastSuccessfulRun получает информацию о последнем успешном запуске
	GetLastSuccessfulRun() (*ETLRunLog, error)

	// GetRunStats получает статистику о запусках за указанное число дней
	GetRunStats(days int) ([]ETLRunLog, error)
}
