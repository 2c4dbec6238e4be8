package models

import (
	"database/sql"
	"fmt"
	"time"
)

// MySQLETLLogRepository реализация ETLLogRepository для MySQL
type MySQLETLLogRepository struct {
	db *sql.DB
}

// NewMySQLETLLogRepository создает новый экземпляр MySQLETLLogRepository
func NewMySQLETLLogRepository(db *sql.DB) *MySQLETLLogRepository {
	return &MySQLETLLogRepository{
		db: db,
	}
}

// CreateETLLogTable создает таблицу журнала запусков, если она не существует
func (r *MySQLETLLogRepository) CreateETLLogTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS sales_analytics.etl_run_log (
		run_id CHAR(36) PRIMARY KEY,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('success', 'failed', 'in_progress') NOT NULL DEFAULT 'in_progress',
		orders_read INT DEFAULT 0,
		orders_validated INT DEFAULT 0,
		orders_dropped INT DEFAULT 0,
		users_scored INT DEFAULT 0,
		last_processed_order_id BIGINT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds FLOAT
	);
	`

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы etl_run_log: %w", err)
	}

	return nil
}

// CreateLogEntry создает новую запись о запуске пайплайна
func (r *MySQLETLLogRepository) CreateLogEntry(runID string, startTime time.Time) error {
	query := `
	INSERT INTO sales_analytics.etl_run_log (run_id, start_time, status)
	VALUES (?, ?, 'in_progress')
	`

	_, err := r.db.Exec(query, runID, startTime)
	if err != nil {
		return fmt.Errorf("ошибка при создании записи о запуске пайплайна: %w", err)
	}

	return nil
}

// UpdateLogEntrySuccess обновляет запись при успешном завершении запуска
func (r *MySQLETLLogRepository) UpdateLogEntrySuccess(
	runID string,
	endTime time.Time,
	ordersRead,
	ordersValidated,
	ordersDropped,
	usersScored int,
	lastProcessedOrderID int64) error {

	query := `
	UPDATE sales_analytics.etl_run_log
	SET
		end_time = ?,
		status = 'success',
		orders_read = ?,
		orders_validated = ?,
		orders_dropped = ?,
		users_scored = ?,
		last_processed_order_id = ?,
		execution_time_seconds = TIMESTAMPDIFF(MICROSECOND, start_time, ?) / 1000000
	WHERE run_id = ?
	`

	_, err := r.db.Exec(query,
		endTime,
		ordersRead,
		ordersValidated,
		ordersDropped,
		usersScored,
		lastProcessedOrderID,
		endTime,
		runID,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске пайплайна: %w", err)
	}

	return nil
}

// UpdateLogEntryFailure обновляет запись при неудачном завершении запуска
func (r *MySQLETLLogRepository) UpdateLogEntryFailure(runID string, endTime time.Time, errorMessage string) error {
	query := `
	UPDATE sales_analytics.etl_run_log
	SET
		end_time = ?,
		status = 'failed',
		error_message = ?,
		execution_time_seconds = TIMESTAMPDIFF(MICROSECOND, start_time, ?) / 1000000
	WHERE run_id = ?
	`

	_, err := r.db.Exec(query, endTime, errorMessage, endTime, runID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о неудачном запуске: %w", err)
	}

	return nil
}

// GetLastSuccessfulRun получает информацию о последнем успешном запуске
func (r *MySQLETLLogRepository) GetLastSuccessfulRun() (*ETLRunLog, error) {
	query := `
	SELECT run_id, start_time, end_time, status,
		orders_read, orders_validated, orders_dropped, users_scored,
		last_processed_order_id, IFNULL(error_message, ''), IFNULL(execution_time_seconds, 0)
	FROM sales_analytics.etl_run_log
	WHERE status = 'success'
	ORDER BY end_time DESC
	LIMIT 1
	`

	var runLog ETLRunLog
	err := r.db.QueryRow(query).Scan(
		&runLog.RunID,
		&runLog.StartTime,
		&runLog.EndTime,
		&runLog.Status,
		&runLog.OrdersRead,
		&runLog.OrdersValidated,
		&runLog.OrdersDropped,
		&runLog.UsersScored,
		&runLog.LastProcessedOrderID,
		&runLog.ErrorMessage,
		&runLog.ExecutionTimeSeconds,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// Успешных запусков еще не было
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении последнего успешного запуска: %w", err)
	}

	return &runLog, nil
}

// GetRunStats получает статистику о запусках за указанное число дней
func (r *MySQLETLLogRepository) GetRunStats(days int) ([]ETLRunLog, error) {
	query := `
	SELECT run_id, start_time, IFNULL(end_time, start_time), status,
		orders_read, orders_validated, orders_dropped, users_scored,
		last_processed_order_id, IFNULL(error_message, ''), IFNULL(execution_time_seconds, 0)
	FROM sales_analytics.etl_run_log
	WHERE start_time >= DATE_SUB(NOW(), INTERVAL ? DAY)
	ORDER BY start_time DESC
	`

	rows, err := r.db.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе статистики запусков: %w", err)
	}
	defer rows.Close()

	var logs []ETLRunLog
	for rows.Next() {
		var runLog ETLRunLog
		if err := rows.Scan(
			&runLog.RunID,
			&runLog.StartTime,
			&runLog.EndTime,
			&runLog.Status,
			&runLog.OrdersRead,
			&runLog.OrdersValidated,
			&runLog.OrdersDropped,
			&runLog.UsersScored,
			&runLog.LastProcessedOrderID,
			&runLog.ErrorMessage,
			&runLog.ExecutionTimeSeconds,
		); err != nil {
			return nil, fmt.Errorf("ошибка при обработке записи журнала запусков: %w", err)
		}
		logs = append(logs, runLog)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по журналу запусков: %w", err)
	}

	return logs, nil
}
