package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// ETLLogger представляет логгер для пайплайна аналитики
type ETLLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
	quiet       bool
}

// NewETLLogger создает новый экземпляр логгера для пайплайна
func NewETLLogger(verbose bool) *ETLLogger {
	// Создаем или открываем лог-файл для записи
	currentTime := time.Now().Format("2006-01-02")
	logFileName := fmt.Sprintf("etl_log_%s.log", currentTime)

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Не удалось открыть или создать файл лога: %v", err)
	}

	// Инициализируем логгеры для разных уровней
	infoLogger := log.New(file, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger := log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	debugLogger := log.New(file, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return &ETLLogger{
		infoLogger:  infoLogger,
		errorLogger: errorLogger,
		debugLogger: debugLogger,
		isVerbose:   verbose,
	}
}

// NewSilentLogger создает логгер, отбрасывающий все сообщения (используется в тестах)
func NewSilentLogger() *ETLLogger {
	discard := log.New(io.Discard, "", 0)
	return &ETLLogger{
		infoLogger:  discard,
		errorLogger: discard,
		debugLogger: discard,
		isVerbose:   false,
		quiet:       true,
	}
}

// Info логирует информационное сообщение
func (l *ETLLogger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.infoLogger.Println(msg)

	// Также выводим в стандартный вывод
	if !l.quiet {
		log.Println("INFO:", msg)
	}
}

// Error логирует сообщение об ошибке
func (l *ETLLogger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLogger.Println(msg)

	// Также выводим в стандартный вывод
	if !l.quiet {
		log.Println("ERROR:", msg)
	}
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *ETLLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.debugLogger.Println(msg)

	// Также выводим в стандартный вывод
	if !l.quiet {
		log.Println("DEBUG:", msg)
	}
}

// LogRunStart логирует начало запуска пайплайна
func (l *ETLLogger) LogRunStart(runID string) {
	l.Info("Начало выполнения пайплайна аналитики (запуск %s)", runID)
}

// LogRunComplete логирует завершение запуска пайплайна
func (l *ETLLogger) LogRunComplete(startTime time.Time, ordersProcessed, usersScored, droppedOrders int) {
	duration := time.Since(startTime)
	l.Info("Пайплайн аналитики завершён. Длительность: %v", duration)
	l.Info("Обработано: %d заказов, оценено %d покупателей, отброшено %d записей", ordersProcessed, usersScored, droppedOrders)
}

// LogExtractStart логирует начало фазы извлечения данных
func (l *ETLLogger) LogExtractStart() {
	l.Info("Начало фазы Extract (Извлечение заказов)")
}

// LogExtractComplete логирует завершение фазы извлечения данных
func (l *ETLLogger) LogExtractComplete(orders int, duration time.Duration) {
	l.Info("Фаза Extract завершена. Длительность: %v", duration)
	l.Info("Извлечено заказов: %d", orders)
}
