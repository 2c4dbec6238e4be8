package config

import (
	"os"
	"strconv"
	"time"
)

// ETLConfig содержит конфигурацию для пайплайна аналитики
type ETLConfig struct {
	// Конфигурация для подключения к OLTP БД (исходной, таблица заказов)
	OLTPConfig DatabaseConfig `json:"oltp_config"`

	// Конфигурация для подключения к OLAP БД (целевой, витрины аналитики)
	OLAPConfig DatabaseConfig `json:"olap_config"`

	// Интервал запуска пайплайна по расписанию
	RunInterval time.Duration `json:"run_interval"`

	// Максимальное количество заказов, извлекаемых за один запуск
	BatchSize int `json:"batch_size"`

	// Часовой пояс для разбиения заказов по календарным датам
	// Явная настройка: выбор пояса меняет раскладку kpis_by_day по дням
	Timezone string `json:"timezone"`

	// Путь к CSV-файлу с заказами (альтернативный источник вместо OLTP БД)
	OrdersCSVPath string `json:"orders_csv_path"`

	// Каталог для экспорта parquet-файлов и отчетов
	ExportDir string `json:"export_dir"`

	// Настройки квантильной оценки RFM
	Quantile QuantileConfig `json:"quantile"`

	// Включение/отключение детального логирования
	EnableDetailedLogging bool `json:"enable_detailed_logging"`
}

// QuantileConfig содержит настройки вычисления квантильных границ
type QuantileConfig struct {
	// Порог размера популяции, выше которого используется приближенная оценка
	MaxExactPopulation int `json:"max_exact_population"`

	// Размер выборки для приближенной оценки
	// При 10000 точек ранговая погрешность границ ~0.01
	SampleSize int `json:"sample_size"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// Значения конфигурации по умолчанию
var (
	DefaultOLTPConfig = DatabaseConfig{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "",
		DBName:   "salesdb",
	}

	DefaultOLAPConfig = DatabaseConfig{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "",
		DBName:   "sales_analytics",
	}

	DefaultETLConfig = ETLConfig{
		OLTPConfig:  DefaultOLTPConfig,
		OLAPConfig:  DefaultOLAPConfig,
		RunInterval: 24 * time.Hour,
		BatchSize:   100000,
		Timezone:    "UTC",
		ExportDir:   "data/curated",
		Quantile: QuantileConfig{
			MaxExactPopulation: 100000,
			SampleSize:         10000,
		},
		EnableDetailedLogging: true,
	}
)

// GetConfig возвращает конфигурацию пайплайна
// Параметры подключения к базам можно переопределить переменными окружения
func GetConfig() ETLConfig {
	config := DefaultETLConfig

	applyEnvOverrides(&config.OLTPConfig, "OLTP")
	applyEnvOverrides(&config.OLAPConfig, "OLAP")

	if tz := os.Getenv("ETL_TIMEZONE"); tz != "" {
		config.Timezone = tz
	}

	if csvPath := os.Getenv("ETL_ORDERS_CSV"); csvPath != "" {
		config.OrdersCSVPath = csvPath
	}

	if exportDir := os.Getenv("ETL_EXPORT_DIR"); exportDir != "" {
		config.ExportDir = exportDir
	}

	if interval := os.Getenv("ETL_RUN_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			config.RunInterval = d
		}
	}

	return config
}

// applyEnvOverrides переопределяет настройки подключения из переменных окружения
// Имена переменных: ETL_<PREFIX>_HOST, ETL_<PREFIX>_PORT, ETL_<PREFIX>_USER,
// ETL_<PREFIX>_PASSWORD, ETL_<PREFIX>_DBNAME
func applyEnvOverrides(dbConfig *DatabaseConfig, prefix string) {
	if host := os.Getenv("ETL_" + prefix + "_HOST"); host != "" {
		dbConfig.Host = host
	}
	if portStr := os.Getenv("ETL_" + prefix + "_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			dbConfig.Port = port
		}
	}
	if user := os.Getenv("ETL_" + prefix + "_USER"); user != "" {
		dbConfig.User = user
	}
	if password := os.Getenv("ETL_" + prefix + "_PASSWORD"); password != "" {
		dbConfig.Password = password
	}
	if dbName := os.Getenv("ETL_" + prefix + "_DBNAME"); dbName != "" {
		dbConfig.DBName = dbName
	}
}
