package models

import (
	"time"
)

// RawOrder представляет сырую запись заказа из источника (OLTP или CSV)
// Поля ts и amount хранятся строками до прохождения валидации
type RawOrder struct {
	OrderID     int64  // 0 — отсутствующий идентификатор
	UserID      int64  // 0 — отсутствующий идентификатор
	Timestamp   string // ISO-8601 строка
	Amount      string // десятичная строка, пустая — отсутствует
	Category    string
	UsedPromo   *bool  // опциональный флаг промокода
	PaymentType string // опциональный способ оплаты
}

// OrderRecord представляет провалидированный заказ
// После валидации запись неизменяема
type OrderRecord struct {
	OrderID     int64
	UserID      int64
	Timestamp   time.Time
	Amount      float64
	Category    string
	UsedPromo   bool
	PaymentType string
}

// DailyKPIFact представляет факт ежедневных KPI в OLAP
type DailyKPIFact struct {
	Date        time.Time `json:"date"`
	Revenue     float64   `json:"revenue"`
	Orders      int       `json:"orders"`
	ActiveUsers int       `json:"active_users"`
	AOV         float64   `json:"aov"`
}

// CategoryDailyFact представляет факт выручки по категории за день в OLAP
type CategoryDailyFact struct {
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Revenue  float64   `json:"revenue"`
	Orders   int       `json:"orders"`
}

// UserRFMFact представляет RFM-оценку покупателя в OLAP
type UserRFMFact struct {
	UserID      int64   `json:"user_id"`
	RecencyDays int     `json:"recency_days"`
	Frequency   int     `json:"frequency"`
	Monetary    float64 `json:"monetary"`
	R           int     `json:"r"`
	F           int     `json:"f"`
	M           int     `json:"m"`
	RFM         int     `json:"rfm"`
}

// UserMetrics содержит сырые метрики покупателя до квантильной оценки
type UserMetrics struct {
	UserID      int64
	LastOrderAt time.Time
	RecencyDays int
	Frequency   int
	Monetary    float64
}
