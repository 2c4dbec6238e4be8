package models

import (
	"time"
)

// TransformedData содержит три результирующие таблицы одного запуска пайплайна
type TransformedData struct {
	DailyKPIs     []DailyKPIFact
	CategoryDaily []CategoryDailyFact
	RFMScores     []UserRFMFact

	// Метаданные
	Metadata RunMetadata
}

// RunMetadata содержит метаданные запуска пайплайна
type RunMetadata struct {
	RunID              string
	SnapshotTime       time.Time
	OrdersProcessed    int
	UsersScored        int
	LastProcessedOrder int64
}
