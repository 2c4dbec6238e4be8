package models

import (
	"time"

	"github.com/google/uuid"
)

// MetricBoundaries содержит квантильные границы (20/40/60/80 перцентили) одной метрики
type MetricBoundaries [4]float64

// Degenerate сообщает, вырождено ли распределение метрики
// (все четыре границы совпадают — все пользователи получают нейтральную оценку)
func (b MetricBoundaries) Degenerate() bool {
	return b[0] == b[3]
}

// RunContext содержит состояние одного запуска пайплайна
// Передаётся явным параметром, а не глобальным состоянием процесса
type RunContext struct {
	RunID        uuid.UUID
	StartedAt    time.Time
	SnapshotTime time.Time // max(ts по всем заказам) + 24 часа, точка отсчёта recency

	// Квантильные границы, вычисленные по полной популяции пользователей
	RecencyBoundaries   MetricBoundaries
	FrequencyBoundaries MetricBoundaries
	MonetaryBoundaries  MetricBoundaries
}

// NewRunContext создает контекст нового запуска пайплайна
func NewRunContext(startedAt time.Time) *RunContext {
	return &RunContext{
		RunID:     uuid.New(),
		StartedAt: startedAt,
	}
}
