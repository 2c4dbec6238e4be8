package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/coursework_analytics/ETL/config"
	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

func newTestTransformer(t *testing.T) *Transformer {
	t.Helper()

	cfg := config.DefaultETLConfig
	transformer, err := NewTransformer(cfg, utils.NewSilentLogger())
	require.NoError(t, err)
	return transformer
}

// Два покупателя: первый с тремя заказами, второй с одним
func testOrders() []models.OrderRecord {
	return []models.OrderRecord{
		{OrderID: 1, UserID: 1, Timestamp: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Amount: 100, Category: "books"},
		{OrderID: 2, UserID: 2, Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), Amount: 50, Category: "toys"},
		{OrderID: 3, UserID: 1, Timestamp: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), Amount: 200, Category: "books"},
		{OrderID: 4, UserID: 1, Timestamp: time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC), Amount: 300, Category: "electronics"},
	}
}

func TestTransformDailyKPIs(t *testing.T) {
	transformer := newTestTransformer(t)
	runCtx := models.NewRunContext(time.Now())

	data, err := transformer.Transform(runCtx, testOrders())
	require.NoError(t, err)

	require.Len(t, data.DailyKPIs, 3)

	// 1 января: два заказа двух покупателей
	day1 := data.DailyKPIs[0]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), day1.Date)
	assert.Equal(t, 150.0, day1.Revenue)
	assert.Equal(t, 2, day1.Orders)
	assert.Equal(t, 2, day1.ActiveUsers)
	assert.Equal(t, 75.0, day1.AOV)

	// 2 января: один заказ
	day2 := data.DailyKPIs[1]
	assert.Equal(t, 200.0, day2.Revenue)
	assert.Equal(t, 1, day2.Orders)
	assert.Equal(t, 1, day2.ActiveUsers)
	assert.Equal(t, 200.0, day2.AOV)
}

func TestTransformCategoryRevenueClosure(t *testing.T) {
	transformer := newTestTransformer(t)
	runCtx := models.NewRunContext(time.Now())

	data, err := transformer.Transform(runCtx, testOrders())
	require.NoError(t, err)

	// Сумма выручки категорий за дату равна дневной выручке из KPI
	categoryRevenueByDate := make(map[time.Time]float64)
	for _, fact := range data.CategoryDaily {
		categoryRevenueByDate[fact.Date] += fact.Revenue
	}

	for _, kpi := range data.DailyKPIs {
		assert.InDelta(t, kpi.Revenue, categoryRevenueByDate[kpi.Date], 1e-9)
	}
}

func TestTransformCategoryDailySorted(t *testing.T) {
	transformer := newTestTransformer(t)
	runCtx := models.NewRunContext(time.Now())

	data, err := transformer.Transform(runCtx, testOrders())
	require.NoError(t, err)

	// 1 января две категории, отсортированы по имени внутри даты
	require.Len(t, data.CategoryDaily, 4)
	assert.Equal(t, "books", data.CategoryDaily[0].Category)
	assert.Equal(t, "toys", data.CategoryDaily[1].Category)
	assert.Equal(t, 50.0, data.CategoryDaily[1].Revenue)
}

func TestTransformRFMScores(t *testing.T) {
	transformer := newTestTransformer(t)
	runCtx := models.NewRunContext(time.Now())

	data, err := transformer.Transform(runCtx, testOrders())
	require.NoError(t, err)

	require.Len(t, data.RFMScores, 2)

	// Snapshot: максимальная метка набора (3 января 12:00) плюс сутки
	expectedSnapshot := time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, expectedSnapshot, runCtx.SnapshotTime)
	assert.Equal(t, expectedSnapshot, data.Metadata.SnapshotTime)

	// Покупатель 1: три заказа на 600, последний за сутки до snapshot
	user1 := data.RFMScores[0]
	assert.Equal(t, int64(1), user1.UserID)
	assert.Equal(t, 1, user1.RecencyDays)
	assert.Equal(t, 3, user1.Frequency)
	assert.Equal(t, 600.0, user1.Monetary)
	assert.Equal(t, 555, user1.RFM)

	// Покупатель 2: один заказ на 50, более трех суток до snapshot
	user2 := data.RFMScores[1]
	assert.Equal(t, int64(2), user2.UserID)
	assert.Equal(t, 3, user2.RecencyDays)
	assert.Equal(t, 1, user2.Frequency)
	assert.Equal(t, 50.0, user2.Monetary)
	assert.Equal(t, 111, user2.RFM)
}

func TestTransformEmptyInput(t *testing.T) {
	transformer := newTestTransformer(t)
	runCtx := models.NewRunContext(time.Now())

	data, err := transformer.Transform(runCtx, nil)
	require.NoError(t, err)

	// Пустой набор не ошибка: все три таблицы пусты
	assert.Empty(t, data.DailyKPIs)
	assert.Empty(t, data.CategoryDaily)
	assert.Empty(t, data.RFMScores)
	assert.Equal(t, 0, data.Metadata.OrdersProcessed)
	assert.Equal(t, 0, data.Metadata.UsersScored)
}

func TestTransformIdempotent(t *testing.T) {
	transformer := newTestTransformer(t)
	orders := testOrders()

	first, err := transformer.Transform(models.NewRunContext(time.Now()), orders)
	require.NoError(t, err)

	second, err := transformer.Transform(models.NewRunContext(time.Now()), orders)
	require.NoError(t, err)

	// Повторный запуск на тех же данных дает идентичные таблицы
	assert.Equal(t, first.DailyKPIs, second.DailyKPIs)
	assert.Equal(t, first.CategoryDaily, second.CategoryDaily)
	assert.Equal(t, first.RFMScores, second.RFMScores)
}

func TestTransformMetadata(t *testing.T) {
	transformer := newTestTransformer(t)
	runCtx := models.NewRunContext(time.Now())

	data, err := transformer.Transform(runCtx, testOrders())
	require.NoError(t, err)

	assert.Equal(t, runCtx.RunID.String(), data.Metadata.RunID)
	assert.Equal(t, 4, data.Metadata.OrdersProcessed)
	assert.Equal(t, 2, data.Metadata.UsersScored)
	assert.Equal(t, int64(4), data.Metadata.LastProcessedOrder)
}

func TestRoundToHundredth(t *testing.T) {
	assert.Equal(t, 33.33, RoundToHundredth(100.0/3.0))
	assert.Equal(t, 0.13, RoundToHundredth(0.125))
	assert.Equal(t, 200.0, RoundToHundredth(200))
}

func TestUserMetricsRecencyAtLeastOne(t *testing.T) {
	processor := NewUserMetricsProcessor(utils.NewSilentLogger())

	// Заказ с максимальной меткой набора получает recency ровно в сутки
	orders := []models.OrderRecord{
		{OrderID: 1, UserID: 1, Timestamp: time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC), Amount: 10},
	}

	metrics, snapshot := processor.ProcessUserMetrics(orders)

	require.Len(t, metrics, 1)
	assert.Equal(t, time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC), snapshot)
	assert.Equal(t, 1, metrics[0].RecencyDays)
}
