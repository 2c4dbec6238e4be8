package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

func newTestValidator() *Validator {
	return NewValidator(utils.NewSilentLogger())
}

func TestValidateAcceptsValidOrder(t *testing.T) {
	validator := newTestValidator()
	promo := true

	result := validator.Validate([]models.RawOrder{
		{
			OrderID:     1,
			UserID:      100,
			Timestamp:   "2024-03-15T10:30:00Z",
			Amount:      "249.90",
			Category:    "electronics",
			UsedPromo:   &promo,
			PaymentType: "card",
		},
	})

	assert.Len(t, result.Orders, 1)
	assert.Equal(t, 0, result.Dropped)

	order := result.Orders[0]
	assert.Equal(t, int64(1), order.OrderID)
	assert.Equal(t, int64(100), order.UserID)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), order.Timestamp)
	assert.Equal(t, 249.90, order.Amount)
	assert.Equal(t, "electronics", order.Category)
	assert.True(t, order.UsedPromo)
	assert.Equal(t, "card", order.PaymentType)
}

func TestValidateTimestampFormats(t *testing.T) {
	validator := newTestValidator()

	// Принимаются RFC3339 и формы без зоны
	result := validator.Validate([]models.RawOrder{
		{OrderID: 1, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: "10"},
		{OrderID: 2, UserID: 1, Timestamp: "2024-03-15T10:30:00", Amount: "10"},
		{OrderID: 3, UserID: 1, Timestamp: "2024-03-15 10:30:00", Amount: "10"},
	})

	assert.Len(t, result.Orders, 3)
	assert.Equal(t, 0, result.Dropped)
}

func TestValidateDropsBadRecords(t *testing.T) {
	validator := newTestValidator()

	result := validator.Validate([]models.RawOrder{
		{OrderID: 0, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: "10"},
		{OrderID: 2, UserID: 0, Timestamp: "2024-03-15T10:30:00Z", Amount: "10"},
		{OrderID: 3, UserID: 1, Timestamp: "не дата", Amount: "10"},
		{OrderID: 4, UserID: 1, Timestamp: "", Amount: "10"},
		{OrderID: 5, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: "abc"},
		{OrderID: 6, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: ""},
		{OrderID: 7, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: "-5.00"},
		{OrderID: 8, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: "0"},
		{OrderID: 9, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: "NaN"},
	})

	assert.Empty(t, result.Orders)
	assert.Equal(t, 9, result.Dropped)
	assert.Equal(t, 1, result.DropReasons[ReasonMissingOrder])
	assert.Equal(t, 1, result.DropReasons[ReasonMissingUser])
	assert.Equal(t, 2, result.DropReasons[ReasonBadTimestamp])
	assert.Equal(t, 5, result.DropReasons[ReasonBadAmount])
}

func TestValidateEmptyCategoryGetsSentinel(t *testing.T) {
	validator := newTestValidator()

	// Заказ без категории не отбрасывается, категория заменяется заглушкой
	result := validator.Validate([]models.RawOrder{
		{OrderID: 1, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: "10", Category: ""},
		{OrderID: 2, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: "10", Category: "   "},
	})

	assert.Len(t, result.Orders, 2)
	assert.Equal(t, UnknownCategory, result.Orders[0].Category)
	assert.Equal(t, UnknownCategory, result.Orders[1].Category)
}

func TestValidateMissingPromoDefaultsToFalse(t *testing.T) {
	validator := newTestValidator()

	result := validator.Validate([]models.RawOrder{
		{OrderID: 1, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: "10"},
	})

	assert.Len(t, result.Orders, 1)
	assert.False(t, result.Orders[0].UsedPromo)
}

func TestValidateMixedBatch(t *testing.T) {
	validator := newTestValidator()

	// Дефектные записи отбрасываются, корректные сохраняют порядок
	result := validator.Validate([]models.RawOrder{
		{OrderID: 1, UserID: 1, Timestamp: "2024-03-15T10:30:00Z", Amount: "10"},
		{OrderID: 2, UserID: 1, Timestamp: "мусор", Amount: "10"},
		{OrderID: 3, UserID: 1, Timestamp: "2024-03-16T10:30:00Z", Amount: "20"},
	})

	assert.Len(t, result.Orders, 2)
	assert.Equal(t, 1, result.Dropped)
	assert.Equal(t, int64(1), result.Orders[0].OrderID)
	assert.Equal(t, int64(3), result.Orders[1].OrderID)
}
