package validate

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// Причины отбрасывания записей (для счётчиков наблюдаемости)
const (
	ReasonBadTimestamp = "bad_timestamp"
	ReasonBadAmount    = "bad_amount"
	ReasonMissingOrder = "missing_order_id"
	ReasonMissingUser  = "missing_user_id"
)

// UnknownCategory — категория-заглушка для заказов без категории
// Заказ с пустой категорией не отбрасывается, чтобы выручка оставалась учтённой
const UnknownCategory = "unknown"

// Форматы времени, принимаемые валидатором
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ValidationResult содержит результат валидации входных записей
type ValidationResult struct {
	Orders      []models.OrderRecord
	Dropped     int
	DropReasons map[string]int
}

// Validator выполняет проверку и нормализацию сырых записей заказов
type Validator struct {
	logger *utils.ETLLogger
}

// NewValidator создает новый экземпляр Validator
func NewValidator(logger *utils.ETLLogger) *Validator {
	return &Validator{
		logger: logger,
	}
}

// Validate проверяет сырые записи и возвращает подмножество корректных заказов
// Запись либо включается целиком, либо отбрасывается целиком
func (v *Validator) Validate(rawOrders []models.RawOrder) *ValidationResult {
	result := &ValidationResult{
		Orders:      make([]models.OrderRecord, 0, len(rawOrders)),
		DropReasons: make(map[string]int),
	}

	for _, raw := range rawOrders {
		order, reason := v.validateOrder(raw)
		if reason != "" {
			result.Dropped++
			result.DropReasons[reason]++
			continue
		}
		result.Orders = append(result.Orders, order)
	}

	if result.Dropped > 0 {
		v.logger.Info("Валидация завершена: принято %d заказов, отброшено %d", len(result.Orders), result.Dropped)
		for reason, count := range result.DropReasons {
			v.logger.Debug("Отброшено по причине %s: %d", reason, count)
		}
	} else {
		v.logger.Info("Валидация завершена: принято %d заказов", len(result.Orders))
	}

	return result
}

// validateOrder проверяет одну запись, возвращает причину отбрасывания или пустую строку
func (v *Validator) validateOrder(raw models.RawOrder) (models.OrderRecord, string) {
	var order models.OrderRecord

	if raw.OrderID == 0 {
		return order, ReasonMissingOrder
	}

	if raw.UserID == 0 {
		return order, ReasonMissingUser
	}

	ts, ok := parseTimestamp(raw.Timestamp)
	if !ok {
		return order, ReasonBadTimestamp
	}

	amountStr := strings.TrimSpace(raw.Amount)
	if amountStr == "" {
		return order, ReasonBadAmount
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return order, ReasonBadAmount
	}

	category := strings.TrimSpace(raw.Category)
	if category == "" {
		category = UnknownCategory
	}

	order = models.OrderRecord{
		OrderID:     raw.OrderID,
		UserID:      raw.UserID,
		Timestamp:   ts,
		Amount:      amount,
		Category:    category,
		PaymentType: raw.PaymentType,
	}

	if raw.UsedPromo != nil {
		order.UsedPromo = *raw.UsedPromo
	}

	return order, ""
}

// parseTimestamp разбирает временную метку в одном из принимаемых форматов
func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}
