package extractors

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// CSVOrderExtractor извлекает записи заказов из CSV-файла
// Ожидается заголовок с колонками order_id, user_id, ts, amount, category,
// used_promo, payment_type; неизвестные колонки игнорируются
type CSVOrderExtractor struct {
	path   string
	logger *utils.ETLLogger
}

// NewCSVOrderExtractor создает новый экземпляр CSVOrderExtractor
func NewCSVOrderExtractor(path string, logger *utils.ETLLogger) *CSVOrderExtractor {
	return &CSVOrderExtractor{
		path:   path,
		logger: logger,
	}
}

// FetchOrders читает записи заказов из CSV-файла
// Инкрементальное извлечение поддерживается фильтром по order_id
func (e *CSVOrderExtractor) FetchOrders(lastProcessedOrderID int64, batchSize int) ([]models.RawOrder, error) {
	e.logger.Debug("Начало чтения заказов из CSV: %s", e.path)

	file, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия CSV-файла с заказами: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Читаем заголовок и строим соответствие имени колонки к индексу
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения заголовка CSV: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var orders []models.RawOrder
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения строки CSV: %w", err)
		}

		// Идентификаторы: нечисловые значения дают 0 и отбрасываются валидатором
		orderID, _ := strconv.ParseInt(strings.TrimSpace(field(record, "order_id")), 10, 64)
		userID, _ := strconv.ParseInt(strings.TrimSpace(field(record, "user_id")), 10, 64)

		if lastProcessedOrderID > 0 && orderID <= lastProcessedOrderID {
			continue
		}

		order := models.RawOrder{
			OrderID:     orderID,
			UserID:      userID,
			Timestamp:   field(record, "ts"),
			Amount:      field(record, "amount"),
			Category:    field(record, "category"),
			PaymentType: field(record, "payment_type"),
		}

		// Опциональный флаг промокода: 0/1
		if promoStr := strings.TrimSpace(field(record, "used_promo")); promoStr != "" {
			promo := promoStr == "1"
			order.UsedPromo = &promo
		}

		orders = append(orders, order)

		if batchSize > 0 && len(orders) >= batchSize {
			break
		}
	}

	e.logger.Debug("Прочитано %d заказов из CSV", len(orders))
	return orders, nil
}
