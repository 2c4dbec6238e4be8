package extractors

import (
	"database/sql"
	"fmt"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
	"github.com/LilVoxy/coursework_analytics/ETL/utils"
)

// OrderExtractor извлекает записи заказов из OLTP БД
type OrderExtractor struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewOrderExtractor создает новый экземпляр OrderExtractor
func NewOrderExtractor(db *sql.DB, logger *utils.ETLLogger) *OrderExtractor {
	return &OrderExtractor{
		db:     db,
		logger: logger,
	}
}

// FetchOrders извлекает записи заказов из таблицы orders
// Если указан lastProcessedOrderID, будут извлечены только заказы с большим ID
func (e *OrderExtractor) FetchOrders(lastProcessedOrderID int64, batchSize int) ([]models.RawOrder, error) {
	e.logger.Debug("Начало извлечения заказов (lastProcessedOrderID: %d)", lastProcessedOrderID)

	query := `
		SELECT order_id, user_id, ts, amount, category, used_promo, payment_type
		FROM orders
		WHERE order_id > ?
		ORDER BY order_id
		LIMIT ?
	`
	params := []interface{}{lastProcessedOrderID, batchSize}

	if lastProcessedOrderID == 0 {
		query = `
			SELECT order_id, user_id, ts, amount, category, used_promo, payment_type
			FROM orders
			ORDER BY order_id
			LIMIT ?
		`
		params = []interface{}{batchSize}
	}

	// Выполняем запрос
	rows, err := e.db.Query(query, params...)
	if err != nil {
		e.logger.Error("Ошибка при извлечении заказов: %v", err)
		return nil, fmt.Errorf("ошибка запроса заказов: %w", err)
	}
	defer rows.Close()

	// Обрабатываем результаты
	// Временная метка и сумма читаются строками: их разбором и проверкой
	// занимается валидатор, извлечение не отбрасывает ни одной записи
	var orders []models.RawOrder
	for rows.Next() {
		var (
			orderID     sql.NullInt64
			userID      sql.NullInt64
			ts          sql.NullString
			amount      sql.NullString
			category    sql.NullString
			usedPromo   sql.NullBool
			paymentType sql.NullString
		)

		if err := rows.Scan(&orderID, &userID, &ts, &amount, &category, &usedPromo, &paymentType); err != nil {
			e.logger.Error("Ошибка при обработке записи заказа: %v", err)
			return nil, fmt.Errorf("ошибка обработки записи заказа: %w", err)
		}

		order := models.RawOrder{
			OrderID:     orderID.Int64,
			UserID:      userID.Int64,
			Timestamp:   ts.String,
			Amount:      amount.String,
			Category:    category.String,
			PaymentType: paymentType.String,
		}
		if usedPromo.Valid {
			promo := usedPromo.Bool
			order.UsedPromo = &promo
		}

		orders = append(orders, order)
	}

	// Проверяем ошибки после итерации по результатам
	if err = rows.Err(); err != nil {
		e.logger.Error("Ошибка после итерации по заказам: %v", err)
		return nil, fmt.Errorf("ошибка после итерации по заказам: %w", err)
	}

	e.logger.Debug("Извлечено %d заказов", len(orders))
	return orders, nil
}

// GetLastOrderID получает максимальный ID заказа в таблице
func (e *OrderExtractor) GetLastOrderID() (int64, error) {
	var lastOrderID sql.NullInt64

	err := e.db.QueryRow("SELECT MAX(order_id) FROM orders").Scan(&lastOrderID)
	if err != nil {
		if err == sql.ErrNoRows {
			// Если нет заказов, возвращаем 0
			return 0, nil
		}
		e.logger.Error("Ошибка при получении ID последнего заказа: %v", err)
		return 0, fmt.Errorf("ошибка получения ID последнего заказа: %w", err)
	}

	return lastOrderID.Int64, nil
}
