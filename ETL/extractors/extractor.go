package extractors

import (
	"github.com/LilVoxy/coursework_analytics/ETL/models"
)

// OrderSource представляет источник сырых записей заказов
// Реализации: таблица заказов OLTP БД и CSV-файл.
// Генерация синтетических заказов — внешний компонент, для движка
// она неотличима от любого другого источника
type OrderSource interface {
	// FetchOrders извлекает очередную порцию сырых записей заказов
	// lastProcessedOrderID > 0 включает инкрементальное извлечение
	FetchOrders(lastProcessedOrderID int64, batchSize int) ([]models.RawOrder, error)
}
