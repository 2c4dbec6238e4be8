// routes/report_handlers.go
package routes

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	etl "github.com/LilVoxy/coursework_analytics/ETL"
	"github.com/LilVoxy/coursework_analytics/ETL/models"
)

// KPIsResponse структура ответа API для ежедневных KPI
type KPIsResponse struct {
	KPIs []models.DailyKPIFact `json:"kpis"`
}

// CategoriesResponse структура ответа API для агрегатов по категориям
type CategoriesResponse struct {
	Categories []models.CategoryDailyFact `json:"categories"`
}

// RFMResponse структура ответа API для RFM-оценок
type RFMResponse struct {
	Scores []models.UserRFMFact `json:"scores"`
}

// RunsResponse структура ответа API для журнала запусков
type RunsResponse struct {
	Runs []models.ETLRunLog `json:"runs"`
}

// GetDailyKPIsHandler обрабатывает запросы на получение ежедневных KPI
// Опциональные параметры from и to (YYYY-MM-DD) ограничивают диапазон дат
func GetDailyKPIsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		sqlQuery := `
			SELECT date, revenue, orders, active_users, aov
			FROM sales_analytics.kpis_by_day
			WHERE 1=1
		`
		var params []interface{}

		// Фильтр по диапазону дат
		if from := query.Get("from"); from != "" {
			if _, err := time.Parse("2006-01-02", from); err != nil {
				http.Error(w, "Неверный формат параметра from (ожидается YYYY-MM-DD)", http.StatusBadRequest)
				return
			}
			sqlQuery += " AND date >= ?"
			params = append(params, from)
		}
		if to := query.Get("to"); to != "" {
			if _, err := time.Parse("2006-01-02", to); err != nil {
				http.Error(w, "Неверный формат параметра to (ожидается YYYY-MM-DD)", http.StatusBadRequest)
				return
			}
			sqlQuery += " AND date <= ?"
			params = append(params, to)
		}

		sqlQuery += " ORDER BY date"

		rows, err := db.Query(sqlQuery, params...)
		if err != nil {
			log.Printf("Ошибка при запросе ежедневных KPI: %v", err)
			http.Error(w, "Ошибка при получении ежедневных KPI", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var kpis []models.DailyKPIFact
		for rows.Next() {
			var fact models.DailyKPIFact
			if err := rows.Scan(&fact.Date, &fact.Revenue, &fact.Orders, &fact.ActiveUsers, &fact.AOV); err != nil {
				log.Printf("Ошибка при сканировании KPI: %v", err)
				continue
			}
			kpis = append(kpis, fact)
		}

		if err = rows.Err(); err != nil {
			log.Printf("Ошибка при итерации по KPI: %v", err)
			http.Error(w, "Ошибка при обработке ежедневных KPI", http.StatusInternalServerError)
			return
		}

		writeJSON(w, KPIsResponse{KPIs: kpis})
	}
}

// GetCategoryDailyHandler обрабатывает запросы на получение агрегатов по категориям
// Опциональный параметр category ограничивает выборку одной категорией
func GetCategoryDailyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		sqlQuery := `
			SELECT date, category, revenue, orders
			FROM sales_analytics.category_daily
		`
		var params []interface{}

		if category := query.Get("category"); category != "" {
			sqlQuery += " WHERE category = ?"
			params = append(params, category)
		}

		sqlQuery += " ORDER BY date, category"

		rows, err := db.Query(sqlQuery, params...)
		if err != nil {
			log.Printf("Ошибка при запросе агрегатов по категориям: %v", err)
			http.Error(w, "Ошибка при получении агрегатов по категориям", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var categories []models.CategoryDailyFact
		for rows.Next() {
			var fact models.CategoryDailyFact
			if err := rows.Scan(&fact.Date, &fact.Category, &fact.Revenue, &fact.Orders); err != nil {
				log.Printf("Ошибка при сканировании агрегата категории: %v", err)
				continue
			}
			categories = append(categories, fact)
		}

		if err = rows.Err(); err != nil {
			log.Printf("Ошибка при итерации по агрегатам категорий: %v", err)
			http.Error(w, "Ошибка при обработке агрегатов по категориям", http.StatusInternalServerError)
			return
		}

		writeJSON(w, CategoriesResponse{Categories: categories})
	}
}

// GetRFMScoresHandler обрабатывает запросы на получение RFM-оценок
// Опциональный параметр min_rfm отсекает покупателей с меньшим составным кодом
func GetRFMScoresHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		sqlQuery := `
			SELECT user_id, recency_days, frequency, monetary, r, f, m, rfm
			FROM sales_analytics.rfm_scores
		`
		var params []interface{}

		if minRFMStr := query.Get("min_rfm"); minRFMStr != "" {
			minRFM, err := strconv.Atoi(minRFMStr)
			if err != nil {
				http.Error(w, "Неверный формат параметра min_rfm", http.StatusBadRequest)
				return
			}
			sqlQuery += " WHERE rfm >= ?"
			params = append(params, minRFM)
		}

		sqlQuery += " ORDER BY user_id"

		rows, err := db.Query(sqlQuery, params...)
		if err != nil {
			log.Printf("Ошибка при запросе RFM-оценок: %v", err)
			http.Error(w, "Ошибка при получении RFM-оценок", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var scores []models.UserRFMFact
		for rows.Next() {
			var fact models.UserRFMFact
			if err := rows.Scan(&fact.UserID, &fact.RecencyDays, &fact.Frequency, &fact.Monetary,
				&fact.R, &fact.F, &fact.M, &fact.RFM); err != nil {
				log.Printf("Ошибка при сканировании RFM-оценки: %v", err)
				continue
			}
			scores = append(scores, fact)
		}

		if err = rows.Err(); err != nil {
			log.Printf("Ошибка при итерации по RFM-оценкам: %v", err)
			http.Error(w, "Ошибка при обработке RFM-оценок", http.StatusInternalServerError)
			return
		}

		writeJSON(w, RFMResponse{Scores: scores})
	}
}

// GetRunStatsHandler обрабатывает запросы на получение журнала запусков
// Опциональный параметр days задает глубину выборки (по умолчанию 30 дней)
func GetRunStatsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := 30
		if daysStr := r.URL.Query().Get("days"); daysStr != "" {
			parsed, err := strconv.Atoi(daysStr)
			if err != nil || parsed <= 0 {
				http.Error(w, "Неверный формат параметра days", http.StatusBadRequest)
				return
			}
			days = parsed
		}

		logRepo := models.NewMySQLETLLogRepository(db)
		runs, err := logRepo.GetRunStats(days)
		if err != nil {
			log.Printf("Ошибка при запросе журнала запусков: %v", err)
			http.Error(w, "Ошибка при получении журнала запусков", http.StatusInternalServerError)
			return
		}

		writeJSON(w, RunsResponse{Runs: runs})
	}
}

// TriggerRunHandler запускает пайплайн вручную
// Запуск выполняется асинхронно, статус приходит подписчикам WebSocket
func TriggerRunHandler(runner *etl.ETLRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			if err := runner.ExecuteETL(); err != nil {
				log.Printf("Ошибка при выполнении запуска по запросу API: %v", err)
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"status": "started"})
	}
}

// writeJSON кодирует и отправляет JSON-ответ
func writeJSON(w http.ResponseWriter, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Ошибка при кодировании JSON: %v", err)
		http.Error(w, "Ошибка при формировании ответа", http.StatusInternalServerError)
	}
}
