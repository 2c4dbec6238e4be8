// routes/api_routes.go
package routes

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	etl "github.com/LilVoxy/coursework_analytics/ETL"
	"github.com/LilVoxy/coursework_analytics/middleware"
	"github.com/LilVoxy/coursework_analytics/websocket"
)

// SetupRoutes настраивает все маршруты API и WebSocket
func SetupRoutes(router *mux.Router, olapDB *sql.DB, runner *etl.ETLRunner, wsManager *websocket.Manager) {
	// Применяем CORS middleware
	router.Use(middleware.CORSMiddleware)

	// WebSocket-подписка на статусы запусков пайплайна
	router.HandleFunc("/ws", wsManager.HandleConnections)

	// API витрин аналитики
	router.HandleFunc("/api/kpis", GetDailyKPIsHandler(olapDB)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/categories", GetCategoryDailyHandler(olapDB)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/rfm", GetRFMScoresHandler(olapDB)).Methods("GET", "OPTIONS")

	// API журнала запусков и ручной запуск пайплайна
	router.HandleFunc("/api/runs", GetRunStatsHandler(olapDB)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/run", TriggerRunHandler(runner)).Methods("POST", "OPTIONS")

	// Статические файлы
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("public")))
}
