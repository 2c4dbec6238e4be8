// main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	etl "github.com/LilVoxy/coursework_analytics/ETL"
	"github.com/LilVoxy/coursework_analytics/routes"
	"github.com/LilVoxy/coursework_analytics/websocket"
)

func main() {
	mode := flag.String("mode", "serve", "Режим работы: serve, once или schedule")
	addr := flag.String("addr", ":8080", "Адрес HTTP-сервера (для режима serve)")
	flag.Parse()

	switch *mode {
	case "once":
		// Одиночный запуск пайплайна
		etl.RunOnce()
		return

	case "schedule":
		// Запуск пайплайна по расписанию без HTTP-сервера
		runScheduled()
		return

	case "serve":
		// HTTP-сервер с API витрин, WebSocket-статусами и планировщиком
		runServer(*addr)
		return

	default:
		fmt.Printf("Неизвестный режим: %s (ожидается serve, once или schedule)\n", *mode)
		os.Exit(1)
	}
}

// runScheduled запускает пайплайн по расписанию до сигнала завершения
func runScheduled() {
	runner, err := etl.NewETLRunner()
	if err != nil {
		log.Fatalf("Ошибка при создании ETL Runner: %v", err)
	}
	defer runner.Close()

	ctx, cancel := context.WithCancel(context.Background())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Println("Получен сигнал завершения, останавливаем планировщик...")
		cancel()
	}()

	runner.StartScheduler(ctx)
}

// runServer запускает HTTP-сервер аналитики
func runServer(addr string) {
	fmt.Println("Запуск сервера аналитики...")

	// Инициализируем пайплайн
	runner, err := etl.NewETLRunner()
	if err != nil {
		log.Fatalf("Не удалось инициализировать пайплайн: %v", err)
	}
	defer runner.Close()

	// Создаем менеджер WebSocket и подключаем его к пайплайну
	wsManager := websocket.NewManager()
	runner.SetNotifier(wsManager)

	// Запускаем менеджер WebSocket
	go wsManager.Run()

	// Запускаем планировщик пайплайна
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()
	go runner.StartScheduler(schedulerCtx)

	// Создаем маршрутизатор и регистрируем обработчики
	router := mux.NewRouter()
	routes.SetupRoutes(router, runner.OLAPDB(), runner, wsManager)

	// Настраиваем сервер
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запускаем сервер в отдельной горутине
	go func() {
		log.Printf("Сервер аналитики запущен на http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	// Канал для сигналов завершения
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Ожидаем сигнал завершения
	<-stop
	log.Println("Получен сигнал завершения, закрываем соединения...")

	// Останавливаем планировщик и сервер
	cancelScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка при остановке сервера: %v", err)
	}

	log.Println("Сервер остановлен")
}
