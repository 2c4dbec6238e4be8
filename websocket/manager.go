// websocket/manager.go
package websocket

import (
	"encoding/json"
	"log"

	"github.com/LilVoxy/coursework_analytics/ETL/models"
)

// NewManager создает новый менеджер WebSocket-соединений
func NewManager() *Manager {
	return &Manager{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run запускает работу менеджера
func (manager *Manager) Run() {
	for {
		select {
		case client := <-manager.Register:
			manager.Clients[client] = true
			log.Printf("Подписчик статусов подключился (всего: %d)", len(manager.Clients))

		case client := <-manager.Unregister:
			if _, ok := manager.Clients[client]; ok {
				delete(manager.Clients, client)
				close(client.Send)
				log.Printf("Подписчик статусов отключился (всего: %d)", len(manager.Clients))
			}

		case message := <-manager.Broadcast:
			// Рассылаем сообщение всем подключенным клиентам
			manager.broadcast(message)
		}
	}
}

// broadcast отправляет сообщение всем подключенным клиентам
func (manager *Manager) broadcast(message []byte) {
	for client := range manager.Clients {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(manager.Clients, client)
		}
	}
}

// NotifyRunStatus отправляет подписчикам уведомление о статусе запуска пайплайна
// Реализует интерфейс RunNotifier пайплайна
func (manager *Manager) NotifyRunStatus(update models.RunStatusUpdate) {
	message, err := json.Marshal(update)
	if err != nil {
		log.Printf("Ошибка при сериализации уведомления о запуске: %v", err)
		return
	}

	manager.Broadcast <- message
}
