// websocket/handler.go
package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// HandleConnections обрабатывает WebSocket-подключения подписчиков статусов
func (manager *Manager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	// Устанавливаем WebSocket-соединение
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Ошибка при установке WebSocket-соединения:", err)
		return
	}

	// Создаем нового клиента
	client := &Client{
		Socket: conn,
		Send:   make(chan []byte, 256),
	}

	manager.Register <- client

	// Запускаем насосы чтения и записи
	go client.writePump()
	go client.readPump(manager)
}

// writePump отвечает за отправку сообщений клиенту
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Socket.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрыт
				c.Socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Socket.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump читает входящие сообщения и следит за закрытием соединения
// Подписчики ничего не отправляют, но читать нужно для обработки ping/pong
func (c *Client) readPump(manager *Manager) {
	defer func() {
		manager.Unregister <- c
		c.Socket.Close()
	}()

	c.Socket.SetReadLimit(512)
	c.Socket.SetReadDeadline(time.Now().Add(pongWait))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Socket.ReadMessage(); err != nil {
			return
		}
	}
}
