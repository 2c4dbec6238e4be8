// websocket/types.go
package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Клиент WebSocket (подписчик статусов пайплайна)
type Client struct {
	Socket *websocket.Conn
	Send   chan []byte
}

// Менеджер WebSocket-соединений
// Рассылает подписанным дашбордам уведомления о запусках пайплайна
type Manager struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

// Конфигурация WebSocket-соединения
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Разрешаем подключения с любого источника (для разработки)
	},
}

// Таймауты соединения
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)
