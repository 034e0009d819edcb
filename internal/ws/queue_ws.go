package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Hub хранит подключения клиентов, сгруппированные по queueID, и отдельный
// индекс по userID для адресных уведомлений.
type Hub struct {
	// Для каждой очереди (queueID) храним множество подключений.
	clients map[string]map[*Client]bool
	// Подключения каждого пользователя, для адресной доставки.
	users map[uint]map[*Client]bool
	// Канал для регистрации нового клиента.
	register chan *Client
	// Канал для удаления клиента.
	unregister chan *Client
	// Канал для трансляции сообщений по конкретной очереди.
	broadcast chan BroadcastMessage
	// Mutex для защиты карт клиентов.
	mu sync.RWMutex
}

// BroadcastMessage представляет сообщение для рассылки в определённую очередь.
type BroadcastMessage struct {
	QueueID string
	Message []byte
}

// WSMessage — событие очереди, уходящее клиентам в формате JSON.
type WSMessage struct {
	EventType string                 `json:"event_type"`
	QueueID   string                 `json:"queue_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// ErrNoConnection — у пользователя нет активных подключений.
var ErrNoConnection = errors.New("no active connection for user")

// Создаем глобальный экземпляр хаба.
var HubInstance = NewHub()

// NewHub создает новый Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		users:      make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan BroadcastMessage),
	}
}

// Run запускает цикл обработки каналов хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.QueueID] == nil {
				h.clients[client.QueueID] = make(map[*Client]bool)
			}
			h.clients[client.QueueID][client] = true
			if client.UserID != 0 {
				if h.users[client.UserID] == nil {
					h.users[client.UserID] = make(map[*Client]bool)
				}
				h.users[client.UserID][client] = true
			}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			var dead []*Client
			h.mu.RLock()
			if clients, ok := h.clients[message.QueueID]; ok {
				for client := range clients {
					select {
					case client.Send <- message.Message:
					default:
						dead = append(dead, client)
					}
				}
			}
			h.mu.RUnlock()
			for _, client := range dead {
				h.removeClient(client)
			}
		}
	}
}

// removeClient убирает клиента из обеих карт и закрывает его канал. Канал
// закрывается только под write-блокировкой и только вместе с удалением из
// индекса пользователей: SendToUser держит read-блокировку и потому никогда
// не видит закрытый канал. Наличие клиента в h.clients — признак того, что
// канал ещё не закрыт, повторный вызов безопасен.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.QueueID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.QueueID)
	}
	if conns, ok := h.users[client.UserID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.users, client.UserID)
		}
	}
}

// BroadcastWSMessage сериализует событие и рассылает его наблюдателям очереди.
func (h *Hub) BroadcastWSMessage(msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Println("Ошибка сериализации WS сообщения:", err)
		return
	}
	h.broadcast <- BroadcastMessage{QueueID: msg.QueueID, Message: payload}
}

// SendToUser доставляет сообщение во все подключения пользователя.
// Возвращает ErrNoConnection, если доставить некому.
func (h *Hub) SendToUser(userID uint, msg WSMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	conns, ok := h.users[userID]
	if !ok || len(conns) == 0 {
		return ErrNoConnection
	}

	delivered := false
	for client := range conns {
		select {
		case client.Send <- payload:
			delivered = true
		default:
			// Переполненный канал не блокирует отправителя.
		}
	}
	if !delivered {
		return ErrNoConnection
	}
	return nil
}

// Client представляет одно подключение через WebSocket.
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	QueueID string
	UserID  uint
}

// readPump читает сообщения из WebSocket-соединения.
// Входящие сообщения не обрабатываются, отслеживается только разрыв соединения.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}
		log.Printf("Получено сообщение от клиента: %s", message)
	}
}

// writePump отправляет сообщения клиенту из канала Send.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Канал закрыт.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			// Отправка ping-сообщения для поддержания соединения.
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Настраиваем апгрейдер для WebSocket с разрешением всех источников.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// QueueWebSocketHandler обновляет соединение до WebSocket и регистрирует клиента в Hub.
// URL-пример: /api/queues/{id}/ws
func QueueWebSocketHandler(c *gin.Context) {
	queueID := c.Param("id")
	var userID uint
	if v, ok := c.Get("userID"); ok {
		userID, _ = v.(uint)
	} else if raw := c.Query("user_id"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		http.Error(c.Writer, "Ошибка обновления до WebSocket", http.StatusInternalServerError)
		return
	}
	// Создаем нового клиента
	client := &Client{
		Hub:     HubInstance,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		QueueID: queueID,
		UserID:  userID,
	}
	// Регистрируем клиента в Hub
	HubInstance.register <- client

	// Запускаем горутины для отправки и приема сообщений
	go client.writePump()
	client.readPump()
}
