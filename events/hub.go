package events

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message уходит подключённым websocket-клиентам как есть.
type Message struct {
	Name string                 `json:"name"`
	Data map[string]interface{} `json:"data"`
}

// Hub держит всех подключённых websocket-клиентов и рассылает им события.
// Регистрация, отключение и рассылка сериализуются через каналы в Run.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client connected",
				slog.String("client_id", client.ID), slog.Int("total", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client disconnected",
				slog.String("client_id", client.ID), slog.Int("total", total))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Клиент не успевает читать: не блокируем рассылку,
					// событие для него теряется.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastEvent сериализует событие и ставит его в очередь рассылки.
func (h *Hub) BroadcastEvent(name string, data map[string]interface{}) {
	payload, err := json.Marshal(Message{Name: name, Data: data})
	if err != nil {
		h.logger.Warn("failed to encode websocket event",
			slog.String("event", name), slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("websocket broadcast queue full, event dropped",
			slog.String("event", name))
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
