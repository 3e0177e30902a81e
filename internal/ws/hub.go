package ws

import (
	"encoding/json"

	"go.uber.org/zap"

	"arena-chat/internal/domain"
)

// Event es el sobre que viaja por el websocket hacia los viewers.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const chatMessageEvent = "chat:message"

// Hub mantiene el conjunto de viewers conectados y reparte cada mensaje a
// todos ellos. Una sola goroutine (Run) es dueña del mapa de clientes; el
// resto del proceso solo habla con el hub por canales.
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run procesa registros, bajas y difusiones hasta que se llame a Shutdown.
// Un cliente cuyo buffer de envío está lleno se desconecta en lugar de
// bloquear la difusión al resto.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("viewer connected", zap.Int("total", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.logger.Info("viewer disconnected", zap.Int("total", len(h.clients)))

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}

		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

func (h *Hub) Shutdown() {
	close(h.done)
}

// BroadcastChatMessage encola un mensaje para todos los viewers conectados.
// Es fire-and-forget: si el buffer de difusión está lleno el evento se
// descarta y solo se deja registro en el log.
func (h *Hub) BroadcastChatMessage(msg domain.ChatMessage) {
	data, err := json.Marshal(Event{Type: chatMessageEvent, Data: msg})
	if err != nil {
		h.logger.Warn("broadcast marshal failed", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast buffer full, dropping event",
			zap.String("message_id", msg.ID),
		)
	}
}
