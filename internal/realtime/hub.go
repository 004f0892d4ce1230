package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is a best-effort notice about project activity. Delivery is not
// guaranteed; the store write it follows is the source of truth.
type Event struct {
	Type      string    `json:"type"` // project_created | bid_placed | project_deleted
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title,omitempty"`
	Username  string    `json:"username,omitempty"`
	At        time.Time `json:"at"`
}

type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
}

type Hub struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	log        *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

func (h *Hub) RegisterClient(client *Client)   { h.register <- client }
func (h *Hub) UnregisterClient(client *Client) { h.unregister <- client }

// BroadcastEvent fans the event out to every connected client. Slow
// clients are dropped rather than blocked on.
func (h *Hub) BroadcastEvent(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.Warnw("marshal event", "error", err)
		return
	}
	h.broadcast <- b
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.log.Debugw("watch client registered", "client", client.ID, "user", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(old.Send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}
