package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSurveyGenerated MessageType = "survey_generated"
	MsgSurveyUpdated   MessageType = "survey_updated"
	MsgSurveyDeleted   MessageType = "survey_deleted"
	MsgSurveyExported  MessageType = "survey_exported"
	MsgError           MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages dashboard WebSocket connections per user. A user may have
// several dashboard tabs open, each with its own connection.
type Hub struct {
	userConns map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	notify     chan *userMessage

	log *zap.Logger
}

// Connection represents one dashboard WebSocket connection
type Connection struct {
	UserID string
	Send   chan []byte
	Hub    *Hub
}

type userMessage struct {
	userID  string
	message *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log *zap.Logger) *Hub {
	h := &Hub{
		userConns:  make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		notify:     make(chan *userMessage, 256),
		log:        log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.userConns[conn.UserID] == nil {
				h.userConns[conn.UserID] = make(map[*Connection]struct{})
			}
			h.userConns[conn.UserID][conn] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("dashboard connected", zap.String("userId", conn.UserID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.userConns[conn.UserID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.userConns, conn.UserID)
					}
				}
			}
			h.mu.Unlock()
			h.log.Debug("dashboard disconnected", zap.String("userId", conn.UserID))

		case msg := <-h.notify:
			h.mu.RLock()
			data, _ := json.Marshal(msg.message)
			for conn := range h.userConns[msg.userID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// NotifyUser pushes an event to all of a user's dashboard connections
func (h *Hub) NotifyUser(userID string, msgType MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.notify <- &userMessage{
		userID: userID,
		message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}
