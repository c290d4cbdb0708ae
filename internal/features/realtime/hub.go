package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"go-portal/internal/features/feedback"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// messageWriter is the slice of the websocket connection the hub needs.
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// hubConn pairs a connection with the mutex serializing writes to it.
// The underlying websocket allows at most one concurrent writer, and
// pushes for one user can arrive from many request goroutines at once.
type hubConn struct {
	mu sync.Mutex
	w  messageWriter
}

func (c *hubConn) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks open inbox connections per user and pushes
// feedback-received events to them. Connections for a user come and go
// independently; a failed write just drops that connection.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string][]*hubConn
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[string][]*hubConn),
		logger: logger,
	}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.add(userID, conn)
}

func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.conns[userID]
	for i, c := range conns {
		if c.w == conn {
			h.removeLocked(userID, i)
			break
		}
	}
}

func (h *Hub) add(userID string, w messageWriter) *hubConn {
	c := &hubConn{w: w}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], c)
	return c
}

func (h *Hub) remove(userID string, conn *hubConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, c := range h.conns[userID] {
		if c == conn {
			h.removeLocked(userID, i)
			break
		}
	}
}

func (h *Hub) removeLocked(userID string, i int) {
	conns := h.conns[userID]
	h.conns[userID] = append(conns[:i], conns[i+1:]...)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

type feedbackEvent struct {
	Event     string            `json:"event"`
	Message   *feedback.Message `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
}

// PushFeedback implements feedback.Notifier.
func (h *Hub) PushFeedback(userID string, msg *feedback.Message) {
	payload, err := json.Marshal(feedbackEvent{
		Event:     "feedback.received",
		Message:   msg,
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := make([]*hubConn, len(h.conns[userID]))
	copy(conns, h.conns[userID])
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.write(payload); err != nil {
			h.logger.Debug("dropping dead inbox connection", zap.Error(err))
			h.remove(userID, conn)
			conn.w.Close()
		}
	}
}
