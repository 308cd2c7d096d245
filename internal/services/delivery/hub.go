package delivery

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 512
	sendBuffer     = 32
)

type subscriber struct {
	conn   *websocket.Conn
	send   chan Event
	userID string
}

// Hub keeps one room of websocket subscribers per chat and implements
// Publisher for them.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*subscriber]struct{}
	upgrader websocket.Upgrader
	logger   logrus.FieldLogger
}

// NewHub creates a hub accepting browser connections from allowedOrigins.
// Requests without an Origin header (non-browser clients) are accepted; "*"
// accepts any origin.
func NewHub(allowedOrigins []string, logger logrus.FieldLogger) *Hub {
	allowedMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		allowedMap[origin] = true
	}

	return &Hub{
		rooms: make(map[string]map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedMap["*"] || allowedMap[origin]
			},
		},
		logger: logger.WithField("component", "Hub"),
	}
}

// Publish queues the event for every subscriber of chatID. A subscriber whose
// buffer is full misses the event.
func (h *Hub) Publish(_ context.Context, chatID, senderID string, payload interface{}) error {
	event := Event{Event: senderID, Channel: chatID, Data: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.rooms[chatID] {
		select {
		case sub.send <- event:
		default:
			h.logger.WithFields(logrus.Fields{
				"chat_id": chatID,
				"user_id": sub.userID,
			}).Warn("subscriber buffer full, dropping event")
		}
	}
	return nil
}

// ServeChat upgrades the request and keeps userID subscribed to chatID until
// the connection closes.
func (h *Hub) ServeChat(w http.ResponseWriter, r *http.Request, chatID, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	sub := &subscriber{conn: conn, send: make(chan Event, sendBuffer), userID: userID}
	total := h.register(chatID, sub)
	h.logger.WithFields(logrus.Fields{
		"chat_id":     chatID,
		"user_id":     userID,
		"subscribers": total,
	}).Info("websocket subscriber joined")

	go h.writePump(sub)
	h.readPump(sub)

	remaining := h.unregister(chatID, sub)
	h.logger.WithFields(logrus.Fields{
		"chat_id":     chatID,
		"user_id":     userID,
		"subscribers": remaining,
	}).Info("websocket subscriber left")
	return nil
}

// SubscriberCount returns how many connections are subscribed to chatID.
func (h *Hub) SubscriberCount(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, room := range h.rooms {
		for sub := range room {
			sub.conn.Close()
		}
	}
}

func (h *Hub) register(chatID string, sub *subscriber) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[chatID]
	if !ok {
		room = make(map[*subscriber]struct{})
		h.rooms[chatID] = room
	}
	room[sub] = struct{}{}
	return len(room)
}

// unregister removes sub and closes its send channel. Publish only sends under
// the read lock, so no send can race the close.
func (h *Hub) unregister(chatID string, sub *subscriber) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[chatID]
	if _, ok := room[sub]; ok {
		delete(room, sub)
		close(sub.send)
	}
	if len(room) == 0 {
		delete(h.rooms, chatID)
	}
	return len(room)
}

// readPump discards inbound frames and returns once the client goes away.
func (h *Hub) readPump(sub *subscriber) {
	sub.conn.SetReadLimit(maxInboundSize)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
