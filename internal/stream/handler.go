package stream

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/gravsim/internal/input"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type clientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

type HandlerConfig struct {
	Logger *log.Logger
}

type Handler struct {
	hub      *Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1 << 16,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		logger:   logger,
		upgrader: upgrader,
	}
}

// Handle upgrades the request and serves the client until it disconnects.
// Keys the client still holds at that point are released.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("stream: upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	c, ok := h.hub.register()
	if !ok {
		message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		return
	}
	h.logger.Printf("stream: client %s connected", r.RemoteAddr)

	go h.writePump(conn, c)

	held := make(map[input.Key]struct{})
	defer func() {
		h.hub.unregister(c)
		for k := range held {
			h.hub.publish(KeyEvent{Key: k, Down: false})
		}
		conn.Close()
		h.logger.Printf("stream: client %s disconnected", r.RemoteAddr)
	}()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("stream: discarding malformed message from %s: %v", r.RemoteAddr, err)
			continue
		}
		if msg.Key == "" {
			continue
		}
		k := input.Key(msg.Key)

		var ev KeyEvent
		switch msg.Type {
		case "keydown":
			held[k] = struct{}{}
			ev = KeyEvent{Key: k, Down: true}
		case "keyup":
			delete(held, k)
			ev = KeyEvent{Key: k, Down: false}
		default:
			h.logger.Printf("stream: unknown message type %q from %s", msg.Type, r.RemoteAddr)
			continue
		}
		if !h.hub.publish(ev) {
			return
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
