// Package stream serves frame descriptors over websocket and feeds remote
// key events back into the simulation loop.
package stream

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/san-kum/gravsim/internal/frame"
	"github.com/san-kum/gravsim/internal/input"
)

// KeyEvent is a remote key transition.
type KeyEvent struct {
	Key  input.Key
	Down bool
}

type HubConfig struct {
	// EventBuffer is the capacity of the key event channel.
	EventBuffer int
	// SendBuffer is the number of frames queued per client before frames
	// are dropped for that client.
	SendBuffer int
	Logger     *log.Logger
}

func DefaultHubConfig() HubConfig {
	return HubConfig{EventBuffer: 256, SendBuffer: 4}
}

// Hub tracks connected clients and fans frames out to them.
type Hub struct {
	logger     *log.Logger
	sendBuffer int

	events chan KeyEvent
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	clients map[*client]struct{}
	dropped uint64
}

type client struct {
	send chan []byte
}

func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	def := DefaultHubConfig()
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = def.EventBuffer
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}
	return &Hub{
		logger:     logger,
		sendBuffer: cfg.SendBuffer,
		events:     make(chan KeyEvent, cfg.EventBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
}

// Events delivers key events from every client in arrival order.
func (h *Hub) Events() <-chan KeyEvent {
	return h.events
}

// Done is closed by Close.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Close disconnects every client. The hub cannot be reused.
func (h *Hub) Close() {
	h.once.Do(func() {
		close(h.done)
		h.mu.Lock()
		for c := range h.clients {
			close(c.send)
			delete(h.clients, c)
		}
		h.mu.Unlock()
	})
}

func (h *Hub) register() (*client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return nil, false
	default:
	}
	c := &client{send: make(chan []byte, h.sendBuffer)}
	h.clients[c] = struct{}{}
	return c, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many frames were skipped for slow clients.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Broadcast encodes d once and queues it for every client. A client whose
// queue is full misses this frame.
func (h *Hub) Broadcast(d *frame.Descriptor) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped++
		}
	}
	return nil
}

// publish hands a key event to the loop. It blocks while the event buffer is
// full so that releases are never lost, and gives up once the hub closes.
func (h *Hub) publish(ev KeyEvent) bool {
	select {
	case h.events <- ev:
		return true
	case <-h.done:
		return false
	}
}
