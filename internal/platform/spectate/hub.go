// Package spectate broadcasts live game frames to WebSocket viewers.
package spectate

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// clientBuffer is the number of frames queued per viewer. Slow viewers lose
// their oldest frames first.
const clientBuffer = 32

// Hub maintains the set of viewers and fans frames out to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	logger     *log.Logger

	mu     sync.Mutex
	latest map[string][]byte // last frame per session, replayed to new viewers

	published atomic.Uint64
	dropped   atomic.Uint64
}

// NewHub creates a hub. A nil logger logs to stderr.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "spectate",
		})
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger,
		latest:     make(map[string][]byte),
	}
}

// Run handles registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				c.close()
			}
			h.logger.Info("hub stopped")
			return

		case c := <-h.register:
			h.clients[c] = true
			h.mu.Lock()
			for _, msg := range h.latest {
				c.enqueue(msg)
			}
			h.mu.Unlock()
			h.logger.Info("viewer connected", "remote", c.remote, "viewers", len(h.clients))

		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				c.close()
				h.logger.Info("viewer disconnected", "remote", c.remote, "viewers", len(h.clients))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				if c.enqueue(msg) {
					h.dropped.Add(1)
				}
			}
		}
	}
}

// Publish queues a frame for every viewer. It never blocks the caller:
// if the hub is behind, the frame is dropped.
func (h *Hub) Publish(f Frame) {
	msg, err := json.Marshal(f)
	if err != nil {
		h.logger.Error("cannot encode frame", "session", f.Session, "error", err)
		return
	}

	h.mu.Lock()
	h.latest[f.Session] = msg
	h.mu.Unlock()

	select {
	case h.broadcast <- msg:
		h.published.Add(1)
	case <-h.done:
	default:
		h.dropped.Add(1)
	}
}

// Forget drops the stored frame of a finished session so new viewers no
// longer receive it.
func (h *Hub) Forget(session string) {
	h.mu.Lock()
	delete(h.latest, session)
	h.mu.Unlock()
}

// Sessions returns the number of sessions with a known latest frame.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.latest)
}

// Stats reports frames accepted by the hub and frames dropped on the way
// to viewers.
func (h *Hub) Stats() (published, dropped uint64) {
	return h.published.Load(), h.dropped.Load()
}
