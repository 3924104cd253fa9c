package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/registry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Viewers are read-only; any origin may watch.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWS upgrades the request and attaches the connection as a viewer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(h, conn)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// serveSessions lists the latest frame of every live session as JSON.
func (h *Hub) serveSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	frames := make([]json.RawMessage, 0, len(h.latest))
	for _, msg := range h.latest {
		frames = append(frames, msg)
	}
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(frames); err != nil {
		h.logger.Warn("cannot write sessions", "error", err)
	}
}

// Handler returns the HTTP routes: /ws for the live feed and /sessions for
// a one-shot listing.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/sessions", h.serveSessions)
	return mux
}

// ListenAndServe runs the hub and its HTTP server until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go h.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		h.logger.Info("spectator feed listening", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("spectate: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// snapshotter is implemented by games that expose a full snapshot.
type snapshotter interface {
	Snapshot() blockfall.Snapshot
}

// Observer returns a per-tick callback that publishes the game's frame
// every `every` ticks and on every state change. Games without snapshots
// are ignored.
func (h *Hub) Observer(session string, every int) func(registry.Game) {
	if every < 1 {
		every = 1
	}
	var (
		n         int
		lastState blockfall.GameStateType
		lastTick  uint64
		seen      bool
	)
	return func(g registry.Game) {
		sg, ok := g.(snapshotter)
		if !ok {
			return
		}
		s := sg.Snapshot()
		n++
		changed := !seen || s.State != lastState || s.Kernel.Tick < lastTick
		seen = true
		lastState = s.State
		lastTick = s.Kernel.Tick
		if !changed && n%every != 0 {
			return
		}
		h.Publish(NewFrame(session, s))
	}
}
