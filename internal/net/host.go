package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"LocalDiagram/internal/state"
)

const (
	WebsocketPath = "/ws"
	sendBuffer    = 256
)

// Host shares a diagram with peers. It is the only writer of the diagram:
// local edits and peer intents both go through it, so every peer sees the
// same op sequence after its snapshot.
type Host struct {
	diagram  *state.Diagram
	peers    map[*peer]bool
	mu       sync.Mutex
	upgrader websocket.Upgrader
}

type peer struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHost takes over d.OnLocalOp to broadcast every applied op.
func NewHost(d *state.Diagram) *Host {
	h := &Host{
		diagram: d,
		peers:   make(map[*peer]bool),
		upgrader: websocket.Upgrader{
			// Peers join from other machines on the LAN.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	d.OnLocalOp = h.broadcastLocked
	return h
}

func (h *Host) AddShape(kind state.Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.diagram.AddShape(kind)
}

func (h *Host) AddLine() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.diagram.AddLine()
}

func (h *Host) MoveShape(id string, x, y float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.diagram.MoveShape(id, x, y)
}

func (h *Host) MoveEndpoint(id string, e state.Endpoint, x, y float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.diagram.MoveEndpoint(id, e, x, y)
}

// PeerCount returns the number of connected peers.
func (h *Host) PeerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// broadcastLocked runs inside an edit, with h.mu held.
func (h *Host) broadcastLocked(op state.Op) {
	data, err := json.Marshal(Message{Type: MsgOp, Op: &op})
	if err != nil {
		log.Printf("[HOST] Failed to encode %s: %v", op.Type, err)
		return
	}
	for p := range h.peers {
		select {
		case p.send <- data:
		default:
			log.Printf("[HOST] Dropping slow peer %s", p.conn.RemoteAddr())
			h.removeLocked(p)
		}
	}
}

func (h *Host) removeLocked(p *peer) {
	if _, ok := h.peers[p]; !ok {
		return
	}
	delete(h.peers, p)
	close(p.send)
	log.Printf("[HOST] Removed peer %s", p.conn.RemoteAddr())
}

func (h *Host) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(p)
}

// Handler serves the websocket endpoint.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WebsocketPath, h.serveWS)
	return mux
}

func (h *Host) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HOST] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, sendBuffer)}

	// Snapshot and registration happen under the edit lock so no op is
	// missed or delivered twice.
	h.mu.Lock()
	snap := h.diagram.Snapshot()
	data, err := json.Marshal(Message{Type: MsgSnapshot, Snapshot: &snap})
	if err != nil {
		h.mu.Unlock()
		log.Printf("[HOST] Failed to encode snapshot: %v", err)
		conn.Close()
		return
	}
	p.send <- data
	h.peers[p] = true
	h.mu.Unlock()
	log.Printf("[HOST] Peer connected from %s", conn.RemoteAddr())

	go h.writePump(p)
	h.readPump(p)
}

func (h *Host) writePump(p *peer) {
	defer p.conn.Close()
	for data := range p.send {
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[HOST] Error sending to %s: %v", p.conn.RemoteAddr(), err)
			h.remove(p)
			// Drain so removeLocked's close ends the loop.
			for range p.send {
			}
			return
		}
	}
	p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Host) readPump(p *peer) {
	defer h.remove(p)
	addr := p.conn.RemoteAddr()
	for {
		var msg Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			log.Printf("[HOST] Peer %s disconnected: %v", addr, err)
			return
		}
		if msg.Type != MsgIntent || msg.Intent == nil {
			log.Printf("[HOST] Ignoring '%s' from %s", msg.Type, addr)
			continue
		}
		h.apply(*msg.Intent)
	}
}

func (h *Host) apply(in Intent) {
	switch in.Type {
	case state.OpAddShape:
		h.AddShape(in.Kind)
	case state.OpAddLine:
		h.AddLine()
	case state.OpMoveShape:
		h.MoveShape(in.ID, in.At.X, in.At.Y)
	case state.OpMoveEndpoint:
		h.MoveEndpoint(in.ID, in.Endpoint, in.At.X, in.At.Y)
	default:
		log.Printf("[HOST] Unknown intent %q", in.Type)
	}
}

// Close disconnects every peer.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		h.removeLocked(p)
	}
}

// ListenAndServe serves peers on port until ctx is cancelled.
func (h *Host) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: h.Handler(),
	}
	go func() {
		<-ctx.Done()
		h.Close()
		srv.Shutdown(context.Background())
	}()

	log.Printf("[HOST] Sharing on port %d", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve on port %d: %w", port, err)
	}
	return nil
}
