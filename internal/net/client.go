package net

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"LocalDiagram/internal/state"
)

// Client mirrors a host's diagram. Edits made through it are sent to the
// host as intents and show up locally once the host broadcasts the result.
type Client struct {
	diagram *state.Diagram
	conn    *websocket.Conn
	writeMu sync.Mutex

	// LocalAddr is how the host knows this client.
	LocalAddr string
}

// Dial connects to a share link or a plain host:port and mirrors the host
// into d.
func Dial(ctx context.Context, link string, d *state.Diagram) (*Client, error) {
	address, err := ParseLink(link)
	if err != nil {
		return nil, err
	}
	url := "ws://" + address + WebsocketPath
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", address, err)
	}
	log.Printf("[CLIENT] Connected to %s as %s", address, conn.LocalAddr())
	return &Client{
		diagram:   d,
		conn:      conn,
		LocalAddr: conn.LocalAddr().String(),
	}, nil
}

// Run applies host messages until the connection drops or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("disconnected from host: %w", err)
		}
		switch msg.Type {
		case MsgSnapshot:
			if msg.Snapshot != nil {
				c.diagram.Reset(*msg.Snapshot)
			}
		case MsgOp:
			if msg.Op != nil {
				c.diagram.Apply(*msg.Op)
			}
		default:
			log.Printf("[CLIENT] Ignoring '%s' from host", msg.Type)
		}
	}
}

// Close ends the session.
func (c *Client) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

func (c *Client) send(in Intent) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(Message{Type: MsgIntent, Intent: &in}); err != nil {
		log.Printf("[CLIENT] Failed to send %s: %v", in.Type, err)
	}
}

func (c *Client) AddShape(kind state.Kind) {
	c.send(Intent{Type: state.OpAddShape, Kind: kind})
}

func (c *Client) AddLine() {
	c.send(Intent{Type: state.OpAddLine})
}

func (c *Client) MoveShape(id string, x, y float32) {
	c.send(Intent{Type: state.OpMoveShape, ID: id, At: state.Point{X: x, Y: y}})
}

func (c *Client) MoveEndpoint(id string, e state.Endpoint, x, y float32) {
	c.send(Intent{Type: state.OpMoveEndpoint, ID: id, Endpoint: e, At: state.Point{X: x, Y: y}})
}
