package net

import "LocalDiagram/internal/state"

type MessageType string

const (
	// MsgSnapshot is sent by the host once, right after a peer connects.
	MsgSnapshot MessageType = "snapshot"
	// MsgOp carries a mutation the host applied.
	MsgOp MessageType = "op"
	// MsgIntent asks the host to perform an edit.
	MsgIntent MessageType = "intent"
)

// Message is the JSON frame exchanged over the websocket.
type Message struct {
	Type     MessageType     `json:"type"`
	Snapshot *state.Snapshot `json:"snapshot,omitempty"`
	Op       *state.Op       `json:"op,omitempty"`
	Intent   *Intent         `json:"intent,omitempty"`
}

// Intent is an edit requested by a peer. The host fills in ids and random
// positions, so only the inputs of each edit travel.
type Intent struct {
	Type     state.OpType   `json:"type"`
	Kind     state.Kind     `json:"kind,omitempty"`
	ID       string         `json:"id,omitempty"`
	Endpoint state.Endpoint `json:"endpoint,omitempty"`
	At       state.Point    `json:"at"`
}
