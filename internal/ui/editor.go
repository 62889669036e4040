package ui

import "LocalDiagram/internal/state"

// Source is where the board reads the stores from.
type Source interface {
	Shapes() []state.Shape
	Lines() []state.Line
}

// Editor receives the toolbar commands and drag results. A local diagram
// applies them directly; a session client forwards them to the host.
type Editor interface {
	AddShape(kind state.Kind)
	AddLine()
	MoveShape(id string, x, y float32)
	MoveEndpoint(id string, e state.Endpoint, x, y float32)
}

// DiagramEditor edits a local diagram.
type DiagramEditor struct {
	Diagram *state.Diagram
}

func (e DiagramEditor) AddShape(kind state.Kind) { e.Diagram.AddShape(kind) }
func (e DiagramEditor) AddLine()                 { e.Diagram.AddLine() }

func (e DiagramEditor) MoveShape(id string, x, y float32) {
	e.Diagram.MoveShape(id, x, y)
}

func (e DiagramEditor) MoveEndpoint(id string, end state.Endpoint, x, y float32) {
	e.Diagram.MoveEndpoint(id, end, x, y)
}
