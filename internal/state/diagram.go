package state

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

// Diagram owns the shape store and the line store. Both are append-only and
// keep insertion order, which is also the drawing order.
type Diagram struct {
	shapes []Shape
	lines  []Line
	rng    *rand.Rand
	clock  Clock
	siteID string
	mu     sync.RWMutex

	// OnChange runs after every mutation, local or remote.
	OnChange func()
	// OnLocalOp runs after every mutation made through this diagram's own
	// editing methods. Ops applied with Apply or Reset do not trigger it.
	OnLocalOp func(Op)
}

// NewDiagram returns an empty diagram. A nil rng is seeded from the clock.
func NewDiagram(rng *rand.Rand) *Diagram {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Diagram{
		shapes: make([]Shape, 0),
		lines:  make([]Line, 0),
		rng:    rng,
		siteID: newSiteID(),
	}
}

// SiteID identifies this diagram instance in emitted ops.
func (d *Diagram) SiteID() string {
	return d.siteID
}

// AddShape appends a new shape of the given kind at a random position.
func (d *Diagram) AddShape(kind Kind) Shape {
	d.mu.Lock()
	s := Shape{
		ID:   fmt.Sprintf("shape_%d", len(d.shapes)+1),
		Kind: kind,
		X:    d.rng.Float32() * SpawnRange,
		Y:    d.rng.Float32() * SpawnRange,
	}
	switch kind {
	case KindRectangle:
		s.Width, s.Height = RectangleWidth, RectangleHeight
	case KindSquare:
		s.Width, s.Height = SquareSide, SquareSide
	case KindCircle:
		s.Radius = CircleRadius
	}
	d.shapes = append(d.shapes, s)
	d.mu.Unlock()

	log.Printf("[STATE] Added %s %s at (%.1f, %.1f)", kind, s.ID, s.X, s.Y)
	shape := s
	d.emit(Op{Type: OpAddShape, Shape: &shape})
	return s
}

// AddLine appends a new line between the default endpoints.
func (d *Diagram) AddLine() Line {
	d.mu.Lock()
	l := Line{
		ID:    fmt.Sprintf("line_%d", len(d.lines)+1),
		Start: DefaultLineStart,
		End:   DefaultLineEnd,
	}
	d.lines = append(d.lines, l)
	d.mu.Unlock()

	log.Printf("[STATE] Added line %s", l.ID)
	line := l
	d.emit(Op{Type: OpAddLine, Line: &line})
	return l
}

// MoveShape sets the position of the first shape with the given id. It
// reports false and changes nothing if no shape matches.
func (d *Diagram) MoveShape(id string, x, y float32) bool {
	d.mu.Lock()
	ok := d.moveShape(id, x, y)
	d.mu.Unlock()
	if !ok {
		return false
	}
	d.emit(Op{Type: OpMoveShape, ID: id, At: Point{X: x, Y: y}})
	return true
}

// MoveEndpoint sets one endpoint of the first line with the given id, leaving
// the other endpoint alone. Unknown ids and endpoint names are ignored.
func (d *Diagram) MoveEndpoint(id string, e Endpoint, x, y float32) bool {
	d.mu.Lock()
	ok := d.moveEndpoint(id, e, x, y)
	d.mu.Unlock()
	if !ok {
		return false
	}
	d.emit(Op{Type: OpMoveEndpoint, ID: id, Endpoint: e, At: Point{X: x, Y: y}})
	return true
}

func (d *Diagram) moveShape(id string, x, y float32) bool {
	for i := range d.shapes {
		if d.shapes[i].ID == id {
			d.shapes[i].X, d.shapes[i].Y = x, y
			return true
		}
	}
	return false
}

func (d *Diagram) moveEndpoint(id string, e Endpoint, x, y float32) bool {
	for i := range d.lines {
		if d.lines[i].ID != id {
			continue
		}
		switch e {
		case EndpointStart:
			d.lines[i].Start = Point{X: x, Y: y}
		case EndpointEnd:
			d.lines[i].End = Point{X: x, Y: y}
		default:
			return false
		}
		return true
	}
	return false
}

// Shapes returns a copy of the shape store in insertion order.
func (d *Diagram) Shapes() []Shape {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Shape, len(d.shapes))
	copy(out, d.shapes)
	return out
}

// Lines returns a copy of the line store in insertion order.
func (d *Diagram) Lines() []Line {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

func (d *Diagram) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := Snapshot{
		Shapes: make([]Shape, len(d.shapes)),
		Lines:  make([]Line, len(d.lines)),
	}
	copy(snap.Shapes, d.shapes)
	copy(snap.Lines, d.lines)
	return snap
}

// Reset replaces both stores with the snapshot content.
func (d *Diagram) Reset(snap Snapshot) {
	d.mu.Lock()
	d.shapes = append(make([]Shape, 0, len(snap.Shapes)), snap.Shapes...)
	d.lines = append(make([]Line, 0, len(snap.Lines)), snap.Lines...)
	d.mu.Unlock()

	log.Printf("[STATE] Reset to %d shapes, %d lines", len(snap.Shapes), len(snap.Lines))
	d.changed()
}

// Apply merges an op produced by another diagram. Add ops append the carried
// record verbatim. It reports whether the stores changed.
func (d *Diagram) Apply(op Op) bool {
	d.clock.Observe(op.Lamport)

	d.mu.Lock()
	ok := false
	switch op.Type {
	case OpAddShape:
		if op.Shape != nil {
			d.shapes = append(d.shapes, *op.Shape)
			ok = true
		}
	case OpAddLine:
		if op.Line != nil {
			d.lines = append(d.lines, *op.Line)
			ok = true
		}
	case OpMoveShape:
		ok = d.moveShape(op.ID, op.At.X, op.At.Y)
	case OpMoveEndpoint:
		ok = d.moveEndpoint(op.ID, op.Endpoint, op.At.X, op.At.Y)
	}
	d.mu.Unlock()

	if !ok {
		log.Printf("[STATE] Ignored remote %s from site %s", op.Type, op.Site)
		return false
	}
	d.changed()
	return true
}

func (d *Diagram) emit(op Op) {
	op.Lamport = d.clock.Tick()
	op.Site = d.siteID
	if d.OnLocalOp != nil {
		d.OnLocalOp(op)
	}
	d.changed()
}

func (d *Diagram) changed() {
	if d.OnChange != nil {
		d.OnChange()
	}
}
