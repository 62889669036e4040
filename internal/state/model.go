package state

// Kind names the shape a record draws as.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindSquare    Kind = "square"
	KindCircle    Kind = "circle"
)

// Geometry fixed at creation, per kind.
const (
	RectangleWidth  float32 = 150
	RectangleHeight float32 = 100
	SquareSide      float32 = 100
	CircleRadius    float32 = 50

	// SpawnRange bounds the random initial position of a new shape.
	SpawnRange float32 = 500
)

// Default endpoints of a new line.
var (
	DefaultLineStart = Point{X: 150, Y: 150}
	DefaultLineEnd   = Point{X: 300, Y: 300}
)

type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Shape is a rectangle, square or circle on the board. X and Y are the
// top-left corner for boxes and the center for circles. Width/Height are set
// only for boxes, Radius only for circles; an unrecognized kind has neither.
type Shape struct {
	ID     string  `json:"id"`
	Kind   Kind    `json:"kind"`
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width,omitempty"`
	Height float32 `json:"height,omitempty"`
	Radius float32 `json:"radius,omitempty"`
}

// IsBox reports whether the shape is drawn as a rectangle.
func (s Shape) IsBox() bool {
	return s.Kind == KindRectangle || s.Kind == KindSquare
}

// Endpoint selects one end of a line.
type Endpoint string

const (
	EndpointStart Endpoint = "start"
	EndpointEnd   Endpoint = "end"
)

// Line is a straight connector with two independently movable endpoints.
type Line struct {
	ID    string `json:"id"`
	Start Point  `json:"start"`
	End   Point  `json:"end"`
}

// At returns the position of the given endpoint.
func (l Line) At(e Endpoint) (Point, bool) {
	switch e {
	case EndpointStart:
		return l.Start, true
	case EndpointEnd:
		return l.End, true
	}
	return Point{}, false
}

type OpType string

const (
	OpAddShape     OpType = "add_shape"
	OpAddLine      OpType = "add_line"
	OpMoveShape    OpType = "move_shape"
	OpMoveEndpoint OpType = "move_endpoint"
)

// Op describes one applied mutation. Add ops carry the full record so a peer
// reproduces the exact id and random position.
type Op struct {
	Type     OpType   `json:"type"`
	Shape    *Shape   `json:"shape,omitempty"`
	Line     *Line    `json:"line,omitempty"`
	ID       string   `json:"id,omitempty"`
	Endpoint Endpoint `json:"endpoint,omitempty"`
	At       Point    `json:"at"`
	Lamport  uint64   `json:"lamport"`
	Site     string   `json:"site"`
}

// Snapshot is the full content of both stores.
type Snapshot struct {
	Shapes []Shape `json:"shapes"`
	Lines  []Line  `json:"lines"`
}
