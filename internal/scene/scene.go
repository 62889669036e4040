// Package scene turns the diagram stores into the list of primitives the
// board draws. Build is a pure function of its inputs; the same stores always
// give the same drawables.
package scene

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"golang.org/x/image/colornames"

	"LocalDiagram/internal/state"
)

type Prim int

const (
	PrimRect Prim = iota
	PrimCircle
	PrimSegment
	PrimHandle
)

// DragMode says when a drag on the primitive is written back to the store.
type DragMode int

const (
	DragNone DragMode = iota
	// DragOnEnd commits once, when the gesture ends.
	DragOnEnd
	// DragContinuous commits on every movement frame.
	DragContinuous
)

const (
	StrokeWidth  float32 = 2
	HandleRadius float32 = 8
)

var (
	BoxFill     color.Color = colornames.Lightblue
	CircleFill  color.Color = colornames.Lightgreen
	StrokeColor color.Color = colornames.Black
	StartFill   color.Color = colornames.Red
	EndFill     color.Color = colornames.Blue
)

// Target names the store record a drawable writes back to.
type Target struct {
	ShapeID  string
	LineID   string
	Endpoint state.Endpoint
}

// Drawable is one primitive of the scene. Pos is the top-left corner for
// rects and the center for circles and handles; segments run from Pos to To.
type Drawable struct {
	Key         string
	Prim        Prim
	Pos         fyne.Position
	Size        fyne.Size
	Radius      float32
	To          fyne.Position
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float32
	Drag        DragMode
	Target      Target
}

// Viewport is the drawing surface size.
type Viewport struct {
	Width, Height float32
}

// ViewportFor reserves toolbarWidth on the left of the window.
func ViewportFor(window fyne.Size, toolbarWidth float32) Viewport {
	w := window.Width - toolbarWidth
	if w < 0 {
		w = 0
	}
	h := window.Height
	if h < 0 {
		h = 0
	}
	return Viewport{Width: w, Height: h}
}

// Build lists shapes in store order, then each line as its segment followed
// by its start and end handles. Later entries draw on top.
func Build(shapes []state.Shape, lines []state.Line) []Drawable {
	out := make([]Drawable, 0, len(shapes)+3*len(lines))
	for i, s := range shapes {
		if d, ok := shapeDrawable(i, s); ok {
			out = append(out, d)
		}
	}
	for i, l := range lines {
		out = append(out, lineDrawables(i, l)...)
	}
	return out
}

func shapeDrawable(i int, s state.Shape) (Drawable, bool) {
	d := Drawable{
		Key:         fmt.Sprintf("shape/%d", i),
		Pos:         fyne.NewPos(s.X, s.Y),
		Stroke:      StrokeColor,
		StrokeWidth: StrokeWidth,
		Drag:        DragOnEnd,
		Target:      Target{ShapeID: s.ID},
	}
	switch {
	case s.IsBox():
		d.Prim = PrimRect
		d.Size = fyne.NewSize(s.Width, s.Height)
		d.Fill = BoxFill
	case s.Kind == state.KindCircle:
		d.Prim = PrimCircle
		d.Radius = s.Radius
		d.Fill = CircleFill
	default:
		return Drawable{}, false
	}
	return d, true
}

func lineDrawables(i int, l state.Line) []Drawable {
	start := fyne.NewPos(l.Start.X, l.Start.Y)
	end := fyne.NewPos(l.End.X, l.End.Y)
	return []Drawable{
		{
			Key:         fmt.Sprintf("line/%d", i),
			Prim:        PrimSegment,
			Pos:         start,
			To:          end,
			Stroke:      StrokeColor,
			StrokeWidth: StrokeWidth,
			Target:      Target{LineID: l.ID},
		},
		handle(i, l.ID, state.EndpointStart, start, StartFill),
		handle(i, l.ID, state.EndpointEnd, end, EndFill),
	}
}

func handle(i int, id string, e state.Endpoint, at fyne.Position, fill color.Color) Drawable {
	return Drawable{
		Key:    fmt.Sprintf("line/%d/%s", i, e),
		Prim:   PrimHandle,
		Pos:    at,
		Radius: HandleRadius,
		Fill:   fill,
		Drag:   DragContinuous,
		Target: Target{LineID: id, Endpoint: e},
	}
}
