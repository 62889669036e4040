package ui

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/colornames"

	"LocalDiagram/internal/scene"
)

// BoardWidget is the drawing surface. It redraws the whole scene from the
// stores on every refresh.
type BoardWidget struct {
	widget.BaseWidget
	source       Source
	editor       Editor
	toolbarWidth float32
	drag         *dragState
}

// dragState tracks one pointer gesture. A gesture that started on empty
// canvas has active == false and is ignored until it ends.
type dragState struct {
	active bool
	target scene.Drawable
	origin fyne.Position
	offset fyne.Delta
}

func (d *dragState) position() fyne.Position {
	return d.origin.AddXY(d.offset.DX, d.offset.DY)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)

func NewBoardWidget(source Source, editor Editor, toolbarWidth float32) *BoardWidget {
	b := &BoardWidget{
		source:       source,
		editor:       editor,
		toolbarWidth: toolbarWidth,
	}
	b.ExtendBaseWidget(b)
	return b
}

// SetEditor swaps where edits are sent, e.g. after joining a session.
func (b *BoardWidget) SetEditor(e Editor) {
	b.editor = e
}

// Drawables returns the current scene, including the preview offset of a
// shape being dragged.
func (b *BoardWidget) Drawables() []scene.Drawable {
	ds := scene.Build(b.source.Shapes(), b.source.Lines())
	if b.drag == nil || !b.drag.active || b.drag.target.Drag != scene.DragOnEnd {
		return ds
	}
	for i := range ds {
		if ds[i].Key == b.drag.target.Key {
			ds[i].Pos = b.drag.position()
		}
	}
	return ds
}

// Viewport is the window size minus the toolbar, measured when called.
func (b *BoardWidget) Viewport() scene.Viewport {
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(b); c != nil {
			return scene.ViewportFor(c.Size(), b.toolbarWidth)
		}
	}
	size := b.Size()
	return scene.Viewport{Width: size.Width, Height: size.Height}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.drag == nil {
		b.drag = b.grab(e.Position.SubtractXY(e.Dragged.DX, e.Dragged.DY))
	}
	if !b.drag.active {
		return
	}
	b.drag.offset.DX += e.Dragged.DX
	b.drag.offset.DY += e.Dragged.DY
	pos := b.drag.position()

	t := b.drag.target
	switch t.Drag {
	case scene.DragContinuous:
		b.editor.MoveEndpoint(t.Target.LineID, t.Target.Endpoint, pos.X, pos.Y)
	case scene.DragOnEnd:
		b.Refresh()
	}
}

func (b *BoardWidget) DragEnd() {
	d := b.drag
	b.drag = nil
	if d == nil || !d.active {
		return
	}
	if d.target.Drag == scene.DragOnEnd {
		pos := d.position()
		log.Printf("[BOARD] Dropped %s at (%.1f, %.1f)", d.target.Target.ShapeID, pos.X, pos.Y)
		b.editor.MoveShape(d.target.Target.ShapeID, pos.X, pos.Y)
	}
	b.Refresh()
}

func (b *BoardWidget) grab(at fyne.Position) *dragState {
	ds := scene.Build(b.source.Shapes(), b.source.Lines())
	i, ok := scene.HitTest(ds, at)
	if !ok {
		return &dragState{}
	}
	return &dragState{active: true, target: ds[i], origin: ds[i].Pos}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	r.background.StrokeColor = colornames.Grey
	r.background.StrokeWidth = 1
	r.rebuild()
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *boardWidgetRenderer) rebuild() {
	vp := r.board.Viewport()
	r.background.Move(fyne.NewPos(0, 0))
	r.background.Resize(fyne.NewSize(vp.Width, vp.Height))

	ds := r.board.Drawables()
	objects := make([]fyne.CanvasObject, 0, len(ds)+1)
	objects = append(objects, r.background)
	for _, d := range ds {
		objects = append(objects, toCanvasObject(d))
	}
	r.objects = objects
}

func toCanvasObject(d scene.Drawable) fyne.CanvasObject {
	switch d.Prim {
	case scene.PrimSegment:
		l := canvas.NewLine(d.Stroke)
		l.StrokeWidth = d.StrokeWidth
		l.Position1 = d.Pos
		l.Position2 = d.To
		return l
	case scene.PrimCircle, scene.PrimHandle:
		c := canvas.NewCircle(d.Fill)
		c.StrokeColor = d.Stroke
		c.StrokeWidth = d.StrokeWidth
		pos, size := scene.Bounds(d)
		c.Move(pos)
		c.Resize(size)
		return c
	default:
		rect := canvas.NewRectangle(d.Fill)
		rect.StrokeColor = d.Stroke
		rect.StrokeWidth = d.StrokeWidth
		rect.Move(d.Pos)
		rect.Resize(d.Size)
		return rect
	}
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *boardWidgetRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Layout(fyne.Size) {
	r.rebuild()
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
