package ui

import (
	"math/rand"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/google/go-cmp/cmp"

	"LocalDiagram/internal/state"
)

func newTestBoard(t *testing.T) (*BoardWidget, *state.Diagram) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	d := state.NewDiagram(rand.New(rand.NewSource(7)))
	b := NewBoardWidget(d, DiagramEditor{Diagram: d}, 200)
	d.OnChange = b.Refresh
	b.Resize(fyne.NewSize(800, 600))
	return b, d
}

func drag(b *BoardWidget, from fyne.Position, steps ...fyne.Delta) {
	pos := from
	for _, s := range steps {
		pos = pos.AddXY(s.DX, s.DY)
		b.Dragged(&fyne.DragEvent{
			PointEvent: fyne.PointEvent{Position: pos},
			Dragged:    s,
		})
	}
}

func TestShapeCommitsOnDragEnd(t *testing.T) {
	b, d := newTestBoard(t)
	d.AddShape(state.KindSquare)
	s := d.Shapes()[0]

	drag(b, fyne.NewPos(s.X+10, s.Y+10), fyne.NewDelta(5, 5), fyne.NewDelta(10, 10))

	if got := d.Shapes()[0]; got.X != s.X || got.Y != s.Y {
		t.Fatalf("shape moved mid-drag to (%v, %v)", got.X, got.Y)
	}
	if got := b.Drawables()[0].Pos; got != fyne.NewPos(s.X+15, s.Y+15) {
		t.Errorf("preview at %v, want (%v, %v)", got, s.X+15, s.Y+15)
	}

	b.DragEnd()

	got := d.Shapes()[0]
	if got.X != s.X+15 || got.Y != s.Y+15 {
		t.Errorf("shape at (%v, %v), want (%v, %v)", got.X, got.Y, s.X+15, s.Y+15)
	}
	if got.Width != 100 || got.Height != 100 {
		t.Errorf("geometry changed to %vx%v", got.Width, got.Height)
	}
}

func TestHandleCommitsEveryFrame(t *testing.T) {
	b, d := newTestBoard(t)
	d.AddLine()

	drag(b, fyne.NewPos(300, 300), fyne.NewDelta(10, 0))
	if diff := cmp.Diff(state.Point{X: 310, Y: 300}, d.Lines()[0].End); diff != "" {
		t.Errorf("end after first frame (-want +got):\n%s", diff)
	}

	drag(b, fyne.NewPos(310, 300), fyne.NewDelta(10, 5))
	b.DragEnd()

	want := state.Line{ID: "line_1", Start: state.DefaultLineStart, End: state.Point{X: 320, Y: 305}}
	if diff := cmp.Diff(want, d.Lines()[0]); diff != "" {
		t.Errorf("line mismatch (-want +got):\n%s", diff)
	}
	if got := b.Drawables()[0].To; got != fyne.NewPos(320, 305) {
		t.Errorf("segment end = %v, want (320,305)", got)
	}
}

func TestDragFromEmptyCanvasIsIgnored(t *testing.T) {
	b, d := newTestBoard(t)
	d.AddLine()
	before := d.Snapshot()

	// Sweeps across the start handle at (150,150) after starting on nothing.
	drag(b, fyne.NewPos(140, 100), fyne.NewDelta(10, 50), fyne.NewDelta(0, 10))
	b.DragEnd()

	if diff := cmp.Diff(before, d.Snapshot()); diff != "" {
		t.Errorf("store changed (-want +got):\n%s", diff)
	}
}

func TestRendererTracksStores(t *testing.T) {
	b, d := newTestBoard(t)
	r := test.WidgetRenderer(b)
	if got := len(r.Objects()); got != 1 {
		t.Fatalf("empty board has %d objects, want 1", got)
	}

	d.AddShape(state.KindCircle)
	d.AddShape(state.Kind("star"))
	d.AddLine()

	// background + circle + segment + two handles
	if got := len(r.Objects()); got != 5 {
		t.Errorf("board has %d objects, want 5", got)
	}
}

func TestToolbarButtons(t *testing.T) {
	b, d := newTestBoard(t)
	tb := NewToolbar(b, 200)
	box := tb.Content.(*fyne.Container).Objects[1].(*fyne.Container)

	var buttons []*widget.Button
	for _, o := range box.Objects {
		if btn, ok := o.(*widget.Button); ok {
			buttons = append(buttons, btn)
		}
	}
	if len(buttons) != 4 {
		t.Fatalf("toolbar has %d buttons, want 4", len(buttons))
	}
	for _, btn := range buttons {
		test.Tap(btn)
	}

	var kinds []state.Kind
	for _, s := range d.Shapes() {
		kinds = append(kinds, s.Kind)
	}
	want := []state.Kind{state.KindRectangle, state.KindSquare, state.KindCircle}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("shape kinds (-want +got):\n%s", diff)
	}
	if got := len(d.Lines()); got != 1 {
		t.Errorf("len(Lines()) = %d, want 1", got)
	}
}
