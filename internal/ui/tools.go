package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"LocalDiagram/internal/state"
)

// Toolbar is the left panel holding the insert buttons and a status line.
type Toolbar struct {
	Content fyne.CanvasObject
	status  *widget.Label
}

// NewToolbar builds the toolbar. Every button sends its command through
// editor, which is looked up on each click so it can be swapped later.
func NewToolbar(board *BoardWidget, width float32) *Toolbar {
	tb := &Toolbar{status: widget.NewLabel("Ready")}
	tb.status.Wrapping = fyne.TextWrapWord

	title := widget.NewLabelWithStyle("Toolbar", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	buttons := container.NewVBox(
		title,
		widget.NewButton("Rectangle", func() { board.editor.AddShape(state.KindRectangle) }),
		widget.NewButton("Square", func() { board.editor.AddShape(state.KindSquare) }),
		widget.NewButton("Circle", func() { board.editor.AddShape(state.KindCircle) }),
		widget.NewButton("Add Line", func() { board.editor.AddLine() }),
		widget.NewSeparator(),
		tb.status,
	)

	// Reserve the full toolbar width regardless of button sizes.
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(width, 0))

	tb.Content = container.NewStack(spacer, buttons)
	return tb
}

// SetStatus updates the status line from the UI goroutine.
func (tb *Toolbar) SetStatus(text string) {
	tb.status.SetText(text)
}

// PostStatus updates the status line from any goroutine.
func (tb *Toolbar) PostStatus(text string) {
	fyne.Do(func() {
		tb.status.SetText(text)
	})
}
