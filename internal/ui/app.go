package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
)

const appID = "io.localdiagram"

// NewApp starts the Fyne application. It must run before any widget is built.
func NewApp() fyne.App {
	return app.NewWithID(appID)
}

// RunApp opens the main window with the toolbar on the left of the board and
// blocks until it is closed.
func RunApp(myApp fyne.App, title string, size fyne.Size, board *BoardWidget, toolbar *Toolbar) {
	myWindow := myApp.NewWindow(title)
	myWindow.Resize(size)

	content := container.NewBorder(nil, nil, toolbar.Content, nil, board)

	myWindow.SetContent(content)
	myWindow.ShowAndRun()
}
