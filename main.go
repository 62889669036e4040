package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"fyne.io/fyne/v2"

	"LocalDiagram/internal/config"
	boardnet "LocalDiagram/internal/net"
	"LocalDiagram/internal/state"
	"LocalDiagram/internal/ui"
)

const discoverTimeout = 3 * time.Second

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the TOML config file")
	host := flag.Bool("host", false, "share the diagram on the local network")
	join := flag.String("join", "", `join a shared diagram: a share link, host:port, or "auto" to discover one`)
	seed := flag.Int64("seed", 0, "seed for shape placement (0 = from the clock)")
	flag.Parse()

	// Opening a share link launches us with the link as the only argument.
	if flag.NArg() > 0 && strings.HasPrefix(flag.Arg(0), boardnet.LinkScheme) {
		*join = flag.Arg(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Using default config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	a := ui.NewApp()
	switch {
	case *join != "":
		runClient(a, cfg, *join)
	case *host:
		runHost(a, cfg)
	default:
		runLocal(a, cfg)
	}
}

func newDiagram(cfg config.Config) *state.Diagram {
	if cfg.Seed == 0 {
		return state.NewDiagram(nil)
	}
	return state.NewDiagram(rand.New(rand.NewSource(cfg.Seed)))
}

func windowSize(cfg config.Config) fyne.Size {
	return fyne.NewSize(cfg.Window.Width, cfg.Window.Height)
}

func refreshOnChange(d *state.Diagram, board *ui.BoardWidget) {
	d.OnChange = func() {
		fyne.Do(board.Refresh)
	}
}

func runLocal(a fyne.App, cfg config.Config) {
	d := newDiagram(cfg)
	board := ui.NewBoardWidget(d, ui.DiagramEditor{Diagram: d}, cfg.ToolbarWidth)
	refreshOnChange(d, board)
	toolbar := ui.NewToolbar(board, cfg.ToolbarWidth)
	ui.RunApp(a, cfg.Window.Title, windowSize(cfg), board, toolbar)
}

func runHost(a fyne.App, cfg config.Config) {
	log.Println("Starting as HOST")
	d := newDiagram(cfg)
	host := boardnet.NewHost(d)
	board := ui.NewBoardWidget(d, host, cfg.ToolbarWidth)
	refreshOnChange(d, board)
	toolbar := ui.NewToolbar(board, cfg.ToolbarWidth)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := cfg.Share.Port
	go func() {
		if err := host.ListenAndServe(ctx, port); err != nil {
			log.Printf("[HOST] %v", err)
			toolbar.PostStatus(fmt.Sprintf("Sharing failed: %v", err))
		}
	}()

	if cfg.Share.Advertise {
		server, err := boardnet.Advertise(port)
		if err != nil {
			log.Printf("[MDNS] %v", err)
		} else {
			defer server.Shutdown()
		}
	}

	ip, err := boardnet.GetOutgoingIP()
	if err != nil {
		log.Printf("[HOST] %v", err)
		ip = "127.0.0.1"
	}
	link := boardnet.ShareLink(ip, port)
	log.Printf("[HOST] Share link: %s", link)
	toolbar.SetStatus("Share link: " + link)

	ui.RunApp(a, cfg.Window.Title+" (hosting)", windowSize(cfg), board, toolbar)
}

// offlineEditor drops edits made before the client is connected; applying
// them locally would fork the mirror from the host.
type offlineEditor struct{}

func (offlineEditor) AddShape(state.Kind) {
	log.Println("[CLIENT] Not connected yet")
}

func (offlineEditor) AddLine() {
	log.Println("[CLIENT] Not connected yet")
}

func (offlineEditor) MoveShape(string, float32, float32) {}

func (offlineEditor) MoveEndpoint(string, state.Endpoint, float32, float32) {}

func runClient(a fyne.App, cfg config.Config, link string) {
	log.Println("Starting as CLIENT")
	d := state.NewDiagram(nil)
	board := ui.NewBoardWidget(d, offlineEditor{}, cfg.ToolbarWidth)
	refreshOnChange(d, board)
	toolbar := ui.NewToolbar(board, cfg.ToolbarWidth)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go connectToHost(ctx, link, d, board, toolbar)

	ui.RunApp(a, cfg.Window.Title+" (joined)", windowSize(cfg), board, toolbar)
}

func connectToHost(ctx context.Context, link string, d *state.Diagram, board *ui.BoardWidget, toolbar *ui.Toolbar) {
	if link == "auto" {
		toolbar.PostStatus("Looking for a host...")
		found, err := boardnet.FindHost(discoverTimeout)
		if err != nil {
			toolbar.PostStatus(fmt.Sprintf("Discovery failed: %v", err))
			return
		}
		link = found
	}

	client, err := boardnet.Dial(ctx, link, d)
	if err != nil {
		toolbar.PostStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer client.Close()

	fyne.Do(func() { board.SetEditor(client) })
	toolbar.PostStatus("Connected to host as " + client.LocalAddr)

	err = client.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return
	}
	fyne.Do(func() { board.SetEditor(offlineEditor{}) })
	toolbar.PostStatus(err.Error())
	log.Printf("[CLIENT] %v", err)
}
