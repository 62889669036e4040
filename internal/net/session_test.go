package net

import (
	"context"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"LocalDiagram/internal/state"
)

type session struct {
	host   *Host
	hostD  *state.Diagram
	server *httptest.Server
}

func newSession(t *testing.T) *session {
	t.Helper()
	d := state.NewDiagram(rand.New(rand.NewSource(3)))
	h := NewHost(d)
	srv := httptest.NewServer(h.Handler())
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return &session{host: h, hostD: d, server: srv}
}

// join connects a mirror diagram and returns it with a channel that ticks on
// every change.
func (s *session) join(t *testing.T) (*Client, *state.Diagram, <-chan struct{}) {
	t.Helper()
	d := state.NewDiagram(nil)
	changed := make(chan struct{}, 64)
	d.OnChange = func() { changed <- struct{}{} }

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	c, err := Dial(ctx, strings.TrimPrefix(s.server.URL, "http://"), d)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	go c.Run(ctx)

	// The snapshot always arrives first.
	waitChange(t, changed)
	return c, d, changed
}

func waitChange(t *testing.T, changed <-chan struct{}) {
	t.Helper()
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a diagram change")
	}
}

func waitFor(t *testing.T, changed <-chan struct{}, cond func() bool) {
	t.Helper()
	for !cond() {
		waitChange(t, changed)
	}
}

func TestJoinReceivesSnapshot(t *testing.T) {
	s := newSession(t)
	s.host.AddShape(state.KindCircle)
	s.host.AddLine()

	_, d, _ := s.join(t)

	if diff := cmp.Diff(s.hostD.Snapshot(), d.Snapshot()); diff != "" {
		t.Errorf("mirror mismatch (-host +client):\n%s", diff)
	}
}

func TestHostEditsReachPeers(t *testing.T) {
	s := newSession(t)
	_, d, changed := s.join(t)

	s.host.AddShape(state.KindRectangle)
	s.host.MoveShape("shape_1", 40, 40)

	waitFor(t, changed, func() bool {
		shapes := d.Shapes()
		return len(shapes) == 1 && shapes[0].X == 40
	})
	if diff := cmp.Diff(s.hostD.Shapes(), d.Shapes()); diff != "" {
		t.Errorf("mirror mismatch (-host +client):\n%s", diff)
	}
}

func TestPeerIntentsAreAppliedByHost(t *testing.T) {
	s := newSession(t)
	c1, d1, changed1 := s.join(t)
	_, d2, changed2 := s.join(t)

	c1.AddShape(state.KindSquare)
	c1.AddLine()
	c1.MoveEndpoint("line_1", state.EndpointEnd, 310, 300)
	c1.MoveEndpoint("line_1", state.EndpointEnd, 320, 305)

	done := func(d *state.Diagram) func() bool {
		return func() bool {
			lines := d.Lines()
			return len(d.Shapes()) == 1 && len(lines) == 1 && lines[0].End == state.Point{X: 320, Y: 305}
		}
	}
	waitFor(t, changed1, done(d1))
	waitFor(t, changed2, done(d2))

	want := s.hostD.Snapshot()
	if want.Shapes[0].ID != "shape_1" || want.Shapes[0].Width != 100 {
		t.Errorf("host shape = %+v", want.Shapes[0])
	}
	for i, d := range []*state.Diagram{d1, d2} {
		if diff := cmp.Diff(want, d.Snapshot()); diff != "" {
			t.Errorf("client %d mismatch (-host +client):\n%s", i+1, diff)
		}
	}
}

func TestClosedPeerIsForgotten(t *testing.T) {
	s := newSession(t)
	c, _, _ := s.join(t)
	if got := s.host.PeerCount(); got != 1 {
		t.Fatalf("PeerCount = %d, want 1", got)
	}

	c.Close()

	deadline := time.Now().Add(5 * time.Second)
	for s.host.PeerCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("host still tracks the closed peer")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestParseLink(t *testing.T) {
	tests := []struct {
		link, want string
		ok         bool
	}{
		{"localdiagram://192.168.1.5:8888", "192.168.1.5:8888", true},
		{"localdiagram://192.168.1.5:8888/", "192.168.1.5:8888", true},
		{"127.0.0.1:9000", "127.0.0.1:9000", true},
		{"localdiagram://nohost", "", false},
		{"localdiagram://:8888", "", false},
	}
	for _, tt := range tests {
		got, err := ParseLink(tt.link)
		if (err == nil) != tt.ok {
			t.Errorf("ParseLink(%q) error = %v, want ok=%v", tt.link, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLink(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestShareLinkRoundTrip(t *testing.T) {
	link := ShareLink("10.0.0.2", 8888)
	if link != "localdiagram://10.0.0.2:8888" {
		t.Errorf("ShareLink = %q", link)
	}
	if got, err := ParseLink(link); err != nil || got != "10.0.0.2:8888" {
		t.Errorf("ParseLink(ShareLink) = %q, %v", got, err)
	}
}
