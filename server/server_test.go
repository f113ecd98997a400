package server

import (
	"context"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"mandelbulb/config"
	"mandelbulb/core"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, *core.PointCloud) {
	t.Helper()
	settings := config.Default()
	settings.Fractal.Detail = 6

	cloud, err := core.Generate(settings.Params())
	if err != nil {
		t.Fatal(err)
	}
	s := New(settings, cloud)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts, cloud
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func waitForClients(t *testing.T, s *Server, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for s.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", s.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeHome(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "THREE.Points") {
		t.Error("home page does not contain the point cloud viewer")
	}

	resp, err = http.Get(ts.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", resp.StatusCode)
	}
}

func TestWebSocketSession(t *testing.T) {
	s, ts, cloud := newTestServer(t)
	conn := dial(t, ts)

	var pc PointCloudMessage
	if err := conn.ReadJSON(&pc); err != nil {
		t.Fatalf("read point cloud: %v", err)
	}
	if pc.Type != "point_cloud" {
		t.Fatalf("first message type = %q", pc.Type)
	}
	if len(pc.Positions) != 3*cloud.Len() || len(pc.Colors) != 3*cloud.Len() {
		t.Errorf("got %d positions and %d colors, want %d each", len(pc.Positions), len(pc.Colors), 3*cloud.Len())
	}
	if pc.PointSize != 0.01 || pc.FOV != 75 {
		t.Errorf("viewer settings not forwarded: size %v fov %v", pc.PointSize, pc.FOV)
	}

	var initial ViewUpdateMessage
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial view: %v", err)
	}
	if initial.Type != "view_update" || initial.Distance != 4 || initial.Rotation != 0 {
		t.Errorf("initial view = %+v", initial)
	}

	waitForClients(t, s, 1)

	if err := conn.WriteJSON(map[string]float64{"zoomDelta": 100}); err != nil {
		t.Fatal(err)
	}

	// Input is applied asynchronously; step until it shows up
	var update ViewUpdateMessage
	for i := 0; i < 100; i++ {
		s.step()
		if err := conn.ReadJSON(&update); err != nil {
			t.Fatalf("read update: %v", err)
		}
		if math.Abs(update.Distance-3.9) < 1e-9 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if math.Abs(update.Distance-3.9) > 1e-9 {
		t.Fatalf("distance = %v, want 3.9", update.Distance)
	}
	if update.Rotation <= 0 {
		t.Errorf("rotation did not advance: %v", update.Rotation)
	}
}

func TestZoomFloorSharedAcrossClients(t *testing.T) {
	s, _, _ := newTestServer(t)

	huge := 1e9
	s.applyInput(ClientMessage{ZoomDelta: &huge})
	if got := s.viewUpdate().Distance; got != 0.1 {
		t.Errorf("distance = %v, want floor 0.1", got)
	}

	back := -100.0
	s.applyInput(ClientMessage{TouchDelta: &back})
	if got := s.viewUpdate().Distance; math.Abs(got-0.2) > 1e-9 {
		t.Errorf("distance = %v, want 0.2", got)
	}
}

func TestDisconnectRemovesClient(t *testing.T) {
	s, ts, _ := newTestServer(t)
	conn := dial(t, ts)

	var pc PointCloudMessage
	var vu ViewUpdateMessage
	if err := conn.ReadJSON(&pc); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&vu); err != nil {
		t.Fatal(err)
	}
	waitForClients(t, s, 1)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitForClients(t, s, 0)
}

func TestRunStopsOnCancel(t *testing.T) {
	settings := config.Default()
	settings.Fractal.Detail = 2
	settings.Server.Port = 0
	cloud, err := core.Generate(settings.Params())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(settings, cloud).Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestOversizedMessageDropsClient(t *testing.T) {
	s, ts, _ := newTestServer(t)
	conn := dial(t, ts)

	var pc PointCloudMessage
	var initial ViewUpdateMessage
	if err := conn.ReadJSON(&pc); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatal(err)
	}
	waitForClients(t, s, 1)

	msg := `{"zoomDelta": 100, "pad": "` + strings.Repeat("x", 2*maxMessageSize) + `"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatal(err)
	}

	// The server closes the connection instead of decoding the message
	_, _, err := conn.ReadMessage()
	var ne net.Error
	if err == nil || (errors.As(err, &ne) && ne.Timeout()) {
		t.Fatalf("read after oversized message: %v, want connection closed", err)
	}
	waitForClients(t, s, 0)

	if d := s.viewUpdate().Distance; d != initial.Distance {
		t.Errorf("Distance = %v, oversized zoom should not apply (want %v)", d, initial.Distance)
	}
}
