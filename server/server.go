// Package server streams the point cloud and a shared, rotating view to
// browsers over WebSocket.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mandelbulb/config"
	"mandelbulb/core"
	"mandelbulb/view"
)

//go:embed index.html
var indexHTML []byte

// maxMessageSize bounds a single client message. Input messages are a few
// dozen bytes of JSON.
const maxMessageSize = 4096

// PointCloudMessage is sent once when a client connects
type PointCloudMessage struct {
	Type       string     `json:"type"`
	Positions  []float32  `json:"positions"`
	Colors     []float32  `json:"colors"`
	PointSize  float64    `json:"pointSize"`
	FOV        float64    `json:"fov"`
	Near       float64    `json:"near"`
	Far        float64    `json:"far"`
	Background [3]float64 `json:"background"`
}

// ViewUpdateMessage is broadcast every update interval
type ViewUpdateMessage struct {
	Type     string  `json:"type"`
	Rotation float64 `json:"rotation"`
	Distance float64 `json:"distance"`
}

// ClientMessage carries input from a browser
type ClientMessage struct {
	ZoomDelta  *float64 `json:"zoomDelta,omitempty"`
	TouchDelta *float64 `json:"touchDelta,omitempty"`
}

type Server struct {
	settings *config.Settings
	cloud    *PointCloudMessage
	upgrader websocket.Upgrader

	stateMutex sync.Mutex
	state      *view.State

	clientsMutex sync.RWMutex
	clients      map[*websocket.Conn]*sync.Mutex
}

func New(settings *config.Settings, cloud *core.PointCloud) *Server {
	positions, colors := cloud.Float32()
	return &Server{
		settings: settings,
		cloud: &PointCloudMessage{
			Type:       "point_cloud",
			Positions:  positions,
			Colors:     colors,
			PointSize:  settings.Viewer.PointSize,
			FOV:        settings.Viewer.FOV,
			Near:       settings.Viewer.Near,
			Far:        settings.Viewer.Far,
			Background: settings.Viewer.Background,
		},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		state:   view.New(settings.Viewer),
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHome)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.settings.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.viewLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Server starting on http://localhost%s\n", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	// Send the cloud, then the current view so the client starts in sync.
	// Broadcasts only reach the client once it is registered below.
	if err := conn.WriteJSON(s.cloud); err != nil {
		log.Println("WebSocket write error:", err)
		return
	}
	if err := conn.WriteJSON(s.viewUpdate()); err != nil {
		log.Println("WebSocket write error:", err)
		return
	}

	s.clientsMutex.Lock()
	s.clients[conn] = &sync.Mutex{}
	count := len(s.clients)
	s.clientsMutex.Unlock()
	log.Printf("Client connected from %s (%d total)", r.RemoteAddr, count)

	defer func() {
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.clientsMutex.Unlock()
		log.Printf("Client %s disconnected", r.RemoteAddr)
	}()

	// Handle incoming zoom input
	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("WebSocket read error:", err)
			}
			return
		}
		s.applyInput(msg)
	}
}

func (s *Server) applyInput(msg ClientMessage) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	if msg.ZoomDelta != nil {
		s.state.Zoom(*msg.ZoomDelta)
	}
	if msg.TouchDelta != nil {
		s.state.TouchDrag(*msg.TouchDelta)
	}
}

func (s *Server) viewLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(s.settings.Server.UpdateIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.step()
		}
	}
}

// step advances the shared rotation and pushes it to every client
func (s *Server) step() {
	s.stateMutex.Lock()
	s.state.Advance()
	s.stateMutex.Unlock()

	s.broadcast(s.viewUpdate())
}

func (s *Server) viewUpdate() ViewUpdateMessage {
	s.stateMutex.Lock()
	snap := s.state.Snapshot()
	s.stateMutex.Unlock()

	return ViewUpdateMessage{
		Type:     "view_update",
		Rotation: snap.Rotation,
		Distance: snap.Distance,
	}
}

func (s *Server) broadcast(msg interface{}) {
	s.clientsMutex.RLock()
	clientsToRemove := []*websocket.Conn{}
	for client, mutex := range s.clients {
		mutex.Lock()
		client.SetWriteDeadline(time.Now().Add(time.Second))
		err := client.WriteJSON(msg)
		mutex.Unlock()
		if err != nil {
			log.Println("WebSocket write error:", err)
			client.Close()
			clientsToRemove = append(clientsToRemove, client)
		}
	}
	s.clientsMutex.RUnlock()

	// Remove failed clients
	if len(clientsToRemove) > 0 {
		s.clientsMutex.Lock()
		for _, client := range clientsToRemove {
			delete(s.clients, client)
		}
		s.clientsMutex.Unlock()
	}
}

func (s *Server) closeClients() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for client, mutex := range s.clients {
		mutex.Lock()
		client.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		mutex.Unlock()
		client.Close()
	}
}

// ClientCount returns the number of connected browsers
func (s *Server) ClientCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}
