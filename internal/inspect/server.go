// Package inspect streams per-frame surface statistics to websocket clients.
package inspect

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/MapColonies/cesium-standalone/internal/quadtree"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/gorilla/websocket"
	"github.com/segmentio/encoding/json"
)

const writeTimeout = time.Second

// Message is the JSON document sent to clients.
type Message struct {
	Type  string              `json:"type"`
	Time  time.Time           `json:"time"`
	Stats quadtree.Statistics `json:"stats"`
}

// Server upgrades HTTP requests to websockets and broadcasts the latest
// published statistics at a fixed interval.
type Server struct {
	interval time.Duration
	upgrader websocket.Upgrader

	clientsMutex sync.RWMutex
	clients      map[*websocket.Conn]*sync.Mutex

	latestMutex sync.Mutex
	latest      []byte
	version     uint64
}

func NewServer(interval time.Duration) *Server {
	if interval <= 0 {
		interval = time.Second
	}
	return &Server{
		interval: interval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Publish records the statistics to send on the next broadcast. It is safe
// to call from the frame loop while Run is broadcasting.
func (s *Server) Publish(stats quadtree.Statistics) {
	b, err := json.Marshal(Message{
		Type:  "statistics",
		Time:  time.Now(),
		Stats: stats,
	})
	if err != nil {
		logs.Warn(errors.New("encoding statistics failed").Wrap(err))
		return
	}

	s.latestMutex.Lock()
	s.latest = b
	s.version++
	s.latestMutex.Unlock()
}

func (s *Server) snapshot() ([]byte, uint64) {
	s.latestMutex.Lock()
	defer s.latestMutex.Unlock()
	return s.latest, s.version
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logs.Warn(errors.New("websocket upgrade failed").
			WithTag("remote_addr", r.RemoteAddr).
			Wrap(err))
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	if latest, _ := s.snapshot(); latest != nil {
		s.write(conn, connMutex, latest)
	}

	s.clientsMutex.Lock()
	s.clients[conn] = connMutex
	s.clientsMutex.Unlock()
	defer func() {
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.clientsMutex.Unlock()
	}()

	logs.WithTag("remote_addr", r.RemoteAddr).Info("inspect client connected")

	// Clients only listen. Reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			logs.WithTag("remote_addr", r.RemoteAddr).
				WithTag("reason", err.Error()).
				Info("inspect client disconnected")
			return
		}
	}
}

// Run broadcasts newly published statistics every interval until ctx is
// done.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var sent uint64
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return nil

		case <-ticker.C:
			latest, version := s.snapshot()
			if latest == nil || version == sent {
				continue
			}
			sent = version
			s.broadcast(latest)
		}
	}
}

func (s *Server) broadcast(msg []byte) {
	var failed []*websocket.Conn

	s.clientsMutex.RLock()
	for conn, connMutex := range s.clients {
		if err := s.write(conn, connMutex, msg); err != nil {
			failed = append(failed, conn)
		}
	}
	s.clientsMutex.RUnlock()

	if len(failed) == 0 {
		return
	}
	s.clientsMutex.Lock()
	for _, conn := range failed {
		delete(s.clients, conn)
		conn.Close()
	}
	s.clientsMutex.Unlock()
}

func (s *Server) write(conn *websocket.Conn, connMutex *sync.Mutex, msg []byte) error {
	connMutex.Lock()
	defer connMutex.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, msg)
}

func (s *Server) closeAll() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	for conn, connMutex := range s.clients {
		connMutex.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"),
			time.Now().Add(writeTimeout))
		connMutex.Unlock()
		conn.Close()
	}
}
