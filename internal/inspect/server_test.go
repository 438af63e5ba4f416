package inspect

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MapColonies/cesium-standalone/internal/quadtree"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/gorilla/websocket"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func init() {
	logs.SetInlineEncoder()
	logs.SetLogger(func(e logs.Entry) {})
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(b, &msg))
	return msg
}

func TestServerBroadcastsPublishedStatistics(t *testing.T) {
	s := NewServer(10 * time.Millisecond)
	server := httptest.NewServer(s)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	conn := dial(t, server)
	require.Eventually(t, func() bool { return s.Clients() == 1 }, 5*time.Second, 5*time.Millisecond)

	s.Publish(quadtree.Statistics{FrameNumber: 42, TilesRendered: 7, AllTilesLoaded: true})

	msg := readMessage(t, conn)
	require.Equal(t, "statistics", msg.Type)
	require.Equal(t, uint64(42), msg.Stats.FrameNumber)
	require.Equal(t, 7, msg.Stats.TilesRendered)
	require.True(t, msg.Stats.AllTilesLoaded)
}

func TestServerSendsLatestOnConnect(t *testing.T) {
	s := NewServer(time.Hour)
	server := httptest.NewServer(s)
	defer server.Close()

	s.Publish(quadtree.Statistics{FrameNumber: 1})
	s.Publish(quadtree.Statistics{FrameNumber: 2})

	conn := dial(t, server)
	msg := readMessage(t, conn)
	require.Equal(t, uint64(2), msg.Stats.FrameNumber)
}

func TestServerRunStops(t *testing.T) {
	s := NewServer(10 * time.Millisecond)
	server := httptest.NewServer(s)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	conn := dial(t, server)
	require.Eventually(t, func() bool { return s.Clients() == 1 }, 5*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	require.Eventually(t, func() bool { return s.Clients() == 0 }, 5*time.Second, 5*time.Millisecond)
}
