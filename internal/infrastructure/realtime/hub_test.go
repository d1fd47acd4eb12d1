package realtime

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/avantpro-social/internal/domain/ports"
	"github.com/rafabene/avantpro-social/internal/infrastructure/logging"
)

func newTestServer(t *testing.T, hub *Hub) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub(logging.NewSlogLoggerTo(io.Discard, "error"))
	url := newTestServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck

	waitClients(t, hub, 1)

	hub.Publish(ports.Event{Type: ports.EventPostPending, Payload: map[string]any{"post_id": 3}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ports.EventPostPending, got["type"])
	assert.Contains(t, string(data), `"post_id":3`)
}

func TestHub_RemovesClosedClients(t *testing.T) {
	hub := NewHub(logging.NewSlogLoggerTo(io.Discard, "error"))
	url := newTestServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	waitClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitClients(t, hub, 0)
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(logging.NewSlogLoggerTo(io.Discard, "error"))
	assert.NotPanics(t, func() {
		hub.Publish(ports.Event{Type: ports.EventPostDeleted})
	})
}
