package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
)

func startTestServer(t *testing.T, hub *Hub) (*httptest.Server, *websocket.Conn) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r, slog.Default())
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return srv, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubSendsConnectionMessage(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	_, conn := startTestServer(t, hub)

	msg := readMessage(t, conn)
	assert.Equal(t, TypeConnection, msg["type"])
}

func TestHubBroadcastDatasetLoaded(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	_, conn := startTestServer(t, hub)
	readMessage(t, conn) // connection message

	// Wait for registration to land before broadcasting
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.BroadcastDatasetLoaded("ds-1", "shipment.xlsx", 42)

	msg := readMessage(t, conn)
	assert.Equal(t, TypeDatasetLoaded, msg["type"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "ds-1", data["id"])
	assert.Equal(t, "shipment.xlsx", data["name"])
	assert.Equal(t, float64(42), data["row_count"])
}

func TestHubBroadcastRowEdited(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	_, conn := startTestServer(t, hub)
	readMessage(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.BroadcastRowEdited("ds-1", 3)

	msg := readMessage(t, conn)
	assert.Equal(t, TypeRowEdited, msg["type"])
	data := msg["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["row_index"])
}

func TestHubClientCountAfterStop(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()

	_, conn := startTestServer(t, hub)
	readMessage(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Stop()
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubStartIsIdempotent(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	hub.Start()
	hub.Stop()
	hub.Stop()
}
