package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func startHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	go hub.Run()

	r := gin.New()
	r.GET("/ws", ServeWS(hub))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
	})

	// Registration is asynchronous; give the hub loop a beat to pick the
	// session up before publishing.
	time.Sleep(50 * time.Millisecond)
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	return env
}

func TestHub_BroadcastReachesAllSessions(t *testing.T) {
	hub, srv := startHubServer(t)

	first := dialWS(t, srv)
	second := dialWS(t, srv)

	hub.Publish("taskCreated", map[string]any{"id": 7, "title": "Ship it"})

	for _, conn := range []*websocket.Conn{first, second} {
		env := readEnvelope(t, conn)
		require.Equal(t, "taskCreated", env.Event)

		data, ok := env.Data.(map[string]any)
		require.True(t, ok)
		require.EqualValues(t, 7, data["id"])
		require.Equal(t, "Ship it", data["title"])
	}
}

// A session that disconnects before a broadcast simply misses it; the
// remaining sessions are unaffected.
func TestHub_DisconnectedSessionMissesEvents(t *testing.T) {
	hub, srv := startHubServer(t)

	leaver := dialWS(t, srv)
	stayer := dialWS(t, srv)

	hub.Publish("projectCreated", map[string]any{"id": 1})
	require.Equal(t, "projectCreated", readEnvelope(t, leaver).Event)
	require.Equal(t, "projectCreated", readEnvelope(t, stayer).Event)

	require.NoError(t, leaver.Close())
	time.Sleep(50 * time.Millisecond)

	hub.Publish("projectDeleted", map[string]any{"id": 1})

	// The stayer's next frame is the new event, with nothing replayed and
	// nothing dropped.
	require.Equal(t, "projectDeleted", readEnvelope(t, stayer).Event)
}

func TestHub_PublishWithoutSessions(t *testing.T) {
	hub, _ := startHubServer(t)

	// Nothing to deliver to; must not block or panic.
	hub.Publish("taskDeleted", map[string]any{"id": 3})
}
