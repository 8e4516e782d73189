package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvents map[string]bool

func (f fakeEvents) EventExists(_ context.Context, eventID string) (bool, error) {
	return f[eventID], nil
}

func setup(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	handler := NewHandler(hub, fakeEvents{"evt-1": true, "evt-2": true}, zerolog.Nop())
	router := gin.New()
	router.GET("/events/:id/announcements/ws", handler.HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-hub.Done()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, eventID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events/" + eventID + "/announcements/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, eventID string, n int) {
	t.Helper()
	assert.Eventually(t, func() bool { return hub.GetClientsCount(eventID) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastReachesOnlyEventSubscribers(t *testing.T) {
	hub, srv := setup(t)

	first := dial(t, srv, "evt-1")
	second := dial(t, srv, "evt-2")
	waitForClients(t, hub, "evt-1", 1)
	waitForClients(t, hub, "evt-2", 1)

	hub.Broadcast("evt-1", []byte(`{"message":"doors open"}`))

	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := first.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"doors open"}`, string(data))

	require.NoError(t, second.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = second.ReadMessage()
	assert.Error(t, err)
}

func TestUnknownEventIsRejected(t *testing.T) {
	_, srv := setup(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events/missing/announcements/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub, srv := setup(t)

	conn := dial(t, srv, "evt-1")
	waitForClients(t, hub, "evt-1", 1)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()
	waitForClients(t, hub, "evt-1", 0)
}
