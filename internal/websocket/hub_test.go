package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is a Connection with no peer behind it. The pumps are not
// started in these tests, so the methods only need to satisfy the
// interface.
type fakeConn struct{}

func (fakeConn) WriteMessage(messageType int, data []byte) error { return nil }
func (fakeConn) ReadMessage() (int, []byte, error)               { select {} }
func (fakeConn) Close() error                                    { return nil }
func (fakeConn) SetReadDeadline(t time.Time) error               { return nil }
func (fakeConn) SetWriteDeadline(t time.Time) error              { return nil }
func (fakeConn) SetReadLimit(limit int64)                        {}
func (fakeConn) SetPongHandler(h func(string) error)             {}
func (fakeConn) RemoteAddr() string                              { return "127.0.0.1:12345" }

func startTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func registerTestClient(t *testing.T, hub *Hub) *Client {
	t.Helper()
	client := NewClientWithConnection(hub, fakeConn{}, nil)
	hub.Register(client)
	require.Eventually(t, func() bool {
		return hub.ClientCount() >= 1
	}, time.Second, 10*time.Millisecond)
	return client
}

func receiveMessage(t *testing.T, client *Client) map[string]any {
	t.Helper()
	select {
	case data := <-client.send:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubRegisterSendsConnectionMessage(t *testing.T) {
	hub := startTestHub(t)
	client := registerTestClient(t, hub)

	msg := receiveMessage(t, client)
	assert.Equal(t, TypeConnection, msg["type"])

	data, ok := msg["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "connected", data["status"])
	assert.NotEmpty(t, data["client_id"])
}

func TestBroadcastProgressReachesAllClients(t *testing.T) {
	hub := startTestHub(t)
	first := registerTestClient(t, hub)
	second := NewClientWithConnection(hub, fakeConn{}, nil)
	hub.Register(second)
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	// Discard the connection greetings.
	receiveMessage(t, first)
	receiveMessage(t, second)

	hub.BroadcastProgress("parse", "remit_20240115.835", 1, 3, "Parsing file")

	for _, client := range []*Client{first, second} {
		msg := receiveMessage(t, client)
		assert.Equal(t, TypeProgress, msg["type"])

		data, ok := msg["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "parse", data["stage"])
		assert.Equal(t, "remit_20240115.835", data["filename"])
		assert.Equal(t, float64(1), data["current"])
		assert.Equal(t, float64(3), data["total"])
	}
}

func TestBroadcastStatusAndError(t *testing.T) {
	hub := startTestHub(t)
	client := registerTestClient(t, hub)
	receiveMessage(t, client)

	hub.BroadcastStatus("running", "Run started")
	msg := receiveMessage(t, client)
	assert.Equal(t, TypeStatus, msg["type"])

	hub.BroadcastError("parse_failed", "bad interchange header", "parse")
	msg = receiveMessage(t, client)
	assert.Equal(t, TypeError, msg["type"])
	data := msg["data"].(map[string]any)
	assert.Equal(t, "parse_failed", data["code"])
}

func TestSlowClientEvicted(t *testing.T) {
	hub := startTestHub(t)
	client := registerTestClient(t, hub)

	// Fill the client's send buffer so the next broadcast cannot be
	// delivered.
	for {
		select {
		case client.send <- []byte("{}"):
			continue
		default:
		}
		break
	}

	hub.BroadcastStatus("running", "Run started")

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestStopClosesClients(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	client := registerTestClient(t, hub)
	receiveMessage(t, client)

	hub.Stop()

	select {
	case _, ok := <-client.send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after Stop")
	}
}
