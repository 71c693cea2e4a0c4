package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/promptdesk/server/internal/feed"
	"codeberg.org/promptdesk/server/internal/sessions"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(TypeFeedSnapshot, "owner-1", FeedSnapshotPayload{
		Sessions: []*sessions.Session{{ID: "s-1", Owner: "owner-1", Title: "hello"}},
		Count:    1,
	})
	require.NoError(t, err)

	assert.Equal(t, TypeFeedSnapshot, msg.Type)
	assert.Equal(t, "owner-1", msg.OwnerID)
	assert.False(t, msg.Timestamp.IsZero())

	var payload FeedSnapshotPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, "hello", payload.Sessions[0].Title)
}

func TestNewMessageNilPayload(t *testing.T) {
	msg, err := NewMessage(TypePong, "owner-1", nil)
	require.NoError(t, err)

	assert.Equal(t, TypePong, msg.Type)
	assert.Nil(t, msg.Payload)
}

func TestMessageOwnerNotSerialized(t *testing.T) {
	msg, err := NewMessage(TypePong, "owner-1", nil)
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "owner-1")
}

func TestClientSend(t *testing.T) {
	client := &Client{
		ID:      "test-client",
		OwnerID: "owner-1",
		send:    make(chan []byte, 256),
	}

	msg, err := NewMessage(TypeFeedSnapshot, "owner-1", FeedSnapshotPayload{Count: 0})
	require.NoError(t, err)

	require.NoError(t, client.Send(msg))

	select {
	case data := <-client.send:
		assert.Contains(t, string(data), TypeFeedSnapshot)
	default:
		t.Error("expected message to be queued")
	}
}

func TestClientSendError(t *testing.T) {
	client := &Client{
		ID:      "test-client",
		OwnerID: "owner-1",
		send:    make(chan []byte, 256),
	}

	client.SendError("bad_request", "unsupported message type", "chat_message")

	select {
	case msg := <-client.send:
		assert.Contains(t, string(msg), "bad_request")
		assert.Contains(t, string(msg), "unsupported message type")
	default:
		t.Error("expected error message to be sent")
	}
}

func TestClientSendAfterClose(t *testing.T) {
	client := &Client{
		ID:      "test-client",
		OwnerID: "owner-1",
		send:    make(chan []byte, 256),
	}

	client.Close()
	assert.True(t, client.IsClosed())

	msg, err := NewMessage(TypePong, "owner-1", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, client.Send(msg), ErrConnectionClosed)
}

func TestClientSendBufferFull(t *testing.T) {
	client := &Client{
		ID:      "test-client",
		OwnerID: "owner-1",
		send:    make(chan []byte, 1),
	}

	msg, err := NewMessage(TypePong, "owner-1", nil)
	require.NoError(t, err)

	require.NoError(t, client.Send(msg))

	// second send overflows the buffer and closes the client
	assert.ErrorIs(t, client.Send(msg), ErrConnectionClosed)
	assert.True(t, client.IsClosed())
}

func TestClientCloseIdempotent(t *testing.T) {
	client := &Client{
		ID:   "test-client",
		send: make(chan []byte, 256),
	}

	client.Close()

	assert.NotPanics(t, func() {
		client.Close()
	})
}

func TestNewClientID(t *testing.T) {
	id1 := NewClientID()
	id2 := NewClientID()

	_, err := uuid.Parse(id1)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestFeedPumpSendsShutdownNotice(t *testing.T) {
	hub := feed.NewHub(sessions.NewMemoryStore())
	go hub.Run()

	sub, err := hub.Subscribe(context.Background(), "owner-1", 0)
	require.NoError(t, err)

	client := NewClient("test-client", "owner-1", "127.0.0.1", nil, sub)

	done := make(chan struct{})
	go func() {
		client.FeedPump()
		close(done)
	}()

	// initial snapshot arrives on subscribe
	var msg Message
	require.NoError(t, json.Unmarshal(<-client.send, &msg))
	require.Equal(t, TypeFeedSnapshot, msg.Type)

	hub.Shutdown()
	<-done

	require.NoError(t, json.Unmarshal(<-client.send, &msg))
	assert.Equal(t, TypeServerShutdown, msg.Type)

	var payload ServerShutdownPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.NotEmpty(t, payload.Reason)
	assert.True(t, client.IsClosed())
}

func TestFeedPumpNoShutdownNoticeAfterClientClose(t *testing.T) {
	hub := feed.NewHub(sessions.NewMemoryStore())
	go hub.Run()

	sub, err := hub.Subscribe(context.Background(), "owner-1", 0)
	require.NoError(t, err)

	client := NewClient("test-client", "owner-1", "127.0.0.1", nil, sub)

	// client-initiated disconnect: close first, then drop the subscription
	client.Close()
	sub.Unsubscribe()

	done := make(chan struct{})
	go func() {
		client.FeedPump()
		close(done)
	}()
	<-done

	_, open := <-client.send
	assert.False(t, open, "no shutdown notice after the client hung up")
}
