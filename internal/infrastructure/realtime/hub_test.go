package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConn(userID string) *Connection {
	return NewConnection(userID, nil)
}

func received(t *testing.T, c *Connection) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	default:
		return nil
	}
}

func TestHub_BroadcastToRoom(t *testing.T) {
	hub := NewHub()
	alice := testConn("alice")
	bob := testConn("bob")
	carol := testConn("carol")
	hub.Attach(alice)
	hub.Attach(bob)
	hub.Attach(carol)
	hub.Join("m1", alice)
	hub.Join("m1", bob)
	// carol never joins m1

	delivered := hub.Broadcast("m1", []byte(`{"event":"x"}`), "")
	assert.Equal(t, 2, delivered)
	assert.NotNil(t, received(t, alice))
	assert.NotNil(t, received(t, bob))
	assert.Nil(t, received(t, carol))
}

func TestHub_BroadcastExcludesSender(t *testing.T) {
	hub := NewHub()
	alice := testConn("alice")
	bob := testConn("bob")
	hub.Attach(alice)
	hub.Attach(bob)
	hub.Join("m1", alice)
	hub.Join("m1", bob)

	delivered := hub.Broadcast("m1", []byte("line"), "alice")
	assert.Equal(t, 1, delivered)
	assert.Nil(t, received(t, alice))
	assert.Equal(t, []byte("line"), received(t, bob))
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	alice := testConn("alice")
	bob := testConn("bob")
	hub.Attach(alice)
	hub.Attach(bob)
	hub.Join("m1", alice)
	hub.Join("m1", bob)

	hub.Leave("m1", bob)
	delivered := hub.Broadcast("m1", []byte("x"), "")
	assert.Equal(t, 1, delivered)
	assert.Nil(t, received(t, bob))
	assert.Empty(t, hub.Rooms(bob))
}

func TestHub_JoinIsIdempotent(t *testing.T) {
	hub := NewHub()
	alice := testConn("alice")
	hub.Attach(alice)
	hub.Join("m1", alice)
	hub.Join("m1", alice)

	assert.Equal(t, 1, hub.Broadcast("m1", []byte("x"), ""))
	assert.Equal(t, []string{"m1"}, hub.Rooms(alice))
}

func TestHub_JoinRequiresAttachedSession(t *testing.T) {
	hub := NewHub()
	ghost := testConn("ghost")
	hub.Join("m1", ghost)

	assert.Equal(t, 0, hub.Broadcast("m1", []byte("x"), ""))
}

func TestHub_DetachClearsAllMemberships(t *testing.T) {
	hub := NewHub()
	alice := testConn("alice")
	hub.Attach(alice)
	hub.Join("m1", alice)
	hub.Join("m2", alice)

	hub.Detach(alice)
	assert.Equal(t, 0, hub.Broadcast("m1", []byte("x"), ""))
	assert.Equal(t, 0, hub.Broadcast("m2", []byte("x"), ""))
	assert.False(t, hub.NotifyUser("alice", []byte("x")))
}

func TestHub_AttachSwapsExistingUserSession(t *testing.T) {
	hub := NewHub()
	first := testConn("alice")
	hub.Attach(first)
	hub.Join("m1", first)

	second := testConn("alice")
	hub.Attach(second)

	// The first session is closed and out of its rooms.
	select {
	case <-first.close:
	default:
		t.Fatal("expected first session to be closed")
	}
	assert.Equal(t, 0, hub.Broadcast("m1", []byte("x"), ""))

	require.True(t, hub.NotifyUser("alice", []byte("hi")))
	assert.Equal(t, []byte("hi"), received(t, second))
}

func TestHub_NotifyUserWithoutRoom(t *testing.T) {
	hub := NewHub()
	alice := testConn("alice")
	hub.Attach(alice)

	assert.True(t, hub.NotifyUser("alice", []byte("invite")))
	assert.Equal(t, []byte("invite"), received(t, alice))
	assert.False(t, hub.NotifyUser("nobody", []byte("invite")))
}

func TestHub_CloseTerminatesEverything(t *testing.T) {
	hub := NewHub()
	alice := testConn("alice")
	bob := testConn("bob")
	hub.Attach(alice)
	hub.Attach(bob)
	hub.Join("m1", alice)

	hub.Close()

	select {
	case <-alice.close:
	default:
		t.Fatal("expected alice's session to be closed")
	}
	assert.Equal(t, 0, hub.Broadcast("m1", []byte("x"), ""))
	assert.False(t, hub.NotifyUser("bob", []byte("x")))
}
