package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(10, nil)
	require.NoError(t, err)
	clientB, err := hub.Register(10, nil)
	require.NoError(t, err)
	other, err := hub.Register(20, nil)
	require.NoError(t, err)

	assert.True(t, hub.IsOnline(10))
	assert.False(t, hub.IsOnline(30))

	hub.Broadcast(10, "hello")
	assert.Equal(t, "hello", string(<-clientA.Send))
	assert.Equal(t, "hello", string(<-clientB.Send))
	select {
	case <-other.Send:
		t.Fatal("user 20 must not receive user 10's notification")
	default:
	}

	hub.BroadcastAll("everyone")
	assert.Equal(t, "everyone", string(<-other.Send))
}

func TestHub_UnregisterRemovesClient(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(10, nil)
	require.NoError(t, err)
	assert.True(t, hub.IsOnline(10))

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(10))

	// Double unregister is harmless.
	hub.UnregisterClient(client)
	assert.Zero(t, hub.totalConns)
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(10, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(10, nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register(11, nil)
	assert.NoError(t, err)
}

func TestHub_ShutdownClearsConnections(t *testing.T) {
	hub := NewHub()

	_, err := hub.Register(10, nil)
	require.NoError(t, err)
	_, err = hub.Register(20, nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.False(t, hub.IsOnline(10))
	assert.False(t, hub.IsOnline(20))
	assert.Zero(t, hub.totalConns)
}
