package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	id := &Identity{
		UserID:    "claims-agent",
		SessionID: "sess-1",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	id.WithRemoteIP(net.ParseIP("10.0.0.1"))

	ctx := Set(context.Background(), id)

	got, ok := Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "claims-agent", got.UserID)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, "10.0.0.1", got.RemoteIP.String())
	assert.False(t, got.Anonymous)
}

func TestGetMissing(t *testing.T) {
	_, ok := Get(context.Background())
	assert.False(t, ok)
}

func TestAnonymousIdentity(t *testing.T) {
	id := AnonymousIdentity()
	assert.Equal(t, "anonymous", id.UserID)
	assert.True(t, id.Anonymous)
}
