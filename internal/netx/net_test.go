package netx

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialWithRetry(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	conn, err := DialWithRetry(context.Background(), listener.Addr().String(), 0)
	require.NoError(t, err)
	require.NoError(t, conn.Close())
}

func TestDialWithRetry_GivesUp(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	_, err = DialWithRetry(context.Background(), addr, 1)
	assert.Error(t, err)
}
