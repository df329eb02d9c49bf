//go:build linux

package engine

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	terrr "github.com/touka-aoi/daytime-server/core/errors"
)

func TestListenAndAccept(t *testing.T) {
	l, err := Listen("tcp", "127.0.0.1:0", 5)
	require.NoError(t, err)
	defer l.Close()

	ep := l.Endpoint()
	assert.Equal(t, "ipv4", ep.Family)
	assert.Equal(t, 5, ep.Backlog)
	require.NotZero(t, ep.Port())

	client, err := net.Dial("tcp", ep.AddrPort.String())
	require.NoError(t, err)
	defer client.Close()

	conn, err := l.Accept()
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, client.LocalAddr().String(), conn.RemoteAddr().String())
}

func TestListenAddressInUse(t *testing.T) {
	first, err := Listen("tcp", "127.0.0.1:0", 5)
	require.NoError(t, err)
	defer first.Close()

	_, err = Listen("tcp", fmt.Sprintf("127.0.0.1:%d", first.Endpoint().Port()), 5)
	assert.ErrorIs(t, err, terrr.ErrAddressInUse)

	client, err := net.Dial("tcp", first.Endpoint().AddrPort.String())
	require.NoError(t, err)
	defer client.Close()

	conn, err := first.Accept()
	require.NoError(t, err)
	conn.Close()
}

func TestAcceptAfterClose(t *testing.T) {
	l, err := Listen("tcp", "127.0.0.1:0", 5)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = l.Accept()
	assert.True(t, errors.Is(err, net.ErrClosed), "got %v", err)
}

func TestListenErrors(t *testing.T) {
	tests := []struct {
		name     string
		protocol string
		address  string
	}{
		{name: "unsupported protocol", protocol: "udp", address: "127.0.0.1:0"},
		{name: "malformed address", protocol: "tcp", address: "localhost"},
		{name: "ipv6", protocol: "tcp", address: "[::1]:0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Listen(tt.protocol, tt.address, 5)
			assert.Error(t, err)
			assert.Nil(t, l)
		})
	}
}
