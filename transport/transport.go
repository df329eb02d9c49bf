package transport

import (
	"context"
	"time"

	"github.com/touka-aoi/daytime-server/server/peer"
)

// Transport produces the bytes a connection worker writes on every tick.
type Transport interface {
	OnConnect(ctx context.Context, peer *peer.Peer) error
	OnTick(ctx context.Context, peer *peer.Peer, now time.Time) ([]byte, error)
	OnDisconnect(ctx context.Context, peer *peer.Peer) error
}
