package daytime

import (
	"context"
	"log/slog"
	"time"

	"github.com/touka-aoi/daytime-server/server/peer"
	"github.com/touka-aoi/daytime-server/transport"
)

const Prefix = "Current date and time: "

// Format は asctime と同じ形式 (time.ANSIC) のローカル時刻を改行付きで返す
func Format(t time.Time) []byte {
	b := make([]byte, 0, len(Prefix)+len(time.ANSIC)+1)
	b = append(b, Prefix...)
	b = t.Local().AppendFormat(b, time.ANSIC)
	return append(b, '\n')
}

type DaytimeApp struct{}

func NewDaytimeApp() *DaytimeApp {
	return &DaytimeApp{}
}

func (d *DaytimeApp) OnConnect(ctx context.Context, peer *peer.Peer) error {
	slog.DebugContext(ctx, "Daytime stream started", "sessionID", peer.SessionID, "remoteAddr", peer.RemoteAddr())
	return nil
}

func (d *DaytimeApp) OnTick(ctx context.Context, peer *peer.Peer, now time.Time) ([]byte, error) {
	return Format(now), nil
}

func (d *DaytimeApp) OnDisconnect(ctx context.Context, peer *peer.Peer) error {
	slog.DebugContext(ctx, "Daytime stream ended", "sessionID", peer.SessionID, "remoteAddr", peer.RemoteAddr())
	return nil
}

var _ transport.Transport = (*DaytimeApp)(nil)
