package server

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/touka-aoi/daytime-server/server/peer"
	"github.com/touka-aoi/daytime-server/transport"
)

// worker は一つの peer だけを持ち、他の worker や listener と状態を共有しない
type worker struct {
	peer     *peer.Peer
	app      transport.Transport
	interval time.Duration
	now      func() time.Time
}

func (w *worker) run(ctx context.Context) {
	// ctx のキャンセルで書き込み中の接続も閉じる
	stop := context.AfterFunc(ctx, func() { w.peer.Close() })
	defer stop()

	defer w.release(ctx)
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Worker panicked", "sessionID", w.peer.SessionID, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()

	if err := w.app.OnConnect(ctx, w.peer); err != nil {
		slog.ErrorContext(ctx, "Application rejected connection", "sessionID", w.peer.SessionID, "error", err)
		return
	}
	defer func() {
		if err := w.app.OnDisconnect(ctx, w.peer); err != nil {
			slog.ErrorContext(ctx, "Application error", "sessionID", w.peer.SessionID, "error", err)
		}
	}()

	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		payload, err := w.app.OnTick(ctx, w.peer, w.now())
		if err != nil {
			slog.ErrorContext(ctx, "Application error", "sessionID", w.peer.SessionID, "error", err)
			return
		}

		if _, err := w.peer.Write(payload); err != nil {
			slog.InfoContext(ctx, "Peer write failed, closing connection", "sessionID", w.peer.SessionID, "remoteAddr", w.peer.RemoteAddr(), "error", err)
			return
		}

		timer.Reset(w.interval)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

func (w *worker) release(ctx context.Context) {
	if err := w.peer.Close(); err != nil {
		slog.WarnContext(ctx, "Failed to close peer", "sessionID", w.peer.SessionID, "error", err)
	}
	slog.DebugContext(ctx, "Connection released", "sessionID", w.peer.SessionID, "status", w.peer.Status())
}
