package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/touka-aoi/daytime-server/core/engine"
	terrr "github.com/touka-aoi/daytime-server/core/errors"
	"github.com/touka-aoi/daytime-server/server/peer"
	"github.com/touka-aoi/daytime-server/transport"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

type NetworkServerConfig struct {
	Protocol string
	Address  string
	Port     int
	Backlog  int
	// Interval は一つの接続に対する書き込みの間隔
	Interval time.Duration
}

func DefaultConfig() NetworkServerConfig {
	return NetworkServerConfig{
		Protocol: "tcp",
		Address:  "0.0.0.0",
		Port:     8080,
		Backlog:  5,
		Interval: time.Second,
	}
}

type SrvStatus int32

const (
	Idle SrvStatus = iota
	Running
	Stopped
)

var stateName = map[SrvStatus]string{
	Idle:    "idle",
	Running: "running",
	Stopped: "stopped",
}

func (s SrvStatus) String() string {
	return stateName[s]
}

type NetworkServer struct {
	listener engine.Listener
	config   NetworkServerConfig
	app      transport.Transport
	status   atomic.Int32
	active   atomic.Int64
	workers  sync.WaitGroup
}

func NewNetworkServer(config NetworkServerConfig, app transport.Transport) *NetworkServer {
	if config.Interval <= 0 {
		config.Interval = time.Second
	}
	return &NetworkServer{
		config: config,
		app:    app,
	}
}

// Listen binds the configured endpoint. Errors are fatal for the caller:
// they wrap terrr.ErrBind, terrr.ErrAddressInUse or terrr.ErrListen.
// Listen may be called only once per server.
func (ns *NetworkServer) Listen(ctx context.Context) error {
	if ns.listener != nil {
		return fmt.Errorf("already listening on %s", ns.listener.Endpoint())
	}
	addr := fmt.Sprintf("%s:%d", ns.config.Address, ns.config.Port)
	listener, err := engine.Listen(ns.config.Protocol, addr, ns.config.Backlog)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to listen", "address", addr, "error", err)
		return err
	}
	ns.listener = listener

	slog.InfoContext(ctx, "Listening on", "endpoint", listener.Endpoint().String())
	return nil
}

func (ns *NetworkServer) Endpoint() engine.Endpoint {
	if ns.listener == nil {
		return engine.Endpoint{}
	}
	return ns.listener.Endpoint()
}

func (ns *NetworkServer) Status() SrvStatus {
	return SrvStatus(ns.status.Load())
}

// ActiveWorkers returns the number of connection workers still running.
func (ns *NetworkServer) ActiveWorkers() int {
	return int(ns.active.Load())
}

// Serve は accept ループ。ctx がキャンセルされるまで戻らない。
// accept したら worker を起動してすぐ次の accept に戻る
func (ns *NetworkServer) Serve(ctx context.Context) error {
	if ns.listener == nil {
		return errors.New("server is not listening")
	}
	ns.status.Store(int32(Running))
	defer ns.status.Store(int32(Stopped))

	stop := context.AfterFunc(ctx, func() {
		if err := ns.listener.Close(); err != nil {
			slog.ErrorContext(context.Background(), "Failed to close listener", "error", err)
		}
	})
	defer stop()

	var acceptDelay time.Duration
	for {
		conn, err := ns.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				slog.InfoContext(ctx, "Listener closed")
				if ctx.Err() != nil {
					ns.workers.Wait()
				}
				return nil
			}

			err = fmt.Errorf("%w: %w", terrr.ErrAccept, err)
			if acceptDelay == 0 {
				acceptDelay = minAcceptDelay
			} else {
				acceptDelay = min(acceptDelay*2, maxAcceptDelay)
			}
			slog.ErrorContext(ctx, "Failed to accept connection", "error", err, "retryIn", acceptDelay)

			select {
			case <-ctx.Done():
			case <-time.After(acceptDelay):
			}
			continue
		}
		acceptDelay = 0

		ns.handleAccept(ctx, conn)
	}
}

func (ns *NetworkServer) handleAccept(ctx context.Context, conn net.Conn) {
	connPeer := peer.NewPeer(conn)
	slog.InfoContext(ctx, "Accepted new connection", "sessionID", connPeer.SessionID, "localAddr", connPeer.LocalAddr(), "remoteAddr", connPeer.RemoteAddr())

	w := &worker{
		peer:     connPeer,
		app:      ns.app,
		interval: ns.config.Interval,
		now:      time.Now,
	}

	ns.active.Add(1)
	ns.workers.Add(1)
	go func() {
		defer ns.workers.Done()
		defer ns.active.Add(-1)
		w.run(ctx)
	}()
}
