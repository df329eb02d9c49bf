package peer

import (
	"net"
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Peer は accept した接続を一つだけ持つ。所有者は一つの worker だけ
type Peer struct {
	SessionID  string
	conn       net.Conn
	localAddr  netip.AddrPort
	remoteAddr netip.AddrPort
	status     atomic.Int32
	LastActive atomic.Int64
}

func NewPeer(conn net.Conn) *Peer {
	sessionID := uuid.NewString()
	p := &Peer{
		SessionID:  sessionID,
		conn:       conn,
		localAddr:  addrPortOf(conn.LocalAddr()),
		remoteAddr: addrPortOf(conn.RemoteAddr()),
	}
	p.LastActive.Store(time.Now().UnixNano())
	return p
}

func addrPortOf(addr net.Addr) netip.AddrPort {
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		ap := tcpAddr.AddrPort()
		return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
	}
	if addr == nil {
		return netip.AddrPort{}
	}
	ap, err := netip.ParseAddrPort(addr.String())
	if err != nil {
		return netip.AddrPort{}
	}
	return ap
}

func (p *Peer) LocalAddr() netip.AddrPort {
	return p.localAddr
}

func (p *Peer) RemoteAddr() netip.AddrPort {
	return p.remoteAddr
}

func (p *Peer) State() ConnState {
	return ConnState(p.status.Load())
}

func (p *Peer) Status() string {
	return p.State().String()
}

func (p *Peer) Write(b []byte) (int, error) {
	n, err := p.conn.Write(b)
	if err != nil {
		return n, err
	}
	p.LastActive.Store(time.Now().UnixNano())
	return n, nil
}

// Close is idempotent; only the first call closes the connection.
func (p *Peer) Close() error {
	if !p.status.CompareAndSwap(int32(StateRunning), int32(StateClosed)) {
		return nil
	}
	return p.conn.Close()
}
