//go:build linux

package engine

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/touka-aoi/daytime-server/core/core"
)

type Listener interface {
	// Accept blocks until a peer connects. Once the listener is closed it
	// returns an error satisfying errors.Is(err, net.ErrClosed).
	Accept() (net.Conn, error)
	Endpoint() Endpoint
	Close() error
}

type TCPListener struct {
	listener net.Listener
	endpoint Endpoint
}

// Listen binds externalAddress (IPv4 "host:port") and puts it into the
// listening state with the given backlog. Errors wrap terrr.ErrBind,
// terrr.ErrAddressInUse or terrr.ErrListen.
func Listen(protocol, externalAddress string, backlog int) (Listener, error) {
	switch protocol {
	case "tcp":
		addr, err := netip.ParseAddrPort(externalAddress)
		if err != nil {
			return nil, err
		}

		s, err := core.CreateTCPSocket()
		if err != nil {
			return nil, err
		}
		if err := s.Bind(addr); err != nil {
			s.Close()
			return nil, err
		}
		if err := s.Listen(backlog); err != nil {
			s.Close()
			return nil, err
		}

		bound, err := s.LocalAddrPort()
		if err != nil {
			s.Close()
			return nil, err
		}

		ln, err := s.FileListener()
		if err != nil {
			return nil, err
		}

		return &TCPListener{
			listener: ln,
			endpoint: Endpoint{
				Family:   "ipv4",
				AddrPort: bound,
				Backlog:  backlog,
			},
		}, nil
	}

	return nil, fmt.Errorf("unsupported protocol: %q", protocol)
}

func (l *TCPListener) Accept() (net.Conn, error) {
	return l.listener.Accept()
}

func (l *TCPListener) Endpoint() Endpoint {
	return l.endpoint
}

func (l *TCPListener) Close() error {
	err := l.listener.Close()
	if err != nil {
		return err
	}
	return nil
}
