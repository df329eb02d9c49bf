//go:build linux

package engine

import (
	"fmt"
	"net/netip"
)

// Endpoint は bind/listen 済みのアドレス。作成後は変更しない
type Endpoint struct {
	Family   string
	AddrPort netip.AddrPort
	Backlog  int
}

func (e Endpoint) Port() uint16 {
	return e.AddrPort.Port()
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s/%s (backlog %d)", e.Family, e.AddrPort, e.Backlog)
}
