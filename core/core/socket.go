//go:build linux

package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"os"
	"unsafe"

	terrr "github.com/touka-aoi/daytime-server/core/errors"
	"golang.org/x/sys/unix"
)

type sockAddr struct {
	Family uint16
	Data   [14]byte
}

type Socket struct {
	Fd        int32
	LocalAddr string
}

func CreateTCPSocket() (*Socket, error) {
	fd, _, errno := unix.Syscall6(
		unix.SYS_SOCKET,
		unix.AF_INET,
		unix.SOCK_STREAM|unix.SOCK_CLOEXEC,
		0,
		0,
		0,
		0)

	if errno != 0 {
		slog.Error("Failed to create socket", "errno", errno, "err", errno.Error())
		return nil, fmt.Errorf("create socket: %w", errno)
	}

	opVal := int32(1)
	_, _, errno = unix.Syscall6(unix.SYS_SETSOCKOPT, fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, uintptr(unsafe.Pointer(&opVal)), unsafe.Sizeof(opVal), 0)
	if errno != 0 {
		slog.Error("Failed to set socket option", "errno", errno, "err", errno.Error())
		unix.Close(int(fd))
		return nil, fmt.Errorf("set SO_REUSEADDR: %w", errno)
	}

	return &Socket{Fd: int32(fd)}, nil
}

// Bind は IPv4 アドレスにだけ対応している
func (s *Socket) Bind(address netip.AddrPort) error {
	// https://man7.org/linux/man-pages/man2/bind.2.html
	addr := address.Addr().Unmap()
	if !addr.Is4() {
		return fmt.Errorf("%w: %s is not an IPv4 address", terrr.ErrBind, address)
	}

	sockaddr := sockAddr{
		Family: unix.AF_INET,
	}

	binary.BigEndian.PutUint16(sockaddr.Data[:], address.Port())
	ip := addr.As4()
	copy(sockaddr.Data[2:6], ip[:])

	_, _, errno := unix.Syscall6(
		unix.SYS_BIND,
		uintptr(s.Fd),
		uintptr(unsafe.Pointer(&sockaddr)),
		uintptr(unsafe.Sizeof(sockaddr)),
		0,
		0,
		0)

	if errno != 0 {
		if errno == unix.EADDRINUSE {
			return fmt.Errorf("%w: %s: %w", terrr.ErrAddressInUse, address, errno)
		}
		return fmt.Errorf("%w: %s: %w", terrr.ErrBind, address, errno)
	}

	s.LocalAddr = address.String()
	return nil
}

func (s *Socket) Listen(backlog int) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_LISTEN,
		uintptr(s.Fd),
		uintptr(backlog),
		0,
		0,
		0,
		0)

	if errno != 0 {
		slog.Error("Failed to listen", "errno", errno, "err", errno.Error())
		return fmt.Errorf("%w: backlog %d: %w", terrr.ErrListen, backlog, errno)
	}

	return nil
}

// LocalAddrPort はカーネルが割り当てたポートも含めて返す (port 0 で bind した場合)
func (s *Socket) LocalAddrPort() (netip.AddrPort, error) {
	sa, err := unix.Getsockname(int(s.Fd))
	if err != nil {
		return netip.AddrPort{}, err
	}
	sa4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return netip.AddrPort{}, errors.New("socket is not bound to an IPv4 address")
	}
	return netip.AddrPortFrom(netip.AddrFrom4(sa4.Addr), uint16(sa4.Port)), nil
}

// FileListener は listen 済みの fd を Go のランタイムポーラーに渡す。
// net.FileListener は fd を dup するので元の fd はここで閉じる。呼び出し後 Socket は使えない
func (s *Socket) FileListener() (net.Listener, error) {
	f := os.NewFile(uintptr(s.Fd), "tcp:"+s.LocalAddr)
	defer f.Close()
	s.Fd = -1

	ln, err := net.FileListener(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", terrr.ErrListen, err)
	}
	return ln, nil
}

func (s *Socket) Close() error {
	if s.Fd < 0 {
		return nil
	}
	_, _, errno := unix.Syscall6(unix.SYS_CLOSE, uintptr(s.Fd), 0, 0, 0, 0, 0)
	if errno != 0 {
		return errno
	}
	s.Fd = -1
	return nil
}
