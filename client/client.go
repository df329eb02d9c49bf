// Package client consumes the raw byte stream the daytime server pushes.
package client

import (
	"context"
	"errors"
	"io"
	"iter"
	"net"
	"sync/atomic"
)

// DefaultBufferSize is the most a single receive returns.
const DefaultBufferSize = 256

type Client struct {
	conn     net.Conn
	bufSize  int
	consumed atomic.Bool
	err      error
}

func Dial(ctx context.Context, address string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, DefaultBufferSize), nil
}

func NewClient(conn net.Conn, bufSize int) *Client {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Client{
		conn:    conn,
		bufSize: bufSize,
	}
}

// Chunks yields whatever each receive returned, as-is. The sequence ends on
// end-of-stream or on the first receive error and can be ranged over once;
// later calls yield nothing. The yielded slice is reused between steps.
func (c *Client) Chunks() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		if !c.consumed.CompareAndSwap(false, true) {
			return
		}
		buf := make([]byte, c.bufSize)
		for {
			n, err := c.conn.Read(buf)
			if n > 0 {
				if !yield(buf[:n]) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					c.err = err
				}
				return
			}
		}
	}
}

// Err reports the receive error that ended Chunks, nil on a clean end of stream.
func (c *Client) Err() error {
	return c.err
}

func (c *Client) Close() error {
	return c.conn.Close()
}
