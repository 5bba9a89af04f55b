// Package datachannel sends compressed result envelopes to the low-latency
// peer over a best-effort UDP side channel. Delivery is never confirmed: for
// this channel late data is worse than lost data, so payloads are dropped on
// any failure and the handle is recreated on the next send.
package datachannel

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
)

const logPrefix = "datachannel:conn"

// DefaultMaxPayloadSize is the largest payload accepted by Send. Payloads
// above this would be fragmented or dropped by the peer's datagram path.
const DefaultMaxPayloadSize = 1400

// Conn is a lazily created, connectionless send handle to a fixed peer
// endpoint. All sends are fully serialized under one lock so the handle is
// never used and replaced concurrently.
type Conn struct {
	addr       string
	maxPayload int

	mu   sync.Mutex
	sock net.Conn
	dial func(addr string) (net.Conn, error)
}

// NewConn creates a Conn for the given peer host and port. maxPayload of zero
// or less falls back to DefaultMaxPayloadSize.
func NewConn(host string, port int, maxPayload int) *Conn {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayloadSize
	}
	return &Conn{
		addr:       net.JoinHostPort(host, strconv.Itoa(port)),
		maxPayload: maxPayload,
		dial:       defaultDial,
	}
}

func defaultDial(addr string) (net.Conn, error) {
	return net.Dial("udp", addr)
}

// Send transmits payload to the peer, best effort. Oversized payloads and
// transport failures are logged and dropped; the caller is never notified.
// A write failure invalidates the handle so the next call re-dials.
func (c *Conn) Send(payload []byte) {
	if len(payload) > c.maxPayload {
		slog.Error(fmt.Sprintf("%s - payload too big (%d > %d)", logPrefix, len(payload), c.maxPayload))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sock == nil {
		sock, err := c.dial(c.addr)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - could not open udp socket: %v", logPrefix, err))
			return
		}
		c.sock = sock
	}

	if _, err := c.sock.Write(payload); err != nil {
		slog.Error(fmt.Sprintf("%s - could not send to peer: %v", logPrefix, err))
		c.sock.Close()
		c.sock = nil
	}
}

// Close releases the handle. Only safe during full teardown; Send must not be
// in flight on another goroutine.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sock != nil {
		c.sock.Close()
		c.sock = nil
	}
}
