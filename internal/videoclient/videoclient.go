// Package videoclient implements the video socket's TCP client: the
// handshake, the 12-byte framed packet reader, and the reconnect loop
// with exponential backoff.
package videoclient

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/cowby123/mirror-go/internal/logx"
	"github.com/cowby123/mirror-go/internal/metrics"
	"github.com/cowby123/mirror-go/internal/workerutil"
)

const (
	// MaxBodySize bounds a single video packet body; anything larger is
	// treated as a desynced connection and forces a reconnect.
	MaxBodySize = 10 << 20

	readTimeout          = 5 * time.Second
	maxConsecutiveTimeout = 10
	queueSize            = 256
	backoffCapSeconds    = 10
	backoffPollSlice     = 100 * time.Millisecond
)

// Packet is a single decoded-off-the-wire video body, framing stripped.
type Packet struct {
	PTS  uint64
	Data []byte
}

// Options configures the client.
type Options struct {
	Host      string
	Port      int
	Bitrate   uint32
	MaxSize   uint32
}

// Client owns the reconnect loop and the outgoing packet queue.
type Client struct {
	opts    Options
	handle  workerutil.Handle
	Packets chan Packet
}

// New creates a client with its packet queue allocated; call Run in its
// own goroutine.
func New(opts Options) *Client {
	return &Client{opts: opts, Packets: make(chan Packet, queueSize)}
}

// Stop signals the run loop to exit and waits for it to return.
func (c *Client) Stop() { c.handle.Stop() }

// Run is the reconnect loop: connect, handshake, read packets until an
// error, back off, repeat. It returns when Stop is called.
func (c *Client) Run() {
	c.handle.Start()
	defer c.handle.Done()

	backoff := 1
	for c.handle.Running() {
		conn, err := c.connectAndHandshake()
		if err != nil {
			logx.Errorf("VIDEO", "connect failed: %v", err)
			metrics.VideoReconnects.Add(1)
			if !c.sleepBackoff(backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}

		logx.Infof("VIDEO", "connected to %s:%d", c.opts.Host, c.opts.Port)
		backoff = 1
		c.packetLoop(conn)
		conn.Close()

		if !c.handle.Running() {
			return
		}
		metrics.VideoReconnects.Add(1)
		if !c.sleepBackoff(backoff) {
			return
		}
		backoff = nextBackoff(backoff)
	}
}

func nextBackoff(d int) int {
	d *= 2
	if d > backoffCapSeconds {
		d = backoffCapSeconds
	}
	return d
}

// sleepBackoff sleeps for d seconds in 100ms slices so the stop flag is
// observed promptly. It returns false if the handle was stopped mid-sleep.
func (c *Client) sleepBackoff(d int) bool {
	deadline := time.Now().Add(time.Duration(d) * time.Second)
	for time.Now().Before(deadline) {
		if !c.handle.Running() {
			return false
		}
		time.Sleep(backoffPollSlice)
	}
	return c.handle.Running()
}

func (c *Client) connectAndHandshake() (net.Conn, error) {
	addr := fmt.Sprintf("%s:%d", c.opts.Host, c.opts.Port)
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	handshake := fmt.Sprintf("bitrate=%d&max_size=%d\n", c.opts.Bitrate, c.opts.MaxSize)
	if _, err := conn.Write([]byte(handshake)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake write: %w", err)
	}
	return conn, nil
}

// packetLoop reads framed packets until a read/write error, oversize
// body, or too many consecutive timeouts — any of which ends the
// connection and lets Run reconnect.
func (c *Client) packetLoop(conn net.Conn) {
	header := make([]byte, 12)
	consecutiveTimeouts := 0

	for c.handle.Running() {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		if _, err := io.ReadFull(conn, header); err != nil {
			if isTimeout(err) {
				consecutiveTimeouts++
				if consecutiveTimeouts >= maxConsecutiveTimeout {
					logx.Errorf("VIDEO", "%d consecutive read timeouts, aborting connection", consecutiveTimeouts)
					return
				}
				continue
			}
			logx.Infof("VIDEO", "read header: %v", err)
			return
		}
		consecutiveTimeouts = 0

		pts := binary.BigEndian.Uint64(header[0:8])
		bodySize := binary.BigEndian.Uint32(header[8:12])
		if bodySize > MaxBodySize {
			logx.Errorf("VIDEO", "body size %d exceeds max %d, treating as desync", bodySize, MaxBodySize)
			return
		}

		body := make([]byte, bodySize)
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		if _, err := io.ReadFull(conn, body); err != nil {
			logx.Infof("VIDEO", "read body: %v", err)
			return
		}

		metrics.VideoPacketsRead.Add(1)
		metrics.VideoBytesRead.Add(int64(bodySize))

		select {
		case c.Packets <- Packet{PTS: pts, Data: body}:
		default:
			metrics.VideoPacketsDropped.Add(1)
			logx.Errorf("VIDEO", "packet queue full, dropping %d-byte packet", bodySize)
		}
	}
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
