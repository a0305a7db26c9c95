// Package audio implements the audio socket's TCP client, the raw-PCM
// decode stage, and ring-buffered playback through the default output
// device. Audio is intentionally decoupled from video: best-effort
// low-latency playback is preferred over accurate A/V sync.
package audio

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
	magic            = "AUDIO\x00"
	maxPacketSize    = 1 << 20
	queueSize        = 256
	headerReadDeadline = 5 * time.Second
)

// Packet is a single PTS-stamped chunk of raw wire bytes (interpreted
// downstream as little-endian signed 16-bit PCM).
type Packet struct {
	PTS  uint64
	Data []byte
}

// StreamInfo describes the header the peer sends once per connection.
type StreamInfo struct {
	SampleRate uint32
	Channels   uint8
	Codec      uint8 // 1 = OPUS advertised, but only raw PCM is decoded
}

// Options configures the receiver.
type Options struct {
	Host string
	Port int
}

// Receiver owns the reconnect loop and the outgoing packet queue.
type Receiver struct {
	opts    Options
	handle  workerutil.Handle
	Packets chan Packet
}

// New allocates a receiver with its packet queue; call Run in its own
// goroutine.
func New(opts Options) *Receiver {
	return &Receiver{opts: opts, Packets: make(chan Packet, queueSize)}
}

// Stop signals the run loop to exit and waits for it to return.
func (r *Receiver) Stop() { r.handle.Stop() }

// Run connects, reads the stream header, then loops reading packets until
// an error, reconnecting with the same backoff discipline as the video
// client. An unreachable audio port is not fatal to the rest of the app:
// Run keeps retrying until Stop is called, and no audio is played
// meanwhile.
func (r *Receiver) Run() {
	r.handle.Start()
	defer r.handle.Done()

	backoff := 1
	for r.handle.Running() {
		conn, info, err := r.connect()
		if err != nil {
			logx.Errorf("AUDIO", "connect failed: %v", err)
			if !r.sleepBackoff(backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}
		logx.Infof("AUDIO", "connected: rate=%d channels=%d codec=%d", info.SampleRate, info.Channels, info.Codec)
		backoff = 1
		r.packetLoop(conn)
		conn.Close()
		if !r.handle.Running() {
			return
		}
		if !r.sleepBackoff(backoff) {
			return
		}
		backoff = nextBackoff(backoff)
	}
}

func nextBackoff(d int) int {
	d *= 2
	if d > 10 {
		d = 10
	}
	return d
}

func (r *Receiver) sleepBackoff(d int) bool {
	deadline := time.Now().Add(time.Duration(d) * time.Second)
	for time.Now().Before(deadline) {
		if !r.handle.Running() {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
	return r.handle.Running()
}

func (r *Receiver) connect() (net.Conn, StreamInfo, error) {
	addr := fmt.Sprintf("%s:%d", r.opts.Host, r.opts.Port)
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, StreamInfo{}, fmt.Errorf("dial: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(headerReadDeadline))
	header := make([]byte, 12)
	if _, err := io.ReadFull(conn, header); err != nil {
		conn.Close()
		return nil, StreamInfo{}, fmt.Errorf("read header: %w", err)
	}
	if string(header[0:6]) != magic {
		conn.Close()
		return nil, StreamInfo{}, fmt.Errorf("bad magic %q", header[0:6])
	}
	info := StreamInfo{
		SampleRate: binary.BigEndian.Uint32(header[6:10]),
		Channels:   header[10],
		Codec:      header[11],
	}
	_ = conn.SetReadDeadline(time.Time{})
	return conn, info, nil
}

func (r *Receiver) packetLoop(conn net.Conn) {
	meta := make([]byte, 12)
	for r.handle.Running() {
		if _, err := io.ReadFull(conn, meta); err != nil {
			logx.Infof("AUDIO", "read packet meta: %v", err)
			return
		}
		pts := binary.BigEndian.Uint64(meta[0:8])
		size := binary.BigEndian.Uint32(meta[8:12])
		if size > maxPacketSize {
			logx.Errorf("AUDIO", "packet size %d exceeds max %d, desync", size, maxPacketSize)
			return
		}
		body := make([]byte, size)
		if _, err := io.ReadFull(conn, body); err != nil {
			logx.Infof("AUDIO", "read packet body: %v", err)
			return
		}

		metrics.AudioPacketsRead.Add(1)
		select {
		case r.Packets <- Packet{PTS: pts, Data: body}:
		default:
			metrics.AudioPacketsDropped.Add(1)
		}
	}
}
