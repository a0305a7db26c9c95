package audio

import (
	"encoding/binary"
	"time"

	"github.com/cowby123/mirror-go/internal/workerutil"
)

const sampleQueueSize = 256

// Decoder drains raw PCM packets and converts them to float32 samples,
// offering the result to a second bounded queue. It never branches on the
// advertised codec id — only raw little-endian PCM is interpreted, per
// the host's current decode path.
type Decoder struct {
	handle  workerutil.Handle
	in      <-chan Packet
	Samples chan []float32
}

// NewDecoder wires a Decoder to drain from in.
func NewDecoder(in <-chan Packet) *Decoder {
	return &Decoder{in: in, Samples: make(chan []float32, sampleQueueSize)}
}

// Stop signals the run loop to exit and waits for it to return.
func (d *Decoder) Stop() { d.handle.Stop() }

// Run drains packets until Stop is called or the input channel closes.
func (d *Decoder) Run() {
	d.handle.Start()
	defer d.handle.Done()

	for d.handle.Running() {
		select {
		case pkt, ok := <-d.in:
			if !ok {
				return
			}
			samples := pcm16ToFloat32(pkt.Data)
			select {
			case d.Samples <- samples:
			default:
				// Downstream ring buffer trims old audio on its own; a
				// full conversion queue here just means the feeder is
				// momentarily behind, so drop rather than block.
			}
		case <-time.After(100 * time.Millisecond):
			// Re-check the running flag periodically instead of blocking
			// forever on a channel that may never receive again.
		}
	}
}

// pcm16ToFloat32 interprets data as little-endian signed 16-bit PCM and
// converts each sample to float32 via s/32768.0.
func pcm16ToFloat32(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		out[i] = float32(s) / 32768.0
	}
	return out
}
