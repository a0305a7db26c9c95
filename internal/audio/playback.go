package audio

import (
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/cowby123/mirror-go/internal/logx"
	"github.com/cowby123/mirror-go/internal/metrics"
	"github.com/cowby123/mirror-go/internal/workerutil"
)

const (
	sampleRate      = 48000
	channels        = 2
	bufferThreshold = 4096 // samples; the deque is trimmed past 8x this
	maxQueuedSamples = bufferThreshold * 8
)

// Player opens the default output device and drains decoded samples into
// a mutex-protected deque. The device callback is invoked on the audio
// driver's own thread; it holds the lock only briefly and never
// allocates, filling any shortfall with silence rather than blocking.
type Player struct {
	stream *portaudio.Stream

	mu      sync.Mutex
	pending []float32

	feederHandle workerutil.Handle
	in           <-chan []float32
}

// NewPlayer opens the default output device at 48kHz stereo. If no output
// device is available, it returns an error; the caller is expected to
// continue mirroring with audio off rather than treat this as fatal.
func NewPlayer(in <-chan []float32) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	p := &Player{in: in}
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), 0, p.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	p.stream = stream
	return p, nil
}

// Start begins playback and the feeder goroutine that appends arriving
// samples to the pending deque.
func (p *Player) Start() error {
	if err := p.stream.Start(); err != nil {
		return err
	}
	p.feederHandle.Start()
	workerutil.Go("audio-feeder", p.feedLoop)
	return nil
}

// Close stops the feeder and the stream and releases portaudio.
func (p *Player) Close() {
	p.feederHandle.Stop()
	if p.stream != nil {
		_ = p.stream.Stop()
		_ = p.stream.Close()
	}
	portaudio.Terminate()
}

func (p *Player) feedLoop() {
	defer p.feederHandle.Done()
	for p.feederHandle.Running() {
		select {
		case samples, ok := <-p.in:
			if !ok {
				return
			}
			p.mu.Lock()
			p.pending = append(p.pending, samples...)
			// Prefer dropping old audio over letting latency grow: trim
			// from the head whenever the deque exceeds 8x the buffer
			// threshold.
			if len(p.pending) > maxQueuedSamples {
				drop := len(p.pending) - maxQueuedSamples
				p.pending = p.pending[drop:]
				metrics.AudioSamplesDropped.Add(int64(drop))
			}
			p.mu.Unlock()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// callback fills out with the oldest pending samples, substituting 0.0
// for any shortfall (an underrun). It never waits for new samples; it only
// waits for the deque lock, which the feeder holds just long enough to
// append and trim.
func (p *Player) callback(out []float32) {
	p.mu.Lock()
	n := len(p.pending)
	if n > len(out) {
		n = len(out)
	}
	copy(out, p.pending[:n])
	p.pending = p.pending[n:]
	p.mu.Unlock()

	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	if n < len(out) {
		logx.Debugf("AUDIO", "underrun: wrote %d/%d requested samples", n, len(out))
	}
}
