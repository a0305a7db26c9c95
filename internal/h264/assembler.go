// Package h264 owns the Annex-B splitter, the libavcodec-backed decoder,
// and the keyframe-wait/watchdog state machine that recovers from decode
// errors and stalls without ever panicking on malformed input.
package h264

import (
	"time"

	"github.com/cowby123/mirror-go/internal/logx"
	"github.com/cowby123/mirror-go/internal/metrics"
)

type state int

const (
	stateReady state = iota
	stateResetting
	stateWaitingForKeyframe
)

const (
	overflowBufferSize = 4 << 20 // 4 MiB: forces a reset if unconsumed NALs pile up
	watchdogTimeout     = 2 * time.Second
	logSampleEvery      = 50 // rate-limit per-NAL decode-error logging
)

// Assembler turns raw video-socket chunks into decoded YuvFrames. It is
// not safe for concurrent use; the video decoder goroutine owns it
// exclusively.
type Assembler struct {
	splitter *Splitter
	dec      *decoder

	st state

	packetCount  uint64
	frameCount   uint64
	lastFrameAt  time.Time
	lastFeedAt   time.Time
	flowingSince time.Time
	errSamples   uint64
}

// NewAssembler allocates a fresh decoder and splitter, starting in the
// ready state: there is no keyframe wait at startup, and NALs before the
// first IDR/SPS/PPS are handed to the decoder, which produces no frame
// from them.
func NewAssembler() (*Assembler, error) {
	dec, err := newDecoder()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Assembler{
		splitter:     NewSplitter(),
		dec:          dec,
		st:           stateReady,
		lastFrameAt:  now,
		lastFeedAt:   now,
		flowingSince: now,
	}, nil
}

// Close releases the underlying decoder context.
func (a *Assembler) Close() {
	if a.dec != nil {
		a.dec.close()
	}
}

// Feed appends a chunk of Annex-B bytes (as read off the video socket) and
// returns every YuvFrame decoded as a result, in order. It never panics:
// decode errors are absorbed into the keyframe-wait recovery path.
func (a *Assembler) Feed(chunk []byte) []*YuvFrame {
	now := time.Now()
	if now.Sub(a.lastFeedAt) > watchdogTimeout {
		// Input had gone quiet for at least one watchdog period; don't let a
		// stale lastFrameAt immediately trip the watchdog on resumption.
		a.flowingSince = now
		a.lastFrameAt = now
	}
	a.lastFeedAt = now

	nals := a.splitter.Feed(chunk)

	var frames []*YuvFrame
	for _, nal := range nals {
		a.packetCount++
		metrics.NALUCount.Add(1)
		t := naluType(nal[len(startCode4):])
		switch t {
		case 7:
			metrics.NALUSPS.Add(1)
		case 8:
			metrics.NALUPPS.Add(1)
		case 5:
			metrics.NALUIDR.Add(1)
		}

		if f := a.feedOne(nal, t); f != nil {
			frames = append(frames, f)
		}

		if a.bufferOverflowed() {
			logx.Errorf("H264", "assembler buffer exceeded %d bytes, forcing reset", overflowBufferSize)
			a.reset()
		}
	}

	if a.watchdogTripped() {
		logx.Errorf("H264", "no frame produced for over %s while input is flowing, resetting decoder", watchdogTimeout)
		metrics.WatchdogResets.Add(1)
		a.reset()
	}

	return frames
}

func (a *Assembler) bufferOverflowed() bool {
	return len(a.splitter.buf) > overflowBufferSize
}

// watchdogTripped reports whether input has been flowing continuously for
// at least one watchdog period without a frame coming out the other end
// (P4): a fresh connection or one resuming after a quiet gap gets a full
// grace period before the reset path engages.
func (a *Assembler) watchdogTripped() bool {
	if a.st != stateReady {
		return false
	}
	if time.Since(a.flowingSince) < watchdogTimeout {
		return false
	}
	return time.Since(a.lastFrameAt) > watchdogTimeout
}

// feedOne advances the state machine for a single NAL unit and returns a
// decoded frame if libavcodec produced one.
func (a *Assembler) feedOne(nal []byte, t uint8) *YuvFrame {
	switch a.st {
	case stateWaitingForKeyframe:
		if !IsKeyframeBoundary(t) {
			return nil
		}
		a.st = stateReady
		logx.Infof("H264", "keyframe boundary (type=%d) received, resuming decode", t)
	case stateResetting:
		// reset() always transitions straight to waitingForKeyframe; this
		// branch should be unreachable but is handled defensively.
		a.st = stateWaitingForKeyframe
		return nil
	}

	frame, ok, err := a.dec.decode(nal)
	if err != nil {
		a.errSamples++
		if a.errSamples%logSampleEvery == 1 {
			logx.Errorf("H264", "decode error on NAL type=%d: %v", t, err)
		}
		if a.errSamples%logSampleEvery == 0 {
			a.reset()
		}
		return nil
	}
	if !ok {
		return nil
	}

	a.frameCount++
	a.lastFrameAt = time.Now()
	metrics.FramesDecoded.Add(1)
	return frame
}

// reset discards the current decoder, opens a fresh one, and transitions
// to waiting-for-keyframe. Any buffered partial NAL bytes are dropped
// since they belong to a stream the new decoder was never primed with.
func (a *Assembler) reset() {
	metrics.DecoderResets.Add(1)
	a.dec.close()
	dec, err := newDecoder()
	if err != nil {
		logx.Fatalf("H264", "failed to recreate decoder after reset: %v", err)
	}
	a.dec = dec
	a.splitter.Reset()
	a.st = stateWaitingForKeyframe

	now := time.Now()
	a.lastFrameAt = now
	a.flowingSince = now
}
