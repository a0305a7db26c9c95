package screenshot

import (
	"image/color"
	"testing"

	"github.com/cowby123/mirror-go/internal/h264"
)

func solidFrame(w, h int, y, u, v byte) *h264.YuvFrame {
	cw, ch := w/2, h/2
	f := &h264.YuvFrame{
		Width: w, Height: h,
		YStride: w, UVStride: cw,
		Y: make([]byte, w*h),
		U: make([]byte, cw*ch),
		V: make([]byte, cw*ch),
	}
	for i := range f.Y {
		f.Y[i] = y
	}
	for i := range f.U {
		f.U[i] = u
	}
	for i := range f.V {
		f.V[i] = v
	}
	return f
}

func TestToRGBAWhiteLuma(t *testing.T) {
	// Y=255, U=V=128 (neutral chroma) should convert to pure white.
	f := solidFrame(4, 4, 255, 128, 128)
	img := ToRGBA(f)

	got := img.At(0, 0).(color.RGBA)
	if got.R < 250 || got.G < 250 || got.B < 250 {
		t.Fatalf("neutral-chroma full-luma pixel = %+v, want near-white", got)
	}
	if got.A != 255 {
		t.Fatalf("alpha = %d, want 255", got.A)
	}
}

func TestToRGBABlackLuma(t *testing.T) {
	f := solidFrame(4, 4, 0, 128, 128)
	img := ToRGBA(f)

	got := img.At(1, 1).(color.RGBA)
	if got.R > 5 || got.G > 5 || got.B > 5 {
		t.Fatalf("neutral-chroma zero-luma pixel = %+v, want near-black", got)
	}
}

func TestToRGBADimensionsMatchFrame(t *testing.T) {
	f := solidFrame(8, 6, 100, 128, 128)
	img := ToRGBA(f)
	b := img.Bounds()
	if b.Dx() != 8 || b.Dy() != 6 {
		t.Fatalf("image size = %dx%d, want 8x6", b.Dx(), b.Dy())
	}
}
