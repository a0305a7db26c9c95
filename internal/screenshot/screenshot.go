// Package screenshot converts the latest decoded frame to RGBA and writes
// it as a PNG, off the render thread. PNG encoding itself is treated as
// an opaque standard-library facility (image/png), not a design concern.
package screenshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/cowby123/mirror-go/internal/h264"
	"github.com/cowby123/mirror-go/internal/logx"
)

// ToRGBA converts a packed YUV I420 frame to an *image.RGBA using the same
// BT.601 full-range coefficients as the renderer's fragment shader. Chroma
// is sampled nearest-neighbour here, whereas the shader filters it
// linearly.
func ToRGBA(frame *h264.YuvFrame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		cy := y / 2
		for x := 0; x < frame.Width; x++ {
			cx := x / 2
			yv := float64(frame.Y[y*frame.YStride+x]) / 255.0
			u := float64(frame.U[cy*frame.UVStride+cx])/255.0 - 0.5
			v := float64(frame.V[cy*frame.UVStride+cx])/255.0 - 0.5

			r := clamp01(yv + 1.402*v)
			g := clamp01(yv - 0.344136*u - 0.714136*v)
			b := clamp01(yv + 1.772*u)

			img.SetRGBA(x, y, color.RGBA{
				R: uint8(math.Round(r * 255)),
				G: uint8(math.Round(g * 255)),
				B: uint8(math.Round(b * 255)),
				A: 255,
			})
		}
	}
	return img
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DefaultDir returns the user's Desktop directory, falling back to the
// current working directory if it can't be determined or doesn't exist.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err == nil {
		desktop := filepath.Join(home, "Desktop")
		if info, statErr := os.Stat(desktop); statErr == nil && info.IsDir() {
			return desktop
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// Save encodes frame as PNG and writes it under dir with a timestamped
// filename, returning the path written.
func Save(frame *h264.YuvFrame, dir string, now time.Time) (string, error) {
	name := fmt.Sprintf("screenshot_%s.png", now.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create screenshot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, ToRGBA(frame)); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	logx.Infof("SCREENSHOT", "saved %s", path)
	return path, nil
}
