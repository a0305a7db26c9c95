package input

import (
	"github.com/go-vgo/robotgo"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/cowby123/mirror-go/internal/control"
	"github.com/cowby123/mirror-go/internal/logx"
	"github.com/cowby123/mirror-go/internal/metrics"
)

const (
	queueSize       = 256
	tapMaxDistance  = 5 // pixels; below this a release is a Tap, not a Swipe
	swipeDurationMs = 100
	longPressMs     = 500
)

// Surface reports the current window (surface) and video frame
// dimensions the mapper needs to translate window-pixel coordinates.
type Surface interface {
	SurfaceSize() (w, h int)
	FrameSize() (w, h int)
}

// Mapper owns modifier and drag-gesture state and turns SDL window events
// into control.Command values on a bounded queue. A full queue drops the
// newest command — this is the one queue in the system where dropping is
// an intentional coalescing policy, not a backpressure accident.
type Mapper struct {
	surface Surface
	Commands chan control.Command

	dragging          bool
	dragStartWX, dragStartWY float64

	ctrlDown, superDown, shiftDown bool

	// ScreenshotRequested is called (asynchronously by the caller) when
	// Ctrl/Super+S is pressed; the mapper itself does not touch the
	// frame buffer or the filesystem.
	ScreenshotRequested func()
}

// New creates a Mapper bound to surface, which supplies live window and
// frame dimensions for coordinate mapping.
func New(surface Surface) *Mapper {
	return &Mapper{surface: surface, Commands: make(chan control.Command, queueSize)}
}

func (m *Mapper) emit(cmd control.Command) {
	select {
	case m.Commands <- cmd:
	default:
		metrics.InputCommandsDropped.Add(1)
		logx.Errorf("INPUT", "command queue full, dropping %s", cmd.Cmd())
	}
}

func (m *Mapper) mapToVideo(wx, wy float64) (float64, float64) {
	sw, sh := m.surface.SurfaceSize()
	vw, vh := m.surface.FrameSize()
	return MapCoordinate(wx, wy, sw, sh, vw, vh)
}

// HandleMouseButtonDown records the drag-start anchor for the left
// button; other buttons require no down-side bookkeeping.
func (m *Mapper) HandleMouseButtonDown(button uint8, wx, wy float64) {
	if button == sdl.BUTTON_LEFT {
		m.dragging = true
		m.dragStartWX, m.dragStartWY = wx, wy
	}
}

// HandleMouseButtonUp classifies a left-button release as Tap or Swipe by
// pixel distance, and emits LongPress on a right-button release.
func (m *Mapper) HandleMouseButtonUp(button uint8, wx, wy float64) {
	switch button {
	case sdl.BUTTON_LEFT:
		if !m.dragging {
			return
		}
		m.dragging = false

		dx := wx - m.dragStartWX
		dy := wy - m.dragStartWY
		if absf(dx) < tapMaxDistance && absf(dy) < tapMaxDistance {
			vx, vy := m.mapToVideo(m.dragStartWX, m.dragStartWY)
			m.emit(control.Tap{X: vx, Y: vy})
			return
		}

		vx1, vy1 := m.mapToVideo(m.dragStartWX, m.dragStartWY)
		vx2, vy2 := m.mapToVideo(wx, wy)
		m.emit(control.Swipe{X1: vx1, Y1: vy1, X2: vx2, Y2: vy2, DurationMs: swipeDurationMs})

	case sdl.BUTTON_RIGHT:
		vx, vy := m.mapToVideo(wx, wy)
		m.emit(control.LongPress{X: vx, Y: vy, DurationMs: longPressMs})
	}
}

// SetModifier updates tracked modifier state from either a key event or
// an OS modifier-changed event.
func (m *Mapper) SetModifier(mod sdl.Keymod) {
	m.ctrlDown = mod&sdl.KMOD_CTRL != 0
	m.superDown = mod&sdl.KMOD_GUI != 0
	m.shiftDown = mod&sdl.KMOD_SHIFT != 0
}

func (m *Mapper) metaState() int {
	var meta int
	if m.shiftDown {
		meta |= control.MetaShift
	}
	if m.ctrlDown {
		meta |= control.MetaCtrl
	}
	if m.superDown {
		meta |= control.MetaSuper
	}
	return meta
}

// HandleKeyDown dispatches, in order: modifier-combo clipboard/screenshot
// shortcuts, function-key shortcuts, then the static keycode table.
func (m *Mapper) HandleKeyDown(key sdl.Keycode) {
	if m.ctrlDown || m.superDown {
		switch key {
		case sdl.K_c:
			m.emit(control.GetClipboard{CopyFirst: true})
			return
		case sdl.K_v:
			text, err := robotgo.ReadAll()
			if err != nil {
				logx.Errorf("INPUT", "read host clipboard: %v", err)
				return
			}
			m.emit(control.SetClipboard{Text: text, PasteAfter: true})
			return
		case sdl.K_s:
			if m.ScreenshotRequested != nil {
				go m.ScreenshotRequested()
			}
			return
		}
	}

	if sc, ok := functionKeyShortcuts[key]; ok {
		m.emitFunctionShortcut(sc)
		return
	}

	if android, ok := translateKey(key); ok {
		m.emit(control.Keycode{Action: "down", KeyCode: android, MetaState: m.metaState()})
	}
}

// HandleKeyUp mirrors HandleKeyDown: it emits the key-up half for the
// keycode-carrying function-key shortcuts (Esc, F1-F6) and for the static
// keycode table. Power-mode and swipe shortcuts and the clipboard/
// screenshot combos act on key-down only.
func (m *Mapper) HandleKeyUp(key sdl.Keycode) {
	if m.ctrlDown || m.superDown {
		switch key {
		case sdl.K_c, sdl.K_v, sdl.K_s:
			return
		}
	}
	if sc, ok := functionKeyShortcuts[key]; ok && sc.hasKeycode {
		m.emit(control.Keycode{Action: "up", KeyCode: sc.keycode, MetaState: m.metaState()})
		return
	}
	if android, ok := translateKey(key); ok {
		m.emit(control.Keycode{Action: "up", KeyCode: android, MetaState: m.metaState()})
	}
}

func (m *Mapper) emitFunctionShortcut(sc functionKeyShortcut) {
	switch {
	case sc.hasKeycode:
		m.emit(control.Keycode{Action: "down", KeyCode: sc.keycode, MetaState: m.metaState()})
	case sc.hasPowerMode:
		m.emit(control.SetScreenPowerMode{Mode: sc.powerMode})
	case sc.swipeUp:
		m.emit(m.verticalSwipe(0.75, 0.25))
	case sc.swipeDown:
		m.emit(m.verticalSwipe(0.25, 0.75))
	}
}

// verticalSwipe builds a swipe along the frame's center column between
// two fractional heights (F9/F10 shortcuts).
func (m *Mapper) verticalSwipe(fromFrac, toFrac float64) control.Command {
	vw, vh := m.surface.FrameSize()
	x := float64(vw) / 2
	return control.Swipe{
		X1: x, Y1: float64(vh) * fromFrac,
		X2: x, Y2: float64(vh) * toFrac,
		DurationMs: swipeDurationMs,
	}
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
