package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/cowby123/mirror-go/internal/control"
)

// fixedSurface is a Surface stub with constant window/frame dimensions,
// matching end-to-end scenario 1 in spec.md §8 (100,200 in a 400x800
// window mapped against a 1080x2160 frame).
type fixedSurface struct {
	sw, sh, vw, vh int
}

func (f fixedSurface) SurfaceSize() (int, int) { return f.sw, f.sh }
func (f fixedSurface) FrameSize() (int, int)   { return f.vw, f.vh }

func TestMapperTapMapsToVideoCoordinates(t *testing.T) {
	m := New(fixedSurface{sw: 400, sh: 800, vw: 1080, vh: 2160})

	m.HandleMouseButtonDown(sdl.BUTTON_LEFT, 100, 200)
	m.HandleMouseButtonUp(sdl.BUTTON_LEFT, 100, 200)

	cmd := <-m.Commands
	tap, ok := cmd.(control.Tap)
	if !ok {
		t.Fatalf("got %T, want control.Tap", cmd)
	}
	if tap.X != 270 || tap.Y != 540 {
		t.Fatalf("tap at (%v,%v), want (270,540)", tap.X, tap.Y)
	}
}

func TestMapperSmallDragIsStillATap(t *testing.T) {
	m := New(fixedSurface{sw: 400, sh: 800, vw: 400, vh: 800})

	m.HandleMouseButtonDown(sdl.BUTTON_LEFT, 50, 50)
	m.HandleMouseButtonUp(sdl.BUTTON_LEFT, 54, 53)

	cmd := <-m.Commands
	tap, ok := cmd.(control.Tap)
	if !ok {
		t.Fatalf("got %T, want control.Tap for a sub-5px drag", cmd)
	}
	if tap.X != 50 || tap.Y != 50 {
		t.Fatalf("tap at (%v,%v), want start position (50,50)", tap.X, tap.Y)
	}
}

func TestMapperLargeDragIsASwipe(t *testing.T) {
	m := New(fixedSurface{sw: 400, sh: 800, vw: 400, vh: 800})

	m.HandleMouseButtonDown(sdl.BUTTON_LEFT, 50, 50)
	m.HandleMouseButtonUp(sdl.BUTTON_LEFT, 80, 120)

	cmd := <-m.Commands
	swipe, ok := cmd.(control.Swipe)
	if !ok {
		t.Fatalf("got %T, want control.Swipe for an 30x70px drag", cmd)
	}
	if swipe.X1 != 50 || swipe.Y1 != 50 || swipe.X2 != 80 || swipe.Y2 != 120 {
		t.Fatalf("swipe %+v, want (50,50)->(80,120)", swipe)
	}
	if swipe.DurationMs != swipeDurationMs {
		t.Fatalf("swipe duration %d, want %d", swipe.DurationMs, swipeDurationMs)
	}
}

func TestMapperRightClickIsLongPress(t *testing.T) {
	m := New(fixedSurface{sw: 400, sh: 800, vw: 400, vh: 800})

	m.HandleMouseButtonUp(sdl.BUTTON_RIGHT, 10, 20)

	cmd := <-m.Commands
	lp, ok := cmd.(control.LongPress)
	if !ok {
		t.Fatalf("got %T, want control.LongPress", cmd)
	}
	if lp.X != 10 || lp.Y != 20 || lp.DurationMs != longPressMs {
		t.Fatalf("long press %+v, want (10,20) duration %d", lp, longPressMs)
	}
}

// TestMapperEscEmitsBackDownThenUp matches end-to-end scenario 3 in
// spec.md §8: Esc press+release emits a down then an up keycode command
// for Android keycode 4 (back), both with meta=0.
func TestMapperEscEmitsBackDownThenUp(t *testing.T) {
	m := New(fixedSurface{sw: 400, sh: 800, vw: 400, vh: 800})

	m.HandleKeyDown(sdl.K_ESCAPE)
	m.HandleKeyUp(sdl.K_ESCAPE)

	down := (<-m.Commands).(control.Keycode)
	up := (<-m.Commands).(control.Keycode)

	if down.Action != "down" || down.KeyCode != AndroidKeycodeBack || down.MetaState != 0 {
		t.Fatalf("down command %+v, want action=down key=4 meta=0", down)
	}
	if up.Action != "up" || up.KeyCode != AndroidKeycodeBack || up.MetaState != 0 {
		t.Fatalf("up command %+v, want action=up key=4 meta=0", up)
	}
}

func TestMapperF9SwipesUpCenterColumn(t *testing.T) {
	m := New(fixedSurface{sw: 400, sh: 800, vw: 1000, vh: 2000})

	m.HandleKeyDown(sdl.K_F9)

	swipe := (<-m.Commands).(control.Swipe)
	if swipe.X1 != 500 || swipe.X2 != 500 {
		t.Fatalf("swipe x %v/%v, want center column 500", swipe.X1, swipe.X2)
	}
	if swipe.Y1 != 1500 || swipe.Y2 != 500 {
		t.Fatalf("swipe y %v->%v, want 75%%->25%% of height (1500->500)", swipe.Y1, swipe.Y2)
	}
}

func TestMapperCtrlCRequestsClipboardCopy(t *testing.T) {
	m := New(fixedSurface{sw: 400, sh: 800, vw: 400, vh: 800})
	m.SetModifier(sdl.KMOD_LCTRL)

	m.HandleKeyDown(sdl.K_c)

	cmd := <-m.Commands
	gc, ok := cmd.(control.GetClipboard)
	if !ok {
		t.Fatalf("got %T, want control.GetClipboard", cmd)
	}
	if !gc.CopyFirst {
		t.Fatalf("GetClipboard.CopyFirst = false, want true")
	}
}
