package input

import "github.com/veandco/go-sdl2/sdl"

// Android keycode constants used by the function-key shortcuts and the
// static translation table (a small, deliberately partial subset — only
// what a desktop keyboard can usefully reach).
const (
	AndroidKeycodeBack       = 4
	AndroidKeycodeHome       = 3
	AndroidKeycodeRecents    = 187
	AndroidKeycodeVolumeDown = 25
	AndroidKeycodeVolumeUp   = 24
	AndroidKeycodePower      = 26
	AndroidKeycodeMenu       = 82

	AndroidKeycodeA = 29
	AndroidKeycode0 = 7
	AndroidKeycodeEnter = 66
	AndroidKeycodeDel   = 67
	AndroidKeycodeSpace = 62
	AndroidKeycodeTab   = 61
)

// staticKeymap translates a subset of SDL keycodes that aren't already
// handled by the function-key shortcut table; c, v and s reach it only
// when no Ctrl/Super clipboard/screenshot combo claims them. Both a
// key-down and key-up event are emitted for every entry here.
var staticKeymap = map[sdl.Keycode]int{
	sdl.K_a: AndroidKeycodeA,
	sdl.K_b: AndroidKeycodeA + 1,
	sdl.K_c: AndroidKeycodeA + 2,
	sdl.K_d: AndroidKeycodeA + 3,
	sdl.K_e: AndroidKeycodeA + 4,
	sdl.K_f: AndroidKeycodeA + 5,
	sdl.K_g: AndroidKeycodeA + 6,
	sdl.K_h: AndroidKeycodeA + 7,
	sdl.K_i: AndroidKeycodeA + 8,
	sdl.K_j: AndroidKeycodeA + 9,
	sdl.K_k: AndroidKeycodeA + 10,
	sdl.K_l: AndroidKeycodeA + 11,
	sdl.K_m: AndroidKeycodeA + 12,
	sdl.K_n: AndroidKeycodeA + 13,
	sdl.K_o: AndroidKeycodeA + 14,
	sdl.K_p: AndroidKeycodeA + 15,
	sdl.K_q: AndroidKeycodeA + 16,
	sdl.K_r: AndroidKeycodeA + 17,
	sdl.K_s: AndroidKeycodeA + 18,
	sdl.K_t: AndroidKeycodeA + 19,
	sdl.K_u: AndroidKeycodeA + 20,
	sdl.K_v: AndroidKeycodeA + 21,
	sdl.K_w: AndroidKeycodeA + 22,
	sdl.K_x: AndroidKeycodeA + 23,
	sdl.K_y: AndroidKeycodeA + 24,
	sdl.K_z: AndroidKeycodeA + 25,

	sdl.K_0: AndroidKeycode0,
	sdl.K_1: AndroidKeycode0 + 1,
	sdl.K_2: AndroidKeycode0 + 2,
	sdl.K_3: AndroidKeycode0 + 3,
	sdl.K_4: AndroidKeycode0 + 4,
	sdl.K_5: AndroidKeycode0 + 5,
	sdl.K_6: AndroidKeycode0 + 6,
	sdl.K_7: AndroidKeycode0 + 7,
	sdl.K_8: AndroidKeycode0 + 8,
	sdl.K_9: AndroidKeycode0 + 9,

	sdl.K_RETURN:    AndroidKeycodeEnter,
	sdl.K_BACKSPACE: AndroidKeycodeDel,
	sdl.K_SPACE:     AndroidKeycodeSpace,
	sdl.K_TAB:       AndroidKeycodeTab,
}

// translateKey looks up the static Android keycode for a host key, if one
// exists.
func translateKey(key sdl.Keycode) (int, bool) {
	k, ok := staticKeymap[key]
	return k, ok
}

// functionKeyShortcut describes a non-modifier function-key shortcut.
// swipe shortcuts (F9/F10) carry no keycode; keycode/power-mode shortcuts
// carry no swipe direction.
type functionKeyShortcut struct {
	keycode      int
	hasKeycode   bool
	powerMode    int
	hasPowerMode bool
	swipeUp      bool
	swipeDown    bool
}

var functionKeyShortcuts = map[sdl.Keycode]functionKeyShortcut{
	sdl.K_ESCAPE: {keycode: AndroidKeycodeBack, hasKeycode: true},
	sdl.K_F1:     {keycode: AndroidKeycodeHome, hasKeycode: true},
	sdl.K_F2:     {keycode: AndroidKeycodeRecents, hasKeycode: true},
	sdl.K_F3:     {keycode: AndroidKeycodeVolumeDown, hasKeycode: true},
	sdl.K_F4:     {keycode: AndroidKeycodeVolumeUp, hasKeycode: true},
	sdl.K_F5:     {keycode: AndroidKeycodePower, hasKeycode: true},
	sdl.K_F6:     {keycode: AndroidKeycodeMenu, hasKeycode: true},
	sdl.K_F7:     {powerMode: 0, hasPowerMode: true},
	sdl.K_F8:     {powerMode: 2, hasPowerMode: true},
	sdl.K_F9:     {swipeUp: true},
	sdl.K_F10:    {swipeDown: true},
}
