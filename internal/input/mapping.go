// Package input translates window mouse/keyboard events into the control
// commands defined in internal/control: tap/swipe classification from
// drag distance, modifier-aware clipboard and screenshot shortcuts, and a
// static function-key shortcut table.
package input

// MapCoordinate converts a window-pixel coordinate (wx,wy) in a surface of
// size (sw,sh) to the corresponding video coordinate in a frame of size
// (vw,vh). (0,0) maps to (0,0) and (sw,sh) maps to (vw,vh).
func MapCoordinate(wx, wy float64, sw, sh, vw, vh int) (vx, vy float64) {
	if sw == 0 || sh == 0 {
		return 0, 0
	}
	vx = wx * float64(vw) / float64(sw)
	vy = wy * float64(vh) / float64(sh)
	return vx, vy
}
