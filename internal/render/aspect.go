package render

// ComputeAspectScale returns the 2-vector used by the vertex shader to
// letterbox the video inside the surface while preserving its aspect
// ratio: the larger dimension of (frameAspect, surfaceAspect) always maps
// to a scale component of 1, and the smaller maps to their ratio.
func ComputeAspectScale(w, h, sw, sh int) (sx, sy float32) {
	frameAspect := float64(w) / float64(h)
	surfaceAspect := float64(sw) / float64(sh)

	if frameAspect > surfaceAspect {
		return 1, float32(surfaceAspect / frameAspect)
	}
	return float32(frameAspect / surfaceAspect), 1
}
