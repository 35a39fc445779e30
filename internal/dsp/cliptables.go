package dsp

// ClipPel clips v to [0, maxVal].
// Uses unsigned comparison for a single-branch hot path when v is in range.
func ClipPel(v, maxVal int) int {
	if uint(v) <= uint(maxVal) {
		return v
	}
	// Arithmetic right shift: v>>63 is 0 for positive, -1 for negative.
	return ^(v >> 63) & maxVal
}

// Clip8b clips v to the range [0, 255].
func Clip8b(v int) uint8 {
	return uint8(ClipPel(v, 255))
}
