package compress

import "math"

// TargetDimensions scales native video dimensions to fit within maxWidth x
// maxHeight without upscaling. The width cap is applied first, then the height
// cap, each as its own proportional scale. Rounding happens once, after both
// clamps.
func TargetDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	w := float64(width)
	h := float64(height)
	if w > float64(maxWidth) {
		h = h * float64(maxWidth) / w
		w = float64(maxWidth)
	}
	if h > float64(maxHeight) {
		w = w * float64(maxHeight) / h
		h = float64(maxHeight)
	}
	return int(math.Round(w)), int(math.Round(h))
}

// TargetBitrate derives the encode bitrate in bits per second from the source
// size and duration: source bitrate scaled by factor, clamped to
// [floor, ceiling].
func TargetBitrate(sizeBytes int64, durationSeconds, factor float64, floor, ceiling int64) int64 {
	if durationSeconds <= 0 {
		return floor
	}
	sourceBitrate := float64(sizeBytes*8) / durationSeconds
	target := int64(sourceBitrate * factor)
	if target < floor {
		return floor
	}
	if target > ceiling {
		return ceiling
	}
	return target
}
