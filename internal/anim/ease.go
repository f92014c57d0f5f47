package anim

// Easing curves matching the reference client's power2 tweens.

// easeOutQuad decelerates toward the destination; used for draws.
func easeOutQuad(p float32) float32 {
	return 1 - (1-p)*(1-p)
}

// easeInOutQuad accelerates then decelerates; used for plays.
func easeInOutQuad(p float32) float32 {
	if p < 0.5 {
		return 2 * p * p
	}
	q := -2*p + 2
	return 1 - q*q/2
}

// lerp interpolates a..b at parameter p in [0,1].
func lerp(a, b, p float32) float32 {
	return a + (b-a)*p
}

// clamp01 clamps p to [0,1].
func clamp01(p float32) float32 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
