package gui

// handSpacing computes the distance between card centers in a fanned hand so
// the hand fits the viewport: wide spacing for few cards, compressed toward
// overlap as the hand grows.
func handSpacing(cardCount int, cardW, viewportW float32) float32 {
	if cardCount < 1 {
		cardCount = 1
	}

	const paddingHorizontal = float32(200)
	track := viewportW - paddingHorizontal
	if track < 240 {
		track = 240
	}

	denom := float32(cardCount - 1)
	if denom < 1 {
		denom = 1
	}
	maxSpacing := (track - cardW) / denom

	minSpacing := cardW - 50
	if minSpacing < 0 {
		minSpacing = 0
	}
	maxAllowed := cardW + 5

	if maxSpacing < minSpacing {
		return minSpacing
	}
	if maxSpacing > maxAllowed {
		return maxAllowed
	}
	return maxSpacing
}

// handOffsets returns the x offset of each card relative to the hand's left
// edge, plus the total hand width, for centering.
func handOffsets(cardCount int, cardW, viewportW float32) (offsets []float32, total float32) {
	spacing := handSpacing(cardCount, cardW, viewportW)
	offsets = make([]float32, cardCount)
	for i := range offsets {
		offsets[i] = spacing * float32(i)
	}
	if cardCount > 0 {
		total = spacing*float32(cardCount-1) + cardW
	}
	return offsets, total
}
