// Package lens computes the scroll-driven reading state of a post: the
// active split-lens section, reading progress and the before/after slider.
package lens

import "math"

// ActiveSection maps a scroll offset to the index of the narrative section
// in view. It returns -1 when there are no sections and 0 when the content
// does not scroll.
func ActiveSection(scrollTop, scrollHeight, clientHeight float64, n int) int {
	if n <= 0 {
		return -1
	}
	scrollRange := scrollHeight - clientHeight
	if scrollRange <= 0 || math.IsNaN(scrollTop) {
		return 0
	}
	frac := scrollTop / scrollRange
	switch {
	case frac <= 0:
		return 0
	case frac >= 1:
		return n - 1
	}
	return min(int(math.Floor(frac*float64(n))), n-1)
}

// ReadingProgress returns how far through the document the reader is, as
// a percentage clamped to [0, 100].
func ReadingProgress(scrollTop, docHeight, windowHeight float64) float64 {
	scrollable := docHeight - windowHeight
	if scrollable <= 0 {
		if scrollTop > 0 {
			return 100
		}
		return 0
	}
	pct := scrollTop / scrollable * 100
	if math.IsNaN(pct) {
		return 0
	}
	return math.Min(100, math.Max(0, pct))
}

// Swipe slider bounds.
const (
	SwipeMin     = 0.0
	SwipeMax     = 100.0
	SwipeDefault = 50.0
)

// Swipe is the before/after comparison slider. Position is the percentage
// of the width showing the "before" image.
type Swipe struct {
	position float64
}

// NewSwipe returns a slider at the midpoint.
func NewSwipe() *Swipe {
	return &Swipe{position: SwipeDefault}
}

// Position returns the slider position in [0, 100].
func (s *Swipe) Position() float64 {
	return s.position
}

// Set moves the slider, clamping to [0, 100].
func (s *Swipe) Set(pos float64) {
	if math.IsNaN(pos) {
		return
	}
	s.position = math.Min(SwipeMax, math.Max(SwipeMin, pos))
}

// Nudge moves the slider by delta percentage points.
func (s *Swipe) Nudge(delta float64) {
	s.Set(s.position + delta)
}

// SetFromPointer positions the slider at a pointer x within a strip that
// starts at left and is width wide.
func (s *Swipe) SetFromPointer(x, left, width float64) {
	if width <= 0 {
		return
	}
	s.Set((x - left) / width * 100)
}

// Reset returns the slider to the midpoint.
func (s *Swipe) Reset() {
	s.position = SwipeDefault
}
