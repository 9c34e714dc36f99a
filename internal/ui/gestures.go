package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
)

// GestureType represents different types of gestures
type GestureType int

const (
	GestureNone GestureType = iota
	GestureTap
	GestureSwipeLeft
	GestureSwipeRight
	GestureSwipeUp
	GestureSwipeDown
	GestureLongPress
)

// String returns a readable gesture name
func (g GestureType) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureSwipeLeft:
		return "swipe-left"
	case GestureSwipeRight:
		return "swipe-right"
	case GestureSwipeUp:
		return "swipe-up"
	case GestureSwipeDown:
		return "swipe-down"
	case GestureLongPress:
		return "long-press"
	default:
		return "none"
	}
}

// Gesture thresholds constants
const (
	DefaultSwipeThreshold    float32 = 50.0
	DefaultLongPressDuration         = 500 * time.Millisecond
)

// GestureHandler turns a press/release pair into a gesture. It accepts touch
// events on mobile and drag events on desktop.
type GestureHandler struct {
	onGesture func(GestureType, fyne.Position)
	now       func() time.Time

	active    bool
	startTime time.Time
	startPos  fyne.Position

	swipeThreshold    float32
	longPressDuration time.Duration
}

// NewGestureHandler creates a new gesture handler
func NewGestureHandler(onGesture func(GestureType, fyne.Position)) *GestureHandler {
	return &GestureHandler{
		onGesture:         onGesture,
		now:               time.Now,
		swipeThreshold:    DefaultSwipeThreshold,
		longPressDuration: DefaultLongPressDuration,
	}
}

// Begin starts tracking at pos. A second Begin before End is ignored.
func (gh *GestureHandler) Begin(pos fyne.Position) {
	if gh.active {
		return
	}
	gh.active = true
	gh.startTime = gh.now()
	gh.startPos = pos
}

// End finishes tracking at pos and fires the detected gesture
func (gh *GestureHandler) End(pos fyne.Position) {
	if !gh.active {
		return
	}
	gh.active = false

	dx := pos.X - gh.startPos.X
	dy := pos.Y - gh.startPos.Y
	gesture := classifyGesture(dx, dy, gh.now().Sub(gh.startTime), gh.swipeThreshold, gh.longPressDuration)
	if gesture != GestureNone && gh.onGesture != nil {
		gh.onGesture(gesture, gh.startPos)
	}
}

// Cancel drops the current gesture
func (gh *GestureHandler) Cancel() {
	gh.active = false
	gh.startTime = time.Time{}
}

// TouchDown handles touch down events for gesture detection
func (gh *GestureHandler) TouchDown(event *mobile.TouchEvent) {
	gh.Begin(event.Position)
}

// TouchUp handles touch up events for gesture detection
func (gh *GestureHandler) TouchUp(event *mobile.TouchEvent) {
	gh.End(event.Position)
}

// TouchCancel handles touch cancel events
func (gh *GestureHandler) TouchCancel(*mobile.TouchEvent) {
	gh.Cancel()
}

// classifyGesture maps a movement and press duration to a gesture. Movement
// past the threshold is always a swipe, whatever the duration.
func classifyGesture(dx, dy float32, d time.Duration, threshold float32, longPress time.Duration) GestureType {
	if dx*dx+dy*dy >= threshold*threshold {
		return swipeDirection(dx, dy)
	}
	if d >= longPress {
		return GestureLongPress
	}
	return GestureTap
}

// swipeDirection determines the primary direction of a swipe
func swipeDirection(dx, dy float32) GestureType {
	absDx := dx
	if absDx < 0 {
		absDx = -absDx
	}
	absDy := dy
	if absDy < 0 {
		absDy = -absDy
	}

	if absDx > absDy {
		if dx > 0 {
			return GestureSwipeRight
		}
		return GestureSwipeLeft
	}
	if dy > 0 {
		return GestureSwipeDown
	}
	return GestureSwipeUp
}
