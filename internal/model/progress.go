package model

import (
	"fmt"
	"math"
)

// Progress is a position/duration pair in seconds. Either value may be NaN
// when the engine does not know it yet.
type Progress struct {
	CurrentTime float64
	Duration    float64
}

// UnknownProgress is reported when no engine is active
var UnknownProgress = Progress{CurrentTime: math.NaN(), Duration: math.NaN()}

// HasDuration reports whether the duration is usable for rendering or seeking
func (p Progress) HasDuration() bool {
	return !math.IsNaN(p.Duration) && !math.IsInf(p.Duration, 0) && p.Duration > 0
}

// Fraction returns the played fraction clamped to [0,1], or 0 when unknown
func (p Progress) Fraction() float64 {
	if !p.HasDuration() || math.IsNaN(p.CurrentTime) {
		return 0
	}
	return math.Max(0, math.Min(1, p.CurrentTime/p.Duration))
}

// FormatTime renders seconds as m:ss. Unknown or negative values render as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
