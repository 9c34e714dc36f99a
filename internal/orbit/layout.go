// Package orbit computes the decorative orbit layout of queued tracks around
// the current one.
package orbit

import (
	"math/rand/v2"

	"github.com/ytget/orbit-player/internal/model"
)

// Layout constants
const (
	BaseRadius   = 130.0
	RadiusStep   = 40.0
	RadiusBins   = 5
	IndexSpacing = 10.0
	MinPeriod    = 10.0
	PeriodSpread = 30.0
	PlanetSize   = 40.0
)

// Planet is one orbiting track
type Planet struct {
	Index     int // playlist index, loaded when the planet is tapped
	Track     *model.Track
	Radius    float64 // ring radius in device-independent pixels
	Period    float64 // seconds per revolution
	Clockwise bool
	Angle     float64 // start angle in degrees
}

// Layout places every track except the current one on a ring
func Layout(rng *rand.Rand, tracks []*model.Track, current int) []Planet {
	planets := make([]Planet, 0, len(tracks))
	for i, track := range tracks {
		if i == current {
			continue
		}
		planets = append(planets, Planet{
			Index:     i,
			Track:     track,
			Radius:    BaseRadius + float64(rng.IntN(RadiusBins))*RadiusStep + float64(i)*IndexSpacing,
			Period:    MinPeriod + rng.Float64()*PeriodSpread,
			Clockwise: rng.Float64() > 0.5,
			Angle:     rng.Float64() * 360,
		})
	}
	return planets
}

// MaxRadius returns the outermost ring radius, or 0 without planets
func MaxRadius(planets []Planet) float64 {
	var r float64
	for _, p := range planets {
		r = max(r, p.Radius)
	}
	return r
}

// AngleAt returns the planet's angle in degrees after elapsed seconds
func (p Planet) AngleAt(elapsed float64) float64 {
	if p.Period <= 0 {
		return p.Angle
	}
	delta := 360 * elapsed / p.Period
	if !p.Clockwise {
		delta = -delta
	}
	angle := p.Angle + delta
	for angle < 0 {
		angle += 360
	}
	for angle >= 360 {
		angle -= 360
	}
	return angle
}
