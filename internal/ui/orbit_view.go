package ui

import (
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/orbit-player/internal/model"
	"github.com/ytget/orbit-player/internal/orbit"
)

// OrbitView draws the current track as a sun with the rest of the queue
// circling it. Tapping a planet selects its track; horizontal swipes step
// through the queue.
type OrbitView struct {
	widget.BaseWidget

	rng     *rand.Rand
	now     func() time.Time
	started time.Time

	tracks  []*model.Track
	current int
	playing bool
	planets []orbit.Planet

	orbitColor color.Color
	gestures   *GestureHandler
	dragPos    fyne.Position
	anim       *fyne.Animation

	onSelect func(index int)
	onSwipe  func(GestureType)
}

var (
	_ fyne.Tappable  = (*OrbitView)(nil)
	_ fyne.Draggable = (*OrbitView)(nil)
	_ fyne.Widget    = (*OrbitView)(nil)
)

// NewOrbitView creates an empty orbit view
func NewOrbitView(onSelect func(index int), onSwipe func(GestureType)) *OrbitView {
	ov := &OrbitView{
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		now:        time.Now,
		current:    -1,
		orbitColor: ColorOrbitDark,
		onSelect:   onSelect,
		onSwipe:    onSwipe,
	}
	ov.started = ov.now()
	ov.gestures = NewGestureHandler(ov.onGesture)
	ov.ExtendBaseWidget(ov)
	return ov
}

// SetTracks replaces the queue. Planets are laid out again only when the
// queue or the current track changed, so orbits stay stable across
// play/pause updates.
func (ov *OrbitView) SetTracks(tracks []*model.Track, current int, playing bool) {
	changed := current != ov.current || !sameTracks(tracks, ov.tracks)
	ov.tracks = tracks
	ov.current = current
	ov.playing = playing
	if changed {
		ov.planets = orbit.Layout(ov.rng, tracks, current)
	}
	ov.Refresh()
}

// SetOrbitColor sets the ring color for the active theme
func (ov *OrbitView) SetOrbitColor(c color.Color) {
	ov.orbitColor = c
	ov.Refresh()
}

// Planets returns the current layout
func (ov *OrbitView) Planets() []orbit.Planet {
	return ov.planets
}

// StartAnimation starts moving the planets
func (ov *OrbitView) StartAnimation() {
	if ov.anim != nil {
		return
	}
	ov.anim = fyne.NewAnimation(time.Second, func(float32) {
		ov.Refresh()
	})
	ov.anim.RepeatCount = fyne.AnimationRepeatForever
	ov.anim.Curve = fyne.AnimationLinear
	ov.anim.Start()
}

// StopAnimation freezes the planets
func (ov *OrbitView) StopAnimation() {
	if ov.anim == nil {
		return
	}
	ov.anim.Stop()
	ov.anim = nil
}

// Tapped selects the planet under the pointer
func (ov *OrbitView) Tapped(ev *fyne.PointEvent) {
	index, ok := ov.planetAt(ev.Position)
	if ok && ov.onSelect != nil {
		ov.onSelect(index)
	}
}

// Dragged tracks a swipe in progress
func (ov *OrbitView) Dragged(ev *fyne.DragEvent) {
	ov.gestures.Begin(ev.Position.Subtract(ev.Dragged))
	ov.dragPos = ev.Position
}

// DragEnd finishes a swipe
func (ov *OrbitView) DragEnd() {
	ov.gestures.End(ov.dragPos)
}

// MinSize keeps room for the inner rings
func (ov *OrbitView) MinSize() fyne.Size {
	return fyne.NewSquareSize(OrbitMinSize)
}

// CreateRenderer implements fyne.Widget
func (ov *OrbitView) CreateRenderer() fyne.WidgetRenderer {
	r := &orbitRenderer{
		view:     ov,
		sun:      canvas.NewCircle(ColorSun),
		sunLabel: canvas.NewText("", color.White),
	}
	r.sunLabel.TextSize = SunSize / 3
	r.sunLabel.Alignment = fyne.TextAlignCenter
	r.sync()
	return r
}

func (ov *OrbitView) onGesture(g GestureType, _ fyne.Position) {
	switch g {
	case GestureSwipeLeft, GestureSwipeRight:
		if ov.onSwipe != nil {
			ov.onSwipe(g)
		}
	}
}

func (ov *OrbitView) elapsed() float64 {
	return ov.now().Sub(ov.started).Seconds()
}

// planetAt returns the playlist index of the planet under pos
func (ov *OrbitView) planetAt(pos fyne.Position) (int, bool) {
	size := ov.Size()
	center := fyne.NewPos(size.Width/2, size.Height/2)
	scale := viewScale(size, ov.planets)
	elapsed := ov.elapsed()
	hit := float32(orbit.PlanetSize) * scale / 2

	// outermost planets are drawn last, so they win overlaps
	for i := len(ov.planets) - 1; i >= 0; i-- {
		p := center.Add(planetOffset(ov.planets[i], elapsed, scale))
		dx, dy := pos.X-p.X, pos.Y-p.Y
		if dx*dx+dy*dy <= hit*hit {
			return ov.planets[i].Index, true
		}
	}
	return 0, false
}

// viewScale shrinks the layout so the outermost planet fits the smaller side
func viewScale(size fyne.Size, planets []orbit.Planet) float32 {
	extent := orbit.MaxRadius(planets) + orbit.PlanetSize/2
	half := float64(min(size.Width, size.Height)) / 2
	if extent <= 0 || half <= 0 || extent <= half {
		return 1
	}
	return float32(half / extent)
}

// planetOffset is the planet's center relative to the sun
func planetOffset(p orbit.Planet, elapsed float64, scale float32) fyne.Position {
	rad := p.AngleAt(elapsed) * math.Pi / 180
	r := p.Radius * float64(scale)
	return fyne.NewPos(float32(r*math.Cos(rad)), float32(r*math.Sin(rad)))
}

func sameTracks(a, b []*model.Track) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type orbitRenderer struct {
	view     *OrbitView
	sun      *canvas.Circle
	sunLabel *canvas.Text
	rings    []*canvas.Circle
	bodies   []*canvas.Circle
	objects  []fyne.CanvasObject
}

// sync makes one ring and one body per planet
func (r *orbitRenderer) sync() {
	planets := r.view.planets
	for len(r.rings) < len(planets) {
		ring := canvas.NewCircle(color.Transparent)
		ring.StrokeWidth = OrbitStrokeWidth
		r.rings = append(r.rings, ring)
		r.bodies = append(r.bodies, canvas.NewCircle(ColorPlanet))
	}
	r.rings = r.rings[:len(planets)]
	r.bodies = r.bodies[:len(planets)]

	for i, p := range planets {
		r.rings[i].StrokeColor = r.view.orbitColor
		if p.Track != nil && p.Track.Source == model.SourceExternal {
			r.bodies[i].FillColor = ColorPlanetLink
		} else {
			r.bodies[i].FillColor = ColorPlanet
		}
	}

	r.sunLabel.Text = IconAdd
	if r.view.current >= 0 && r.view.current < len(r.view.tracks) {
		r.sunLabel.Text = IconMusic
		if r.view.tracks[r.view.current].Source == model.SourceExternal {
			r.sunLabel.Text = IconVideo
		}
	}
	r.sun.FillColor = ColorSun
	if !r.view.playing {
		r.sun.FillColor = color.NRGBA{R: ColorSun.R, G: ColorSun.G, B: ColorSun.B, A: 160}
	}

	r.objects = r.objects[:0]
	for _, ring := range r.rings {
		r.objects = append(r.objects, ring)
	}
	r.objects = append(r.objects, r.sun, r.sunLabel)
	for _, body := range r.bodies {
		r.objects = append(r.objects, body)
	}
}

func (r *orbitRenderer) Layout(size fyne.Size) {
	center := fyne.NewPos(size.Width/2, size.Height/2)
	scale := viewScale(size, r.view.planets)
	elapsed := r.view.elapsed()

	sun := SunSize * scale
	r.sun.Resize(fyne.NewSquareSize(sun))
	r.sun.Move(center.SubtractXY(sun/2, sun/2))
	labelSize := r.sunLabel.MinSize()
	r.sunLabel.Resize(labelSize)
	r.sunLabel.Move(center.SubtractXY(labelSize.Width/2, labelSize.Height/2))

	body := float32(orbit.PlanetSize) * scale
	for i, p := range r.view.planets {
		radius := float32(p.Radius) * scale
		r.rings[i].Resize(fyne.NewSquareSize(radius * 2))
		r.rings[i].Move(center.SubtractXY(radius, radius))

		pos := center.Add(planetOffset(p, elapsed, scale))
		r.bodies[i].Resize(fyne.NewSquareSize(body))
		r.bodies[i].Move(pos.SubtractXY(body/2, body/2))
	}
}

func (r *orbitRenderer) MinSize() fyne.Size {
	return r.view.MinSize()
}

func (r *orbitRenderer) Refresh() {
	r.sync()
	r.Layout(r.view.Size())
	for _, o := range r.objects {
		o.Refresh()
	}
}

func (r *orbitRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *orbitRenderer) Destroy() {
	r.view.StopAnimation()
}
