package viz

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Camera projects world positions onto a canvas. With zero tilt it looks
// straight down the y axis, so the orbital plane (x, z) fills the screen.
type Camera struct {
	Center dynamo.Vec3
	// Span is the world distance shown across the shorter canvas side.
	Span       float64
	Tilt, Spin float64
	// Distance enables perspective when positive, in multiples of Span.
	Distance float64
}

func NewCamera(span float64) *Camera {
	if span <= 0 {
		span = 1
	}
	return &Camera{Span: span}
}

func (c *Camera) RotateTilt(a float64) {
	c.Tilt = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Tilt+a))
}
func (c *Camera) RotateSpin(a float64) { c.Spin += a }
func (c *Camera) ZoomIn()              { c.Span = math.Max(1e-6, c.Span/1.2) }
func (c *Camera) ZoomOut()             { c.Span *= 1.2 }

// rotate expresses p relative to the camera: x right, y up the screen and z
// toward the viewer.
func (c *Camera) rotate(p dynamo.Vec3) dynamo.Vec3 {
	p = p.Sub(c.Center)
	cs, ss := math.Cos(c.Spin), math.Sin(c.Spin)
	x, z := p.X*cs-p.Z*ss, p.X*ss+p.Z*cs
	ct, st := math.Cos(c.Tilt), math.Sin(c.Tilt)
	// Top-down: screen up is world +z, toward the viewer is world +y.
	return dynamo.Vec3{X: x, Y: z*ct + p.Y*st, Z: p.Y*ct - z*st}
}

// Project maps p to canvas sub-pixels. ok is false when p falls outside
// the canvas or behind a perspective camera.
func (c *Camera) Project(p dynamo.Vec3, cv *Canvas) (x, y int, ok bool) {
	r := c.rotate(p)
	scale := 1.0
	if c.Distance > 0 {
		d := c.Distance * c.Span
		if r.Z >= d {
			return 0, 0, false
		}
		scale = d / (d - r.Z)
	}
	pw, ph := cv.PixelWidth(), cv.PixelHeight()
	px := float64(min(pw, ph)) / c.Span
	x = int(math.Round(r.X*scale*px)) + pw/2
	y = int(math.Round(-r.Y*scale*px)) + ph/2
	return x, y, x >= 0 && x < pw && y >= 0 && y < ph
}

// PixelsPer returns how many sub-pixels one world unit covers at the focus.
func (c *Camera) PixelsPer(cv *Canvas) float64 {
	return float64(min(cv.PixelWidth(), cv.PixelHeight())) / c.Span
}

// DrawPath projects consecutive points and joins the visible ones.
func DrawPath(cv *Canvas, cam *Camera, points []dynamo.Vec3) {
	var px, py int
	prev := false
	for _, p := range points {
		x, y, ok := cam.Project(p, cv)
		if ok && prev {
			cv.DrawLine(px, py, x, y)
		} else if ok {
			cv.Set(x, y)
		}
		px, py, prev = x, y, ok
	}
}

// FitSpan returns a span that shows every point around center with margin.
func FitSpan(center dynamo.Vec3, points []dynamo.Vec3) float64 {
	far := 0.0
	for _, p := range points {
		far = math.Max(far, p.Distance(center))
	}
	if far == 0 {
		return 1
	}
	return 2.4 * far
}

// DrawResult draws every body's sampled path from above, framed on the first
// body's starting position. A sample where the body is dead breaks its path.
func DrawResult(cv *Canvas, res *dynamo.Result) {
	if len(res.Samples) == 0 || len(res.Samples[0].Positions) == 0 {
		return
	}
	alive := func(s dynamo.Sample, i int) bool {
		return i < len(s.Positions) && (s.Alive == nil || s.Alive[i])
	}

	center := res.Samples[0].Positions[0]
	var all []dynamo.Vec3
	for _, s := range res.Samples {
		for i, p := range s.Positions {
			if alive(s, i) {
				all = append(all, p)
			}
		}
	}
	cam := NewCamera(FitSpan(center, all))
	cam.Center = center

	path := make([]dynamo.Vec3, 0, len(res.Samples))
	for body := range res.Names {
		path = path[:0]
		for _, s := range res.Samples {
			if !alive(s, body) {
				DrawPath(cv, cam, path)
				path = path[:0]
				continue
			}
			path = append(path, s.Positions[body])
		}
		DrawPath(cv, cam, path)
	}
}
