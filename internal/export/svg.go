package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/viz"
)

// CanvasToSVG writes a Braille canvas as SVG, one circle per lit dot. Dots
// take the first palette color of st on st.Background.
func CanvasToSVG(out io.Writer, canvas *viz.Canvas, scale float64, st Style) error {
	if canvas == nil {
		return fmt.Errorf("export: nil canvas")
	}
	if scale <= 0 {
		scale = 1
	}
	if st.Background == "" {
		st.Background = DefaultStyle().Background
	}

	width := float64(canvas.PixelWidth()) * scale
	height := float64(canvas.PixelHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, st.Background, colorFor(st, 0))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.PixelHeight(); y++ {
		for x := 0; x < canvas.PixelWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	_, err := io.WriteString(out, sb.String())
	return err
}

// Style controls TrajectoriesToSVG.
type Style struct {
	Width, Height int
	Background    string
	// Colors is indexed like Result.Names; missing entries cycle Palette.
	Colors      []string
	StrokeWidth float64
	Markers     []orbit.Marker
}

var Palette = []string{"#ffcc33", "#3388ff", "#dd5533", "#66dd88", "#cc88ff", "#ffffff"}

func DefaultStyle() Style {
	return Style{Width: 800, Height: 800, Background: "#0a0a0a", StrokeWidth: 1.5}
}

// TrajectoriesToSVG writes every body's sampled path, seen from above (x
// right, z up), plus a dot for each orbit marker.
func TrajectoriesToSVG(out io.Writer, res *dynamo.Result, st Style) error {
	if len(res.Samples) == 0 {
		return fmt.Errorf("export: result has no samples")
	}
	if st.Width <= 0 || st.Height <= 0 {
		def := DefaultStyle()
		st.Width, st.Height = def.Width, def.Height
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range res.Samples {
		for _, p := range s.Positions {
			if !p.IsValid() {
				continue
			}
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Z), math.Max(maxY, p.Z)
		}
	}
	if math.IsInf(minX, 1) {
		return fmt.Errorf("export: no finite positions")
	}

	// Equal scale on both axes keeps orbits round.
	rng := math.Max(maxX-minX, maxY-minY)
	if rng == 0 {
		rng = 1
	}
	rng *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	px := math.Min(float64(st.Width), float64(st.Height)) / rng
	toScreen := func(x, y float64) (float64, float64) {
		return float64(st.Width)/2 + (x-cx)*px, float64(st.Height)/2 - (y-cy)*px
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, st.Width, st.Height, st.Width, st.Height, st.Background)

	for i, name := range res.Names {
		color := colorFor(st, i)
		var d strings.Builder
		pen := false
		for _, s := range res.Samples {
			if i >= len(s.Positions) || (s.Alive != nil && !s.Alive[i]) || !s.Positions[i].IsValid() {
				pen = false
				continue
			}
			x, y := toScreen(s.Positions[i].X, s.Positions[i].Z)
			if pen {
				fmt.Fprintf(&d, " L%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&d, " M%.1f,%.1f", x, y)
				pen = true
			}
		}
		fmt.Fprintf(&sb, "<path id=%q fill=\"none\" stroke=\"%s\" stroke-width=\"%.1f\" d=\"%s\"/>\n",
			name, color, st.StrokeWidth, strings.TrimSpace(d.String()))
	}

	for _, m := range st.Markers {
		x, y := toScreen(m.Position.X, m.Position.Z)
		color := "#ffffff"
		for i, name := range res.Names {
			if name == m.Name {
				color = colorFor(st, i)
			}
		}
		fmt.Fprintf(&sb, "<circle class=\"marker\" cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"><title>%s #%d t=%.2f</title></circle>\n",
			x, y, color, m.Name, m.Number, m.Time)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(out, sb.String())
	return err
}

func colorFor(st Style, i int) string {
	if i < len(st.Colors) && st.Colors[i] != "" {
		return st.Colors[i]
	}
	return Palette[i%len(Palette)]
}
