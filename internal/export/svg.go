// Package export renders frames and run series as SVG.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/gravsim/internal/frame"
)

var textureFill = map[string]string{
	"moon":   "#c8c8d2",
	"cookie": "#c8904a",
}

const defaultFill = "#88aaff"

// unitQuad lists the corners the frame indices refer to.
var unitQuad = [4]cp.Vector{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}}

// FrameSVG draws d as seen through its camera on a width by height image:
// discs in filled mode, quad outlines in wireframe mode.
func FrameSVG(d *frame.Descriptor, width, height int) string {
	if d == nil {
		return ""
	}
	cam := d.Camera
	rot := cp.ForAngle(-cam.Rotation)
	toView := func(p cp.Vector) (float64, float64) {
		v := p.Sub(cp.Vector{X: cam.PanX, Y: cam.PanY}).Rotate(rot).Mult(cam.Zoom)
		return float64(width)/2 + v.X, float64(height)/2 - v.Y
	}

	fill, ok := textureFill[d.Texture]
	if !ok {
		fill = defaultFill
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if d.Wireframe {
		sb.WriteString(fmt.Sprintf(`<g fill="none" stroke="%s" stroke-width="1">
`, fill))
		for _, b := range d.Bodies {
			center, brot := cp.Vector{X: b.X, Y: b.Y}, cp.ForAngle(b.Rotation)
			sb.WriteString(`<path d="`)
			for n, i := range d.Indices {
				x, y := toView(center.Add(unitQuad[i].Mult(b.Scale).Rotate(brot)))
				cmd := "L"
				if n == 0 {
					cmd = "M"
				}
				sb.WriteString(fmt.Sprintf("%s%.1f,%.1f ", cmd, x, y))
			}
			sb.WriteString("\"/>\n")
		}
	} else {
		sb.WriteString(fmt.Sprintf(`<g fill="%s">
`, fill))
		for _, b := range d.Bodies {
			x, y := toView(cp.Vector{X: b.X, Y: b.Y})
			r := math.Max(b.Scale/2*cam.Zoom, 0.5)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, x, y, r))
		}
	}
	sb.WriteString("</g>\n")

	if len(d.Attractors) > 0 {
		sb.WriteString(`<g fill="#ff00ff">` + "\n")
		for _, a := range d.Attractors {
			x, y := toView(cp.Vector{X: a.X, Y: a.Y})
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4"/>
`, x, y))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against times as a single polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := 0; i < n; i++ {
		minX, maxX = math.Min(minX, times[i]), math.Max(maxX, times[i])
		minY, maxY = math.Min(minY, values[i]), math.Max(maxY, values[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
