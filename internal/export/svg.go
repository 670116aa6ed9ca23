package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/viz"
)

// Trail is one particle's recorded positions.
type Trail struct {
	ID     string
	Color  string
	Points []dynamo.Vec2
}

var trailColors = []string{"#ff5f5f", "#5fafff", "#5fff87", "#ffd75f", "#af87ff", "#ff87d7"}

// regionFill colours a region by its field: blue for +Bz, red for -Bz,
// green for electric only.
func regionFill(r field.Region) string {
	switch {
	case r.Bz > 0:
		return "#1f3f7f"
	case r.Bz < 0:
		return "#7f1f2f"
	case r.Ex != 0 || r.Ey != 0:
		return "#1f6f3f"
	}
	return "#333333"
}

// SceneToSVG draws field regions as translucent boxes and trails as
// polylines in a y-up frame fitted to everything drawn.
func SceneToSVG(regions []field.Region, trails []Trail, width, height int) string {
	lo, hi, ok := field.Regions(regions).Bounds()
	for _, tr := range trails {
		for _, p := range tr.Points {
			if !p.IsValid() {
				continue
			}
			if !ok {
				lo, hi, ok = p, p, true
			}
			lo = dynamo.Vec2{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
			hi = dynamo.Vec2{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
		}
	}
	if !ok {
		return ""
	}

	rangeX := hi.X - lo.X
	rangeY := hi.Y - lo.Y
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// keep aspect ratio, 5% margin
	scale := math.Min(float64(width)/(rangeX*1.1), float64(height)/(rangeY*1.1))
	offX := (float64(width) - rangeX*scale) / 2
	offY := (float64(height) - rangeY*scale) / 2
	px := func(p dynamo.Vec2) (float64, float64) {
		return offX + (p.X-lo.X)*scale, float64(height) - offY - (p.Y-lo.Y)*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, r := range regions {
		x, y := px(dynamo.Vec2{X: r.X, Y: r.Y + r.Height})
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.5" stroke="#8888aa"><title>%s E=(%g,%g) Bz=%g</title></rect>
`, x, y, r.Width*scale, r.Height*scale, regionFill(r), html.EscapeString(r.ID), r.Ex, r.Ey, r.Bz)
	}

	for i, tr := range trails {
		color := tr.Color
		if color == "" {
			color = trailColors[i%len(trailColors)]
		}
		var d strings.Builder
		pen := false
		for _, p := range tr.Points {
			if !p.IsValid() {
				pen = false
				continue
			}
			x, y := px(p)
			if pen {
				fmt.Fprintf(&d, " L%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&d, " M%.1f,%.1f", x, y)
				pen = true
			}
		}
		if d.Len() == 0 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="%s"><title>%s</title></path>
`, html.EscapeString(color), strings.TrimSpace(d.String()), html.EscapeString(tr.ID))

		if last := tr.Points[len(tr.Points)-1]; last.IsValid() {
			x, y := px(last)
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, html.EscapeString(color))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG, keeping cell colours.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fill := string(canvas.Colors[y/4][x/2])
			if fill == "" {
				fill = "#00ff00"
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, html.EscapeString(fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrailsFromFrames turns recorded frames into one trail per particle.
func TrailsFromFrames(frames []dynamo.Frame, ids, colors []string) []Trail {
	if len(frames) == 0 {
		return nil
	}
	trails := make([]Trail, len(frames[0].Kinematics))
	for i := range trails {
		trails[i].ID = fmt.Sprintf("p%d", i)
		if i < len(ids) && ids[i] != "" {
			trails[i].ID = ids[i]
		}
		if i < len(colors) {
			trails[i].Color = colors[i]
		}
		trails[i].Points = make([]dynamo.Vec2, 0, len(frames))
	}
	for _, f := range frames {
		for i, k := range f.Kinematics {
			if i < len(trails) {
				trails[i].Points = append(trails[i].Points, k.Pos)
			}
		}
	}
	return trails
}
