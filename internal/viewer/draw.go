package viewer

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
)

var (
	colorEdge   = color.NRGBA{R: 90, G: 110, B: 200, A: 200}
	colorVertex = color.NRGBA{R: 140, G: 170, B: 90, A: 255}
	colorPath   = color.NRGBA{R: 220, G: 60, B: 60, A: 255}
	colorPoint  = color.NRGBA{R: 30, G: 180, B: 30, A: 255}
)

// DrawVertex draws a filled circle at a world position.
func DrawVertex(gtx layout.Context, pos grid.WorldOrd, camera *Camera, col color.NRGBA, radius float32) {
	sx, sy := camera.WorldToScreen(pos.X, pos.Y)
	drawCircle(gtx, sx, sy, radius, col)
}

// DrawEdge draws a straight segment between two world positions.
func DrawEdge(gtx layout.Context, a, b grid.WorldOrd, camera *Camera, col color.NRGBA, width float32) {
	x1, y1 := camera.WorldToScreen(a.X, a.Y)
	x2, y2 := camera.WorldToScreen(b.X, b.Y)

	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.01 {
		return
	}
	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

// DrawPath draws every consecutive segment of a path, thicker than a
// plain roadmap edge, plus markers on the start and goal.
func DrawPath(gtx layout.Context, path []grid.WorldOrd, camera *Camera) {
	for i := 0; i+1 < len(path); i++ {
		DrawEdge(gtx, path[i], path[i+1], camera, colorPath, 4)
	}
	if len(path) == 0 {
		return
	}
	DrawVertex(gtx, path[0], camera, colorPoint, 7)
	DrawVertex(gtx, path[len(path)-1], camera, colorPoint, 7)
}

func drawCircle(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.Move(f32.Pt(cx+radius, cy))

	const segments = 16
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / segments
		x := cx + radius*float32(math.Cos(angle))
		y := cy + radius*float32(math.Sin(angle))
		path.Line(f32.Pt(x-path.Pos().X, y-path.Pos().Y))
	}
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}
