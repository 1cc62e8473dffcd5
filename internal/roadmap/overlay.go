package roadmap

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
)

// Overlay colours, as NRGBA values drawn onto gg's RGBA canvas.
var (
	colorOccupied   = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	colorFree       = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	colorEdge       = color.NRGBA{R: 90, G: 110, B: 200, A: 200}
	colorVertex     = color.NRGBA{R: 140, G: 170, B: 90, A: 255}
	colorIsolated   = color.NRGBA{R: 200, G: 140, B: 60, A: 255}
	colorPath       = color.NRGBA{R: 40, G: 40, B: 220, A: 255}
	colorStartGoal  = color.NRGBA{R: 30, G: 180, B: 30, A: 255}
	vertexRadius    = 2.0
	startGoalRadius = 4.0
	pathLineWidth   = 2.5
	edgeLineWidth   = 1.0
)

// RenderOverlay composes the occupancy grid, the roadmap's graph, and
// an optional optimised path into a single raster image — the
// external-sink artifact PlannerLoop publishes after every build.
func RenderOverlay(m *grid.Grid, rm *Roadmap, path []grid.WorldOrd) image.Image {
	dc := gg.NewContext(m.WidthCells, m.HeightCells)

	for row := 0; row < m.HeightCells; row++ {
		for col := 0; col < m.WidthCells; col++ {
			c := grid.Cell{Col: col, Row: row}
			if m.IsFree(c) {
				dc.SetColor(colorFree)
			} else {
				dc.SetColor(colorOccupied)
			}
			dc.SetPixel(col, row)
		}
	}

	vertices, edges := rm.graph.Container()
	dc.SetLineWidth(edgeLineWidth)
	for _, e := range edges {
		a := m.WorldToCell(rm.toOrd[e.From])
		b := m.WorldToCell(rm.toOrd[e.To])
		dc.SetColor(colorEdge)
		dc.DrawLine(float64(a.Col), float64(a.Row), float64(b.Col), float64(b.Row))
		dc.Stroke()
	}

	for _, v := range vertices {
		c := m.WorldToCell(rm.toOrd[v])
		col := colorVertex
		if rm.graph.Degree(v) == 0 {
			col = colorIsolated
		}
		dc.SetColor(col)
		dc.DrawCircle(float64(c.Col), float64(c.Row), vertexRadius)
		dc.Fill()
	}

	if len(path) > 0 {
		dc.SetLineWidth(pathLineWidth)
		dc.SetColor(colorPath)
		first := m.WorldToCell(path[0])
		dc.MoveTo(float64(first.Col), float64(first.Row))
		for _, p := range path[1:] {
			c := m.WorldToCell(p)
			dc.LineTo(float64(c.Col), float64(c.Row))
		}
		dc.Stroke()

		for _, end := range []grid.WorldOrd{path[0], path[len(path)-1]} {
			c := m.WorldToCell(end)
			dc.SetColor(colorStartGoal)
			dc.DrawCircle(float64(c.Col), float64(c.Row), startGoalRadius)
			dc.Fill()
		}
	}

	return dc.Image()
}

// SaveOverlayPNG renders the overlay and writes it to path as a PNG,
// upscaling small grids so fine edges stay legible.
func SaveOverlayPNG(m *grid.Grid, rm *Roadmap, path []grid.WorldOrd, outPath string) error {
	img := RenderOverlay(m, rm, path)

	scale := 1
	for m.WidthCells*scale < 512 && scale < 8 {
		scale++
	}
	if scale > 1 {
		img = imaging.Resize(img, m.WidthCells*scale, m.HeightCells*scale, imaging.NearestNeighbor)
	}

	return imaging.Save(img, outPath)
}
