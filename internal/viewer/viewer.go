package viewer

import (
	"image"
	"image/color"
	"math"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/ldprm-planner/internal/graph"
	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
)

// Snapshot is the data a Viewer renders: a roadmap's vertices/edges
// plus an optional highlighted path, decoupled from the live Roadmap
// so the planner thread never shares state with the UI goroutine.
type Snapshot struct {
	Vertices map[graph.VertexID]grid.WorldOrd
	Edges    []graph.Edge
	Path     []grid.WorldOrd
}

// App is a standalone pan/zoom inspector window for a Snapshot.
type App struct {
	camera   *Camera
	snapshot Snapshot
	fitted   bool
}

// NewApp creates an inspector for the given snapshot.
func NewApp(snap Snapshot) *App {
	return &App{
		camera:   NewCamera(),
		snapshot: snap,
	}
}

// Run drives the Gio event loop until the window is closed.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			if !a.fitted {
				a.fitToSnapshot(float32(gtx.Constraints.Max.X), float32(gtx.Constraints.Max.Y))
				a.fitted = true
			}
			a.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (a *App) fitToSnapshot(width, height float32) {
	if len(a.snapshot.Vertices) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range a.snapshot.Vertices {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	a.camera.FitBounds(minX, minY, maxX, maxY, width, height, 40)
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	bounds := gtx.Constraints.Max
	paint.Fill(gtx.Ops, color.NRGBA{R: 25, G: 25, B: 30, A: 255})
	a.handlePointerEvents(gtx, bounds)

	for _, e := range a.snapshot.Edges {
		from, ok1 := a.snapshot.Vertices[e.From]
		to, ok2 := a.snapshot.Vertices[e.To]
		if ok1 && ok2 {
			DrawEdge(gtx, from, to, a.camera, colorEdge, 1.5)
		}
	}
	for _, p := range a.snapshot.Vertices {
		DrawVertex(gtx, p, a.camera, colorVertex, 3)
	}
	DrawPath(gtx, a.snapshot.Path, a.camera)

	return layout.Dimensions{Size: bounds}
}

func (a *App) handlePointerEvents(gtx layout.Context, bounds image.Point) {
	area := clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, a)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: a,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			a.camera.HandleEvent(pe)
		}
	}
}
