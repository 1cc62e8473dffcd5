package roadmap

import (
	"testing"

	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
)

func TestRenderOverlayDimensionsMatchGrid(t *testing.T) {
	g := freeGrid(20, 30, 0.1)
	rm := New(testConfig(2.0, 1))
	rm.SetReference(grid.WorldOrd{})

	img := RenderOverlay(g, rm, nil)
	bounds := img.Bounds()
	if bounds.Dx() != 20 || bounds.Dy() != 30 {
		t.Errorf("expected 20x30 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderOverlayWithPath(t *testing.T) {
	g := freeGrid(20, 20, 0.1)
	rm := New(testConfig(2.0, 1))
	rm.SetReference(grid.WorldOrd{})

	path, err := rm.Build(g, grid.WorldOrd{X: -0.5, Y: 0}, grid.WorldOrd{X: 0.5, Y: 0})
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	img := RenderOverlay(g, rm, path)
	if img.Bounds().Dx() != 20 {
		t.Errorf("expected width 20, got %d", img.Bounds().Dx())
	}
}
