package grid

import "testing"

func TestWorldToCellRoundTrip(t *testing.T) {
	ref := WorldOrd{X: 0, Y: 0}
	res := 0.1
	width, height := 40, 40

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c := Cell{Col: col, Row: row}
			w := CellToWorld(ref, res, width, height, c)
			got := WorldToCell(ref, res, width, height, w)
			if got != c {
				t.Errorf("round trip failed for %v: got %v via %v", c, got, w)
			}
		}
	}
}

func TestWorldToCellYAxisInverted(t *testing.T) {
	ref := WorldOrd{X: 0, Y: 0}
	origin := WorldToCell(ref, 0.1, 40, 40, WorldOrd{X: 0, Y: 0})
	above := WorldToCell(ref, 0.1, 40, 40, WorldOrd{X: 0, Y: 1.0})
	if above.Row >= origin.Row {
		t.Errorf("positive world-y should map to a smaller row: origin=%v above=%v", origin, above)
	}
}

func TestIsFreeThreshold(t *testing.T) {
	g := New(4, 4, 0.1, WorldOrd{}, 0)
	g.Set(Cell{Col: 0, Row: 0}, 128)
	g.Set(Cell{Col: 1, Row: 0}, 127)
	g.Set(Cell{Col: 2, Row: 0}, 255)

	if !g.IsFree(Cell{Col: 0, Row: 0}) {
		t.Error("128 should be free (strictly greater than 127)")
	}
	if g.IsFree(Cell{Col: 1, Row: 0}) {
		t.Error("127 should not be free")
	}
	if !g.IsFree(Cell{Col: 2, Row: 0}) {
		t.Error("255 should be free")
	}
}

func TestIsFreeOutOfBounds(t *testing.T) {
	g := New(4, 4, 0.1, WorldOrd{}, 255)
	if g.IsFree(Cell{Col: -1, Row: 0}) {
		t.Error("out-of-bounds cell must not be free")
	}
	if g.IsFree(Cell{Col: 100, Row: 100}) {
		t.Error("out-of-bounds cell must not be free")
	}
}

func TestCanConnectAllFree(t *testing.T) {
	g := New(40, 40, 0.1, WorldOrd{}, 255)
	if !g.CanConnect(Cell{Col: 0, Row: 0}, Cell{Col: 39, Row: 39}) {
		t.Error("expected line-of-sight on an all-free grid")
	}
}

func TestCanConnectBlocked(t *testing.T) {
	g := New(40, 40, 0.1, WorldOrd{}, 255)
	for row := 0; row < 40; row++ {
		g.Set(Cell{Col: 20, Row: row}, 0)
	}
	if g.CanConnect(Cell{Col: 0, Row: 20}, Cell{Col: 39, Row: 20}) {
		t.Error("expected the wall at col=20 to block line-of-sight")
	}
}

func TestExpandCSpaceIdempotent(t *testing.T) {
	g := New(20, 20, 0.1, WorldOrd{}, 255)
	g.Set(Cell{Col: 10, Row: 10}, 0)

	once := g.ExpandCSpace(0.3)
	twice := once.ExpandCSpace(0.3)

	if len(once.Cells) != len(twice.Cells) {
		t.Fatalf("size mismatch after re-dilation")
	}
	for i := range once.Cells {
		if once.Cells[i] != twice.Cells[i] {
			t.Fatalf("cell %d differs after re-dilation: %d vs %d", i, once.Cells[i], twice.Cells[i])
		}
	}
}

func TestExpandCSpaceGrowsObstacle(t *testing.T) {
	g := New(20, 20, 0.1, WorldOrd{}, 255)
	g.Set(Cell{Col: 10, Row: 10}, 0)

	dilated := g.ExpandCSpace(0.3) // radius = ceil(0.3/0.2) = 2 cells
	if dilated.IsFree(Cell{Col: 11, Row: 10}) {
		t.Error("neighbouring cell should become occupied after dilation")
	}
	if !dilated.IsFree(Cell{Col: 19, Row: 19}) {
		t.Error("far cell should remain free after dilation")
	}
}
