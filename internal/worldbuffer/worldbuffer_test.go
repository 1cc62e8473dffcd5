package worldbuffer

import (
	"sync"
	"testing"

	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
)

func TestHasBothRequiresBothSides(t *testing.T) {
	b := New()
	if b.HasBoth() {
		t.Fatal("empty buffer should not report has_both")
	}
	b.PushGrid(grid.New(4, 4, 0.1, grid.WorldOrd{}, 255))
	if b.HasBoth() {
		t.Fatal("grid-only buffer should not report has_both")
	}
	b.PushPose(grid.WorldOrd{X: 1, Y: 1})
	if !b.HasBoth() {
		t.Fatal("expected has_both once both sides are pushed")
	}
}

func TestPushCoalescesToLatest(t *testing.T) {
	b := New()
	b.PushPose(grid.WorldOrd{X: 1, Y: 1})
	b.PushPose(grid.WorldOrd{X: 2, Y: 2})

	_, _, p, ok := b.TryPopLatest()
	if !ok {
		t.Fatal("expected a pose to be available")
	}
	if p != (grid.WorldOrd{X: 2, Y: 2}) {
		t.Errorf("expected the most recent pose, got %v", p)
	}
}

func TestTryPopLatestIndependentSides(t *testing.T) {
	b := New()
	b.PushGrid(grid.New(4, 4, 0.1, grid.WorldOrd{}, 255))

	g, gridOK, _, poseOK := b.TryPopLatest()
	if !gridOK || g == nil {
		t.Error("expected grid side to be available")
	}
	if poseOK {
		t.Error("expected pose side to be unavailable")
	}

	// Once popped, the grid side is consumed and won't reappear until
	// pushed again.
	_, gridOK, _, _ = b.TryPopLatest()
	if gridOK {
		t.Error("expected grid side to be consumed after pop")
	}
}

func TestConcurrentPushPop(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			b.PushPose(grid.WorldOrd{X: float64(i)})
		}(i)
		go func() {
			defer wg.Done()
			b.TryPopLatest()
		}()
	}
	wg.Wait()
}
