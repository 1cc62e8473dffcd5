package plannerloop

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/elektrokombinacija/ldprm-planner/internal/config"
	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
	"github.com/elektrokombinacija/ldprm-planner/internal/roadmap"
	"github.com/elektrokombinacija/ldprm-planner/internal/worldbuffer"
)

func testLoop(t *testing.T) (*PlannerLoop, chan Result) {
	t.Helper()
	wb := worldbuffer.New()
	wb.PushGrid(grid.New(40, 40, 0.1, grid.WorldOrd{}, 255))
	wb.PushPose(grid.WorldOrd{})

	cfg := config.Default()
	rm := roadmap.New(roadmap.Config{
		MapSizeM:         4.0,
		RobotDiameterM:   cfg.RobotDiameter,
		MaxDegree:        cfg.Density,
		MaxEdgeLen:       cfg.MaxEdgeLen,
		DispersionRadius: cfg.DispersionRadius,
		MaxSamples:       cfg.MaxSamples,
	})

	results := make(chan Result, 8)
	logger := zap.NewNop().Sugar()
	pl := New(wb, rm, cfg, logger, nil, func(r Result) {
		results <- r
	})
	return pl, results
}

func TestPlannerLoopPublishesPathOnGoal(t *testing.T) {
	pl, results := testLoop(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pl.Run(ctx)
		close(done)
	}()

	pl.SubmitGoal(grid.WorldOrd{X: 1.0, Y: 1.0})

	select {
	case r := <-results:
		if r.Err != nil {
			t.Errorf("unexpected build error: %v", r.Err)
		}
		if len(r.Path) == 0 {
			t.Error("expected a non-empty path for a direct line-of-sight goal")
		}
		if r.Overlay == nil {
			t.Error("expected an overlay to always be published")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a published result")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the loop to shut down")
	}
}

func TestWaitForWorldPollsInjectedClock(t *testing.T) {
	wb := worldbuffer.New()
	cfg := config.Default()
	rm := roadmap.New(roadmap.Config{
		MapSizeM:         4.0,
		RobotDiameterM:   cfg.RobotDiameter,
		MaxDegree:        cfg.Density,
		MaxEdgeLen:       cfg.MaxEdgeLen,
		DispersionRadius: cfg.DispersionRadius,
		MaxSamples:       cfg.MaxSamples,
	})
	mock := clock.NewMock()
	logger := zap.NewNop().Sugar()
	pl := New(wb, rm, cfg, logger, mock, func(Result) {})

	done := make(chan bool, 1)
	go func() {
		done <- pl.waitForWorld()
	}()

	wb.PushGrid(grid.New(40, 40, 0.1, grid.WorldOrd{}, 255))
	wb.PushPose(grid.WorldOrd{})

	// waitForWorld blocks on pl.clock.Sleep(worldWaitPoll) before it can
	// notice the world above; advancing the mock clock before that
	// sleep is registered is a no-op, so retry the advance instead of
	// waiting on a real timer.
	for i := 0; i < 200; i++ {
		mock.Add(worldWaitPoll)
		select {
		case shuttingDown := <-done:
			if shuttingDown {
				t.Error("expected waitForWorld to return false once the world arrived, not a shutdown")
			}
			return
		default:
			time.Sleep(time.Millisecond)
		}
	}
	t.Fatal("waitForWorld never returned after repeated mock clock advances")
}

func TestGoalOverwriteCoalescesToNewest(t *testing.T) {
	pl, results := testLoop(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		pl.Run(ctx)
		close(done)
	}()

	// Two goals submitted back-to-back before the loop can service
	// either: SubmitGoal's mailbox semantics mean only the second is
	// ever seen as "pending" once both have landed.
	pl.mailbox.mu.Lock()
	pl.mailbox.pending = &grid.WorldOrd{X: 0.2, Y: 0}
	pl.mailbox.pending = &grid.WorldOrd{X: 0.9, Y: 0.9}
	pl.mailbox.mu.Unlock()
	pl.mailbox.cond.Signal()

	select {
	case r := <-results:
		if len(r.Path) == 0 {
			t.Fatal("expected a non-empty path")
		}
		if r.Path[len(r.Path)-1] != (grid.WorldOrd{X: 0.9, Y: 0.9}) {
			t.Errorf("expected the loop to plan for the newest goal, got path ending at %v", r.Path[len(r.Path)-1])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a published result")
	}

	pl.Shutdown()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the loop to shut down")
	}
}
