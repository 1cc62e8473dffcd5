// Package plannerloop drives the planner's single-loop state machine:
// WaitingForWorld -> Idle -> Planning -> Idle -> ... -> ShuttingDown.
// Goal submission and cooperative shutdown are mediated through an
// instance-owned mailbox (mutex + condition variable), reachable from
// both the goal-submitting caller and the loop itself without any
// package-level state.
package plannerloop

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/elektrokombinacija/ldprm-planner/internal/config"
	"github.com/elektrokombinacija/ldprm-planner/internal/grid"
	"github.com/elektrokombinacija/ldprm-planner/internal/roadmap"
	"github.com/elektrokombinacija/ldprm-planner/internal/worldbuffer"
)

// State names one point in the loop's state machine.
type State int

const (
	WaitingForWorld State = iota
	Idle
	Planning
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case WaitingForWorld:
		return "WaitingForWorld"
	case Idle:
		return "Idle"
	case Planning:
		return "Planning"
	case ShuttingDown:
		return "ShuttingDown"
	default:
		return "Unknown"
	}
}

// worldWaitPoll is how often the WaitingForWorld state re-checks
// WorldBuffer.HasBoth.
const worldWaitPoll = 20 * time.Millisecond

// Result is handed to Publish after every Planning cycle. Waypoints
// should only be consumed by the sink when len(Path) > 0; Overlay is
// always populated.
type Result struct {
	Path    []grid.WorldOrd
	Overlay image.Image
	Err     error
}

// Publish hands a build's outcome to an external sink (transport,
// file, test channel).
type Publish func(Result)

// PlannerLoop owns the mailbox (pending goal + shutdown flag), the
// roadmap, and the cached latest world frame. It is the sole caller of
// Roadmap/Graph operations — no other goroutine touches them.
type PlannerLoop struct {
	wb      *worldbuffer.WorldBuffer
	rm      *roadmap.Roadmap
	cfg     config.Config
	log     *zap.SugaredLogger
	clock   clock.Clock
	publish Publish

	mailbox mailbox

	lastGrid *grid.Grid
	lastPose grid.WorldOrd
}

// mailbox is the instance-owned synchronised handoff for goal
// submission and shutdown signalling.
type mailbox struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pending  *grid.WorldOrd
	shutdown bool
}

// New constructs a PlannerLoop. clk may be nil to use the real wall
// clock; tests substitute a clock.Mock.
func New(wb *worldbuffer.WorldBuffer, rm *roadmap.Roadmap, cfg config.Config, log *zap.SugaredLogger, clk clock.Clock, publish Publish) *PlannerLoop {
	if clk == nil {
		clk = clock.New()
	}
	pl := &PlannerLoop{
		wb:      wb,
		rm:      rm,
		cfg:     cfg,
		log:     log,
		clock:   clk,
		publish: publish,
	}
	pl.mailbox.cond = sync.NewCond(&pl.mailbox.mu)
	return pl
}

// SubmitGoal updates the pending goal. While a build is in progress
// this overwrites, but does not preempt, the in-flight build; the loop
// plans for the newer goal as soon as that build finishes.
func (p *PlannerLoop) SubmitGoal(g grid.WorldOrd) {
	p.mailbox.mu.Lock()
	defer p.mailbox.mu.Unlock()
	gCopy := g
	p.mailbox.pending = &gCopy
	p.mailbox.cond.Signal()
}

// Shutdown requests cooperative termination. A planning cycle in
// progress is not interrupted: Roadmap.Build does not check the
// shutdown flag inside its sampling loop, and the cycle's remaining
// retries and any goal that arrived during it are still planned. The
// loop exits the next time it waits for the world or for a goal.
func (p *PlannerLoop) Shutdown() {
	p.mailbox.mu.Lock()
	defer p.mailbox.mu.Unlock()
	p.mailbox.shutdown = true
	p.mailbox.cond.Broadcast()
}

// Run drives the state machine until Shutdown is called or ctx is
// cancelled, whichever comes first. It blocks the calling goroutine.
func (p *PlannerLoop) Run(ctx context.Context) {
	stop := context.AfterFunc(ctx, p.Shutdown)
	defer stop()

	state := WaitingForWorld
	p.log.Infow("planner loop starting", "state", state.String())

	for {
		switch state {
		case WaitingForWorld:
			if p.waitForWorld() {
				state = ShuttingDown
				continue
			}
			state = Idle

		case Idle:
			goal, shuttingDown := p.awaitGoalOrShutdown()
			if shuttingDown {
				state = ShuttingDown
				continue
			}
			p.runPlanningCycle(goal)
			state = Idle

		case ShuttingDown:
			p.log.Infow("planner loop shutting down")
			return
		}
	}
}

// waitForWorld spins until the world buffer has both a grid and a
// pose, or shutdown is requested. Returns true if it exited due to
// shutdown.
func (p *PlannerLoop) waitForWorld() bool {
	for {
		p.mailbox.mu.Lock()
		shuttingDown := p.mailbox.shutdown
		p.mailbox.mu.Unlock()
		if shuttingDown {
			return true
		}
		if p.wb.HasBoth() {
			return false
		}
		p.clock.Sleep(worldWaitPoll)
	}
}

// awaitGoalOrShutdown blocks on the mailbox condition until a goal is
// submitted or shutdown is requested, coalescing any goal that arrived
// since the last cycle into the one returned.
func (p *PlannerLoop) awaitGoalOrShutdown() (grid.WorldOrd, bool) {
	p.mailbox.mu.Lock()
	defer p.mailbox.mu.Unlock()
	for p.mailbox.pending == nil && !p.mailbox.shutdown {
		p.mailbox.cond.Wait()
	}
	if p.mailbox.shutdown {
		return grid.WorldOrd{}, true
	}
	goal := *p.mailbox.pending
	p.mailbox.pending = nil
	return goal, false
}

// runPlanningCycle drives one or more Planning attempts for goal, then
// re-enters Planning immediately (without returning to Idle first) if
// a newer goal arrived while this one was building, so a goal
// overwrite during a build is picked up without preempting it.
func (p *PlannerLoop) runPlanningCycle(goal grid.WorldOrd) {
	for {
		p.plan(goal)

		p.mailbox.mu.Lock()
		next := p.mailbox.pending
		if next != nil {
			p.mailbox.pending = nil
		}
		p.mailbox.mu.Unlock()

		if next == nil {
			return
		}
		goal = *next
	}
}

// plan snapshots the latest world frame, points the roadmap at the
// current pose, and calls Roadmap.Build up to cfg.MaxRetries times,
// publishing the overlay unconditionally and the waypoints only on
// success.
func (p *PlannerLoop) plan(goal grid.WorldOrd) {
	if g, ok, pose, poseOK := p.wb.TryPopLatest(); ok || poseOK {
		if ok {
			p.lastGrid = g
		}
		if poseOK {
			p.lastPose = pose
		}
	}
	if p.lastGrid == nil {
		p.log.Warnw("planning attempted before any grid arrived")
		return
	}

	p.rm.SetReference(p.lastPose)

	maxAttempts := p.cfg.MaxRetries
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var path []grid.WorldOrd
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		path, err = p.rm.Build(p.lastGrid, p.lastPose, goal)
		if err == nil && len(path) > 0 {
			break
		}
		if err == roadmap.ErrGoalInaccessible {
			// No recovery for an inaccessible endpoint; retrying the
			// sampling loop cannot change that.
			p.log.Warnw("goal inaccessible", "goal", goal, "attempt", attempt)
			break
		}
		p.log.Warnw("build attempt found no path", "attempt", attempt, "maxAttempts", maxAttempts, "err", err)
	}

	overlay := roadmap.RenderOverlay(p.lastGrid, p.rm, path)
	if p.publish != nil {
		p.publish(Result{Path: path, Overlay: overlay, Err: err})
	}
}
