package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

// ErrAlreadyRunning is returned when Run is called on a Follower that is
// already running.
var ErrAlreadyRunning = errors.New("follower already running")

type state uint8

const (
	stateIdle state = iota
	stateGenerating
	statePublishing
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateGenerating:
		return "generating"
	case statePublishing:
		return "publishing"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Stats counts follower activity since creation.
type Stats struct {
	Requested uint64
	Completed uint64
	Failed    uint64
	// Dropped counts requests superseded by a newer one before being
	// processed. Only non-zero when coalescing.
	Dropped uint64
}

// FollowerOptions configures a Follower.
type FollowerOptions struct {
	// Coalesce keeps only the newest pending center instead of
	// processing every request in order.
	Coalesce bool
}

// Follower regenerates the world around a moving viewpoint on a background
// worker. Readers always see the last fully published World.
type Follower struct {
	fixed    *FixedGenerator
	log      *slog.Logger
	coalesce bool
	running  atomic.Bool

	// mu guards last and the queue together so the queue tail is always
	// the most recent center.
	mu         sync.Mutex
	last       coord.ChunkOffset
	hasLast    bool
	queue      []coord.ChunkOffset
	state      state
	idle       chan struct{}
	idleClosed bool
	wake       chan struct{}

	snapMu   sync.RWMutex
	snapshot *World

	requested atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

// NewFollower creates a Follower. Until the first batch is published the
// snapshot is an empty World centered on the origin.
func NewFollower(fixed *FixedGenerator, opts FollowerOptions, log *slog.Logger) *Follower {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	idle := make(chan struct{})
	close(idle)
	return &Follower{
		fixed:      fixed,
		log:        log,
		coalesce:   opts.Coalesce,
		idle:       idle,
		idleClosed: true,
		wake:       make(chan struct{}, 1),
		snapshot:   newWorld(coord.ChunkOffset{}, nil),
	}
}

// Update records a new viewpoint position. A regeneration is queued only when
// the position falls in a different chunk than the previous update; the
// first update always queues. It reports whether a request was queued.
// Update is safe for concurrent use.
func (f *Follower) Update(pos mgl32.Vec3) (bool, error) {
	off, err := coord.OffsetAt(float64(pos.X()), float64(pos.Y()))
	if err != nil {
		return false, fmt.Errorf("viewpoint %v: %w", pos, err)
	}

	f.mu.Lock()
	if f.hasLast && off == f.last {
		f.mu.Unlock()
		return false, nil
	}
	f.last, f.hasLast = off, true
	f.enqueueLocked(off)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
	return true, nil
}

// enqueueLocked appends off to the queue. f.mu must be held.
func (f *Follower) enqueueLocked(off coord.ChunkOffset) {
	if f.coalesce && len(f.queue) > 0 {
		f.dropped.Add(uint64(len(f.queue)))
		f.queue = f.queue[:0]
	}
	f.queue = append(f.queue, off)
	if f.idleClosed {
		f.idle = make(chan struct{})
		f.idleClosed = false
	}
	f.requested.Add(1)
}

// next pops the oldest pending center. With an empty queue it marks the
// follower idle and returns false.
func (f *Follower) next() (coord.ChunkOffset, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		f.state = stateIdle
		if !f.idleClosed {
			close(f.idle)
			f.idleClosed = true
		}
		return coord.ChunkOffset{}, false
	}
	off := f.queue[0]
	f.queue = f.queue[1:]
	f.state = stateGenerating
	return off, true
}

func (f *Follower) setState(s state) {
	f.mu.Lock()
	prev := f.state
	f.state = s
	f.mu.Unlock()
	f.log.Debug("world follower state", "from", prev, "to", s)
}

// Run processes queued centers in FIFO order until ctx is cancelled.
// Cancellation is observed between batches; a batch in progress completes.
func (f *Follower) Run(ctx context.Context) error {
	if !f.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer f.running.Store(false)

	f.log.Info("world follower started", "coalesce", f.coalesce)
	for {
		if ctx.Err() != nil {
			f.log.Info("world follower stopped")
			return nil
		}

		off, ok := f.next()
		if !ok {
			select {
			case <-ctx.Done():
				f.log.Info("world follower stopped")
				return nil
			case <-f.wake:
			}
			continue
		}
		f.process(off)
	}
}

// process regenerates around center and publishes the result. A failed
// batch keeps the previous snapshot. Generator panics arrive here as errors
// from GenerateAround; the recover below only covers this goroutine.
func (f *Follower) process(center coord.ChunkOffset) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			f.failed.Add(1)
			f.log.Error("world regeneration panicked", "center", center, "panic", r)
		}
	}()

	w, err := f.fixed.GenerateAround(center)
	if err != nil {
		f.failed.Add(1)
		f.log.Error("regenerate world", "center", center, "error", err)
		return
	}

	f.setState(statePublishing)
	f.snapMu.Lock()
	f.snapshot = w
	f.snapMu.Unlock()
	f.completed.Add(1)

	f.log.Debug("world published",
		"center", center,
		"chunks", w.Len(),
		"elapsed", time.Since(start),
	)
}

// Snapshot returns the last published World. It never observes a partially
// built world.
func (f *Follower) Snapshot() *World {
	f.snapMu.RLock()
	defer f.snapMu.RUnlock()
	return f.snapshot
}

// Stats returns a point-in-time copy of the counters.
func (f *Follower) Stats() Stats {
	return Stats{
		Requested: f.requested.Load(),
		Completed: f.completed.Load(),
		Failed:    f.failed.Load(),
		Dropped:   f.dropped.Load(),
	}
}

// WaitIdle blocks until every request queued so far has been processed or
// ctx is done.
func (f *Follower) WaitIdle(ctx context.Context) error {
	f.mu.Lock()
	ch := f.idle
	f.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
