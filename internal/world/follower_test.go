package world

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/trns"
)

// startFollower runs f in the background until the test ends.
func startFollower(t *testing.T, f *Follower) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	})
}

func waitIdle(t *testing.T, f *Follower) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := f.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
}

func newTestFollower(t *testing.T, g *recordingGen, opts FollowerOptions) *Follower {
	t.Helper()
	fixed := NewFixedGenerator(g, trns.Pipeline{}, Options{Region: Region{X: 1, Y: 1}}, nil)
	return NewFollower(fixed, opts, nil)
}

func update(t *testing.T, f *Follower, x, y float32) bool {
	t.Helper()
	queued, err := f.Update(mgl32.Vec3{x, y, 120})
	if err != nil {
		t.Fatalf("Update(%v, %v): %v", x, y, err)
	}
	return queued
}

func TestFollowerInitialSnapshotEmpty(t *testing.T) {
	f := newTestFollower(t, newRecordingGen(t), FollowerOptions{})
	w := f.Snapshot()
	if w == nil || w.Len() != 0 {
		t.Fatalf("initial snapshot = %+v, want empty world", w)
	}
	waitIdle(t, f)
}

func TestFollowerSameChunkRegeneratesOnce(t *testing.T) {
	g := newRecordingGen(t)
	f := newTestFollower(t, g, FollowerOptions{})
	startFollower(t, f)

	if !update(t, f, 1.5, 2.5) {
		t.Error("first update should queue")
	}
	if update(t, f, 15.9, 0) {
		t.Error("update inside the same chunk should not queue")
	}
	waitIdle(t, f)

	st := f.Stats()
	if st.Requested != 1 || st.Completed != 1 || st.Failed != 0 {
		t.Errorf("Stats = %+v, want 1 requested and 1 completed", st)
	}
	if got := len(g.Calls()); got != 1 {
		t.Errorf("generated %d chunks, want 1", got)
	}
	w := f.Snapshot()
	if w.Center != (coord.ChunkOffset{}) || w.Len() != 1 {
		t.Errorf("snapshot center %v len %d", w.Center, w.Len())
	}
}

func TestFollowerProcessesInOrder(t *testing.T) {
	g := newRecordingGen(t)
	f := newTestFollower(t, g, FollowerOptions{})

	// Queue before the worker starts so all three are pending together.
	update(t, f, 0, 0)
	update(t, f, 16, 0)
	update(t, f, 32, -1)

	startFollower(t, f)
	waitIdle(t, f)

	want := []coord.ChunkOffset{offset(t, 0, 0), offset(t, 1, 0), offset(t, 2, -1)}
	if got := g.Calls(); !slices.Equal(got, want) {
		t.Errorf("generation order = %v, want %v", got, want)
	}
	if st := f.Stats(); st.Completed != 3 || st.Dropped != 0 {
		t.Errorf("Stats = %+v", st)
	}
	if got := f.Snapshot().Center; got != offset(t, 2, -1) {
		t.Errorf("snapshot center = %v, want (2,-1)", got)
	}
}

func TestFollowerCoalesce(t *testing.T) {
	g := newRecordingGen(t)
	f := newTestFollower(t, g, FollowerOptions{Coalesce: true})

	update(t, f, 0, 0)
	update(t, f, 16, 0)
	update(t, f, 32, 0)

	startFollower(t, f)
	waitIdle(t, f)

	st := f.Stats()
	if st.Requested != 3 || st.Dropped != 2 || st.Completed != 1 {
		t.Errorf("Stats = %+v, want 3 requested, 2 dropped, 1 completed", st)
	}
	if got := g.Calls(); !slices.Equal(got, []coord.ChunkOffset{offset(t, 2, 0)}) {
		t.Errorf("generated = %v, want only (2,0)", got)
	}
}

func TestFollowerFailureKeepsPreviousSnapshot(t *testing.T) {
	g := newRecordingGen(t)
	g.failAt[offset(t, 1, 0)] = true
	f := newTestFollower(t, g, FollowerOptions{})
	startFollower(t, f)

	update(t, f, 0, 0)
	waitIdle(t, f)
	before := f.Snapshot()

	update(t, f, 16, 0)
	waitIdle(t, f)
	if got := f.Snapshot(); got != before {
		t.Errorf("snapshot replaced after failed batch: center %v", got.Center)
	}
	if st := f.Stats(); st.Failed != 1 || st.Completed != 1 {
		t.Errorf("Stats = %+v, want 1 failed and 1 completed", st)
	}

	// The worker keeps serving after a failure.
	update(t, f, 32, 0)
	waitIdle(t, f)
	if got := f.Snapshot().Center; got != offset(t, 2, 0) {
		t.Errorf("snapshot center = %v, want (2,0)", got)
	}
}

func TestFollowerGeneratorPanicKeepsSnapshot(t *testing.T) {
	g := newRecordingGen(t)
	g.panicAt[offset(t, 1, 0)] = true
	f := newTestFollower(t, g, FollowerOptions{})
	startFollower(t, f)

	update(t, f, 0, 0)
	waitIdle(t, f)
	before := f.Snapshot()

	update(t, f, 16, 0)
	waitIdle(t, f)
	if got := f.Snapshot(); got != before {
		t.Errorf("snapshot replaced after panicking batch: center %v", got.Center)
	}
	if st := f.Stats(); st.Failed != 1 || st.Completed != 1 {
		t.Errorf("Stats = %+v, want 1 failed and 1 completed", st)
	}

	update(t, f, 32, 0)
	waitIdle(t, f)
	if got := f.Snapshot().Center; got != offset(t, 2, 0) {
		t.Errorf("snapshot center = %v, want (2,0)", got)
	}
}

func TestFollowerConcurrentUpdatesQueueLatest(t *testing.T) {
	for _, coalesce := range []bool{false, true} {
		g := newRecordingGen(t)
		f := newTestFollower(t, g, FollowerOptions{Coalesce: coalesce})

		var wg sync.WaitGroup
		for i := range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := f.Update(mgl32.Vec3{float32(i * coord.ChunkSize), 0, 120}); err != nil {
					t.Errorf("Update: %v", err)
				}
			}()
		}
		wg.Wait()

		f.mu.Lock()
		last, queued := f.last, slices.Clone(f.queue)
		f.mu.Unlock()
		if len(queued) == 0 || queued[len(queued)-1] != last {
			t.Fatalf("coalesce=%v: queue %v does not end with last center %v", coalesce, queued, last)
		}
		if !coalesce && len(queued) != 32 {
			t.Errorf("queued %d centers, want 32", len(queued))
		}

		startFollower(t, f)
		waitIdle(t, f)
		if got := f.Snapshot().Center; got != last {
			t.Errorf("coalesce=%v: snapshot center = %v, want %v", coalesce, got, last)
		}
	}
}

func TestFollowerOutOfRangeRegionFails(t *testing.T) {
	g := newRecordingGen(t)
	fixed := NewFixedGenerator(g, trns.Pipeline{}, Options{Region: Region{X: 20, Y: 1}}, nil)
	f := NewFollower(fixed, FollowerOptions{}, nil)
	startFollower(t, f)

	// Chunk 2^28-16 is valid, but 19 chunks further along x is not.
	edge := float32(coord.MaxChunkOffset-16) * coord.ChunkSize
	update(t, f, edge, 0)
	waitIdle(t, f)

	if st := f.Stats(); st.Failed != 1 {
		t.Errorf("Stats = %+v, want 1 failed", st)
	}
	if f.Snapshot().Len() != 0 {
		t.Error("failed batch should not publish")
	}
	if got := len(g.Calls()); got != 0 {
		t.Errorf("generated %d chunks, want 0", got)
	}
}

func TestFollowerUpdateRejectsInvalidPosition(t *testing.T) {
	f := newTestFollower(t, newRecordingGen(t), FollowerOptions{})

	for _, pos := range []mgl32.Vec3{
		{float32(math.NaN()), 0, 0},
		{0, float32(math.Inf(1)), 0},
		{1e12, 0, 0},
	} {
		if _, err := f.Update(pos); !errors.Is(err, coord.ErrOutOfRange) {
			t.Errorf("Update(%v) err = %v, want ErrOutOfRange", pos, err)
		}
	}
	if st := f.Stats(); st.Requested != 0 {
		t.Errorf("Requested = %d, want 0", st.Requested)
	}
}

func TestFollowerRunTwice(t *testing.T) {
	f := newTestFollower(t, newRecordingGen(t), FollowerOptions{})
	startFollower(t, f)

	// Wait until the first Run has claimed the follower.
	deadline := time.Now().Add(5 * time.Second)
	for !f.running.Load() {
		if time.Now().After(deadline) {
			t.Fatal("Run did not start")
		}
		time.Sleep(time.Millisecond)
	}
	if err := f.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run err = %v, want ErrAlreadyRunning", err)
	}
}

func TestFollowerSnapshotNeverPartial(t *testing.T) {
	g := newRecordingGen(t)
	fixed := NewFixedGenerator(g, trns.Pipeline{}, Options{Region: Region{X: 1, Y: 1}, Bounds: BoundsInclusive}, nil)
	f := NewFollower(fixed, FollowerOptions{}, nil)
	startFollower(t, f)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if n := f.Snapshot().Len(); n != 0 && n != 9 {
					t.Errorf("snapshot has %d chunks", n)
					return
				}
			}
		}()
	}

	for i := range 20 {
		update(t, f, float32(i*coord.ChunkSize), 0)
	}
	waitIdle(t, f)
	close(stop)
	wg.Wait()

	if got := f.Snapshot().Center; got != offset(t, 19, 0) {
		t.Errorf("final center = %v, want (19,0)", got)
	}
}
