package world

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/gen"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/trns"
)

// Options configures which chunks a FixedGenerator produces and how.
type Options struct {
	Region Region
	Bounds Bounds
	// Workers bounds concurrent chunk generation. Values <= 0 mean GOMAXPROCS.
	Workers int
	// Cache keeps the chunks of the last generated region so overlapping
	// regions reuse them instead of regenerating.
	Cache bool
}

// FixedGenerator generates and transforms every chunk of a region.
type FixedGenerator struct {
	gen      gen.Generator
	pipeline trns.Pipeline
	opts     Options
	log      *slog.Logger

	mu    sync.RWMutex
	cache map[coord.ChunkOffset]*chunk.Chunk
}

// NewFixedGenerator creates a FixedGenerator. A nil log discards output.
func NewFixedGenerator(g gen.Generator, p trns.Pipeline, opts Options, log *slog.Logger) *FixedGenerator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.Workers <= 0 {
		opts.Workers = gen.DefaultWorkers()
	}
	f := &FixedGenerator{
		gen:      g,
		pipeline: p,
		opts:     opts,
		log:      log,
	}
	if opts.Cache {
		f.cache = make(map[coord.ChunkOffset]*chunk.Chunk)
	}
	return f
}

// Options returns the options in effect, with Workers resolved.
func (f *FixedGenerator) Options() Options { return f.opts }

// Generate builds the world around the origin chunk.
func (f *FixedGenerator) Generate() (*World, error) {
	return f.GenerateAround(coord.ChunkOffset{})
}

// GenerateAround builds the world around center. Chunks are listed in
// Region.Offsets order regardless of which finishes first. Any chunk failing
// fails the whole world; a panicking generator or pass counts as a failure
// wrapping gen.ErrPanic.
func (f *FixedGenerator) GenerateAround(center coord.ChunkOffset) (*World, error) {
	start := time.Now()

	offsets, err := f.opts.Region.Offsets(center, f.opts.Bounds)
	if err != nil {
		return nil, err
	}

	chunks := make([]*chunk.Chunk, len(offsets))
	var g errgroup.Group
	g.SetLimit(f.opts.Workers)
	for i, off := range offsets {
		g.Go(func() error {
			c, err := f.chunk(off)
			if err != nil {
				return err
			}
			chunks[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.prune(offsets)
	}

	f.log.Debug("world generated",
		"center", center,
		"chunks", len(chunks),
		"elapsed", time.Since(start),
	)
	return newWorld(center, chunks), nil
}

// chunk returns the transformed chunk at off, consulting the cache if enabled.
func (f *FixedGenerator) chunk(off coord.ChunkOffset) (*chunk.Chunk, error) {
	if f.cache == nil {
		return f.build(off)
	}

	f.mu.RLock()
	if c, ok := f.cache[off]; ok {
		f.mu.RUnlock()
		return c, nil
	}
	f.mu.RUnlock()

	c, err := f.build(off)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	// Double-check after acquiring write lock.
	if existing, ok := f.cache[off]; ok {
		return existing, nil
	}
	f.cache[off] = c
	return c, nil
}

// build runs on an errgroup goroutine, so it recovers its own panics.
func (f *FixedGenerator) build(off coord.ChunkOffset) (c *chunk.Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("chunk %v: %w: %v", off, gen.ErrPanic, r)
		}
	}()

	c, err = f.gen.Generate(off)
	if err != nil {
		return nil, fmt.Errorf("generate chunk %v: %w", off, err)
	}
	if err := f.pipeline.Apply(c); err != nil {
		return nil, fmt.Errorf("transform chunk %v: %w", off, err)
	}
	return c, nil
}

// prune drops cached chunks outside keep.
func (f *FixedGenerator) prune(keep []coord.ChunkOffset) {
	set := make(map[coord.ChunkOffset]struct{}, len(keep))
	for _, off := range keep {
		set[off] = struct{}{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for off := range f.cache {
		if _, ok := set[off]; !ok {
			delete(f.cache, off)
		}
	}
}

// cached reports how many chunks the cache holds.
func (f *FixedGenerator) cached() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache)
}
