package gen

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

// ErrPanic wraps a panic recovered while generating a chunk.
var ErrPanic = errors.New("generator panicked")

// Generator produces chunk data deterministically.
type Generator interface {
	Generate(off coord.ChunkOffset) (*chunk.Chunk, error)
	// HeightAt returns the z of the topmost solid block of the world column (x, y).
	HeightAt(x, y int) int
}

// DefaultWorkers is the fan-out used when a generator is built with Workers <= 0.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// columnFunc writes the block types of world column (wx, wy) into col, indexed by z.
type columnFunc func(wx, wy int, col *[coord.ChunkHeight]chunk.BlockType)

// fillRows generates the 16 rows of a chunk concurrently, at most workers at
// a time. Rows write disjoint indices of the shared slice. Any failure
// discards the whole chunk, including a panic inside fill, which errgroup
// would otherwise let escape the row goroutine.
func fillRows(off coord.ChunkOffset, workers int, fill columnFunc) (*chunk.Chunk, error) {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	types := make([]chunk.BlockType, coord.ChunkVolume)

	var g errgroup.Group
	g.SetLimit(workers)
	for y := 0; y < coord.ChunkSize; y++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("row %d of %v: %w: %v", y, off, ErrPanic, r)
				}
			}()
			var col [coord.ChunkHeight]chunk.BlockType
			for x := 0; x < coord.ChunkSize; x++ {
				base, err := coord.NewChunkPos(x, y, 0)
				if err != nil {
					return err
				}
				wp, err := base.WorldPos(off)
				if err != nil {
					return fmt.Errorf("column %d,%d of %v: %w", x, y, off, err)
				}
				fill(wp.X(), wp.Y(), &col)
				for z, t := range col {
					types[base.Index()+z*coord.ChunkSize*coord.ChunkSize] = t
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunk.New(off, types)
}
