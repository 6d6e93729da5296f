package trns

import (
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

// SurfacePainter turns the topmost opaque block of every column into grass.
// Columns without an opaque block are left alone.
type SurfacePainter struct{}

func (SurfacePainter) Name() string { return "surface painting" }

func (SurfacePainter) transformation() {}

func (SurfacePainter) apply(c *chunk.Chunk) {
	for y := 0; y < coord.ChunkSize; y++ {
		for x := 0; x < coord.ChunkSize; x++ {
			paintColumn(c, x, y)
		}
	}
}

// paintColumn skips water and air from the top down.
func paintColumn(c *chunk.Chunk, x, y int) {
	z, ok := topSolid(c, x, y)
	if !ok {
		return
	}
	p, _ := coord.NewChunkPos(x, y, z)
	c.SetType(p, chunk.Grass)
}
