package trns

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

const (
	// caveFloor keeps the bottom layers of every column solid.
	caveFloor = 4
	// caveRoof is the solid crust left under the top opaque block.
	caveRoof = 4
	// Columns lower than this get no caves.
	minCaveColumn = caveFloor + caveRoof + 1

	// DefaultCaveThreshold is the density above which blocks are carved
	// when no threshold is configured.
	DefaultCaveThreshold = 0.7
)

// Caves carves air pockets out of the opaque blocks of a column, between
// caveFloor and the crust under the surface. Two 3D simplex fields at
// different scales are averaged into a density in [0, 1); blocks where it
// exceeds Threshold become air. Water is never carved, so caves stay dry,
// and a Threshold of 1 or more carves nothing.
type Caves struct {
	Seed      int64
	Threshold float64
}

// Name implements Transformation.
func (Caves) Name() string { return "cave carving" }

func (Caves) transformation() {}

func (cv Caves) apply(c *chunk.Chunk) {
	if cv.Threshold >= 1 {
		return
	}
	wide := opensimplex.NewNormalized(cv.Seed + 300)
	narrow := opensimplex.NewNormalized(cv.Seed + 400)

	off := c.Offset()
	for y := 0; y < coord.ChunkSize; y++ {
		for x := 0; x < coord.ChunkSize; x++ {
			top, ok := topSolid(c, x, y)
			if !ok || top < minCaveColumn {
				continue
			}
			wx := float64(off.X()*coord.ChunkSize + x)
			wy := float64(off.Y()*coord.ChunkSize + y)

			for z := caveFloor; z < top-caveRoof; z++ {
				p, _ := coord.NewChunkPos(x, y, z)
				if !c.Type(p).Opaque() {
					continue
				}
				wz := float64(z)
				density := (wide.Eval3(wx/32, wy/32, wz/24) + narrow.Eval3(wx/48, wy/48, wz/32)) / 2
				if density > cv.Threshold {
					c.SetType(p, chunk.Air)
				}
			}
		}
	}
}
