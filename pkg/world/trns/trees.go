package trns

import (
	"math/rand/v2"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

const (
	minTrunk = 4
	maxTrunk = 6

	// treeStream keys the tree placement stream of placementRNG.
	treeStream = 0x7472656573
)

// Trees plants wood trunks on dry grass. Placement depends only on Seed and
// the chunk offset, so regenerating a chunk plants the same trees.
type Trees struct {
	Seed int64
	// PerChunk is the number of placement attempts per chunk.
	PerChunk int
}

// Name implements Transformation.
func (Trees) Name() string { return "trees" }

func (Trees) transformation() {}

func (t Trees) apply(c *chunk.Chunk) {
	rng := placementRNG(t.Seed, c.Offset(), treeStream)

	for range t.PerChunk {
		// Trunks stay off the chunk edge.
		x := 1 + rng.IntN(coord.ChunkSize-2)
		y := 1 + rng.IntN(coord.ChunkSize-2)
		height := minTrunk + rng.IntN(maxTrunk-minTrunk+1)

		top, ok := topSolid(c, x, y)
		if !ok || top+height >= coord.ChunkHeight {
			continue
		}
		base, _ := coord.NewChunkPos(x, y, top)
		above, _ := coord.NewChunkPos(x, y, top+1)
		// Underwater grass gets no tree.
		if c.Type(base) != chunk.Grass || c.Type(above) != chunk.Air {
			continue
		}
		for z := top + 1; z <= top+height; z++ {
			p, _ := coord.NewChunkPos(x, y, z)
			c.SetType(p, chunk.Wood)
		}
	}
}

// topSolid returns the height of the topmost opaque block in a column.
func topSolid(c *chunk.Chunk, x, y int) (int, bool) {
	for z := coord.ChunkHeight - 1; z >= 0; z-- {
		p, _ := coord.NewChunkPos(x, y, z)
		if c.Type(p).Opaque() {
			return z, true
		}
	}
	return 0, false
}

// placementRNG returns a PCG stream keyed by seed, chunk offset and stream,
// so a chunk draws the same placements however often it is regenerated.
func placementRNG(seed int64, off coord.ChunkOffset, stream uint64) *rand.Rand {
	cell := uint64(uint32(off.X()))<<32 | uint64(uint32(off.Y()))
	return rand.New(rand.NewPCG(uint64(seed), cell^stream))
}
