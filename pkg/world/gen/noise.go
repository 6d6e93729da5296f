package gen

import (
	"math"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/noise"
)

// Options configures a NoiseGenerator.
type Options struct {
	BaseHeight int
	Workers    int // <= 0 means DefaultWorkers()
}

// NoiseGenerator classifies every block as stone or air against a
// noise-displaced surface height.
type NoiseGenerator struct {
	field      *noise.Field
	baseHeight int
	workers    int
}

// NewNoiseGenerator creates a NoiseGenerator sampling field.
func NewNoiseGenerator(field *noise.Field, opts Options) *NoiseGenerator {
	return &NoiseGenerator{
		field:      field,
		baseHeight: opts.BaseHeight,
		workers:    opts.Workers,
	}
}

func (g *NoiseGenerator) Field() *noise.Field { return g.field }

// HeightAt returns floor(baseHeight + noise(x, y)).
func (g *NoiseGenerator) HeightAt(x, y int) int {
	h := float64(g.baseHeight) + g.field.Sample(float64(x), float64(y))
	return int(math.Floor(h))
}

// GenerateAt generates the single block at p inside the chunk at off.
func (g *NoiseGenerator) GenerateAt(p coord.ChunkPos, off coord.ChunkOffset) (chunk.Block, error) {
	wp, err := p.WorldPos(off)
	if err != nil {
		return chunk.Block{}, err
	}
	return chunk.Block{
		Type:   classify(p.Z(), g.HeightAt(wp.X(), wp.Y())),
		Pos:    p,
		Offset: off,
	}, nil
}

// Generate builds the full chunk at off. The surface height is sampled once
// per column; the result is identical to calling GenerateAt for every position.
func (g *NoiseGenerator) Generate(off coord.ChunkOffset) (*chunk.Chunk, error) {
	return fillRows(off, g.workers, func(wx, wy int, col *[coord.ChunkHeight]chunk.BlockType) {
		surface := g.HeightAt(wx, wy)
		for z := range col {
			col[z] = classify(z, surface)
		}
	})
}

func classify(z, surface int) chunk.BlockType {
	if z > surface {
		return chunk.Air
	}
	return chunk.Stone
}
