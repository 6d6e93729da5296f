package gen

import (
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

// FlatGenerator generates a flat world: stone up to height-1 and a single
// dirt layer at height. It ignores noise entirely.
type FlatGenerator struct {
	height  int
	workers int
}

// NewFlatGenerator creates a FlatGenerator whose top solid block sits at height.
func NewFlatGenerator(height, workers int) (*FlatGenerator, error) {
	if _, err := coord.NewWorldPos(0, 0, height); err != nil {
		return nil, err
	}
	return &FlatGenerator{height: height, workers: workers}, nil
}

// Generate fills stone below the height, dirt at it and air above.
func (g *FlatGenerator) Generate(off coord.ChunkOffset) (*chunk.Chunk, error) {
	return fillRows(off, g.workers, func(_, _ int, col *[coord.ChunkHeight]chunk.BlockType) {
		for z := range col {
			switch {
			case z < g.height:
				col[z] = chunk.Stone
			case z == g.height:
				col[z] = chunk.Dirt
			default:
				col[z] = chunk.Air
			}
		}
	})
}

func (g *FlatGenerator) HeightAt(_, _ int) int {
	return g.height
}
