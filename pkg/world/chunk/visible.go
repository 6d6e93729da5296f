package chunk

import "github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"

// Visibility controls which blocks VisibleBlocks reports.
type Visibility struct {
	// Culling drops blocks whose six neighbours are all opaque.
	Culling bool
	// CullBorder treats neighbours outside the chunk as opaque, so the
	// horizontal chunk edge no longer counts as exposed.
	CullBorder bool
}

// DefaultVisibility culls hidden blocks and keeps the chunk border exposed.
func DefaultVisibility() Visibility {
	return Visibility{Culling: true}
}

var neighbours = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// VisibleBlocks returns the non-air blocks a mesh builder has to consider:
// blocks with at least one transparent neighbour or lying on the chunk
// boundary.
func (c *Chunk) VisibleBlocks(v Visibility) []Block {
	var out []Block
	for i, t := range c.types {
		if t == Air {
			continue
		}
		p, _ := coord.ChunkPosAt(i)
		if v.Culling && !c.exposed(p, v.CullBorder) {
			continue
		}
		out = append(out, Block{Type: t, Pos: p, Offset: c.offset})
	}
	return out
}

func (c *Chunk) exposed(p coord.ChunkPos, cullBorder bool) bool {
	for _, d := range neighbours {
		x, y, z := p.X()+d[0], p.Y()+d[1], p.Z()+d[2]
		if z < 0 || z >= coord.ChunkHeight {
			return true
		}
		if x < 0 || x >= coord.ChunkSize || y < 0 || y >= coord.ChunkSize {
			if !cullBorder {
				return true
			}
			continue
		}
		if c.types[x+y*coord.ChunkSize+z*coord.ChunkSize*coord.ChunkSize].Transparent() {
			return true
		}
	}
	return false
}
