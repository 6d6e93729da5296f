package chunk

import (
	"errors"
	"fmt"
	"iter"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

// ErrIncomplete is returned when a chunk would not cover its whole volume.
var ErrIncomplete = errors.New("incomplete chunk")

// Chunk holds one block for every position of a 16×16×256 column.
// Index = x + 16*y + 256*z, value = block type.
type Chunk struct {
	offset coord.ChunkOffset
	types  []BlockType
}

// New takes ownership of types, which must hold exactly coord.ChunkVolume
// valid entries laid out by coord.ChunkPos.Index.
func New(offset coord.ChunkOffset, types []BlockType) (*Chunk, error) {
	if len(types) != coord.ChunkVolume {
		return nil, fmt.Errorf("%w: %d of %d blocks", ErrIncomplete, len(types), coord.ChunkVolume)
	}
	for i, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: invalid block type %d at index %d", ErrIncomplete, t, i)
		}
	}
	return &Chunk{offset: offset, types: types}, nil
}

// Filled returns a chunk where every block has type t.
func Filled(offset coord.ChunkOffset, t BlockType) *Chunk {
	types := make([]BlockType, coord.ChunkVolume)
	if t != Air {
		for i := range types {
			types[i] = t
		}
	}
	return &Chunk{offset: offset, types: types}
}

// Offset returns the chunk's place on the grid.
func (c *Chunk) Offset() coord.ChunkOffset { return c.offset }

// Len is always coord.ChunkVolume.
func (c *Chunk) Len() int { return len(c.types) }

func (c *Chunk) Type(p coord.ChunkPos) BlockType {
	return c.types[p.Index()]
}

// Block returns the block at p with its position filled in.
func (c *Chunk) Block(p coord.ChunkPos) Block {
	return Block{Type: c.types[p.Index()], Pos: p, Offset: c.offset}
}

// SetType changes the type of the block at p. Only transformation passes
// should call it, before the chunk is published.
func (c *Chunk) SetType(p coord.ChunkPos, t BlockType) {
	c.types[p.Index()] = t
}

// All yields every block in index order.
func (c *Chunk) All() iter.Seq2[coord.ChunkPos, Block] {
	return func(yield func(coord.ChunkPos, Block) bool) {
		for i, t := range c.types {
			p, _ := coord.ChunkPosAt(i)
			if !yield(p, Block{Type: t, Pos: p, Offset: c.offset}) {
				return
			}
		}
	}
}

// Column returns the types of column (x, y) from z=0 upwards.
func (c *Chunk) Column(x, y int) ([]BlockType, error) {
	if _, err := coord.NewChunkPos(x, y, 0); err != nil {
		return nil, err
	}
	col := make([]BlockType, coord.ChunkHeight)
	for z := range col {
		col[z] = c.types[x+y*coord.ChunkSize+z*coord.ChunkSize*coord.ChunkSize]
	}
	return col, nil
}

// Counts returns how many blocks of each type the chunk holds.
func (c *Chunk) Counts() map[BlockType]int {
	out := make(map[BlockType]int)
	for _, t := range c.types {
		out[t]++
	}
	return out
}

// TopDown returns a 16-line glyph map of the highest non-air block per column.
func (c *Chunk) TopDown() []string {
	lines := make([]string, coord.ChunkSize)
	for y := 0; y < coord.ChunkSize; y++ {
		row := make([]byte, coord.ChunkSize)
		for x := 0; x < coord.ChunkSize; x++ {
			row[x] = Air.Glyph()
			for z := coord.ChunkHeight - 1; z >= 0; z-- {
				if t := c.types[x+y*coord.ChunkSize+z*coord.ChunkSize*coord.ChunkSize]; t != Air {
					row[x] = t.Glyph()
					break
				}
			}
		}
		lines[y] = string(row)
	}
	return lines
}
