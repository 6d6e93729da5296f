package world

import (
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

// World is an immutable snapshot of generated, transformed chunks.
type World struct {
	Center coord.ChunkOffset
	Chunks []*chunk.Chunk

	index map[coord.ChunkOffset]*chunk.Chunk
}

func newWorld(center coord.ChunkOffset, chunks []*chunk.Chunk) *World {
	w := &World{
		Center: center,
		Chunks: chunks,
		index:  make(map[coord.ChunkOffset]*chunk.Chunk, len(chunks)),
	}
	for _, c := range chunks {
		w.index[c.Offset()] = c
	}
	return w
}

// Len returns the number of chunks.
func (w *World) Len() int { return len(w.Chunks) }

// Chunk returns the chunk at off, if the snapshot holds it.
func (w *World) Chunk(off coord.ChunkOffset) (*chunk.Chunk, bool) {
	c, ok := w.index[off]
	return c, ok
}

// Block returns the block at an absolute position, if its chunk is loaded.
func (w *World) Block(p coord.WorldPos) (chunk.Block, bool) {
	off, err := p.ChunkOffset()
	if err != nil {
		return chunk.Block{}, false
	}
	c, ok := w.index[off]
	if !ok {
		return chunk.Block{}, false
	}
	return c.Block(p.ChunkPos()), true
}

// VisibleBlocks concatenates chunk.VisibleBlocks over every chunk.
func (w *World) VisibleBlocks(v chunk.Visibility) []chunk.Block {
	var out []chunk.Block
	for _, c := range w.Chunks {
		out = append(out, c.VisibleBlocks(v)...)
	}
	return out
}
