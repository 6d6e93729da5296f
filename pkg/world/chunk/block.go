package chunk

import "github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"

// BlockType is the closed set of block kinds.
type BlockType uint8

const (
	Air BlockType = iota
	Water
	Grass
	Dirt
	Stone
	Wood

	numBlockTypes
)

var blockNames = [numBlockTypes]string{
	Air:   "air",
	Water: "water",
	Grass: "grass",
	Dirt:  "dirt",
	Stone: "stone",
	Wood:  "wood",
}

var blockGlyphs = [numBlockTypes]byte{
	Air:   ' ',
	Water: '.',
	Grass: 'G',
	Dirt:  'D',
	Stone: 'S',
	Wood:  'W',
}

// BlockTypes lists every variant in declaration order.
func BlockTypes() []BlockType {
	out := make([]BlockType, 0, numBlockTypes)
	for t := Air; t < numBlockTypes; t++ {
		out = append(out, t)
	}
	return out
}

func (t BlockType) Valid() bool { return t < numBlockTypes }

func (t BlockType) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return blockNames[t]
}

// Glyph is the single-character symbol used by top-down map dumps.
func (t BlockType) Glyph() byte {
	if !t.Valid() {
		return '?'
	}
	return blockGlyphs[t]
}

// Transparent reports whether light and sight pass through the block.
func (t BlockType) Transparent() bool {
	return t == Air || t == Water
}

// Opaque is the complement of Transparent.
func (t BlockType) Opaque() bool {
	return !t.Transparent()
}

// Block is a typed cell at a position inside the chunk at Offset.
type Block struct {
	Type   BlockType
	Pos    coord.ChunkPos
	Offset coord.ChunkOffset
}

// WorldPos derives the absolute position of the block.
func (b Block) WorldPos() (coord.WorldPos, error) {
	return b.Pos.WorldPos(b.Offset)
}
