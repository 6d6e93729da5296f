package trns

import (
	"fmt"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

// SeaLevelMode selects which heights the sea level pass floods.
type SeaLevelMode uint8

const (
	// ModeInclusive floods air at every z <= Level.
	ModeInclusive SeaLevelMode = iota
	// ModeExact floods air only at z == Level.
	ModeExact
)

func (m SeaLevelMode) String() string {
	switch m {
	case ModeInclusive:
		return "inclusive"
	case ModeExact:
		return "exact"
	default:
		return fmt.Sprintf("SeaLevelMode(%d)", uint8(m))
	}
}

// ParseSeaLevelMode accepts "inclusive" (or "") and "exact".
func ParseSeaLevelMode(s string) (SeaLevelMode, error) {
	switch s {
	case "", "inclusive":
		return ModeInclusive, nil
	case "exact":
		return ModeExact, nil
	default:
		return 0, fmt.Errorf("unknown sea level mode %q", s)
	}
}

// SeaLevel turns air into water at or below Level.
type SeaLevel struct {
	Level int
	Mode  SeaLevelMode
}

// NewSeaLevel validates that level is a possible block height.
func NewSeaLevel(level int, mode SeaLevelMode) (SeaLevel, error) {
	if _, err := coord.NewWorldPos(0, 0, level); err != nil {
		return SeaLevel{}, fmt.Errorf("sea level: %w", err)
	}
	if mode > ModeExact {
		return SeaLevel{}, fmt.Errorf("sea level: invalid mode %v", mode)
	}
	return SeaLevel{Level: level, Mode: mode}, nil
}

func (SeaLevel) Name() string { return "sea level" }

func (SeaLevel) transformation() {}

func (s SeaLevel) apply(c *chunk.Chunk) {
	lo, hi := 0, s.Level
	if s.Mode == ModeExact {
		lo = s.Level
	}
	if hi >= coord.ChunkHeight {
		hi = coord.ChunkHeight - 1
	}
	for z := max(lo, 0); z <= hi; z++ {
		for y := 0; y < coord.ChunkSize; y++ {
			for x := 0; x < coord.ChunkSize; x++ {
				p, _ := coord.NewChunkPos(x, y, z)
				if c.Type(p) == chunk.Air {
					c.SetType(p, chunk.Water)
				}
			}
		}
	}
}
