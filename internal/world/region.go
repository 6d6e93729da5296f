package world

import (
	"fmt"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

// Bounds selects how a Region radius maps to chunk offsets around a center.
type Bounds uint8

const (
	// BoundsExclusive spans [1-r, r-1]: radius 1 is the center chunk alone.
	BoundsExclusive Bounds = iota
	// BoundsInclusive spans [-r, r].
	BoundsInclusive
)

func (b Bounds) String() string {
	switch b {
	case BoundsExclusive:
		return "exclusive"
	case BoundsInclusive:
		return "inclusive"
	default:
		return fmt.Sprintf("Bounds(%d)", uint8(b))
	}
}

// ParseBounds accepts "exclusive" (or "") and "inclusive".
func ParseBounds(s string) (Bounds, error) {
	switch s {
	case "", "exclusive":
		return BoundsExclusive, nil
	case "inclusive":
		return BoundsInclusive, nil
	default:
		return 0, fmt.Errorf("unknown bounds %q", s)
	}
}

// Region is a chunk-count radius on the two horizontal axes.
type Region struct {
	X, Y int
}

// NewRegion returns a Region with radius x and y. Negative radii are rejected.
func NewRegion(x, y int) (Region, error) {
	if x < 0 || y < 0 {
		return Region{}, fmt.Errorf("region radius (%d,%d) must not be negative", x, y)
	}
	return Region{X: x, Y: y}, nil
}

// span returns the largest |dx| and |dy| Offsets visits.
func (r Region) span(b Bounds) (hx, hy int) {
	if b == BoundsInclusive {
		return r.X, r.Y
	}
	return r.X - 1, r.Y - 1
}

// Count returns how many chunks Offsets yields.
func (r Region) Count(b Bounds) int {
	hx, hy := r.span(b)
	if hx < 0 || hy < 0 {
		return 0
	}
	return (2*hx + 1) * (2*hy + 1)
}

// Offsets enumerates the chunk offsets of the region around center, x-major.
// An offset leaving the valid chunk grid is an error.
func (r Region) Offsets(center coord.ChunkOffset, b Bounds) ([]coord.ChunkOffset, error) {
	if b > BoundsInclusive {
		return nil, fmt.Errorf("invalid bounds %v", b)
	}
	hx, hy := r.span(b)
	out := make([]coord.ChunkOffset, 0, r.Count(b))
	for dx := -hx; dx <= hx; dx++ {
		for dy := -hy; dy <= hy; dy++ {
			d, err := coord.NewChunkOffset(dx, dy)
			if err != nil {
				return nil, err
			}
			off, err := center.Add(d)
			if err != nil {
				return nil, fmt.Errorf("region around %v: %w", center, err)
			}
			out = append(out, off)
		}
	}
	return out, nil
}
