package coord

import (
	"errors"
	"fmt"
	"math"
)

const (
	ChunkSize   = 16
	ChunkHeight = 256
	ChunkVolume = ChunkSize * ChunkSize * ChunkHeight // 65536

	chunkSizeMask = ChunkSize - 1
	chunkShift    = 4 // log2(ChunkSize)

	// MaxChunkOffset bounds ChunkOffset x/y to (-2^28, 2^28).
	MaxChunkOffset = 1 << 28
)

// ErrOutOfRange is matched by every RangeError.
var ErrOutOfRange = errors.New("coordinate out of range")

// RangeError reports a coordinate component outside its valid interval [Min, Max).
type RangeError struct {
	Kind  string // "world", "chunk" or "offset"
	Axis  string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s position %s=%d out of range [%d, %d)", e.Kind, e.Axis, e.Value, e.Min, e.Max)
}

// Is makes errors.Is(err, ErrOutOfRange) hold for every RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

func checkAxis(kind, axis string, v, lo, hi int) error {
	if v < lo || v >= hi {
		return &RangeError{Kind: kind, Axis: axis, Value: v, Min: lo, Max: hi}
	}
	return nil
}

// addInt, subInt and mulInt report false when the result does not fit in an int.
func addInt(a, b int) (int, bool) {
	s := a + b
	return s, b == 0 || (s > a) == (b > 0)
}

func subInt(a, b int) (int, bool) {
	d := a - b
	return d, b == 0 || (d < a) == (b > 0)
}

func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == math.MinInt && b == -1) {
		return p, false
	}
	return p, true
}

func overflowError(kind, axis string, v int) error {
	return &RangeError{Kind: kind, Axis: axis, Value: v, Min: math.MinInt, Max: math.MaxInt}
}

// WorldPos is an absolute block coordinate. x and y are horizontal, z is height.
type WorldPos struct {
	x, y, z int
}

// NewWorldPos validates 0 <= z < ChunkHeight.
func NewWorldPos(x, y, z int) (WorldPos, error) {
	if err := checkAxis("world", "z", z, 0, ChunkHeight); err != nil {
		return WorldPos{}, err
	}
	return WorldPos{x: x, y: y, z: z}, nil
}

// X, Y and Z return the components of p.
func (p WorldPos) X() int { return p.x }
func (p WorldPos) Y() int { return p.y }
func (p WorldPos) Z() int { return p.z }

func (p WorldPos) String() string {
	return fmt.Sprintf("world(%d,%d,%d)", p.x, p.y, p.z)
}

// Add returns p+o. It fails when z leaves [0, ChunkHeight) or x, y overflow.
func (p WorldPos) Add(o WorldPos) (WorldPos, error) {
	x, ok := addInt(p.x, o.x)
	if !ok {
		return WorldPos{}, overflowError("world", "x", p.x)
	}
	y, ok := addInt(p.y, o.y)
	if !ok {
		return WorldPos{}, overflowError("world", "y", p.y)
	}
	return NewWorldPos(x, y, p.z+o.z)
}

// Sub returns p-o with the same checks as Add.
func (p WorldPos) Sub(o WorldPos) (WorldPos, error) {
	x, ok := subInt(p.x, o.x)
	if !ok {
		return WorldPos{}, overflowError("world", "x", p.x)
	}
	y, ok := subInt(p.y, o.y)
	if !ok {
		return WorldPos{}, overflowError("world", "y", p.y)
	}
	return NewWorldPos(x, y, p.z-o.z)
}

// Translate moves the position by whole chunks.
func (p WorldPos) Translate(o ChunkOffset) (WorldPos, error) {
	x, ok := addInt(p.x, o.x*ChunkSize)
	if !ok {
		return WorldPos{}, overflowError("world", "x", p.x)
	}
	y, ok := addInt(p.y, o.y*ChunkSize)
	if !ok {
		return WorldPos{}, overflowError("world", "y", p.y)
	}
	return NewWorldPos(x, y, p.z)
}

// ChunkPos returns the position relative to the containing chunk.
func (p WorldPos) ChunkPos() ChunkPos {
	return ChunkPos{x: p.x & chunkSizeMask, y: p.y & chunkSizeMask, z: p.z}
}

// ChunkOffset returns the offset of the chunk containing p.
func (p WorldPos) ChunkOffset() (ChunkOffset, error) {
	return NewChunkOffset(p.x>>chunkShift, p.y>>chunkShift)
}

// ChunkPos is a position inside a chunk.
type ChunkPos struct {
	x, y, z int
}

// NewChunkPos validates 0 <= x, y < ChunkSize and 0 <= z < ChunkHeight.
func NewChunkPos(x, y, z int) (ChunkPos, error) {
	if err := checkAxis("chunk", "x", x, 0, ChunkSize); err != nil {
		return ChunkPos{}, err
	}
	if err := checkAxis("chunk", "y", y, 0, ChunkSize); err != nil {
		return ChunkPos{}, err
	}
	if err := checkAxis("chunk", "z", z, 0, ChunkHeight); err != nil {
		return ChunkPos{}, err
	}
	return ChunkPos{x: x, y: y, z: z}, nil
}

// X, Y and Z return the components of p.
func (p ChunkPos) X() int { return p.x }
func (p ChunkPos) Y() int { return p.y }
func (p ChunkPos) Z() int { return p.z }

func (p ChunkPos) String() string {
	return fmt.Sprintf("chunk(%d,%d,%d)", p.x, p.y, p.z)
}

// Add returns p+o and fails when the result leaves the chunk.
func (p ChunkPos) Add(o ChunkPos) (ChunkPos, error) {
	return NewChunkPos(p.x+o.x, p.y+o.y, p.z+o.z)
}

// Sub returns p-o.
func (p ChunkPos) Sub(o ChunkPos) (ChunkPos, error) {
	return NewChunkPos(p.x-o.x, p.y-o.y, p.z-o.z)
}

// WorldPos places p inside the chunk at offset o.
func (p ChunkPos) WorldPos(o ChunkOffset) (WorldPos, error) {
	return NewWorldPos(o.x*ChunkSize+p.x, o.y*ChunkSize+p.y, p.z)
}

// Index returns the dense storage index x + 16*y + 256*z.
func (p ChunkPos) Index() int {
	return p.x + p.y*ChunkSize + p.z*ChunkSize*ChunkSize
}

// ChunkPosAt is the inverse of ChunkPos.Index.
func ChunkPosAt(i int) (ChunkPos, error) {
	if err := checkAxis("chunk", "index", i, 0, ChunkVolume); err != nil {
		return ChunkPos{}, err
	}
	return ChunkPos{
		x: i & chunkSizeMask,
		y: (i >> chunkShift) & chunkSizeMask,
		z: i >> (2 * chunkShift),
	}, nil
}

// ChunkOffset locates a chunk on the horizontal grid. z is always 0.
type ChunkOffset struct {
	x, y, z int
}

// NewChunkOffset validates |x|, |y| < MaxChunkOffset.
func NewChunkOffset(x, y int) (ChunkOffset, error) {
	if err := checkAxis("offset", "x", x, 1-MaxChunkOffset, MaxChunkOffset); err != nil {
		return ChunkOffset{}, err
	}
	if err := checkAxis("offset", "y", y, 1-MaxChunkOffset, MaxChunkOffset); err != nil {
		return ChunkOffset{}, err
	}
	return ChunkOffset{x: x, y: y}, nil
}

// X, Y and Z return the components of o.
func (o ChunkOffset) X() int { return o.x }
func (o ChunkOffset) Y() int { return o.y }
func (o ChunkOffset) Z() int { return o.z }

func (o ChunkOffset) String() string {
	return fmt.Sprintf("offset(%d,%d)", o.x, o.y)
}

// Add returns o+d revalidated against MaxChunkOffset.
func (o ChunkOffset) Add(d ChunkOffset) (ChunkOffset, error) {
	return NewChunkOffset(o.x+d.x, o.y+d.y)
}

// Sub returns o-d.
func (o ChunkOffset) Sub(d ChunkOffset) (ChunkOffset, error) {
	return NewChunkOffset(o.x-d.x, o.y-d.y)
}

// Scale multiplies both components by k. Products that overflow int fail
// instead of wrapping back into range.
func (o ChunkOffset) Scale(k int) (ChunkOffset, error) {
	x, ok := mulInt(o.x, k)
	if !ok {
		return ChunkOffset{}, overflowError("offset", "x", o.x)
	}
	y, ok := mulInt(o.y, k)
	if !ok {
		return ChunkOffset{}, overflowError("offset", "y", o.y)
	}
	return NewChunkOffset(x, y)
}

// OffsetAt returns the offset of the chunk containing the horizontal point (x, y),
// i.e. floor(v / ChunkSize) on both axes.
func OffsetAt(x, y float64) (ChunkOffset, error) {
	fx := math.Floor(x / ChunkSize)
	fy := math.Floor(y / ChunkSize)
	if math.IsNaN(fx) || math.IsNaN(fy) || math.Abs(fx) >= MaxChunkOffset || math.Abs(fy) >= MaxChunkOffset {
		return ChunkOffset{}, &RangeError{
			Kind:  "offset",
			Axis:  "xy",
			Value: clampToInt(math.Max(math.Abs(fx), math.Abs(fy))),
			Min:   1 - MaxChunkOffset,
			Max:   MaxChunkOffset,
		}
	}
	return NewChunkOffset(int(fx), int(fy))
}

func clampToInt(v float64) int {
	if math.IsNaN(v) || v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
